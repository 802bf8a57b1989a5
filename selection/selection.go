// Package selection implements region-of-interest masks.
//
// A Selection assigns every canvas pixel a coverage in [0,1]. Edits
// restricted by a selection blend edited and original values by coverage:
//
//	out = original*(1-c) + edited*c
//
// Selections are immutable; every operation returns a new value, so a
// selection can be shared between a document, its commands and its
// adjustment stack without copying.
package selection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/imgedit/internal/filter"
	"github.com/gogpu/imgedit/pixel"
)

// ErrDimensionMismatch is returned when combining selections of
// different sizes, or applying a selection to a buffer of another size.
var ErrDimensionMismatch = errors.New("selection: dimension mismatch")

// Selection is a coverage mask over a width×height canvas. The zero
// value is not usable; construct selections with All, None, FromMask and
// friends.
type Selection struct {
	width, height int
	all           bool      // every pixel fully selected; cov is nil
	cov           []float32 // row-major coverage, nil when all is set
}

// All returns the default "select all" selection.
func All(width, height int) *Selection {
	return &Selection{width: width, height: height, all: true}
}

// None returns a selection with zero coverage everywhere.
func None(width, height int) *Selection {
	return &Selection{width: width, height: height, cov: make([]float32, width*height)}
}

// FromMask builds a selection from row-major coverage values. Values are
// clamped to [0,1]. mask is copied.
func FromMask(width, height int, mask []float32) (*Selection, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimensions, width, height)
	}
	if len(mask) != width*height {
		return nil, fmt.Errorf("%w: mask has %d values for %dx%d",
			ErrDimensionMismatch, len(mask), width, height)
	}
	cov := make([]float32, len(mask))
	for i, v := range mask {
		cov[i] = clamp01(v)
	}
	return (&Selection{width: width, height: height, cov: cov}).normalize(), nil
}

// FromGray builds a selection from an 8- or 16-bit grayscale image, white
// meaning selected. The image must be width×height.
func FromGray(img image.Image) (*Selection, error) {
	r := img.Bounds()
	cov := make([]float32, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v, _, _, _ := img.At(x, y).RGBA()
			cov[(y-r.Min.Y)*r.Dx()+(x-r.Min.X)] = float32(v) / 0xffff
		}
	}
	return FromMask(r.Dx(), r.Dy(), cov)
}

// Rect selects the pixels of r fully and everything else not at all.
func Rect(width, height int, r image.Rectangle) *Selection {
	s := None(width, height)
	r = r.Intersect(image.Rect(0, 0, width, height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.cov[y*width : (y+1)*width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 1
		}
	}
	return s.normalize()
}

// Ellipse selects the ellipse inscribed in r with anti-aliased edges:
// each pixel's coverage is estimated from 4×4 subsamples.
func Ellipse(width, height int, r image.Rectangle) *Selection {
	s := None(width, height)
	if r.Empty() {
		return s
	}
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	rx := float64(r.Dx()) / 2
	ry := float64(r.Dy()) / 2

	const n = 4
	clip := r.Intersect(image.Rect(0, 0, width, height))
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			inside := 0
			for sy := range n {
				dy := (float64(y) + (float64(sy)+0.5)/n - cy) / ry
				for sx := range n {
					dx := (float64(x) + (float64(sx)+0.5)/n - cx) / rx
					if dx*dx+dy*dy <= 1 {
						inside++
					}
				}
			}
			s.cov[y*width+x] = float32(inside) / (n * n)
		}
	}
	return s.normalize()
}

// normalize collapses a fully selected mask into the compact form.
func (s *Selection) normalize() *Selection {
	if s.all {
		return s
	}
	for _, v := range s.cov {
		if v != 1 {
			return s
		}
	}
	return All(s.width, s.height)
}

// Width returns the canvas width.
func (s *Selection) Width() int { return s.width }

// Height returns the canvas height.
func (s *Selection) Height() int { return s.height }

// IsAll reports whether every pixel has coverage 1.
func (s *Selection) IsAll() bool { return s.all }

// IsEmpty reports whether every pixel has coverage 0.
func (s *Selection) IsEmpty() bool {
	if s.all {
		return s.width == 0 || s.height == 0
	}
	for _, v := range s.cov {
		if v != 0 {
			return false
		}
	}
	return true
}

// At returns the coverage at (x, y), or 0 outside the canvas.
func (s *Selection) At(x, y int) float32 {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0
	}
	if s.all {
		return 1
	}
	return s.cov[y*s.width+x]
}

// Coverage returns the coverage at (x, y). Coordinates outside the canvas
// fail with pixel.ErrOutOfBounds.
func (s *Selection) Coverage(x, y int) (float32, error) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d selection",
			pixel.ErrOutOfBounds, x, y, s.width, s.height)
	}
	return s.At(x, y), nil
}

// Row returns the coverage of row y, or nil when the selection is All.
// The slice must not be modified.
func (s *Selection) Row(y int) []float32 {
	if s.all {
		return nil
	}
	return s.cov[y*s.width : (y+1)*s.width]
}

// Mask returns a copy of the coverage values.
func (s *Selection) Mask() []float32 {
	out := make([]float32, s.width*s.height)
	if s.all {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	copy(out, s.cov)
	return out
}

// Bounds returns the smallest rectangle containing every pixel with
// non-zero coverage.
func (s *Selection) Bounds() image.Rectangle {
	if s.all {
		return image.Rect(0, 0, s.width, s.height)
	}
	minX, minY, maxX, maxY := s.width, s.height, -1, -1
	for y := range s.height {
		for x, v := range s.Row(y) {
			if v == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Equal reports whether both selections have the same size and coverage.
func (s *Selection) Equal(o *Selection) bool {
	if s.width != o.width || s.height != o.height {
		return false
	}
	if s.all && o.all {
		return true
	}
	for y := range s.height {
		for x := range s.width {
			if s.At(x, y) != o.At(x, y) {
				return false
			}
		}
	}
	return true
}

// Fits reports whether the selection covers a w×h canvas exactly.
func (s *Selection) Fits(w, h int) bool {
	return s.width == w && s.height == h
}

func (s *Selection) combine(o *Selection, op string, fn func(a, b float32) float32) (*Selection, error) {
	if !s.Fits(o.width, o.height) {
		return nil, fmt.Errorf("%w: %s of %dx%d and %dx%d",
			ErrDimensionMismatch, op, s.width, s.height, o.width, o.height)
	}
	out := None(s.width, s.height)
	for y := range s.height {
		row := out.cov[y*s.width : (y+1)*s.width]
		for x := range row {
			row[x] = fn(s.At(x, y), o.At(x, y))
		}
	}
	return out.normalize(), nil
}

// Union returns the pointwise maximum of both selections.
func (s *Selection) Union(o *Selection) (*Selection, error) {
	if s.all && s.Fits(o.width, o.height) {
		return s, nil
	}
	return s.combine(o, "union", func(a, b float32) float32 { return max(a, b) })
}

// Intersect returns the pointwise minimum of both selections.
func (s *Selection) Intersect(o *Selection) (*Selection, error) {
	return s.combine(o, "intersect", func(a, b float32) float32 { return min(a, b) })
}

// Subtract removes o from s: min(s, 1-o) at every pixel.
func (s *Selection) Subtract(o *Selection) (*Selection, error) {
	return s.combine(o, "subtract", func(a, b float32) float32 { return min(a, 1-b) })
}

// Invert returns 1-coverage at every pixel.
func (s *Selection) Invert() *Selection {
	if s.all {
		return None(s.width, s.height)
	}
	out := None(s.width, s.height)
	for i, v := range s.cov {
		out.cov[i] = 1 - v
	}
	return out.normalize()
}

// Feather softens the selection edge with a Gaussian of the given sigma.
// The canvas border is treated as extending the edge pixels.
func (s *Selection) Feather(ctx context.Context, sigma float64) (*Selection, error) {
	if sigma < 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: feather sigma %v", pixel.ErrInvalidParameters, sigma)
	}
	if sigma == 0 || s.all {
		return s, nil
	}
	out := None(s.width, s.height)
	src := filter.Plane{Pix: s.cov, Width: s.width, Height: s.height, Channels: 1}
	dst := filter.Plane{Pix: out.cov, Width: s.width, Height: s.height, Channels: 1}
	if err := filter.Gaussian(ctx, dst, src, sigma); err != nil {
		return nil, err
	}
	for i, v := range out.cov {
		out.cov[i] = clamp01(v)
	}
	return out, nil
}

// Translate shifts the selection by (dx, dy). Pixels moved in from
// outside the canvas have zero coverage.
func (s *Selection) Translate(dx, dy int) *Selection {
	if dx == 0 && dy == 0 {
		return s
	}
	out := None(s.width, s.height)
	for y := range s.height {
		sy := y - dy
		if sy < 0 || sy >= s.height {
			continue
		}
		for x := range s.width {
			out.cov[y*s.width+x] = s.At(x-dx, sy)
		}
	}
	return out.normalize()
}

// Reframe places the selection on a width×height canvas with its origin at
// offset, following a canvas resize. New area is unselected unless the
// selection was All, in which case the result is All as well.
func (s *Selection) Reframe(width, height int, offset image.Point) *Selection {
	if s.all {
		return All(width, height)
	}
	out := None(width, height)
	r := image.Rect(0, 0, s.width, s.height).Add(offset).Intersect(image.Rect(0, 0, width, height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out.cov[y*width+x] = s.cov[(y-offset.Y)*s.width+(x-offset.X)]
		}
	}
	return out.normalize()
}

func clamp01(v float32) float32 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
