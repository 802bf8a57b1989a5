// Package pixel provides the raster storage and affine geometry used by
// imgedit layers.
//
// A [Buffer] is a dense grid of straight-alpha float32 RGBA values. Reads
// through [Buffer.Get] and writes through [Buffer.Set] are bounds-checked
// and fail with [ErrOutOfBounds]. Buffers implement image.Image, so they
// can be handed directly to the standard library and golang.org/x/image.
package pixel

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"math"

	"github.com/gogpu/imgedit/color"
)

// Common errors for pixel operations.
var (
	// ErrOutOfBounds is returned when coordinates fall outside the buffer.
	ErrOutOfBounds = errors.New("pixel: coordinates out of bounds")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")

	// ErrInvalidParameters is returned when an operation parameter is
	// outside its defined domain.
	ErrInvalidParameters = errors.New("pixel: invalid parameters")
)

// Buffer is a width×height grid of straight-alpha RGBA pixels.
//
// Pixels are stored row-major, four float32 per pixel. A Buffer is not safe
// for concurrent mutation; concurrent reads are safe.
type Buffer struct {
	width  int
	height int
	pix    []float32
}

// New creates a buffer filled with fill.
func New(width, height int, fill color.RGBA) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := &Buffer{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}
	if fill != color.Transparent {
		b.Fill(fill)
	}
	return b, nil
}

// MustNew is like New but panics on invalid dimensions.
func MustNew(width, height int, fill color.RGBA) *Buffer {
	b, err := New(width, height, fill)
	if err != nil {
		panic(err)
	}
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bounds returns the buffer rectangle, anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() stdcolor.Model {
	return stdcolor.NRGBA64Model
}

// At implements image.Image. Outside the buffer it returns transparent.
func (b *Buffer) At(x, y int) stdcolor.Color {
	return b.RGBAAt(x, y)
}

// RGBA64At implements image.RGBA64Image. The result is premultiplied and
// clamped to [0,1].
func (b *Buffer) RGBA64At(x, y int) stdcolor.RGBA64 {
	r, g, bl, a := b.RGBAAt(x, y).RGBA()
	return stdcolor.RGBA64{R: uint16(r), G: uint16(g), B: uint16(bl), A: uint16(a)}
}

// Pix exposes the underlying storage: row-major, four float32 per pixel,
// stride 4*Width. Writers must own the buffer exclusively.
func (b *Buffer) Pix() []float32 { return b.pix }

// Row returns the storage of row y.
func (b *Buffer) Row(y int) []float32 {
	s := b.width * 4
	return b.pix[y*s : (y+1)*s]
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// RGBAAt returns the pixel at (x, y), or transparent outside the buffer.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if !b.inBounds(x, y) {
		return color.Transparent
	}
	i := (y*b.width + x) * 4
	p := b.pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Get returns the pixel at (x, y).
func (b *Buffer) Get(x, y int) (color.RGBA, error) {
	if !b.inBounds(x, y) {
		return color.RGBA{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return b.RGBAAt(x, y), nil
}

// Set writes the pixel at (x, y).
func (b *Buffer) Set(x, y int, c color.RGBA) error {
	if !b.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	i := (y*b.width + x) * 4
	b.pix[i+0] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
	return nil
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.RGBA) {
	if len(b.pix) == 0 {
		return
	}
	b.pix[0], b.pix[1], b.pix[2], b.pix[3] = c.R, c.G, c.B, c.A
	// Doubling copy.
	for n := 4; n < len(b.pix); n *= 2 {
		copy(b.pix[n:], b.pix[:n])
	}
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]float32, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// NewLike returns a transparent buffer with the same dimensions.
func (b *Buffer) NewLike() *Buffer {
	return &Buffer{width: b.width, height: b.height, pix: make([]float32, len(b.pix))}
}

// Equal reports whether both buffers have the same dimensions and
// bit-identical pixels.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == o {
		return true
	}
	if b == nil || o == nil || b.width != o.width || b.height != o.height {
		return false
	}
	for i, v := range b.pix {
		if math.Float32bits(v) != math.Float32bits(o.pix[i]) {
			return false
		}
	}
	return true
}

// Reframe returns a width×height buffer holding b's pixels shifted by
// offset: source pixel (x, y) lands at (x+offset.X, y+offset.Y). Pixels not
// covered by b are set to fill; pixels shifted outside are dropped. Used
// for canvas resizing, where offset comes from an [Anchor].
func (b *Buffer) Reframe(width, height int, offset image.Point, fill color.RGBA) (*Buffer, error) {
	dst, err := New(width, height, fill)
	if err != nil {
		return nil, err
	}
	r := b.Bounds().Add(offset).Intersect(dst.Bounds())
	if r.Empty() {
		return dst, nil
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := ((y-offset.Y)*b.width + (r.Min.X - offset.X)) * 4
		di := (y*width + r.Min.X) * 4
		copy(dst.pix[di:di+n], b.pix[si:si+n])
	}
	return dst, nil
}
