package selection

import (
	"context"
	"fmt"
	"image"
	stdcolor "image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/imgedit/internal/parallel"
	"github.com/gogpu/imgedit/pixel"
)

// Mix restricts an edit to the selection. It overwrites edited with
//
//	original*(1-c) + edited*c
//
// per pixel and channel. Pixels with coverage 0 become exactly the
// original and pixels with coverage 1 keep exactly the edited value.
func (s *Selection) Mix(ctx context.Context, original, edited *pixel.Buffer) error {
	w, h := original.Width(), original.Height()
	if !s.Fits(w, h) || edited.Width() != w || edited.Height() != h {
		return fmt.Errorf("%w: selection %dx%d, buffers %dx%d and %dx%d",
			ErrDimensionMismatch, s.width, s.height, w, h, edited.Width(), edited.Height())
	}
	if s.all {
		return ctx.Err()
	}
	return parallel.Rows(ctx, w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			cov := s.Row(y)
			o := original.Row(y)
			e := edited.Row(y)
			for x, c := range cov {
				i := x * 4
				switch c {
				case 1:
				case 0:
					copy(e[i:i+4], o[i:i+4])
				default:
					u := 1 - c
					e[i] = o[i]*u + e[i]*c
					e[i+1] = o[i+1]*u + e[i+1]*c
					e[i+2] = o[i+2]*u + e[i+2]*c
					e[i+3] = o[i+3]*u + e[i+3]*c
				}
			}
		}
	})
}

// Attenuate multiplies the alpha of every pixel of b by its coverage, in
// place. Color channels are left alone.
func (s *Selection) Attenuate(ctx context.Context, b *pixel.Buffer) error {
	w, h := b.Width(), b.Height()
	if !s.Fits(w, h) {
		return fmt.Errorf("%w: selection %dx%d, buffer %dx%d",
			ErrDimensionMismatch, s.width, s.height, w, h)
	}
	if s.all {
		return ctx.Err()
	}
	return parallel.Rows(ctx, w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := b.Row(y)
			for x, c := range s.Row(y) {
				row[x*4+3] *= c
			}
		}
	})
}

// Resize scales the selection to width×height with bilinear filtering,
// for use alongside a resampled preview buffer.
func (s *Selection) Resize(width, height int) (*Selection, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize to %dx%d", pixel.ErrInvalidDimensions, width, height)
	}
	if s.all {
		return All(width, height), nil
	}
	if width == s.width && height == s.height {
		return s, nil
	}
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), s.Gray16(), image.Rect(0, 0, s.width, s.height), xdraw.Src, nil)

	out := None(width, height)
	for y := range height {
		for x := range width {
			out.cov[y*width+x] = float32(dst.Gray16At(x, y).Y) / 0xffff
		}
	}
	return out.normalize(), nil
}

// Gray16 renders the coverage as a 16-bit grayscale image.
func (s *Selection) Gray16() *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, s.width, s.height))
	for y := range s.height {
		for x := range s.width {
			img.SetGray16(x, y, stdcolor.Gray16{Y: uint16(s.At(x, y)*0xffff + 0.5)})
		}
	}
	return img
}
