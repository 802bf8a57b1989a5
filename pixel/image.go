package pixel

import (
	"fmt"
	"image"
	stdcolor "image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/imgedit/color"
)

// Interpolation selects the resampling kernel for Resample and Transform.
type Interpolation uint8

const (
	// Bilinear is the default kernel.
	Bilinear Interpolation = iota
	// Nearest picks the closest source pixel.
	Nearest
	// CatmullRom is a sharper cubic kernel, slower than Bilinear.
	CatmullRom
	// ApproxBilinear is a fast approximation suited for previews.
	ApproxBilinear
)

func (i Interpolation) kernel() xdraw.Interpolator {
	switch i {
	case Nearest:
		return xdraw.NearestNeighbor
	case CatmullRom:
		return xdraw.CatmullRom
	case ApproxBilinear:
		return xdraw.ApproxBiLinear
	default:
		return xdraw.BiLinear
	}
}

// FromImage copies any image into a new buffer anchored at the origin.
func FromImage(img image.Image) (*Buffer, error) {
	r := img.Bounds()
	b, err := New(r.Dx(), r.Dy(), color.Transparent)
	if err != nil {
		return nil, err
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Row(y - r.Min.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.FromStd(img.At(x, y))
			i := (x - r.Min.X) * 4
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return b, nil
}

// ToNRGBA64 converts the buffer to a 16-bit image, clamping to [0,1].
func (b *Buffer) ToNRGBA64() *image.NRGBA64 {
	img := image.NewNRGBA64(b.Bounds())
	for y := range b.height {
		for x := range b.width {
			img.SetNRGBA64(x, y, b.RGBAAt(x, y).NRGBA64())
		}
	}
	return img
}

// ToNRGBA converts the buffer to an 8-bit image, clamping to [0,1].
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	for y := range b.height {
		row := b.Row(y)
		out := img.Pix[y*img.Stride : y*img.Stride+b.width*4]
		for i, v := range row {
			out[i] = uint8(color.Clamp01(v)*255 + 0.5)
		}
	}
	return img
}

// fromRGBA64 converts a premultiplied 16-bit image back to straight alpha.
func fromRGBA64(img *image.RGBA64) *Buffer {
	r := img.Bounds()
	b := &Buffer{width: r.Dx(), height: r.Dy(), pix: make([]float32, r.Dx()*r.Dy()*4)}
	for y := range b.height {
		row := b.Row(y)
		for x := range b.width {
			c := img.RGBA64At(r.Min.X+x, r.Min.Y+y)
			if c.A == 0 {
				continue
			}
			a := float32(c.A)
			i := x * 4
			row[i] = float32(c.R) / a
			row[i+1] = float32(c.G) / a
			row[i+2] = float32(c.B) / a
			row[i+3] = a / 0xffff
		}
	}
	return b
}

// toRGBA64 converts the buffer to a premultiplied 16-bit image, the
// source type every x/image/draw kernel handles on its fast paths.
func (b *Buffer) toRGBA64() *image.RGBA64 {
	img := image.NewRGBA64(b.Bounds())
	for y := range b.height {
		for x := range b.width {
			img.SetRGBA64(x, y, b.RGBA64At(x, y))
		}
	}
	return img
}

// Resample scales the buffer to width×height. Interpolation happens on
// premultiplied 16-bit values, so the result is quantized.
func (b *Buffer) Resample(width, height int, interp Interpolation) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resample to %dx%d", ErrInvalidDimensions, width, height)
	}
	if width == b.width && height == b.height {
		return b.Clone(), nil
	}
	dst := image.NewRGBA64(image.Rect(0, 0, width, height))
	interp.kernel().Scale(dst, dst.Bounds(), b.toRGBA64(), b.Bounds(), xdraw.Src, nil)
	return fromRGBA64(dst), nil
}

// Transform renders the buffer through m onto a new transparent
// width×height buffer. m maps source coordinates to destination
// coordinates. The identity on an equally sized buffer is an exact copy;
// other transforms are resampled through 16-bit precision.
func (b *Buffer) Transform(m Matrix, width, height int, interp Interpolation) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: transform to %dx%d", ErrInvalidDimensions, width, height)
	}
	if _, ok := m.Invert(); !ok {
		return nil, fmt.Errorf("%w: singular transform", ErrInvalidParameters)
	}
	if m.IsTranslation() && m.C == float64(int(m.C)) && m.F == float64(int(m.F)) {
		return b.Reframe(width, height, image.Pt(int(m.C), int(m.F)), color.Transparent)
	}
	dst := image.NewRGBA64(image.Rect(0, 0, width, height))
	interp.kernel().Transform(dst, m.Aff3(), b.toRGBA64(), b.Bounds(), xdraw.Src, nil)
	return fromRGBA64(dst), nil
}

var _ image.RGBA64Image = (*Buffer)(nil)
var _ stdcolor.Color = color.RGBA{}
