package blend

import (
	"github.com/gogpu/imgedit/internal/transfer"
)

// Space selects the encoding blend formulas operate in.
type Space uint8

const (
	// Gamma blends the stored, sRGB-encoded values directly.
	Gamma Space = iota
	// Linear decodes to linear light, blends, and re-encodes.
	Linear
)

func (s Space) String() string {
	if s == Linear {
		return "linear"
	}
	return "gamma"
}

// Mix returns the blend function B(Cb, Cs) of mode m for one RGB triple.
// Inputs and outputs are in [0,1].
func Mix(m Mode, cb, cs [3]float32) [3]float32 {
	if !m.Separable() {
		r, g, b := nonSeparable(m, cb[0], cb[1], cb[2], cs[0], cs[1], cs[2])
		return [3]float32{r, g, b}
	}
	f := separable[m]
	return [3]float32{f(cb[0], cs[0]), f(cb[1], cs[1]), f(cb[2], cs[2])}
}

// Over composites one straight-alpha source pixel onto a straight-alpha
// backdrop with the W3C source-over formula generalized by mode m:
//
//	co = as·(1-ab)·Cs + as·ab·B(Cb,Cs) + (1-as)·ab·Cb
//	ao = as + ab·(1-as)
//
// and returns the straight-alpha result co/ao. opacity scales the source
// alpha. The result equals the backdrop exactly when the source is fully
// transparent.
func Over(m Mode, space Space, dst, src [4]float32, opacity float32) [4]float32 {
	as := src[3] * opacity
	ab := dst[3]
	if as <= 0 {
		return dst
	}
	if ab <= 0 {
		return [4]float32{src[0], src[1], src[2], as}
	}

	cb := [3]float32{dst[0], dst[1], dst[2]}
	cs := [3]float32{src[0], src[1], src[2]}
	if space == Linear {
		for i := range 3 {
			cb[i] = transfer.DecodeFast(cb[i])
			cs[i] = transfer.DecodeFast(cs[i])
		}
	}

	var out [4]float32
	ao := as + ab*(1-as)
	if m == Normal && as >= 1 {
		out = [4]float32{cs[0], cs[1], cs[2], 1}
	} else {
		b := Mix(m, cb, cs)
		ws := as * (1 - ab)
		wb := (1 - as) * ab
		wm := as * ab
		for i := range 3 {
			out[i] = (ws*cs[i] + wm*b[i] + wb*cb[i]) / ao
		}
		out[3] = ao
	}

	if space == Linear {
		for i := range 3 {
			out[i] = transfer.EncodeFast(out[i])
		}
	}
	return out
}

// Row composites a row of source pixels onto a row of backdrop pixels in
// place. Both slices hold interleaved RGBA and must have the same length.
func Row(m Mode, space Space, dst, src []float32, opacity float32) {
	if opacity <= 0 {
		return
	}
	for i := 0; i+3 < len(dst); i += 4 {
		d := (*[4]float32)(dst[i : i+4])
		*d = Over(m, space, *d, [4]float32(src[i:i+4]), opacity)
	}
}
