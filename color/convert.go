package color

import (
	"fmt"
	"math"

	"github.com/gogpu/imgedit/internal/transfer"
)

// Convert converts c to the target space. Alpha is preserved.
//
// Every pair of supported spaces round-trips within floating-point
// tolerance. CMYK is the one exception: many CMYK values map to the same
// RGB color, so only inputs with full gray-component replacement (at least
// one of C, M, Y equal to zero, as produced by Convert) reproduce exactly.
func Convert(c Color, to Space) (Color, error) {
	if c.Space.Channels() == 0 || to.Channels() == 0 {
		return Color{}, fmt.Errorf("%w: %v to %v", ErrUnsupportedConversion, c.Space, to)
	}
	if c.Space == to {
		return c, nil
	}

	// XYZ and Lab convert directly so that out-of-gamut values do not pass
	// through the RGB transfer curve.
	switch {
	case c.Space == SpaceLab && to == SpaceXYZ:
		x, y, z := labToXYZ(c.C[0], c.C[1], c.C[2])
		return Color{Space: to, C: [4]float64{x, y, z}, Alpha: c.Alpha}, nil
	case c.Space == SpaceXYZ && to == SpaceLab:
		l, a, b := xyzToLab(c.C[0], c.C[1], c.C[2])
		return Color{Space: to, C: [4]float64{l, a, b}, Alpha: c.Alpha}, nil
	}

	r, g, b := toRGB(c)
	out := Color{Space: to, Alpha: c.Alpha}
	switch to {
	case SpaceRGB:
		out.C = [4]float64{r, g, b}
	case SpaceHSL:
		h, s, l := rgbToHSL(r, g, b)
		out.C = [4]float64{h, s, l}
	case SpaceHSV:
		h, s, v := rgbToHSV(r, g, b)
		out.C = [4]float64{h, s, v}
	case SpaceCMYK:
		cc, m, y, k := rgbToCMYK(r, g, b)
		out.C = [4]float64{cc, m, y, k}
	case SpaceXYZ:
		x, y, z := rgbToXYZ(r, g, b)
		out.C = [4]float64{x, y, z}
	case SpaceLab:
		l, a, bb := xyzToLab(rgbToXYZ(r, g, b))
		out.C = [4]float64{l, a, bb}
	}
	return out, nil
}

// MustConvert is like Convert but panics on an unsupported conversion.
// It is intended for constant colors in tests and examples.
func MustConvert(c Color, to Space) Color {
	out, err := Convert(c, to)
	if err != nil {
		panic(err)
	}
	return out
}

func toRGB(c Color) (r, g, b float64) {
	v := c.C
	switch c.Space {
	case SpaceHSL:
		return hslToRGB(v[0], v[1], v[2])
	case SpaceHSV:
		return hsvToRGB(v[0], v[1], v[2])
	case SpaceCMYK:
		return cmykToRGB(v[0], v[1], v[2], v[3])
	case SpaceXYZ:
		return xyzToRGB(v[0], v[1], v[2])
	case SpaceLab:
		return xyzToRGB(labToXYZ(v[0], v[1], v[2]))
	default:
		return v[0], v[1], v[2]
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// normHue wraps h into [0,360).
func normHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// achromaticEps is the chroma below which a color has no defined hue.
// Round trips through XYZ land within a few ulps of gray.
const achromaticEps = 1e-9

func rgbToHSL(r, g, b float64) (h, s, l float64) {
	r, g, b = clamp01(r), clamp01(g), clamp01(b)
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	l = (maxC + minC) / 2

	d := maxC - minC
	den := 1 - math.Abs(2*l-1)
	if d < achromaticEps || den < achromaticEps {
		return 0, 0, l
	}
	return hueOf(r, g, b, maxC, d), math.Min(d/den, 1), l
}

// hueOf returns the hexcone hue in degrees.
func hueOf(r, g, b, maxC, d float64) float64 {
	var h float64
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return normHue(h * 60)
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	h = normHue(h) / 360
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func rgbToHSV(r, g, b float64) (h, s, v float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	v = maxC
	d := maxC - minC
	if maxC == 0 || d < achromaticEps {
		return 0, 0, v
	}
	return hueOf(r, g, b, maxC, d), d / maxC, v
}

func hsvToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}
	h = normHue(h) / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func rgbToCMYK(r, g, b float64) (c, m, y, k float64) {
	k = 1 - math.Max(r, math.Max(g, b))
	if k >= 1 {
		return 0, 0, 0, 1
	}
	inv := 1 - k
	return (inv - r) / inv, (inv - g) / inv, (inv - b) / inv, k
}

func cmykToRGB(c, m, y, k float64) (r, g, b float64) {
	return (1 - c) * (1 - k), (1 - m) * (1 - k), (1 - y) * (1 - k)
}

func rgbToXYZ(r, g, b float64) (x, y, z float64) {
	lr, lg, lb := transfer.Decode(r), transfer.Decode(g), transfer.Decode(b)
	m := &rgbToXYZMatrix
	return m[0][0]*lr + m[0][1]*lg + m[0][2]*lb,
		m[1][0]*lr + m[1][1]*lg + m[1][2]*lb,
		m[2][0]*lr + m[2][1]*lg + m[2][2]*lb
}

func xyzToRGB(x, y, z float64) (r, g, b float64) {
	m := &xyzToRGBMatrix
	lr := m[0][0]*x + m[0][1]*y + m[0][2]*z
	lg := m[1][0]*x + m[1][1]*y + m[1][2]*z
	lb := m[2][0]*x + m[2][1]*y + m[2][2]*z
	return transfer.Encode(lr), transfer.Encode(lg), transfer.Encode(lb)
}

// CIE constants for the L*a*b* companding function.
const (
	labEpsilon = 216.0 / 24389.0
	labKappa   = 24389.0 / 27.0
)

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

func labFInv(f float64) float64 {
	if t := f * f * f; t > labEpsilon {
		return t
	}
	return (116*f - 16) / labKappa
}

func xyzToLab(x, y, z float64) (l, a, b float64) {
	fx := labF(x / D50[0])
	fy := labF(y / D50[1])
	fz := labF(z / D50[2])
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

func labToXYZ(l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	return labFInv(fx) * D50[0], labFInv(fy) * D50[1], labFInv(fz) * D50[2]
}
