package blend

// The non-separable modes work on whole RGB triples through three helper
// functions from the W3C model: Lum, ClipColor and SetSat.

// Lum is the W3C luminosity: 0.30 R + 0.59 G + 0.11 B.
func Lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// Sat is max(R,G,B) - min(R,G,B).
func Sat(r, g, b float32) float32 {
	return max(r, g, b) - min(r, g, b)
}

// ClipColor pulls an out-of-range color toward its luminosity until every
// component is in [0,1].
func ClipColor(r, g, b float32) (float32, float32, float32) {
	l := Lum(r, g, b)
	lo := min(r, g, b)
	hi := max(r, g, b)

	if lo < 0 && l != lo {
		k := l / (l - lo)
		r, g, b = l+(r-l)*k, l+(g-l)*k, l+(b-l)*k
	}
	if hi > 1 && hi != l {
		k := (1 - l) / (hi - l)
		r, g, b = l+(r-l)*k, l+(g-l)*k, l+(b-l)*k
	}
	return r, g, b
}

// SetLum shifts a color to luminosity l, then clips.
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// SetSat rescales a color to saturation s keeping the order of its
// components. Gray inputs become black.
func SetSat(r, g, b, s float32) (float32, float32, float32) {
	c := [3]float32{r, g, b}
	lo, mid, hi := order(c)
	if c[hi] > c[lo] {
		c[mid] = (c[mid] - c[lo]) * s / (c[hi] - c[lo])
		c[hi] = s
	} else {
		c[mid], c[hi] = 0, 0
	}
	c[lo] = 0
	return c[0], c[1], c[2]
}

// order returns the indexes of the smallest, middle and largest component.
func order(c [3]float32) (lo, mid, hi int) {
	lo, mid, hi = 0, 1, 2
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	if c[mid] > c[hi] {
		mid, hi = hi, mid
	}
	if c[lo] > c[mid] {
		lo, mid = mid, lo
	}
	return lo, mid, hi
}

// nonSeparable returns B(Cb, Cs) for Hue, Saturation, Color and
// Luminosity.
func nonSeparable(m Mode, br, bg, bb, sr, sg, sb float32) (float32, float32, float32) {
	switch m {
	case Hue:
		r, g, b := SetSat(sr, sg, sb, Sat(br, bg, bb))
		return SetLum(r, g, b, Lum(br, bg, bb))
	case Saturation:
		r, g, b := SetSat(br, bg, bb, Sat(sr, sg, sb))
		return SetLum(r, g, b, Lum(br, bg, bb))
	case Color:
		return SetLum(sr, sg, sb, Lum(br, bg, bb))
	default: // Luminosity
		return SetLum(br, bg, bb, Lum(sr, sg, sb))
	}
}
