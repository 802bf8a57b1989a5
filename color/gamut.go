package color

import "math"

// gamutMap brings a device color into the destination gamut according to
// intent.
func gamutMap(c Color, intent Intent) Color {
	switch c.Space {
	case SpaceRGB:
		r, g, b := c.C[0], c.C[1], c.C[2]
		switch intent {
		case Perceptual:
			r, g, b = desaturateToGamut(r, g, b)
		case Saturation:
			r, g, b = scaleToGamut(r, g, b)
		}
		c.C[0], c.C[1], c.C[2] = clip(r), clip(g), clip(b)
	case SpaceCMYK:
		for i := range 4 {
			c.C[i] = clip(c.C[i])
		}
	case SpaceLab:
		c.C[0] = math.Max(0, math.Min(100, c.C[0]))
	}
	return c
}

func clip(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// lum is the Rec. 709 luma of an encoded RGB triple.
func lum(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// desaturateToGamut pulls the color toward gray of equal luma until every
// channel is in range. This is the ClipColor step of the W3C compositing
// model.
func desaturateToGamut(r, g, b float64) (float64, float64, float64) {
	l := clip(lum(r, g, b))
	n := math.Min(r, math.Min(g, b))
	x := math.Max(r, math.Max(g, b))
	t := 1.0
	if n < 0 && l-n > 0 {
		t = math.Min(t, l/(l-n))
	}
	if x > 1 && x-l > 0 {
		t = math.Min(t, (1-l)/(x-l))
	}
	if t >= 1 {
		return r, g, b
	}
	return l + (r-l)*t, l + (g-l)*t, l + (b-l)*t
}

// scaleToGamut lifts negative channels to zero and scales the triple down
// by its maximum, keeping channel ratios.
func scaleToGamut(r, g, b float64) (float64, float64, float64) {
	r, g, b = math.Max(r, 0), math.Max(g, 0), math.Max(b, 0)
	if x := math.Max(r, math.Max(g, b)); x > 1 {
		return r / x, g / x, b / x
	}
	return r, g, b
}
