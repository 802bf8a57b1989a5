package blend

import "math"

// channel is a separable blend function B(cb, cs) on values in [0,1].
type channel func(cb, cs float32) float32

var separable = [Hue]channel{
	Normal:     func(_, cs float32) float32 { return cs },
	Multiply:   func(cb, cs float32) float32 { return cb * cs },
	Screen:     screen,
	Overlay:    func(cb, cs float32) float32 { return hardLight(cs, cb) },
	Darken:     func(cb, cs float32) float32 { return min(cb, cs) },
	Lighten:    func(cb, cs float32) float32 { return max(cb, cs) },
	ColorDodge: colorDodge,
	ColorBurn:  colorBurn,
	HardLight:  hardLight,
	SoftLight:  softLight,
	Difference: func(cb, cs float32) float32 { return abs(cb - cs) },
	Exclusion:  func(cb, cs float32) float32 { return cb + cs - 2*cb*cs },
}

func screen(cb, cs float32) float32 {
	return cb + cs - cb*cs
}

func colorDodge(cb, cs float32) float32 {
	switch {
	case cb <= 0:
		return 0
	case cs >= 1:
		return 1
	default:
		return min(1, cb/(1-cs))
	}
}

func colorBurn(cb, cs float32) float32 {
	switch {
	case cb >= 1:
		return 1
	case cs <= 0:
		return 0
	default:
		return 1 - min(1, (1-cb)/cs)
	}
}

func hardLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return screen(cb, 2*cs-1)
}

func softLight(cb, cs float32) float32 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float32
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = float32(math.Sqrt(float64(cb)))
	}
	return cb + (2*cs-1)*(d-cb)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
