package filter

import "math"

func approxEqual(a, b, tol float32) bool {
	return float32(math.Abs(float64(a-b))) <= tol
}

func constantPlane(w, h, ch int, v float32) Plane {
	p := Plane{Pix: make([]float32, w*h*ch), Width: w, Height: h, Channels: ch}
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

func emptyLike(p Plane) Plane {
	return Plane{Pix: make([]float32, len(p.Pix)), Width: p.Width, Height: p.Height, Channels: p.Channels}
}
