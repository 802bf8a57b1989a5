package adjust

import (
	"context"
	"slices"

	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// CurvePoint is a control point of a tone curve.
type CurvePoint struct {
	In  float32 `yaml:"in"`
	Out float32 `yaml:"out"`
}

// Interpolation selects how a Curve passes through its points.
type Interpolation uint8

const (
	// Monotone is a Fritsch-Carlson monotone cubic. It never overshoots
	// between points, so a monotone set of points gives a monotone curve.
	Monotone Interpolation = iota

	// Linear connects the points with straight segments.
	Linear
)

// Curve is a tone curve through control points sorted by In. Inputs
// before the first point or after the last hold the end value. A curve
// with no points is the identity.
type Curve struct {
	Points []CurvePoint   `yaml:"points,omitempty"`
	Interp Interpolation `yaml:"interp,omitempty"`
}

// lutSize is the number of curve samples evaluated per apply. Inputs
// between samples are interpolated linearly.
const lutSize = 4096

// IsIdentity reports whether the curve maps every input in [0,1] to
// itself: it has no points, or its points lie on y = x and span [0,1].
func (c Curve) IsIdentity() bool {
	n := len(c.Points)
	if n == 0 {
		return true
	}
	if c.Points[0].In != 0 || c.Points[n-1].In != 1 {
		return false
	}
	for _, p := range c.Points {
		if p.In != p.Out {
			return false
		}
	}
	return true
}

func (c Curve) validate(name string) error {
	if len(c.Points) == 1 {
		return invalid(KindCurves, "%s curve needs at least 2 points", name)
	}
	if c.Interp > Linear {
		return invalid(KindCurves, "%s curve has unknown interpolation %d", name, c.Interp)
	}
	for i, p := range c.Points {
		if !inRange(p.In, 0, 1) || !inRange(p.Out, 0, 1) {
			return invalid(KindCurves, "%s point %d (%v,%v) outside [0,1]", name, i, p.In, p.Out)
		}
		if i > 0 && p.In <= c.Points[i-1].In {
			return invalid(KindCurves, "%s point %d input %v not increasing", name, i, p.In)
		}
	}
	return nil
}

// Eval evaluates the curve at x.
func (c Curve) Eval(x float32) float32 {
	pts := c.Points
	if len(pts) == 0 {
		return x
	}
	if x <= pts[0].In {
		return pts[0].Out
	}
	n := len(pts)
	if x >= pts[n-1].In {
		return pts[n-1].Out
	}
	i, _ := slices.BinarySearchFunc(pts, x, func(p CurvePoint, x float32) int {
		switch {
		case p.In < x:
			return -1
		case p.In > x:
			return 1
		}
		return 0
	})
	if i < n && pts[i].In == x {
		return pts[i].Out
	}
	lo, hi := pts[i-1], pts[i]
	h := hi.In - lo.In
	t := (x - lo.In) / h
	if c.Interp == Linear {
		return lo.Out + t*(hi.Out-lo.Out)
	}
	m := tangents(pts)
	t2, t3 := t*t, t*t*t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*lo.Out + h10*h*m[i-1] + h01*hi.Out + h11*h*m[i]
}

// tangents returns the Fritsch-Carlson tangents at each point.
func tangents(pts []CurvePoint) []float32 {
	n := len(pts)
	d := make([]float32, n-1)
	for i := range d {
		d[i] = (pts[i+1].Out - pts[i].Out) / (pts[i+1].In - pts[i].In)
	}
	m := make([]float32, n)
	m[0], m[n-1] = d[0], d[n-2]
	for i := 1; i < n-1; i++ {
		if d[i-1]*d[i] <= 0 {
			continue
		}
		m[i] = (d[i-1] + d[i]) / 2
	}
	for i, s := range d {
		if s == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a, b := m[i]/s, m[i+1]/s
		if r := a*a + b*b; r > 9 {
			k := 3 / sqrt32(r)
			m[i], m[i+1] = k*a*s, k*b*s
		}
	}
	return m
}

// lut samples the curve at lutSize+1 evenly spaced inputs.
type lut []float32

func (c Curve) lut() lut {
	if c.Interp == Monotone && len(c.Points) > 1 {
		return sampleMonotone(c)
	}
	t := make(lut, lutSize+1)
	for i := range t {
		t[i] = c.Eval(float32(i) / lutSize)
	}
	return t
}

// sampleMonotone computes the tangents once for the whole table.
func sampleMonotone(c Curve) lut {
	pts := c.Points
	m := tangents(pts)
	t := make(lut, lutSize+1)
	seg := 0
	for i := range t {
		x := float32(i) / lutSize
		switch {
		case x <= pts[0].In:
			t[i] = pts[0].Out
			continue
		case x >= pts[len(pts)-1].In:
			t[i] = pts[len(pts)-1].Out
			continue
		}
		for pts[seg+1].In < x {
			seg++
		}
		lo, hi := pts[seg], pts[seg+1]
		h := hi.In - lo.In
		u := (x - lo.In) / h
		u2, u3 := u*u, u*u*u
		t[i] = (2*u3-3*u2+1)*lo.Out + (u3-2*u2+u)*h*m[seg] +
			(-2*u3+3*u2)*hi.Out + (u3-u2)*h*m[seg+1]
	}
	return t
}

func (t lut) eval(v float32) float32 {
	if t == nil {
		return v
	}
	f := clamp01(v) * lutSize
	i := int(f)
	if i >= lutSize {
		return t[lutSize]
	}
	frac := f - float32(i)
	return t[i] + (t[i+1]-t[i])*frac
}

// Curves applies Master to all color channels, then the per-channel
// curves. Identity curves are skipped.
type Curves struct {
	Master Curve `yaml:"master,omitempty"`
	Red    Curve `yaml:"red,omitempty"`
	Green  Curve `yaml:"green,omitempty"`
	Blue   Curve `yaml:"blue,omitempty"`
}

func (Curves) Kind() string { return KindCurves }

func (c Curves) Validate() error {
	for _, ch := range []struct {
		name string
		c    Curve
	}{{"master", c.Master}, {"red", c.Red}, {"green", c.Green}, {"blue", c.Blue}} {
		if err := ch.c.validate(ch.name); err != nil {
			return err
		}
	}
	return nil
}

// IsIdentity reports whether every curve is the identity.
func (c Curves) IsIdentity() bool {
	return c.Master.IsIdentity() && c.Red.IsIdentity() && c.Green.IsIdentity() && c.Blue.IsIdentity()
}

func (Curves) PreviewCost() float64 { return 1.5 }

func (c Curves) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsIdentity() {
		return src.Clone(), ctx.Err()
	}

	tables := [4]lut{}
	for i, cv := range []Curve{c.Master, c.Red, c.Green, c.Blue} {
		if !cv.IsIdentity() {
			tables[i] = cv.lut()
		}
	}
	master, red, green, blue := tables[0], tables[1], tables[2], tables[3]
	return pointwise(ctx, c, src, sel, func(r, g, b, a float32) (float32, float32, float32, float32) {
		r, g, b = master.eval(r), master.eval(g), master.eval(b)
		return red.eval(r), green.eval(g), blue.eval(b), a
	})
}
