package pixel

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/imgedit/color"
)

// GradientKind selects how a point maps to a position along a gradient.
type GradientKind uint8

const (
	// LinearGradient varies along the line from Start to End.
	LinearGradient GradientKind = iota
	// RadialGradient varies with distance from Start.
	RadialGradient
	// AngularGradient varies with the angle around Start.
	AngularGradient
	// DiamondGradient varies with the larger axis distance from Start.
	DiamondGradient
)

func (k GradientKind) String() string {
	switch k {
	case LinearGradient:
		return "linear"
	case RadialGradient:
		return "radial"
	case AngularGradient:
		return "angular"
	case DiamondGradient:
		return "diamond"
	}
	return fmt.Sprintf("GradientKind(%d)", k)
}

// ColorStop is a color at a position in [0,1] along a gradient.
type ColorStop struct {
	Offset float32
	Color  color.RGBA
}

// Gradient describes a color ramp laid over the plane.
//
// Radial and diamond gradients reach position 1 at the larger axis
// distance between Start and End.
type Gradient struct {
	Kind       GradientKind
	Start, End Point
	Stops      []ColorStop
	// Repeat wraps positions past 1 instead of holding the last stop.
	Repeat bool
	// Smooth eases between stops with smoothstep.
	Smooth bool
}

// Validate reports whether g can be rendered.
func (g Gradient) Validate() error {
	if g.Kind > DiamondGradient {
		return fmt.Errorf("%w: gradient kind %d", ErrInvalidParameters, g.Kind)
	}
	if len(g.Stops) == 0 {
		return fmt.Errorf("%w: gradient has no stops", ErrInvalidParameters)
	}
	for _, s := range g.Stops {
		if !(s.Offset >= 0 && s.Offset <= 1) {
			return fmt.Errorf("%w: stop offset %v outside [0,1]", ErrInvalidParameters, s.Offset)
		}
	}
	for _, v := range []float64{g.Start.X, g.Start.Y, g.End.X, g.End.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: gradient endpoint %v", ErrInvalidParameters, v)
		}
	}
	return nil
}

// Position returns the unwrapped gradient position of p.
func (g Gradient) Position(p Point) float64 {
	d := g.End.Sub(g.Start)
	v := p.Sub(g.Start)
	switch g.Kind {
	case RadialGradient:
		return ratio(math.Hypot(v.X, v.Y), math.Max(math.Abs(d.X), math.Abs(d.Y)))
	case AngularGradient:
		t := (math.Atan2(v.Y, v.X) + math.Pi) / (2 * math.Pi)
		return t - math.Floor(t)
	case DiamondGradient:
		return ratio(math.Max(math.Abs(v.X), math.Abs(v.Y)), math.Max(math.Abs(d.X), math.Abs(d.Y)))
	default:
		return ratio(v.X*d.X+v.Y*d.Y, d.X*d.X+d.Y*d.Y)
	}
}

func ratio(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	return n / d
}

// ColorAt returns the gradient color at position t. Stops must be sorted
// by offset.
func (g Gradient) ColorAt(t float64) color.RGBA {
	if g.Repeat {
		t -= math.Floor(t)
	} else {
		t = math.Min(math.Max(t, 0), 1)
	}
	pos := float32(t)
	stops := g.Stops
	if pos <= stops[0].Offset {
		return stops[0].Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if pos > b.Offset {
			continue
		}
		span := b.Offset - a.Offset
		if span == 0 {
			return b.Color
		}
		f := (pos - a.Offset) / span
		if g.Smooth {
			f = f * f * (3 - 2*f)
		}
		return a.Color.Lerp(b.Color, f)
	}
	return stops[len(stops)-1].Color
}

// Render samples g at every pixel center of a width×height buffer.
func (g Gradient) Render(width, height int) (*Buffer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.Stops = slices.Clone(g.Stops)
	slices.SortStableFunc(g.Stops, func(a, b ColorStop) int { return cmp.Compare(a.Offset, b.Offset) })

	b, err := New(width, height, color.Transparent)
	if err != nil {
		return nil, err
	}
	for y := range height {
		row := b.Row(y)
		for x := range width {
			c := g.ColorAt(g.Position(Pt(float64(x)+0.5, float64(y)+0.5)))
			copy(row[x*4:x*4+4], []float32{c.R, c.G, c.B, c.A})
		}
	}
	return b, nil
}
