package adjust

import (
	"context"
	"math"

	"github.com/gogpu/imgedit/internal/filter"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Brightness adds Offset to every color channel and clamps to [0,1].
type Brightness struct {
	Offset float32 `yaml:"offset"` // [-1, 1]
}

func (Brightness) Kind() string { return KindBrightness }

func (b Brightness) Validate() error {
	if !inRange(b.Offset, -1, 1) {
		return invalid(KindBrightness, "offset %v not in [-1,1]", b.Offset)
	}
	return nil
}

func (Brightness) PreviewCost() float64 { return 1 }

func (b Brightness) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	return applyMatrix(ctx, b, src, sel, filter.OffsetMatrix(b.Offset), b.Offset == 0)
}

// Contrast scales every color channel around mid-gray:
//
//	out = clamp((in - 0.5) * (1 + Amount) + 0.5)
//
// Amount -1 flattens the image to gray; Amount 1 doubles the slope.
type Contrast struct {
	Amount float32 `yaml:"amount"` // [-1, 1]
}

func (Contrast) Kind() string { return KindContrast }

func (c Contrast) Validate() error {
	if !inRange(c.Amount, -1, 1) {
		return invalid(KindContrast, "amount %v not in [-1,1]", c.Amount)
	}
	return nil
}

func (Contrast) PreviewCost() float64 { return 1 }

func (c Contrast) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	return applyMatrix(ctx, c, src, sel, filter.ContrastMatrix(1+c.Amount), c.Amount == 0)
}

// Invert replaces every color channel v with 1-v. Alpha is kept.
type Invert struct{}

func (Invert) Kind() string { return KindInvert }

func (Invert) Validate() error { return nil }

func (Invert) PreviewCost() float64 { return 1 }

func (i Invert) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	return applyMatrix(ctx, i, src, sel, filter.InvertMatrix(), false)
}

func applyMatrix(ctx context.Context, a Adjustment, src *pixel.Buffer, sel *selection.Selection, m filter.ColorMatrix, identity bool) (*pixel.Buffer, error) {
	if identity {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		return src.Clone(), ctx.Err()
	}
	return pointwise(ctx, a, src, sel, func(r, g, b, alpha float32) (float32, float32, float32, float32) {
		r, g, b, _ = m.Transform(r, g, b, alpha)
		return clamp01(r), clamp01(g), clamp01(b), alpha
	})
}

// ChannelLevels maps [InBlack, InWhite] to [OutBlack, OutWhite] with a
// gamma curve in between:
//
//	out = ((clamp(in, InBlack, InWhite) - InBlack) / (InWhite - InBlack))^(1/Gamma)
//	      * (OutWhite - OutBlack) + OutBlack
//
// OutBlack may exceed OutWhite, which inverts the channel.
type ChannelLevels struct {
	InBlack  float32 `yaml:"in_black"`
	InWhite  float32 `yaml:"in_white"`
	Gamma    float32 `yaml:"gamma"`
	OutBlack float32 `yaml:"out_black"`
	OutWhite float32 `yaml:"out_white"`
}

// Gamma limits for ChannelLevels.
const (
	MinGamma = 0.1
	MaxGamma = 9.99
)

// IdentityLevels returns levels that leave a channel unchanged.
func IdentityLevels() ChannelLevels {
	return ChannelLevels{InBlack: 0, InWhite: 1, Gamma: 1, OutBlack: 0, OutWhite: 1}
}

// IsIdentity reports whether l is the identity mapping.
func (l ChannelLevels) IsIdentity() bool {
	return l == IdentityLevels()
}

func (l ChannelLevels) validate(name string) error {
	switch {
	case !inRange(l.InBlack, 0, 1) || !inRange(l.InWhite, 0, 1):
		return invalid(KindLevels, "%s input range [%v,%v] outside [0,1]", name, l.InBlack, l.InWhite)
	case l.InBlack >= l.InWhite:
		return invalid(KindLevels, "%s input black %v not below white %v", name, l.InBlack, l.InWhite)
	case !inRange(l.Gamma, MinGamma, MaxGamma):
		return invalid(KindLevels, "%s gamma %v not in [%v,%v]", name, l.Gamma, MinGamma, MaxGamma)
	case !inRange(l.OutBlack, 0, 1) || !inRange(l.OutWhite, 0, 1):
		return invalid(KindLevels, "%s output range [%v,%v] outside [0,1]", name, l.OutBlack, l.OutWhite)
	}
	return nil
}

// Eval maps one channel value.
func (l ChannelLevels) Eval(v float32) float32 {
	t := (min(max(v, l.InBlack), l.InWhite) - l.InBlack) / (l.InWhite - l.InBlack)
	if l.Gamma != 1 {
		t = float32(math.Pow(float64(t), 1/float64(l.Gamma)))
	}
	return t*(l.OutWhite-l.OutBlack) + l.OutBlack
}

// Levels applies Master to all color channels, then the per-channel
// levels when PerChannel is set.
type Levels struct {
	Master     ChannelLevels `yaml:"master"`
	PerChannel bool          `yaml:"per_channel,omitempty"`
	Red        ChannelLevels `yaml:"red,omitempty"`
	Green      ChannelLevels `yaml:"green,omitempty"`
	Blue       ChannelLevels `yaml:"blue,omitempty"`
}

// NewLevels returns identity levels for every channel.
func NewLevels() Levels {
	id := IdentityLevels()
	return Levels{Master: id, Red: id, Green: id, Blue: id}
}

func (Levels) Kind() string { return KindLevels }

func (l Levels) Validate() error {
	if err := l.Master.validate("master"); err != nil {
		return err
	}
	if !l.PerChannel {
		return nil
	}
	for _, c := range []struct {
		name string
		lv   ChannelLevels
	}{{"red", l.Red}, {"green", l.Green}, {"blue", l.Blue}} {
		if err := c.lv.validate(c.name); err != nil {
			return err
		}
	}
	return nil
}

// IsIdentity reports whether l leaves every pixel unchanged.
func (l Levels) IsIdentity() bool {
	if !l.Master.IsIdentity() {
		return false
	}
	return !l.PerChannel || (l.Red.IsIdentity() && l.Green.IsIdentity() && l.Blue.IsIdentity())
}

func (Levels) PreviewCost() float64 { return 2 }

func (l Levels) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.IsIdentity() {
		return src.Clone(), ctx.Err()
	}

	id := IdentityLevels()
	red, green, blue := id, id, id
	if l.PerChannel {
		red, green, blue = l.Red, l.Green, l.Blue
	}
	return pointwise(ctx, l, src, sel, func(r, g, b, a float32) (float32, float32, float32, float32) {
		r, g, b = l.Master.Eval(r), l.Master.Eval(g), l.Master.Eval(b)
		if l.PerChannel {
			r, g, b = red.Eval(r), green.Eval(g), blue.Eval(b)
		}
		return r, g, b, a
	})
}
