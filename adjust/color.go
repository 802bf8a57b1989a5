package adjust

import (
	"context"
	"fmt"
	"math"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/internal/blend"
	"github.com/gogpu/imgedit/internal/filter"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// HSL rotates hue and scales saturation in HSL space, then restores the
// pixel's original luminosity. Lightness is the only parameter that
// changes luminosity: positive values blend toward white, negative values
// toward black.
type HSL struct {
	Hue        float32 `yaml:"hue"`        // degrees, [-180, 180]
	Saturation float32 `yaml:"saturation"` // [-1, 1]
	Lightness  float32 `yaml:"lightness"`  // [-1, 1]
}

func (HSL) Kind() string { return KindHSL }

func (h HSL) Validate() error {
	switch {
	case !inRange(h.Hue, -180, 180):
		return invalid(KindHSL, "hue %v not in [-180,180]", h.Hue)
	case !inRange(h.Saturation, -1, 1):
		return invalid(KindHSL, "saturation %v not in [-1,1]", h.Saturation)
	case !inRange(h.Lightness, -1, 1):
		return invalid(KindHSL, "lightness %v not in [-1,1]", h.Lightness)
	}
	return nil
}

func (HSL) PreviewCost() float64 { return 4 }

func (h HSL) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if h == (HSL{}) {
		return src.Clone(), ctx.Err()
	}
	chroma := h.Hue != 0 || h.Saturation != 0
	return pointwise(ctx, h, src, sel, func(r, g, b, a float32) (float32, float32, float32, float32) {
		if chroma {
			r, g, b = h.shift(r, g, b)
		}
		r, g, b = lighten(r, h.Lightness), lighten(g, h.Lightness), lighten(b, h.Lightness)
		return r, g, b, a
	})
}

func (h HSL) shift(r, g, b float32) (float32, float32, float32) {
	hsl := color.MustConvert(color.NewRGB(float64(r), float64(g), float64(b)), color.SpaceHSL)
	hsl.C[0] = math.Mod(hsl.C[0]+float64(h.Hue)+360, 360)
	hsl.C[1] = float64(scaleToward(float32(hsl.C[1]), h.Saturation))
	rgb := color.MustConvert(hsl, color.SpaceRGB)
	return blend.SetLum(float32(rgb.C[0]), float32(rgb.C[1]), float32(rgb.C[2]), blend.Lum(r, g, b))
}

// scaleToward moves v toward 1 for positive amounts and toward 0 for
// negative amounts.
func scaleToward(v, amount float32) float32 {
	if amount >= 0 {
		return v + amount*(1-v)
	}
	return v * (1 + amount)
}

func lighten(v, amount float32) float32 {
	if amount == 0 {
		return v
	}
	return clamp01(scaleToward(v, amount))
}

// Tones is a color shift along the three complementary axes, each in
// [-1, 1]. Positive values push toward red, green and blue.
type Tones struct {
	CyanRed      float32 `yaml:"cyan_red"`
	MagentaGreen float32 `yaml:"magenta_green"`
	YellowBlue   float32 `yaml:"yellow_blue"`
}

func (t Tones) validate(name string) error {
	if !inRange(t.CyanRed, -1, 1) || !inRange(t.MagentaGreen, -1, 1) || !inRange(t.YellowBlue, -1, 1) {
		return invalid(KindColorBalance, "%s %+v outside [-1,1]", name, t)
	}
	return nil
}

func (t Tones) scaled(w float32) Tones {
	return Tones{t.CyanRed * w, t.MagentaGreen * w, t.YellowBlue * w}
}

func (t Tones) add(o Tones) Tones {
	return Tones{t.CyanRed + o.CyanRed, t.MagentaGreen + o.MagentaGreen, t.YellowBlue + o.YellowBlue}
}

// Full-strength color balance shifts: a positive shift raises its own
// channel, a negative shift raises the other two by half as much.
const (
	balanceRaise = 50.0 / 255
	balanceOther = 25.0 / 255
)

// ColorBalance shifts colors separately in shadows, midtones and
// highlights. Each pixel's tonal weights come from its luminosity: shadow
// weight falls from 1 at black to 0 at 0.33, midtone weight peaks at 0.5,
// highlight weight rises from 0 at 0.67 to 1 at white.
//
// With PreserveLuminosity the pixel's luminosity is restored after the
// shift.
type ColorBalance struct {
	Shadows            Tones `yaml:"shadows"`
	Midtones           Tones `yaml:"midtones"`
	Highlights         Tones `yaml:"highlights"`
	PreserveLuminosity bool  `yaml:"preserve_luminosity"`
}

func (ColorBalance) Kind() string { return KindColorBalance }

func (c ColorBalance) Validate() error {
	if err := c.Shadows.validate("shadows"); err != nil {
		return err
	}
	if err := c.Midtones.validate("midtones"); err != nil {
		return err
	}
	return c.Highlights.validate("highlights")
}

func (ColorBalance) PreviewCost() float64 { return 2 }

// IsIdentity reports whether all shifts are zero.
func (c ColorBalance) IsIdentity() bool {
	return c.Shadows == Tones{} && c.Midtones == Tones{} && c.Highlights == Tones{}
}

func tonalWeights(l float32) (shadow, mid, high float32) {
	if l < 0.33 {
		shadow = 1 - l/0.33
	}
	if l < 0.5 {
		mid = l / 0.5
	} else {
		mid = 2 - l/0.5
	}
	if l > 0.67 {
		high = (l - 0.67) / 0.33
	}
	return shadow, max(mid, 0), high
}

func (c ColorBalance) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsIdentity() {
		return src.Clone(), ctx.Err()
	}
	return pointwise(ctx, c, src, sel, func(r, g, b, a float32) (float32, float32, float32, float32) {
		l := blend.Lum(r, g, b)
		ws, wm, wh := tonalWeights(l)
		t := c.Shadows.scaled(ws).add(c.Midtones.scaled(wm)).add(c.Highlights.scaled(wh))

		r, g, b = balance(r, g, b, t.CyanRed)
		g, r, b = balance(g, r, b, t.MagentaGreen)
		b, r, g = balance(b, r, g, t.YellowBlue)
		r, g, b = clamp01(r), clamp01(g), clamp01(b)

		if c.PreserveLuminosity {
			r, g, b = blend.SetLum(r, g, b, l)
		}
		return r, g, b, a
	})
}

// balance applies shift to the axis whose positive end is own.
func balance(own, o1, o2, shift float32) (float32, float32, float32) {
	if shift > 0 {
		return own + shift*balanceRaise, o1, o2
	}
	return own, o1 - shift*balanceOther, o2 - shift*balanceOther
}

// GrayscaleMethod selects how Grayscale reduces a color to one value.
type GrayscaleMethod uint8

const (
	// Luminance weights channels by Rec. 709 luma.
	Luminance GrayscaleMethod = iota
	// Average is (R+G+B)/3.
	Average
	// Lightness is (max+min)/2.
	Lightness
	// Custom uses Grayscale.Weights, normalized to sum to 1.
	Custom
)

var grayscaleMethodNames = [...]string{"luminance", "average", "lightness", "custom"}

func (m GrayscaleMethod) String() string {
	if int(m) < len(grayscaleMethodNames) {
		return grayscaleMethodNames[m]
	}
	return fmt.Sprintf("GrayscaleMethod(%d)", m)
}

// Grayscale replaces every color with a gray of the same value on all
// three channels. Alpha is kept unless DiscardAlpha is set, in which case
// the result is opaque.
type Grayscale struct {
	Method       GrayscaleMethod `yaml:"method"`
	Weights      [3]float32      `yaml:"weights,flow,omitempty"`
	DiscardAlpha bool            `yaml:"discard_alpha,omitempty"`
}

func (Grayscale) Kind() string { return KindGrayscale }

func (g Grayscale) Validate() error {
	if g.Method > Custom {
		return invalid(KindGrayscale, "unknown method %d", g.Method)
	}
	if g.Method != Custom {
		return nil
	}
	w := g.Weights
	if w[0] < 0 || w[1] < 0 || w[2] < 0 || !(w[0]+w[1]+w[2] > 0) {
		return invalid(KindGrayscale, "custom weights %v must be non-negative with a positive sum", w)
	}
	return nil
}

func (Grayscale) PreviewCost() float64 { return 1 }

func (g Grayscale) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.Method == Lightness {
		return pointwise(ctx, g, src, sel, func(r, gr, b, a float32) (float32, float32, float32, float32) {
			v := clamp01((max(r, gr, b) + min(r, gr, b)) / 2)
			return v, v, v, g.alpha(a)
		})
	}
	m := g.matrix()
	return pointwise(ctx, g, src, sel, func(r, gr, b, a float32) (float32, float32, float32, float32) {
		v, _, _, _ := m.Transform(r, gr, b, a)
		v = clamp01(v)
		return v, v, v, g.alpha(a)
	})
}

// matrix returns the channel reduction for the linear methods.
func (g Grayscale) matrix() filter.ColorMatrix {
	switch g.Method {
	case Average:
		return filter.GrayMatrix(1.0/3, 1.0/3, 1.0/3)
	case Custom:
		sum := g.Weights[0] + g.Weights[1] + g.Weights[2]
		return filter.GrayMatrix(g.Weights[0]/sum, g.Weights[1]/sum, g.Weights[2]/sum)
	default:
		return filter.GrayMatrix(filter.LumR, filter.LumG, filter.LumB)
	}
}

func (g Grayscale) alpha(a float32) float32 {
	if g.DiscardAlpha {
		return 1
	}
	return a
}
