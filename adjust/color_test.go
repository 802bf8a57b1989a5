package adjust

import (
	"testing"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/internal/blend"
)

func TestHSLZeroIsIdentity(t *testing.T) {
	src := gradient(5, 5)
	if out := mustApply(t, HSL{}, src, nil); !out.Equal(src) {
		t.Error("zero HSL changed pixels")
	}
}

func TestHSLPreservesLuminosity(t *testing.T) {
	orig := color.RGBA{R: 0.6, G: 0.4, B: 0.3, A: 0.8}
	src := uniform(3, 3, orig)
	want := blend.Lum(orig.R, orig.G, orig.B)

	for _, h := range []HSL{{Hue: 60}, {Hue: -120}, {Saturation: -1}, {Saturation: 0.5}, {Hue: 180, Saturation: 0.3}} {
		out := mustApply(t, h, src, nil)
		c := out.RGBAAt(1, 1)
		if got := blend.Lum(c.R, c.G, c.B); !near(got, want, 1e-4) {
			t.Errorf("%+v: luminosity %v, want %v", h, got, want)
		}
		if c.A != orig.A {
			t.Errorf("%+v: alpha %v", h, c.A)
		}
	}
}

func TestHSLDesaturateGivesGray(t *testing.T) {
	src := uniform(2, 2, color.RGBA{R: 0.9, G: 0.2, B: 0.4, A: 1})
	out := mustApply(t, HSL{Saturation: -1}, src, nil)
	c := out.RGBAAt(0, 0)
	if !near(c.R, c.G, 1e-4) || !near(c.G, c.B, 1e-4) {
		t.Errorf("got %+v, want gray", c)
	}
}

func TestHSLHueRotation(t *testing.T) {
	src := uniform(1, 1, color.RGBA{R: 1, G: 0, B: 0, A: 1})
	out := mustApply(t, HSL{Hue: 120}, src, nil)
	c := out.RGBAAt(0, 0)
	// Red rotated to green, then brought back to red's luminosity.
	if !(c.G > c.R && c.G > c.B) {
		t.Errorf("got %+v, want green dominant", c)
	}
}

func TestHSLLightness(t *testing.T) {
	src := gradient(4, 4)
	white := mustApply(t, HSL{Lightness: 1}, src, nil)
	everyPixel(t, white, func(x, y int, c color.RGBA) bool {
		return near(c.R, 1, 1e-6) && near(c.G, 1, 1e-6) && near(c.B, 1, 1e-6) && c.A == src.RGBAAt(x, y).A
	})
	black := mustApply(t, HSL{Lightness: -1}, src, nil)
	everyPixel(t, black, func(_, _ int, c color.RGBA) bool { return c.R == 0 && c.G == 0 && c.B == 0 })
}

func TestTonalWeights(t *testing.T) {
	tests := []struct {
		l             float32
		sh, mid, high float32
	}{
		{0, 1, 0, 0},
		{0.165, 0.5, 0.33, 0},
		{0.5, 0, 1, 0},
		{1, 0, 0, 1},
	}
	for _, tt := range tests {
		s, m, h := tonalWeights(tt.l)
		if !near(s, tt.sh, 1e-5) || !near(m, tt.mid, 1e-5) || !near(h, tt.high, 1e-5) {
			t.Errorf("tonalWeights(%v) = %v,%v,%v, want %v,%v,%v", tt.l, s, m, h, tt.sh, tt.mid, tt.high)
		}
	}
}

func TestColorBalance(t *testing.T) {
	gray := color.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	src := uniform(2, 2, gray)

	t.Run("toward red", func(t *testing.T) {
		out := mustApply(t, ColorBalance{Midtones: Tones{CyanRed: 1}}, src, nil)
		want := color.RGBA{R: 0.5 + 50.0/255, G: 0.5, B: 0.5, A: 1}
		everyPixel(t, out, func(_, _ int, c color.RGBA) bool { return nearRGBA(c, want, 1e-5) })
	})
	t.Run("toward cyan", func(t *testing.T) {
		out := mustApply(t, ColorBalance{Midtones: Tones{CyanRed: -1}}, src, nil)
		want := color.RGBA{R: 0.5, G: 0.5 + 25.0/255, B: 0.5 + 25.0/255, A: 1}
		everyPixel(t, out, func(_, _ int, c color.RGBA) bool { return nearRGBA(c, want, 1e-5) })
	})
	t.Run("preserve luminosity", func(t *testing.T) {
		out := mustApply(t, ColorBalance{Midtones: Tones{CyanRed: 1, YellowBlue: -0.5}, PreserveLuminosity: true}, src, nil)
		c := out.RGBAAt(0, 0)
		if got := blend.Lum(c.R, c.G, c.B); !near(got, 0.5, 1e-5) {
			t.Errorf("luminosity %v, want 0.5", got)
		}
		if c.R <= c.B {
			t.Errorf("got %+v, want a red shift", c)
		}
	})
	t.Run("shadows leave highlights", func(t *testing.T) {
		white := uniform(2, 2, color.White)
		out := mustApply(t, ColorBalance{Shadows: Tones{CyanRed: 1, MagentaGreen: 1, YellowBlue: 1}}, white, nil)
		if !out.Equal(white) {
			t.Error("shadow shift changed white pixels")
		}
	})
}

func TestGrayscale(t *testing.T) {
	src := uniform(2, 2, color.RGBA{R: 0.3, G: 0.6, B: 0.9, A: 0.4})
	tests := []struct {
		name string
		g    Grayscale
		want float32
		a    float32
	}{
		{"luminance", Grayscale{}, 0.2126*0.3 + 0.7152*0.6 + 0.0722*0.9, 0.4},
		{"average", Grayscale{Method: Average}, 0.6, 0.4},
		{"lightness", Grayscale{Method: Lightness}, 0.6, 0.4},
		{"custom", Grayscale{Method: Custom, Weights: [3]float32{2, 0, 0}}, 0.3, 0.4},
		{"discard alpha", Grayscale{Method: Average, DiscardAlpha: true}, 0.6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustApply(t, tt.g, src, nil)
			want := color.RGBA{R: tt.want, G: tt.want, B: tt.want, A: tt.a}
			everyPixel(t, out, func(_, _ int, c color.RGBA) bool { return nearRGBA(c, want, 1e-5) })
		})
	}
}

func TestGrayscaleMethodString(t *testing.T) {
	if got := Lightness.String(); got != "lightness" {
		t.Errorf("String() = %q", got)
	}
	if got := GrayscaleMethod(42).String(); got != "GrayscaleMethod(42)" {
		t.Errorf("String() = %q", got)
	}
}
