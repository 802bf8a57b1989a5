package adjust

import (
	"context"
	"testing"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

func uniform(w, h int, c color.RGBA) *pixel.Buffer {
	return pixel.MustNew(w, h, c)
}

// gradient fills a buffer with distinct in-gamut colors.
func gradient(w, h int) *pixel.Buffer {
	b := pixel.MustNew(w, h, color.Transparent)
	for y := range h {
		for x := range w {
			fx := float32(x) / float32(max(w-1, 1))
			fy := float32(y) / float32(max(h-1, 1))
			_ = b.Set(x, y, color.RGBA{R: fx, G: fy, B: 1 - fx*fy, A: 1 - 0.5*fy})
		}
	}
	return b
}

func near(a, b, tol float32) bool {
	d := a - b
	return d <= tol && d >= -tol
}

func nearRGBA(a, b color.RGBA, tol float32) bool {
	return near(a.R, b.R, tol) && near(a.G, b.G, tol) && near(a.B, b.B, tol) && near(a.A, b.A, tol)
}

func mustApply(t *testing.T, a Adjustment, src *pixel.Buffer, sel *selection.Selection) *pixel.Buffer {
	t.Helper()
	out, err := a.Apply(context.Background(), src, sel)
	if err != nil {
		t.Fatalf("%s.Apply: %v", a.Kind(), err)
	}
	return out
}

// everyPixel checks fn against every output pixel.
func everyPixel(t *testing.T, b *pixel.Buffer, fn func(x, y int, c color.RGBA) bool) {
	t.Helper()
	for y := range b.Height() {
		for x := range b.Width() {
			if c := b.RGBAAt(x, y); !fn(x, y, c) {
				t.Fatalf("pixel (%d,%d) = %+v", x, y, c)
			}
		}
	}
}

// builtins is one non-trivial instance of every built-in adjustment.
func builtins() []Adjustment {
	lv := NewLevels()
	lv.Master = ChannelLevels{InBlack: 0.1, InWhite: 0.9, Gamma: 1.4, OutBlack: 0.05, OutWhite: 0.95}
	lv.PerChannel = true
	lv.Red.Gamma = 0.8
	return []Adjustment{
		Brightness{Offset: 0.2},
		Contrast{Amount: 0.4},
		lv,
		Curves{Master: Curve{Points: []CurvePoint{{0, 0}, {0.25, 0.4}, {1, 1}}}},
		HSL{Hue: 30, Saturation: 0.2, Lightness: -0.1},
		ColorBalance{Midtones: Tones{CyanRed: 0.5}, PreserveLuminosity: true},
		Grayscale{Method: Custom, Weights: [3]float32{1, 2, 1}},
		Blur{Sigma: 1.5},
		Sharpen{Amount: 1, Sigma: 1, Threshold: 0.01},
		Noise{Type: Gaussian, Amount: 0.3, Seed: 7},
		Invert{},
	}
}
