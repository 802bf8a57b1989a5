package imgedit

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

func TestCompositeHalfRed(t *testing.T) {
	base := color.RGBA{R: 0, G: 0.2, B: 1, A: 1}
	d := newDoc(t, 4, 3)
	mustExec(t, d,
		&AddLayer{Name: "base", Fill: base},
		&AddLayer{Name: "red", Fill: color.Red},
		&SetOpacity{Index: 1, Opacity: 0.5},
	)
	out := mustComposite(t, d)
	want := color.RGBA{R: 0.5, G: 0.1, B: 0.5, A: 1}
	everyPixel(t, out, func(_, _ int, c color.RGBA) bool { return nearRGBA(c, want, 1e-6) })
}

func TestCompositeEmpty(t *testing.T) {
	d := newDoc(t, 2, 2, WithBackground(color.Green))
	everyPixel(t, mustComposite(t, d), func(_, _ int, c color.RGBA) bool { return c == color.Green })
}

func TestCompositeSkipsHiddenLayers(t *testing.T) {
	d := newDoc(t, 2, 2)
	mustExec(t, d,
		&AddLayer{Fill: color.Blue},
		&AddLayer{Fill: color.Red},
		&SetVisibility{Index: 1, Visible: false},
	)
	everyPixel(t, mustComposite(t, d), func(_, _ int, c color.RGBA) bool { return nearRGBA(c, color.Blue, 1e-6) })
}

func TestCompositeBlendModes(t *testing.T) {
	gray := color.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	tests := []struct {
		mode BlendMode
		want float32
	}{
		{BlendNormal, 0.5},
		{BlendMultiply, 0.25},
		{BlendScreen, 0.75},
		{BlendDifference, 0},
		{BlendLighten, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			d := newDoc(t, 2, 2)
			mustExec(t, d,
				&AddLayer{Fill: gray},
				&AddLayer{Fill: gray},
				&SetBlendMode{Index: 1, Mode: tt.mode},
			)
			c := mustComposite(t, d).RGBAAt(1, 1)
			if !near(c.R, tt.want, 1e-5) || c.A != 1 {
				t.Errorf("got %+v, want %v", c, tt.want)
			}
		})
	}
}

func TestCompositeLinearBlendSpace(t *testing.T) {
	setup := func(opts ...Option) *Document {
		d := newDoc(t, 2, 2, opts...)
		mustExec(t, d,
			&AddLayer{Fill: color.Black},
			&AddLayer{Fill: color.White},
			&SetOpacity{Index: 1, Opacity: 0.5},
		)
		return d
	}
	g := mustComposite(t, setup()).RGBAAt(0, 0)
	l := mustComposite(t, setup(WithBlendSpace(BlendLinear))).RGBAAt(0, 0)
	if !near(g.R, 0.5, 1e-6) {
		t.Errorf("gamma blend = %v, want 0.5", g.R)
	}
	// Half linear light encodes to about 0.735 in sRGB.
	if !near(l.R, 0.7354, 2e-3) {
		t.Errorf("linear blend = %v, want ~0.735", l.R)
	}
}

func TestCompositeDeterministic(t *testing.T) {
	d := newDoc(t, 300, 200)
	mustExec(t, d,
		&AddLayer{Pixels: gradient(300, 200)},
		&AddAdjustment{Index: 0, Adjustment: adjust.Noise{Amount: 0.3, Seed: 11}},
		&AddLayer{Pixels: gradient(300, 200)},
		&SetBlendMode{Index: 1, Mode: BlendSoftLight},
		&AddAdjustment{Index: 1, Adjustment: adjust.Blur{Sigma: 2},
			Selection: selection.Ellipse(300, 200, image.Rect(20, 20, 250, 180))},
	)
	a := mustComposite(t, d)
	for range 3 {
		if b := mustComposite(t, d); !b.Equal(a) {
			t.Fatal("composite differs between runs")
		}
	}
	if a == mustComposite(t, d) {
		t.Error("Composite returned a shared buffer")
	}
}

func TestCompositeCanceled(t *testing.T) {
	d := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Composite(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Composite = %v, want context.Canceled", err)
	}
	// Cancellation leaves no poisoned cache behind.
	if _, err := d.Composite(t.Context()); err != nil {
		t.Errorf("Composite after cancel: %v", err)
	}
}

func TestCompositeOutputProfile(t *testing.T) {
	build := func(opts ...Option) *Document {
		d := newDoc(t, 3, 3, opts...)
		mustExec(t, d, &AddLayer{Pixels: gradient(3, 3)})
		return d
	}
	want := mustComposite(t, build())

	t.Run("same profile", func(t *testing.T) {
		got := mustComposite(t, build(WithOutputProfile(color.ProfileSRGB, color.Perceptual)))
		if !got.Equal(want) {
			t.Error("converting to the working profile changed pixels")
		}
	})
	t.Run("missing profile", func(t *testing.T) {
		got := mustComposite(t, build(WithOutputProfile("no-such-profile", color.Perceptual)))
		if !got.Equal(want) {
			t.Error("missing output profile did not fall back to identity")
		}
	})
	t.Run("sRGB v2", func(t *testing.T) {
		got := mustComposite(t, build(WithOutputProfile(color.ProfileSRGBv2, color.RelativeColorimetric)))
		everyPixel(t, got, func(x, y int, c color.RGBA) bool {
			w := want.RGBAAt(x, y)
			return nearRGBA(c, w, 3e-2) && c.A == w.A
		})
	})
}

func TestCompositePreview(t *testing.T) {
	d := newDoc(t, 64, 32, WithPreviewBudget(64*32*4))
	mustExec(t, d,
		&AddLayer{Pixels: gradient(64, 32)},
		&AddAdjustment{Index: 0, Adjustment: adjust.Brightness{Offset: 0.1}},
	)

	out, scale, err := d.CompositePreview(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if scale != 1 || !out.Equal(mustComposite(t, d)) {
		t.Errorf("cheap document previewed at scale %v", scale)
	}

	mustExec(t, d, &AddAdjustment{Index: 0, Adjustment: adjust.Blur{Sigma: 4},
		Selection: selection.Rect(64, 32, image.Rect(0, 0, 32, 32))})
	out, scale, err = d.CompositePreview(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if scale >= 1 || scale <= 0 {
		t.Fatalf("scale = %v, want reduced", scale)
	}
	if out.Width() >= 64 || out.Height() >= 32 || out.Width() < 1 {
		t.Errorf("preview size %dx%d", out.Width(), out.Height())
	}
	if d.Width() != 64 {
		t.Error("preview changed the document")
	}
}

func TestCompositePreviewMatchesFull(t *testing.T) {
	d := newDoc(t, 64, 32, WithPreviewBudget(64*32))
	mustExec(t, d,
		&AddLayer{Pixels: pixel.MustNew(64, 32, color.Red)},
		&AddAdjustment{Index: 0, Adjustment: adjust.Blur{Sigma: 2}},
	)

	prev, scale, err := d.CompositePreview(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if scale >= 1 {
		t.Fatalf("scale = %v, want reduced", scale)
	}
	full, err := mustComposite(t, d).Resample(prev.Width(), prev.Height(), pixel.Bilinear)
	if err != nil {
		t.Fatal(err)
	}
	for y := 1; y < prev.Height()-1; y++ {
		for x := 1; x < prev.Width()-1; x++ {
			if got, want := prev.RGBAAt(x, y), full.RGBAAt(x, y); !nearRGBA(got, want, 2e-2) {
				t.Fatalf("preview (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if c := prev.RGBAAt(prev.Width()/2, prev.Height()/2); c.R < 0.98 || c.A < 0.98 {
		t.Errorf("preview center = %v, want red", c)
	}
}

func TestCompositePreviewHonorsMask(t *testing.T) {
	d := newDoc(t, 64, 32, WithPreviewBudget(64*32))
	mustExec(t, d,
		&AddLayer{Pixels: pixel.MustNew(64, 32, color.Red)},
		&AddAdjustment{Index: 0, Adjustment: adjust.Blur{Sigma: 2}},
		&AddMask{Index: 0, Mask: selection.None(64, 32)},
	)
	prev, scale, err := d.CompositePreview(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if scale >= 1 {
		t.Fatalf("scale = %v, want reduced", scale)
	}
	everyPixel(t, prev, func(_, _ int, c color.RGBA) bool { return c.A == 0 })
}

func TestLayerRenderInvisible(t *testing.T) {
	d := fixture(t)
	mustExec(t, d, &SetVisibility{Index: 1, Visible: false})
	l, _ := d.Layer(1)
	canvas := gradient(6, 4)
	before := canvas.Clone()
	if err := l.Render(t.Context(), canvas, BlendGamma); err != nil {
		t.Fatal(err)
	}
	if !canvas.Equal(before) {
		t.Error("invisible layer rendered")
	}
	if err := l.Render(t.Context(), gradient(2, 2), BlendGamma); err != nil {
		t.Error("invisible layer checked canvas size")
	}
	mustExec(t, d, &SetVisibility{Index: 1, Visible: true})
	if err := l.Render(t.Context(), gradient(2, 2), BlendGamma); err == nil {
		t.Error("mismatched canvas accepted")
	}
}
