package imgedit

import (
	"context"
	"image"
	"testing"

	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

func near(a, b, tol float32) bool {
	d := a - b
	return d <= tol && d >= -tol
}

func nearRGBA(a, b color.RGBA, tol float32) bool {
	return near(a.R, b.R, tol) && near(a.G, b.G, tol) && near(a.B, b.B, tol) && near(a.A, b.A, tol)
}

// gradient fills a buffer with distinct colors.
func gradient(w, h int) *pixel.Buffer {
	b := pixel.MustNew(w, h, color.Transparent)
	for y := range h {
		for x := range w {
			fx := float32(x) / float32(max(w-1, 1))
			fy := float32(y) / float32(max(h-1, 1))
			_ = b.Set(x, y, color.RGBA{R: fx, G: fy, B: 1 - fx*fy, A: 1 - 0.25*fy})
		}
	}
	return b
}

func newDoc(t *testing.T, w, h int, opts ...Option) *Document {
	t.Helper()
	d, err := New(w, h, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d): %v", w, h, err)
	}
	return d
}

func mustExec(t *testing.T, d *Document, cmds ...Command) {
	t.Helper()
	for _, c := range cmds {
		if err := d.Execute(c); err != nil {
			t.Fatalf("Execute(%s): %v", c.Description(), err)
		}
	}
}

func mustComposite(t *testing.T, d *Document) *pixel.Buffer {
	t.Helper()
	out, err := d.Composite(context.Background())
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	return out
}

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

// fixture returns a 6×4 document with a gradient base layer and a
// half-transparent red layer carrying a selection-restricted adjustment.
// Its history is empty.
func fixture(t *testing.T, opts ...Option) *Document {
	t.Helper()
	d := newDoc(t, 6, 4, opts...)
	mustExec(t, d,
		&AddLayer{Name: "base", Pixels: gradient(6, 4)},
		&AddLayer{Name: "top", Fill: color.RGBA{R: 1, A: 0.5}},
		&AddAdjustment{Index: 1, Adjustment: adjust.Brightness{Offset: -0.25},
			Selection: selection.Rect(6, 4, image.Rect(1, 1, 4, 3))},
	)
	d.ClearHistory()
	return d
}

type layerState struct {
	ID      LayerID
	Name    string
	Mode    BlendMode
	Opacity float32
	Visible bool
	Locked  bool
	Pix     []float32
	Stack   []string
	Masks   [][]float32
	HasMask bool
	Mask    []float32
}

type docState struct {
	Width, Height int
	Background    color.RGBA
	Selection     []float32
	Layers        []layerState
	Composite     []float32
}

// snapshot captures everything observable about d, including its
// composite.
func snapshot(t *testing.T, d *Document) docState {
	t.Helper()
	s := docState{
		Width:      d.Width(),
		Height:     d.Height(),
		Background: d.Background(),
		Selection:  d.Selection().Mask(),
		Composite:  mustComposite(t, d).Pix(),
	}
	for _, l := range d.Layers() {
		ls := layerState{
			ID:      l.ID(),
			Name:    l.Name(),
			Mode:    l.BlendMode(),
			Opacity: l.Opacity(),
			Visible: l.Visible(),
			Locked:  l.Locked(),
			Pix:     append([]float32(nil), l.Pixels().Pix()...),
		}
		if m := l.Mask(); m != nil {
			ls.HasMask, ls.Mask = true, m.Mask()
		}
		for _, e := range l.Adjustments() {
			ls.Stack = append(ls.Stack, e.Adjustment.Kind())
			var mask []float32
			if e.Selection != nil {
				mask = e.Selection.Mask()
			}
			ls.Masks = append(ls.Masks, mask)
		}
		s.Layers = append(s.Layers, ls)
	}
	return s
}
