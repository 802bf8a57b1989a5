package imgedit

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/internal/blend"
	"github.com/gogpu/imgedit/internal/parallel"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// LayerID identifies a layer within its document. IDs are never reused by
// a document, so they stay valid across reordering, undo and redo.
type LayerID uint64

// StackEntry is one adjustment in a layer's stack together with the
// selection that restricts it. A nil Selection covers the whole canvas.
type StackEntry struct {
	Adjustment adjust.Adjustment
	Selection  *selection.Selection
}

// Layer is a named raster with an adjustment stack, composited with its
// blend mode and opacity. An optional mask scales the layer's alpha per
// pixel: coverage 1 reveals, 0 hides.
//
// Layers are read through their accessors and changed only by executing
// commands on their Document. Buffers returned by Pixels and Adjusted are
// shared and must not be modified.
type Layer struct {
	id      LayerID
	name    string
	pixels  *pixel.Buffer
	stack   []StackEntry
	mask    *selection.Selection
	mode    BlendMode
	opacity float32
	visible bool
	locked  bool

	// version increases whenever pixels, stack or mask change.
	version uint64

	mu       sync.Mutex
	cached   *pixel.Buffer
	cachedAt uint64
	masked   *pixel.Buffer
	maskedAt uint64
}

func newLayer(id LayerID, name string, pixels *pixel.Buffer) *Layer {
	return &Layer{
		id:      id,
		name:    normalizeName(name),
		pixels:  pixels,
		mode:    BlendNormal,
		opacity: 1,
		visible: true,
	}
}

// normalizeName puts a layer name in Unicode NFC so that names typed on
// different platforms compare and serialize identically.
func normalizeName(s string) string {
	return norm.NFC.String(s)
}

// ID returns the layer's document-unique identifier.
func (l *Layer) ID() LayerID { return l.id }

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Pixels returns the layer's own pixels, before adjustments.
func (l *Layer) Pixels() *pixel.Buffer { return l.pixels }

// Adjustments returns a copy of the adjustment stack, bottom first.
func (l *Layer) Adjustments() []StackEntry { return slices.Clone(l.stack) }

// Mask returns the layer mask, or nil when the layer has none.
func (l *Layer) Mask() *selection.Selection { return l.mask }

// BlendMode returns the layer's blend mode.
func (l *Layer) BlendMode() BlendMode { return l.mode }

// Opacity returns the layer opacity in [0,1].
func (l *Layer) Opacity() float32 { return l.opacity }

// Visible reports whether the layer takes part in compositing.
func (l *Layer) Visible() bool { return l.visible }

// Locked reports whether the layer's pixels and adjustments are protected
// from edits.
func (l *Layer) Locked() bool { return l.locked }

// Version changes whenever the layer's pixels, adjustment stack or mask
// change.
func (l *Layer) Version() uint64 { return l.version }

func (l *Layer) setPixels(b *pixel.Buffer) {
	l.pixels = b
	l.version++
}

func (l *Layer) setStack(s []StackEntry) {
	l.stack = s
	l.version++
}

func (l *Layer) setMask(m *selection.Selection) {
	l.mask = m
	l.version++
}

// duplicate returns a copy of l with a new ID. Pixels are copied; stack
// entries and the mask are immutable and shared.
func (l *Layer) duplicate(id LayerID, name string) *Layer {
	d := newLayer(id, name, l.pixels.Clone())
	d.stack = slices.Clone(l.stack)
	d.mask = l.mask
	d.mode, d.opacity, d.visible, d.locked = l.mode, l.opacity, l.visible, l.locked
	return d
}

// Adjusted returns the layer's pixels with the adjustment stack applied in
// order, each adjustment's output feeding the next. The result is cached
// until the layer's version changes. With an empty stack it is Pixels().
//
// Adjusted is safe for concurrent use.
func (l *Layer) Adjusted(ctx context.Context) (*pixel.Buffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.adjusted(ctx)
}

func (l *Layer) adjusted(ctx context.Context) (*pixel.Buffer, error) {
	if l.cached != nil && l.cachedAt == l.version {
		return l.cached, nil
	}
	out, err := applyStack(ctx, l.pixels, l.stack, 1)
	if err != nil {
		return nil, err
	}
	l.cached, l.cachedAt = out, l.version
	return out, nil
}

// Masked returns Adjusted with the layer mask applied to alpha. Without a
// mask it is Adjusted. The result is cached like Adjusted's.
func (l *Layer) Masked(ctx context.Context) (*pixel.Buffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	src, err := l.adjusted(ctx)
	if err != nil || l.mask == nil || l.mask.IsAll() {
		return src, err
	}
	if l.masked != nil && l.maskedAt == l.version {
		return l.masked, nil
	}
	out := src.Clone()
	if err := l.mask.Attenuate(ctx, out); err != nil {
		return nil, err
	}
	l.masked, l.maskedAt = out, l.version
	return out, nil
}

// applyStack runs stack over src. A scale below 1 means src is a
// downsampled preview: selections are resized to match and neighbourhood
// filters are scaled.
func applyStack(ctx context.Context, src *pixel.Buffer, stack []StackEntry, scale float64) (*pixel.Buffer, error) {
	out := src
	for i, e := range stack {
		a, sel := e.Adjustment, e.Selection
		if scale != 1 {
			if s, ok := a.(adjust.Scaler); ok {
				a = s.Scaled(scale)
			}
			if sel != nil && !sel.Fits(out.Width(), out.Height()) {
				var err error
				if sel, err = sel.Resize(out.Width(), out.Height()); err != nil {
					return nil, err
				}
			}
		}
		next, err := a.Apply(ctx, out, sel)
		if err != nil {
			return nil, fmt.Errorf("adjustment %d (%s): %w", i, a.Kind(), err)
		}
		out = next
	}
	return out, nil
}

// Render blends the adjusted, masked layer into canvas in place, using
// the layer's blend mode and opacity. Invisible layers leave canvas
// unchanged. canvas must have the layer's dimensions.
func (l *Layer) Render(ctx context.Context, canvas *pixel.Buffer, space BlendSpace) error {
	if !l.visible {
		return nil
	}
	src, err := l.Masked(ctx)
	if err != nil {
		return err
	}
	return compositeOnto(ctx, canvas, src, l.mode, space, l.opacity)
}

func compositeOnto(ctx context.Context, dst, src *pixel.Buffer, mode BlendMode, space BlendSpace, opacity float32) error {
	if dst.Width() != src.Width() || dst.Height() != src.Height() {
		return fmt.Errorf("%w: layer %dx%d on canvas %dx%d", pixel.ErrInvalidDimensions,
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}
	if opacity <= 0 {
		return ctx.Err()
	}
	return parallel.Rows(ctx, dst.Width(), dst.Height(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			blend.Row(mode, space, dst.Row(y), src.Row(y), opacity)
		}
	})
}
