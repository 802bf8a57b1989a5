package imgedit

import (
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Document is an ordered stack of layers on a fixed-size canvas, with a
// selection, a working color profile and an undo history.
//
// Layers are ordered bottom to top; index 0 is composited first. Every
// change goes through Execute so that it can be undone.
//
// A Document is single-writer: Execute, Undo, Redo and the other mutating
// methods must not run concurrently with each other or with reads.
// Read-only methods, including Composite, may run concurrently with each
// other.
type Document struct {
	width  int
	height int
	layers []*Layer
	sel    *selection.Selection

	opts    options
	manager *color.Manager
	history history
	dirty   bool
	nextID  LayerID
}

// New creates an empty document with a width×height canvas.
func New(width, height int, opts ...Option) (*Document, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", pixel.ErrInvalidDimensions, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	d := newDocument(width, height, o)
	Logger().Info("imgedit: document created",
		"title", o.title, "width", width, "height", height, "profile", o.profile)
	return d, nil
}

func newDocument(width, height int, o options) *Document {
	m := o.manager
	if m == nil {
		m = color.NewManager()
	}
	if _, ok := m.Profile(o.profile); !ok {
		Logger().Warn("imgedit: working profile not loaded, color transforms fall back to identity",
			"profile", o.profile)
	}
	return &Document{
		width:   width,
		height:  height,
		sel:     selection.All(width, height),
		opts:    o,
		manager: m,
		history: history{limit: o.historyLimit, merge: o.merge},
		nextID:  1,
	}
}

// Width returns the canvas width.
func (d *Document) Width() int { return d.width }

// Height returns the canvas height.
func (d *Document) Height() int { return d.height }

// Bounds returns the canvas rectangle.
func (d *Document) Bounds() image.Rectangle { return image.Rect(0, 0, d.width, d.height) }

// Title returns the document title.
func (d *Document) Title() string { return d.opts.title }

// Resolution returns the print resolution in pixels per inch.
func (d *Document) Resolution() float64 { return d.opts.resolution }

// Profile returns the name of the working color profile.
func (d *Document) Profile() string { return d.opts.profile }

// ColorManager returns the manager holding the document's profiles.
func (d *Document) ColorManager() *color.Manager { return d.manager }

// Background returns the color layers are composited onto.
func (d *Document) Background() color.RGBA { return d.opts.background }

// BlendSpace returns the space blend modes operate in.
func (d *Document) BlendSpace() BlendSpace { return d.opts.blendSpace }

// Dirty reports whether the document changed since it was created,
// decoded or marked clean.
func (d *Document) Dirty() bool { return d.dirty }

// MarkClean clears the dirty flag, typically after saving.
func (d *Document) MarkClean() { d.dirty = false }

// Len returns the number of layers.
func (d *Document) Len() int { return len(d.layers) }

// Layer returns the layer at index i.
func (d *Document) Layer(i int) (*Layer, error) {
	if err := d.checkIndex(i); err != nil {
		return nil, err
	}
	return d.layers[i], nil
}

// Layers returns the layers bottom to top. The slice is a copy.
func (d *Document) Layers() []*Layer { return slices.Clone(d.layers) }

// IndexOf returns the index of the layer with the given ID, or -1.
func (d *Document) IndexOf(id LayerID) int {
	return slices.IndexFunc(d.layers, func(l *Layer) bool { return l.id == id })
}

// Selection returns the current selection. It is never nil; a fresh
// document selects everything.
func (d *Document) Selection() *selection.Selection { return d.sel }

func (d *Document) checkIndex(i int) error {
	if i < 0 || i >= len(d.layers) {
		return d.fail(fmt.Errorf("%w: %d not in [0,%d)", ErrLayerIndex, i, len(d.layers)))
	}
	return nil
}

func (d *Document) newID() LayerID {
	id := d.nextID
	d.nextID++
	return id
}

// checkPixels verifies that b can be a layer of this document.
func (d *Document) checkPixels(b *pixel.Buffer) error {
	if b.Width() != d.width || b.Height() != d.height {
		return fmt.Errorf("%w: %dx%d pixels for %dx%d canvas",
			ErrInvalidParameters, b.Width(), b.Height(), d.width, d.height)
	}
	return nil
}

// checkSelection verifies that s fits the canvas.
func (d *Document) checkSelection(s *selection.Selection) error {
	if s != nil && !s.Fits(d.width, d.height) {
		return fmt.Errorf("%w: %dx%d selection for %dx%d canvas",
			selection.ErrDimensionMismatch, s.Width(), s.Height(), d.width, d.height)
	}
	return nil
}

// The structural mutators below keep layer indices contiguous. Index
// checks are done by the calling command.

func (d *Document) insertLayer(i int, l *Layer) {
	d.layers = slices.Insert(d.layers, i, l)
}

func (d *Document) removeLayer(i int) *Layer {
	l := d.layers[i]
	d.layers = slices.Delete(d.layers, i, i+1)
	return l
}

func (d *Document) moveLayer(from, to int) {
	l := d.removeLayer(from)
	d.insertLayer(to, l)
}
