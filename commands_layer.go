package imgedit

import (
	"fmt"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
)

// InsertLayer inserts a new layer at Index, so that it ends up at that
// position in the stack.
type InsertLayer struct {
	executed

	Index int
	Name  string

	// Pixels is copied into the layer. When nil the layer is filled with
	// Fill. Pixels must match the canvas size.
	Pixels *pixel.Buffer
	Fill   color.RGBA

	layer *Layer
}

func (c *InsertLayer) Description() string { return "Insert Layer" }

// Layer returns the created layer, or nil before the command is executed.
func (c *InsertLayer) Layer() *Layer { return c.layer }

func (c *InsertLayer) apply(d *Document) error {
	if c.Index < 0 || c.Index > d.Len() {
		return d.fail(fmt.Errorf("%w: insert at %d into %d layers", ErrLayerIndex, c.Index, d.Len()))
	}
	if c.layer == nil {
		var px *pixel.Buffer
		if c.Pixels != nil {
			if err := d.checkPixels(c.Pixels); err != nil {
				return err
			}
			px = c.Pixels.Clone()
		} else {
			var err error
			if px, err = pixel.New(d.width, d.height, c.Fill); err != nil {
				return err
			}
		}
		c.layer = newLayer(d.newID(), c.Name, px)
	}
	d.insertLayer(c.Index, c.layer)
	return nil
}

func (c *InsertLayer) revert(d *Document) error {
	d.removeLayer(c.Index)
	return nil
}

// AddLayer adds a new layer on top of the stack.
type AddLayer struct {
	executed

	Name   string
	Pixels *pixel.Buffer
	Fill   color.RGBA

	insert *InsertLayer
}

func (c *AddLayer) Description() string { return "Add Layer" }

// Layer returns the created layer, or nil before the command is executed.
func (c *AddLayer) Layer() *Layer {
	if c.insert == nil {
		return nil
	}
	return c.insert.layer
}

func (c *AddLayer) apply(d *Document) error {
	if c.insert == nil {
		c.insert = &InsertLayer{Index: d.Len(), Name: c.Name, Pixels: c.Pixels, Fill: c.Fill}
	}
	if err := c.insert.apply(d); err != nil {
		c.insert = nil
		return err
	}
	return nil
}

func (c *AddLayer) revert(d *Document) error { return c.insert.revert(d) }

// RemoveLayer deletes the layer at Index. Layers above it move down.
type RemoveLayer struct {
	executed

	Index int

	removed *Layer
}

func (c *RemoveLayer) Description() string { return "Delete Layer" }

func (c *RemoveLayer) apply(d *Document) error {
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	c.removed = d.removeLayer(c.Index)
	return nil
}

func (c *RemoveLayer) revert(d *Document) error {
	d.insertLayer(c.Index, c.removed)
	return nil
}

// MoveLayer moves the layer at From so that it ends up at index To.
type MoveLayer struct {
	executed

	From, To int
}

func (c *MoveLayer) Description() string { return "Move Layer" }

func (c *MoveLayer) apply(d *Document) error {
	if err := d.checkIndex(c.From); err != nil {
		return err
	}
	if err := d.checkIndex(c.To); err != nil {
		return err
	}
	d.moveLayer(c.From, c.To)
	return nil
}

func (c *MoveLayer) revert(d *Document) error {
	d.moveLayer(c.To, c.From)
	return nil
}

// DuplicateLayer inserts a copy of the layer at Index directly above it.
// The copy is named after the original with a " copy" suffix.
type DuplicateLayer struct {
	executed

	Index int

	dup *Layer
}

func (c *DuplicateLayer) Description() string { return "Duplicate Layer" }

// Layer returns the copy, or nil before the command is executed.
func (c *DuplicateLayer) Layer() *Layer { return c.dup }

func (c *DuplicateLayer) apply(d *Document) error {
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	if c.dup == nil {
		src := d.layers[c.Index]
		c.dup = src.duplicate(d.newID(), src.name+" copy")
	}
	d.insertLayer(c.Index+1, c.dup)
	return nil
}

func (c *DuplicateLayer) revert(d *Document) error {
	d.removeLayer(c.Index + 1)
	return nil
}

// RenameLayer changes a layer's name. Names are stored in Unicode NFC.
type RenameLayer struct {
	executed

	Index int
	Name  string

	old string
}

func (c *RenameLayer) Description() string { return "Rename Layer" }

func (c *RenameLayer) apply(d *Document) error {
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	l := d.layers[c.Index]
	c.old, l.name = l.name, normalizeName(c.Name)
	return nil
}

func (c *RenameLayer) revert(d *Document) error {
	d.layers[c.Index].name = c.old
	return nil
}

// SetVisibility shows or hides a layer.
type SetVisibility struct {
	executed

	Index   int
	Visible bool

	old bool
}

func (c *SetVisibility) Description() string {
	if c.Visible {
		return "Show Layer"
	}
	return "Hide Layer"
}

func (c *SetVisibility) apply(d *Document) error {
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	l := d.layers[c.Index]
	c.old, l.visible = l.visible, c.Visible
	return nil
}

func (c *SetVisibility) revert(d *Document) error {
	d.layers[c.Index].visible = c.old
	return nil
}

// SetOpacity changes a layer's opacity. Consecutive opacity changes on the
// same layer merge into one history entry when merging is enabled.
type SetOpacity struct {
	executed

	Index   int
	Opacity float32

	old float32
}

func (c *SetOpacity) Description() string { return "Layer Opacity" }

func (c *SetOpacity) apply(d *Document) error {
	if !(c.Opacity >= 0 && c.Opacity <= 1) {
		return fmt.Errorf("%w: opacity %v not in [0,1]", ErrInvalidParameters, c.Opacity)
	}
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	l := d.layers[c.Index]
	c.old, l.opacity = l.opacity, c.Opacity
	return nil
}

func (c *SetOpacity) revert(d *Document) error {
	d.layers[c.Index].opacity = c.old
	return nil
}

func (c *SetOpacity) merge(next Command) bool {
	n, ok := next.(*SetOpacity)
	if !ok || n.Index != c.Index {
		return false
	}
	c.Opacity = n.Opacity
	return true
}

// SetBlendMode changes a layer's blend mode.
type SetBlendMode struct {
	executed

	Index int
	Mode  BlendMode

	old BlendMode
}

func (c *SetBlendMode) Description() string { return "Blend Mode" }

func (c *SetBlendMode) apply(d *Document) error {
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: blend mode %v", ErrInvalidParameters, c.Mode)
	}
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	l := d.layers[c.Index]
	c.old, l.mode = l.mode, c.Mode
	return nil
}

func (c *SetBlendMode) revert(d *Document) error {
	d.layers[c.Index].mode = c.old
	return nil
}

// SetLocked locks or unlocks a layer. Locked layers reject edits to their
// pixels and adjustment stack.
type SetLocked struct {
	executed

	Index  int
	Locked bool

	old bool
}

func (c *SetLocked) Description() string {
	if c.Locked {
		return "Lock Layer"
	}
	return "Unlock Layer"
}

func (c *SetLocked) apply(d *Document) error {
	if err := d.checkIndex(c.Index); err != nil {
		return err
	}
	l := d.layers[c.Index]
	c.old, l.locked = l.locked, c.Locked
	return nil
}

func (c *SetLocked) revert(d *Document) error {
	d.layers[c.Index].locked = c.old
	return nil
}

// editable returns the layer at i if its content may be edited.
func (d *Document) editable(i int) (*Layer, error) {
	if err := d.checkIndex(i); err != nil {
		return nil, err
	}
	l := d.layers[i]
	if l.locked {
		return nil, fmt.Errorf("%w: %q", ErrLayerLocked, l.name)
	}
	return l, nil
}
