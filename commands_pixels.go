package imgedit

import (
	"context"
	"fmt"

	"github.com/gogpu/imgedit/color"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Commands in this file replace layer pixels. Buffers are never modified
// in place: each command keeps the buffers it swapped out, so undo and
// redo restore them exactly.

// FlattenLayer bakes a layer's adjustment stack into its pixels and
// empties the stack.
type FlattenLayer struct {
	executed

	Index int

	oldPixels, newPixels *pixel.Buffer
	oldStack             []StackEntry
}

func (c *FlattenLayer) Description() string { return "Flatten Layer" }

func (c *FlattenLayer) apply(d *Document) error {
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.newPixels == nil {
		if c.newPixels, err = l.Adjusted(context.Background()); err != nil {
			return err
		}
	}
	c.oldPixels, c.oldStack = l.pixels, l.stack
	l.setPixels(c.newPixels)
	l.setStack(nil)
	return nil
}

func (c *FlattenLayer) revert(d *Document) error {
	l := d.layers[c.Index]
	l.setPixels(c.oldPixels)
	l.setStack(c.oldStack)
	return nil
}

// FlattenImage replaces all layers with a single layer holding the
// composite of the visible ones over the background. The background is
// baked into that layer and reset to transparent.
type FlattenImage struct {
	executed

	Name string

	old   []*Layer
	oldBG color.RGBA
	flat  *Layer
}

func (c *FlattenImage) Description() string { return "Flatten Image" }

func (c *FlattenImage) apply(d *Document) error {
	if d.Len() == 0 {
		return fmt.Errorf("%w: no layers to flatten", ErrInvalidParameters)
	}
	if c.flat == nil {
		px, err := d.compose(context.Background(), d.layers)
		if err != nil {
			return err
		}
		name := c.Name
		if name == "" {
			name = "Background"
		}
		c.flat = newLayer(d.newID(), name, px)
	}
	c.old, c.oldBG = d.layers, d.opts.background
	d.layers = []*Layer{c.flat}
	d.opts.background = color.Transparent
	return nil
}

func (c *FlattenImage) revert(d *Document) error {
	d.layers = c.old
	d.opts.background = c.oldBG
	return nil
}

// ResizeCanvas changes the canvas size without scaling content. Anchor
// decides which part of the old canvas stays fixed. Uncovered areas are
// transparent and cropped content is discarded.
//
// Layer contents, stack selections, layer masks and the document
// selection are all reframed. Locked layers are reframed too.
type ResizeCanvas struct {
	executed

	Width, Height int
	Anchor        pixel.Anchor

	oldW, oldH int
	oldSel     *selection.Selection
	oldPixels  []*pixel.Buffer
	oldStacks  [][]StackEntry
	oldMasks   []*selection.Selection

	newSel    *selection.Selection
	newPixels []*pixel.Buffer
	newStacks [][]StackEntry
	newMasks  []*selection.Selection
}

func (c *ResizeCanvas) Description() string { return "Canvas Size" }

func (c *ResizeCanvas) apply(d *Document) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidParameters, c.Width, c.Height)
	}
	if c.Anchor > pixel.BottomRight {
		return fmt.Errorf("%w: anchor %v", ErrInvalidParameters, c.Anchor)
	}
	if c.newPixels == nil {
		if err := c.prepare(d); err != nil {
			return err
		}
	}
	c.oldW, c.oldH, c.oldSel = d.width, d.height, d.sel
	c.oldPixels = make([]*pixel.Buffer, len(d.layers))
	c.oldStacks = make([][]StackEntry, len(d.layers))
	c.oldMasks = make([]*selection.Selection, len(d.layers))
	for i, l := range d.layers {
		c.oldPixels[i], c.oldStacks[i], c.oldMasks[i] = l.pixels, l.stack, l.mask
		l.setPixels(c.newPixels[i])
		l.setStack(c.newStacks[i])
		l.setMask(c.newMasks[i])
	}
	d.width, d.height, d.sel = c.Width, c.Height, c.newSel
	return nil
}

// prepare computes the reframed state without touching d.
func (c *ResizeCanvas) prepare(d *Document) error {
	off := c.Anchor.Offset(d.width, d.height, c.Width, c.Height)
	pixels := make([]*pixel.Buffer, len(d.layers))
	stacks := make([][]StackEntry, len(d.layers))
	masks := make([]*selection.Selection, len(d.layers))
	for i, l := range d.layers {
		px, err := l.pixels.Reframe(c.Width, c.Height, off, color.Transparent)
		if err != nil {
			return err
		}
		pixels[i] = px
		if l.mask != nil {
			masks[i] = l.mask.Reframe(c.Width, c.Height, off)
		}
		if len(l.stack) == 0 {
			continue
		}
		stack := make([]StackEntry, len(l.stack))
		for j, e := range l.stack {
			stack[j] = e
			if e.Selection != nil {
				stack[j].Selection = e.Selection.Reframe(c.Width, c.Height, off)
			}
		}
		stacks[i] = stack
	}
	c.newPixels, c.newStacks, c.newMasks = pixels, stacks, masks
	c.newSel = d.sel.Reframe(c.Width, c.Height, off)
	return nil
}

func (c *ResizeCanvas) revert(d *Document) error {
	for i, l := range d.layers {
		l.setPixels(c.oldPixels[i])
		l.setStack(c.oldStacks[i])
		l.setMask(c.oldMasks[i])
	}
	d.width, d.height, d.sel = c.oldW, c.oldH, c.oldSel
	return nil
}

// TransformLayer applies an affine transform to a layer's pixels. Matrix
// maps layer coordinates to canvas coordinates; the canvas size is kept.
type TransformLayer struct {
	executed

	Index  int
	Matrix pixel.Matrix
	Interp pixel.Interpolation

	old, after *pixel.Buffer
}

func (c *TransformLayer) Description() string { return "Transform Layer" }

func (c *TransformLayer) apply(d *Document) error {
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.after == nil {
		if c.after, err = l.pixels.Transform(c.Matrix, d.width, d.height, c.Interp); err != nil {
			return err
		}
	}
	c.old = l.pixels
	l.setPixels(c.after)
	return nil
}

func (c *TransformLayer) revert(d *Document) error {
	d.layers[c.Index].setPixels(c.old)
	return nil
}

// FillLayer paints Color over a layer through the document selection.
// Partially selected pixels are mixed with the original by coverage.
type FillLayer struct {
	executed

	Index int
	Color color.RGBA

	old, after *pixel.Buffer
}

func (c *FillLayer) Description() string { return "Fill" }

func (c *FillLayer) apply(d *Document) error {
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.after == nil {
		filled, err := pixel.New(d.width, d.height, c.Color)
		if err != nil {
			return err
		}
		if err := d.sel.Mix(context.Background(), l.pixels, filled); err != nil {
			return err
		}
		c.after = filled
	}
	c.old = l.pixels
	l.setPixels(c.after)
	return nil
}

func (c *FillLayer) revert(d *Document) error {
	d.layers[c.Index].setPixels(c.old)
	return nil
}

// ReplacePixels sets a layer's pixels to a copy of Pixels, which must
// match the canvas size. It is the entry point for painting tools that
// produce a finished buffer.
type ReplacePixels struct {
	executed

	Index  int
	Pixels *pixel.Buffer

	old, after *pixel.Buffer
}

func (c *ReplacePixels) Description() string { return "Edit Pixels" }

func (c *ReplacePixels) apply(d *Document) error {
	if c.Pixels == nil {
		return fmt.Errorf("%w: nil pixels", ErrInvalidParameters)
	}
	if err := d.checkPixels(c.Pixels); err != nil {
		return err
	}
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.after == nil {
		c.after = c.Pixels.Clone()
	}
	c.old = l.pixels
	l.setPixels(c.after)
	return nil
}

func (c *ReplacePixels) revert(d *Document) error {
	d.layers[c.Index].setPixels(c.old)
	return nil
}

// FillGradient paints Gradient over a layer through the document
// selection, the way FillLayer paints a flat color.
type FillGradient struct {
	executed

	Index    int
	Gradient pixel.Gradient

	old, after *pixel.Buffer
}

func (c *FillGradient) Description() string { return "Gradient" }

func (c *FillGradient) apply(d *Document) error {
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.after == nil {
		filled, err := c.Gradient.Render(d.width, d.height)
		if err != nil {
			return err
		}
		if err := d.sel.Mix(context.Background(), l.pixels, filled); err != nil {
			return err
		}
		c.after = filled
	}
	c.old = l.pixels
	l.setPixels(c.after)
	return nil
}

func (c *FillGradient) revert(d *Document) error {
	d.layers[c.Index].setPixels(c.old)
	return nil
}
