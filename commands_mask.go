package imgedit

import (
	"fmt"

	"github.com/gogpu/imgedit/selection"
)

// AddMask gives a layer a mask, replacing any mask it already has.
//
// The mask is Mask, or the document selection at the time of execution
// when Mask is nil. With nothing selected that reveals the whole layer.
type AddMask struct {
	executed

	Index int
	Mask  *selection.Selection

	old  *selection.Selection
	mask *selection.Selection
}

func (c *AddMask) Description() string { return "Add Layer Mask" }

func (c *AddMask) apply(d *Document) error {
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.mask == nil {
		m := c.Mask
		if m == nil {
			m = d.sel
		}
		if err := d.checkSelection(m); err != nil {
			return err
		}
		c.mask = m
	}
	c.old = l.mask
	l.setMask(c.mask)
	return nil
}

func (c *AddMask) revert(d *Document) error {
	d.layers[c.Index].setMask(c.old)
	return nil
}

// RemoveMask deletes a layer's mask, revealing the whole layer.
type RemoveMask struct {
	executed

	Index int

	old *selection.Selection
}

func (c *RemoveMask) Description() string { return "Delete Layer Mask" }

func (c *RemoveMask) apply(d *Document) error {
	l, err := d.maskedLayer(c.Index)
	if err != nil {
		return err
	}
	c.old = l.mask
	l.setMask(nil)
	return nil
}

func (c *RemoveMask) revert(d *Document) error {
	d.layers[c.Index].setMask(c.old)
	return nil
}

// InvertMask swaps the revealed and hidden parts of a layer's mask.
type InvertMask struct {
	executed

	Index int

	old *selection.Selection
}

func (c *InvertMask) Description() string { return "Invert Layer Mask" }

func (c *InvertMask) apply(d *Document) error {
	l, err := d.maskedLayer(c.Index)
	if err != nil {
		return err
	}
	c.old = l.mask
	l.setMask(l.mask.Invert())
	return nil
}

func (c *InvertMask) revert(d *Document) error {
	d.layers[c.Index].setMask(c.old)
	return nil
}

// maskedLayer returns the editable layer at i, which must have a mask.
func (d *Document) maskedLayer(i int) (*Layer, error) {
	l, err := d.editable(i)
	if err != nil {
		return nil, err
	}
	if l.mask == nil {
		return nil, fmt.Errorf("%w: layer %q has no mask", ErrInvalidParameters, l.name)
	}
	return l, nil
}
