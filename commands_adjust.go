package imgedit

import (
	"fmt"
	"slices"

	"github.com/gogpu/imgedit/adjust"
	"github.com/gogpu/imgedit/selection"
)

// AddAdjustment appends an adjustment to the top of a layer's stack.
//
// The adjustment is restricted to Selection, or to the document selection
// at the time of execution when Selection is nil.
type AddAdjustment struct {
	executed

	Index      int
	Adjustment adjust.Adjustment
	Selection  *selection.Selection

	old []StackEntry
	add StackEntry
	set bool
}

func (c *AddAdjustment) Description() string {
	if c.Adjustment == nil {
		return "Add Adjustment"
	}
	return "Add " + c.Adjustment.Kind()
}

func (c *AddAdjustment) apply(d *Document) error {
	if c.Adjustment == nil {
		return fmt.Errorf("%w: nil adjustment", ErrInvalidParameters)
	}
	if err := c.Adjustment.Validate(); err != nil {
		return err
	}
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if !c.set {
		sel := c.Selection
		if sel == nil {
			sel = d.sel
		}
		if err := d.checkSelection(sel); err != nil {
			return err
		}
		if sel.IsAll() {
			sel = nil
		}
		c.add, c.set = StackEntry{Adjustment: c.Adjustment, Selection: sel}, true
	}
	c.old = l.stack
	l.setStack(append(slices.Clip(l.stack), c.add))
	return nil
}

func (c *AddAdjustment) revert(d *Document) error {
	d.layers[c.Index].setStack(c.old)
	return nil
}

// RemoveAdjustment deletes the adjustment at position At in a layer's
// stack.
type RemoveAdjustment struct {
	executed

	Index int
	At    int

	old []StackEntry
}

func (c *RemoveAdjustment) Description() string { return "Delete Adjustment" }

func (c *RemoveAdjustment) apply(d *Document) error {
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.At < 0 || c.At >= len(l.stack) {
		return d.fail(fmt.Errorf("%w: %d not in [0,%d)", ErrAdjustmentIndex, c.At, len(l.stack)))
	}
	c.old = l.stack
	l.setStack(slices.Delete(slices.Clone(l.stack), c.At, c.At+1))
	return nil
}

func (c *RemoveAdjustment) revert(d *Document) error {
	d.layers[c.Index].setStack(c.old)
	return nil
}

// ReplaceAdjustment swaps the adjustment at position At for another,
// keeping its selection. It is what a UI issues while a parameter slider
// is dragged, so consecutive replacements of the same entry merge.
type ReplaceAdjustment struct {
	executed

	Index      int
	At         int
	Adjustment adjust.Adjustment

	old []StackEntry
}

func (c *ReplaceAdjustment) Description() string { return "Edit Adjustment" }

func (c *ReplaceAdjustment) apply(d *Document) error {
	if c.Adjustment == nil {
		return fmt.Errorf("%w: nil adjustment", ErrInvalidParameters)
	}
	if err := c.Adjustment.Validate(); err != nil {
		return err
	}
	l, err := d.editable(c.Index)
	if err != nil {
		return err
	}
	if c.At < 0 || c.At >= len(l.stack) {
		return d.fail(fmt.Errorf("%w: %d not in [0,%d)", ErrAdjustmentIndex, c.At, len(l.stack)))
	}
	c.old = l.stack
	stack := slices.Clone(l.stack)
	stack[c.At].Adjustment = c.Adjustment
	l.setStack(stack)
	return nil
}

func (c *ReplaceAdjustment) revert(d *Document) error {
	d.layers[c.Index].setStack(c.old)
	return nil
}

func (c *ReplaceAdjustment) merge(next Command) bool {
	n, ok := next.(*ReplaceAdjustment)
	if !ok || n.Index != c.Index || n.At != c.At {
		return false
	}
	c.Adjustment = n.Adjustment
	return true
}
