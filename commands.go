package imgedit

import (
	"fmt"

	"github.com/gogpu/imgedit/selection"
)

// SetSelection replaces the document selection. A nil Selection selects
// the whole canvas.
type SetSelection struct {
	executed

	Selection *selection.Selection

	old *selection.Selection
}

func (c *SetSelection) Description() string {
	switch {
	case c.Selection == nil || c.Selection.IsAll():
		return "Select All"
	case c.Selection.IsEmpty():
		return "Deselect"
	}
	return "Select"
}

func (c *SetSelection) apply(d *Document) error {
	sel := c.Selection
	if sel == nil {
		sel = selection.All(d.width, d.height)
	}
	if err := d.checkSelection(sel); err != nil {
		return err
	}
	c.old, d.sel = d.sel, sel
	return nil
}

func (c *SetSelection) revert(d *Document) error {
	d.sel = c.old
	return nil
}

// Batch groups commands into a single history entry. Commands run in
// order and are undone in reverse. If one fails, those already applied are
// reverted and the batch fails as a whole.
type Batch struct {
	executed

	Name     string
	Commands []Command
}

func (c *Batch) Description() string {
	if c.Name == "" {
		return "Batch"
	}
	return c.Name
}

func (c *Batch) apply(d *Document) error {
	for i, cmd := range c.Commands {
		if cmd == nil {
			c.rollback(d, i)
			return fmt.Errorf("%w: nil command at %d", ErrInvalidParameters, i)
		}
		if err := cmd.apply(d); err != nil {
			c.rollback(d, i)
			return fmt.Errorf("%s: %w", cmd.Description(), err)
		}
	}
	return nil
}

func (c *Batch) rollback(d *Document, n int) {
	for i := n - 1; i >= 0; i-- {
		if err := c.Commands[i].revert(d); err != nil {
			Logger().Error("imgedit: batch rollback failed", "command", c.Commands[i].Description(), "err", err)
		}
	}
}

func (c *Batch) revert(d *Document) error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].revert(d); err != nil {
			return err
		}
	}
	return nil
}
