package imgedit

import "fmt"

// Command is a reversible edit of a Document.
//
// Commands capture the state they replace when applied, so undoing one
// restores the document exactly, down to the pixel. A command that fails
// validation leaves the document unmodified and is not recorded.
//
// Command values are consumed by Execute: after a successful Execute the
// document's history owns the command and it must not be reused.
type Command interface {
	// Description is a short human-readable label, such as "Rename Layer".
	Description() string

	apply(d *Document) error
	revert(d *Document) error

	claimed() bool
	claim()
}

// executed is embedded in every command to record that a history owns it.
type executed struct{ done bool }

func (e *executed) claimed() bool { return e.done }
func (e *executed) claim()        { e.done = true }

// claimable reports why c cannot be executed, if it cannot.
func claimable(c Command) error {
	if c == nil {
		return fmt.Errorf("%w: nil command", ErrInvalidCommand)
	}
	if c.claimed() {
		return fmt.Errorf("%w: %s already executed", ErrInvalidCommand, c.Description())
	}
	if b, ok := c.(*Batch); ok {
		for _, sub := range b.Commands {
			if sub == nil {
				continue // rejected by Batch.apply
			}
			if err := claimable(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func claim(c Command) {
	c.claim()
	if b, ok := c.(*Batch); ok {
		for _, sub := range b.Commands {
			claim(sub)
		}
	}
}

// merger is implemented by commands that can absorb a following command
// of the same kind, such as repeated opacity changes on one layer.
type merger interface {
	// merge absorbs next, which has already been applied. It reports
	// whether it did.
	merge(next Command) bool
}

// history holds applied commands (oldest first) and undone commands (most
// recently undone last).
type history struct {
	undo  []Command
	redo  []Command
	limit int
	merge bool
}

func (h *history) push(c Command) (trimmed int) {
	h.redo = nil
	if h.merge && len(h.undo) > 0 {
		if m, ok := h.undo[len(h.undo)-1].(merger); ok && m.merge(c) {
			return 0
		}
	}
	h.undo = append(h.undo, c)
	if h.limit > 0 && len(h.undo) > h.limit {
		trimmed = len(h.undo) - h.limit
		clear(h.undo[:trimmed])
		h.undo = h.undo[trimmed:]
	}
	return trimmed
}

// Execute applies c and records it for undo. Any undone commands are
// discarded. If c fails, the document is unchanged and nothing is
// recorded. A nil command, or one that was already executed, fails with
// ErrInvalidCommand.
func (d *Document) Execute(c Command) error {
	if err := claimable(c); err != nil {
		return d.fail(err)
	}
	if err := c.apply(d); err != nil {
		return fmt.Errorf("%s: %w", c.Description(), err)
	}
	claim(c)
	d.dirty = true
	if n := d.history.push(c); n > 0 {
		Logger().Warn("imgedit: history limit reached, oldest commands dropped",
			"dropped", n, "limit", d.history.limit)
	}
	Logger().Debug("imgedit: command executed", "command", c.Description(),
		"undo", len(d.history.undo), "redo", len(d.history.redo))
	return nil
}

// Undo reverts the most recently applied command. With nothing to undo it
// returns ErrHistoryEmpty and changes nothing.
func (d *Document) Undo() error {
	h := &d.history
	if len(h.undo) == 0 {
		return ErrHistoryEmpty
	}
	c := h.undo[len(h.undo)-1]
	if err := c.revert(d); err != nil {
		return d.fail(fmt.Errorf("undo %s: %w", c.Description(), err))
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, c)
	d.dirty = true
	Logger().Debug("imgedit: command undone", "command", c.Description(),
		"undo", len(h.undo), "redo", len(h.redo))
	return nil
}

// Redo reapplies the most recently undone command. With nothing to redo
// it returns ErrHistoryEmpty and changes nothing.
func (d *Document) Redo() error {
	h := &d.history
	if len(h.redo) == 0 {
		return ErrHistoryEmpty
	}
	c := h.redo[len(h.redo)-1]
	if err := c.apply(d); err != nil {
		return d.fail(fmt.Errorf("redo %s: %w", c.Description(), err))
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, c)
	d.dirty = true
	Logger().Debug("imgedit: command redone", "command", c.Description(),
		"undo", len(h.undo), "redo", len(h.redo))
	return nil
}

// CanUndo reports whether Undo has a command to revert.
func (d *Document) CanUndo() bool { return len(d.history.undo) > 0 }

// CanRedo reports whether Redo has a command to reapply.
func (d *Document) CanRedo() bool { return len(d.history.redo) > 0 }

// UndoDescription returns the description of the command Undo would
// revert.
func (d *Document) UndoDescription() (string, bool) {
	if n := len(d.history.undo); n > 0 {
		return d.history.undo[n-1].Description(), true
	}
	return "", false
}

// RedoDescription returns the description of the command Redo would
// reapply.
func (d *Document) RedoDescription() (string, bool) {
	if n := len(d.history.redo); n > 0 {
		return d.history.redo[n-1].Description(), true
	}
	return "", false
}

// HistoryLen returns the total number of recorded commands, applied and
// undone.
func (d *Document) HistoryLen() int { return len(d.history.undo) + len(d.history.redo) }

// HistoryPosition returns the number of applied commands. It is the
// position JumpTo would keep.
func (d *Document) HistoryPosition() int { return len(d.history.undo) }

// History returns the descriptions of all recorded commands, oldest
// first. The first HistoryPosition entries are applied.
func (d *Document) History() []string {
	out := make([]string, 0, d.HistoryLen())
	for _, c := range d.history.undo {
		out = append(out, c.Description())
	}
	for i := len(d.history.redo) - 1; i >= 0; i-- {
		out = append(out, d.history.redo[i].Description())
	}
	return out
}

// JumpTo undoes or redoes commands until exactly pos commands are
// applied. pos must be in [0, HistoryLen()].
func (d *Document) JumpTo(pos int) error {
	if pos < 0 || pos > d.HistoryLen() {
		return fmt.Errorf("%w: history position %d not in [0,%d]", ErrInvalidParameters, pos, d.HistoryLen())
	}
	for d.HistoryPosition() > pos {
		if err := d.Undo(); err != nil {
			return err
		}
	}
	for d.HistoryPosition() < pos {
		if err := d.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// ClearHistory forgets all recorded commands. The document is unchanged.
func (d *Document) ClearHistory() {
	d.history.undo, d.history.redo = nil, nil
}
