package imgedit

import (
	"errors"

	"github.com/gogpu/imgedit/pixel"
)

// Errors returned by documents and commands.
var (
	// ErrOutOfBounds is returned for pixel or selection coordinates outside
	// the canvas. It is pixel.ErrOutOfBounds.
	ErrOutOfBounds = pixel.ErrOutOfBounds

	// ErrInvalidParameters is returned when a command or adjustment
	// parameter is outside its domain. A command failing with it is not
	// recorded and leaves the document unmodified.
	ErrInvalidParameters = pixel.ErrInvalidParameters

	// ErrHistoryEmpty is returned by Undo and Redo when there is nothing to
	// undo or redo. It is benign: the document is untouched.
	ErrHistoryEmpty = errors.New("imgedit: history empty")

	// ErrLayerIndex is returned for a layer index outside [0, Len()).
	ErrLayerIndex = errors.New("imgedit: layer index out of range")

	// ErrAdjustmentIndex is returned for an adjustment index outside a
	// layer's stack.
	ErrAdjustmentIndex = errors.New("imgedit: adjustment index out of range")

	// ErrLayerLocked is returned when editing the pixels or adjustments of a
	// locked layer.
	ErrLayerLocked = errors.New("imgedit: layer is locked")

	// ErrInvalidCommand is returned by Execute for a nil command or one
	// that a history already owns.
	ErrInvalidCommand = errors.New("imgedit: invalid command")

	// ErrInvalidDocument is returned by Decode for malformed input.
	ErrInvalidDocument = errors.New("imgedit: invalid document")
)

// fail reports a structural error: a programmer error such as a layer
// index that does not exist. In strict mode it panics; otherwise it is
// logged and returned, and the document is left unmodified.
func (d *Document) fail(err error) error {
	if d.opts.strict {
		panic(err)
	}
	Logger().Error("imgedit: structural error ignored", "err", err)
	return err
}
