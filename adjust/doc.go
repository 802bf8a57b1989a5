// Package adjust provides the non-destructive pixel operations stored in a
// layer's adjustment stack.
//
// Every operation implements [Adjustment]. Apply never modifies its input:
// it returns a new buffer, and when a selection restricts the edit each
// output pixel is
//
//	original*(1-coverage) + edited*coverage
//
// Built-in adjustments:
//   - Tone: [Brightness], [Contrast], [Levels], [Curves]
//   - Color: [HSL], [ColorBalance], [Grayscale]
//   - Filters: [Blur], [Sharpen], [Noise]
//
// External code extends the set through [Plugin] and a [Registry].
//
// All adjustments work on straight-alpha float32 values in the document's
// working space, normalized to [0,1]. No adjustment converts transfer
// functions, so chains of adjustments compose without accumulating gamma
// error. Conversion happens only when pixels enter or leave a buffer.
//
// Work is split into row bands on a shared worker pool. The context is
// checked between bands; a cancelled Apply returns ctx.Err() and no buffer.
package adjust
