package parallel

import (
	"context"
)

// minBandPixels keeps bands large enough that scheduling stays cheap
// compared to the per-pixel work.
const minBandPixels = 16 * 1024

// Rows calls fn for consecutive bands [y0, y1) covering [0, height). Bands
// run on the default pool when the image is large enough to benefit.
//
// Cancellation is checked before each band starts; bands already running
// complete. If ctx is cancelled, Rows returns ctx.Err() and the caller must
// discard its partial output.
func Rows(ctx context.Context, width, height int, fn func(y0, y1 int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if height <= 0 {
		return nil
	}

	pool := Default()
	rowsPerBand := height
	if width > 0 && width*height >= 2*minBandPixels && pool.Workers() > 1 {
		bands := min(pool.Workers()*4, max(1, width*height/minBandPixels))
		rowsPerBand = (height + bands - 1) / bands
	}
	if rowsPerBand >= height {
		fn(0, height)
		return ctx.Err()
	}

	tasks := make([]func(), 0, (height+rowsPerBand-1)/rowsPerBand)
	for y0 := 0; y0 < height; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, height)
		tasks = append(tasks, func() {
			if ctx.Err() != nil {
				return
			}
			fn(y0, y1)
		})
	}
	pool.Run(tasks)
	return ctx.Err()
}
