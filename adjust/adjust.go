package adjust

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/imgedit/internal/parallel"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Errors returned by adjustments.
var (
	// ErrInvalidParameters is returned by Validate and Apply when a
	// parameter is outside its domain. It is pixel.ErrInvalidParameters.
	ErrInvalidParameters = pixel.ErrInvalidParameters

	// ErrUnknownKind is returned by Decode for a record whose kind has no
	// built-in or registered implementation.
	ErrUnknownKind = errors.New("adjust: unknown adjustment kind")

	// ErrPluginExists is returned when registering a plugin name twice.
	ErrPluginExists = errors.New("adjust: plugin already registered")
)

// Adjustment is a parameterized pixel operation.
//
// Implementations are immutable values. Apply must not modify src or
// retain it, and must honor sel as a coverage-weighted blend between src
// and the edited result. A nil sel selects everything.
type Adjustment interface {
	// Kind is the stable identifier used in persisted documents.
	Kind() string

	// Validate reports ErrInvalidParameters for out-of-domain parameters.
	Validate() error

	// Apply returns the adjusted copy of src.
	Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error)

	// PreviewCost is the approximate work per pixel relative to a simple
	// per-channel remap (1). The renderer compares it against its preview
	// budget to decide whether to downsample.
	PreviewCost() float64
}

// Scaler is implemented by neighbourhood filters whose parameters are
// measured in pixels. Scaled returns the adjustment to use on a buffer
// resampled by factor, so previews look like full-size renders.
type Scaler interface {
	Scaled(factor float64) Adjustment
}

// Kinds of the built-in adjustments.
const (
	KindBrightness   = "brightness"
	KindContrast     = "contrast"
	KindLevels       = "levels"
	KindCurves       = "curves"
	KindHSL          = "hsl"
	KindColorBalance = "color-balance"
	KindGrayscale    = "grayscale"
	KindBlur         = "blur"
	KindSharpen      = "sharpen"
	KindNoise        = "noise"
	KindInvert       = "invert"
)

func invalid(kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidParameters, kind, fmt.Sprintf(format, args...))
}

func inRange(v, lo, hi float32) bool {
	return v >= lo && v <= hi
}

// prepare validates a and the selection shape. It returns done=true with
// a plain copy of src when the edit cannot change any pixel.
func prepare(a Adjustment, src *pixel.Buffer, sel *selection.Selection) (done bool, err error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	if sel != nil && !sel.Fits(src.Width(), src.Height()) {
		return false, fmt.Errorf("%w: %s on %dx%d buffer with %dx%d selection",
			selection.ErrDimensionMismatch, a.Kind(),
			src.Width(), src.Height(), sel.Width(), sel.Height())
	}
	return sel != nil && sel.IsEmpty(), nil
}

// rowFunc writes the edited row y of src into dst. Both hold four float32
// per pixel.
type rowFunc func(y int, dst, src []float32)

// mapRows runs fn over every row and applies the selection coverage
// inline. It is the shared driver for adjustments that do not look at
// neighbouring pixels.
func mapRows(ctx context.Context, a Adjustment, src *pixel.Buffer, sel *selection.Selection, fn rowFunc) (*pixel.Buffer, error) {
	done, err := prepare(a, src, sel)
	if err != nil {
		return nil, err
	}
	if done {
		return src.Clone(), ctx.Err()
	}

	out := src.NewLike()
	err = parallel.Rows(ctx, src.Width(), src.Height(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			s, d := src.Row(y), out.Row(y)
			fn(y, d, s)
			if sel != nil {
				mixRow(d, s, sel.Row(y))
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// pixelFunc is the per-pixel form of rowFunc.
type pixelFunc func(r, g, b, a float32) (float32, float32, float32, float32)

func pointwise(ctx context.Context, a Adjustment, src *pixel.Buffer, sel *selection.Selection, fn pixelFunc) (*pixel.Buffer, error) {
	return mapRows(ctx, a, src, sel, func(_ int, dst, row []float32) {
		for i := 0; i < len(row); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(row[i], row[i+1], row[i+2], row[i+3])
		}
	})
}

// mixRow blends dst toward orig by 1-coverage. A nil cov means full
// coverage.
func mixRow(dst, orig, cov []float32) {
	for x, c := range cov {
		i := x * 4
		switch c {
		case 1:
		case 0:
			copy(dst[i:i+4], orig[i:i+4])
		default:
			u := 1 - c
			dst[i] = orig[i]*u + dst[i]*c
			dst[i+1] = orig[i+1]*u + dst[i+1]*c
			dst[i+2] = orig[i+2]*u + dst[i+2]*c
			dst[i+3] = orig[i+3]*u + dst[i+3]*c
		}
	}
}

// neighbourhood finishes a filter that computed edited over the whole
// buffer: the selection is applied and the result returned.
func neighbourhood(ctx context.Context, src, edited *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if sel != nil {
		if err := sel.Mix(ctx, src, edited); err != nil {
			return nil, err
		}
	}
	return edited, nil
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
