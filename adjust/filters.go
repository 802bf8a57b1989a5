package adjust

import (
	"context"
	"math"

	"github.com/gogpu/imgedit/internal/filter"
	"github.com/gogpu/imgedit/internal/parallel"
	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// Blur is a Gaussian blur. It runs as two separable passes over
// premultiplied color so transparent pixels do not bleed their color into
// opaque neighbours. Pixels beyond the edge repeat the edge pixel.
// A zero Sigma leaves the buffer unchanged.
type Blur struct {
	Sigma float64 `yaml:"sigma"` // pixels, >= 0
}

func (Blur) Kind() string { return KindBlur }

func (b Blur) Validate() error {
	if !(b.Sigma >= 0) || math.IsInf(b.Sigma, 1) {
		return invalid(KindBlur, "sigma %v must be a non-negative number", b.Sigma)
	}
	return nil
}

// PreviewCost grows with the kernel width of the two passes.
func (b Blur) PreviewCost() float64 {
	return 2 + 2*float64(2*filter.KernelRadius(b.Sigma)+1)
}

// Scaled returns the blur for a buffer resampled by factor.
func (b Blur) Scaled(factor float64) Adjustment {
	return Blur{Sigma: b.Sigma * factor}
}

func (b Blur) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	done, err := prepare(b, src, sel)
	if err != nil {
		return nil, err
	}
	if done || b.Sigma == 0 {
		return src.Clone(), ctx.Err()
	}
	out, err := gaussian(ctx, src, b.Sigma)
	if err != nil {
		return nil, err
	}
	return neighbourhood(ctx, src, out, sel)
}

// gaussian blurs src in premultiplied space and returns straight alpha.
func gaussian(ctx context.Context, src *pixel.Buffer, sigma float64) (*pixel.Buffer, error) {
	w, h := src.Width(), src.Height()
	pre := src.Clone()
	err := parallel.Rows(ctx, w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := pre.Row(y)
			for i := 0; i < len(row); i += 4 {
				a := row[i+3]
				row[i] *= a
				row[i+1] *= a
				row[i+2] *= a
			}
		}
	})
	if err != nil {
		return nil, err
	}

	out := src.NewLike()
	err = filter.Gaussian(ctx,
		filter.Plane{Pix: out.Pix(), Width: w, Height: h, Channels: 4},
		filter.Plane{Pix: pre.Pix(), Width: w, Height: h, Channels: 4},
		sigma)
	if err != nil {
		return nil, err
	}

	err = parallel.Rows(ctx, w, h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := out.Row(y)
			for i := 0; i < len(row); i += 4 {
				a := row[i+3]
				if a <= 0 {
					row[i], row[i+1], row[i+2], row[i+3] = 0, 0, 0, 0
					continue
				}
				inv := 1 / a
				row[i] = clamp01(row[i] * inv)
				row[i+1] = clamp01(row[i+1] * inv)
				row[i+2] = clamp01(row[i+2] * inv)
				row[i+3] = clamp01(a)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Sharpen is an unsharp mask: the difference between the image and its
// Gaussian blur is scaled by Amount and added back. Differences at or
// below Threshold are left alone, which keeps flat areas free of noise.
// Alpha is not sharpened.
type Sharpen struct {
	Amount    float32 `yaml:"amount"`    // [0, 5]
	Sigma     float64 `yaml:"sigma"`     // pixels, > 0
	Threshold float32 `yaml:"threshold"` // [0, 1]
}

// MaxSharpenAmount is the largest accepted Sharpen.Amount.
const MaxSharpenAmount = 5

func (Sharpen) Kind() string { return KindSharpen }

func (s Sharpen) Validate() error {
	switch {
	case !inRange(s.Amount, 0, MaxSharpenAmount):
		return invalid(KindSharpen, "amount %v not in [0,%d]", s.Amount, MaxSharpenAmount)
	case !(s.Sigma > 0) || math.IsInf(s.Sigma, 1):
		return invalid(KindSharpen, "sigma %v must be positive", s.Sigma)
	case !inRange(s.Threshold, 0, 1):
		return invalid(KindSharpen, "threshold %v not in [0,1]", s.Threshold)
	}
	return nil
}

func (s Sharpen) PreviewCost() float64 {
	return Blur{Sigma: s.Sigma}.PreviewCost() + 1
}

// Scaled returns the sharpen for a buffer resampled by factor.
func (s Sharpen) Scaled(factor float64) Adjustment {
	s.Sigma *= factor
	return s
}

func (s Sharpen) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	done, err := prepare(s, src, sel)
	if err != nil {
		return nil, err
	}
	if done || s.Amount == 0 {
		return src.Clone(), ctx.Err()
	}
	blurred, err := gaussian(ctx, src, s.Sigma)
	if err != nil {
		return nil, err
	}

	err = parallel.Rows(ctx, src.Width(), src.Height(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			o, d := src.Row(y), blurred.Row(y)
			for i := 0; i < len(o); i += 4 {
				for c := i; c < i+3; c++ {
					diff := o[c] - d[c]
					if abs32(diff) <= s.Threshold {
						d[c] = o[c]
						continue
					}
					d[c] = clamp01(o[c] + s.Amount*diff)
				}
				d[i+3] = o[i+3]
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return neighbourhood(ctx, src, blurred, sel)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
