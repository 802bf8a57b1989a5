package adjust

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/gogpu/imgedit/pixel"
	"github.com/gogpu/imgedit/selection"
)

// NoiseType selects the noise distribution.
type NoiseType uint8

const (
	// Uniform adds values in [-Amount/2, Amount/2).
	Uniform NoiseType = iota
	// Gaussian adds normally distributed values with standard deviation
	// Amount/4.
	Gaussian
	// SaltPepper sets a fraction Amount of pixels to black or white.
	SaltPepper
)

var noiseTypeNames = [...]string{"uniform", "gaussian", "salt-pepper"}

func (t NoiseType) String() string {
	if int(t) < len(noiseTypeNames) {
		return noiseTypeNames[t]
	}
	return fmt.Sprintf("NoiseType(%d)", t)
}

// Noise perturbs every pixel with pseudo-random values. The generator for
// row y is seeded from (Seed, y), so the output depends only on the
// parameters and the input, never on how rows are split across workers.
type Noise struct {
	Type          NoiseType `yaml:"type"`
	Amount        float32   `yaml:"amount"` // [0, 1]
	Monochromatic bool      `yaml:"monochromatic,omitempty"`
	Seed          uint64    `yaml:"seed"`
}

func (Noise) Kind() string { return KindNoise }

func (n Noise) Validate() error {
	switch {
	case n.Type > SaltPepper:
		return invalid(KindNoise, "unknown type %d", n.Type)
	case !inRange(n.Amount, 0, 1):
		return invalid(KindNoise, "amount %v not in [0,1]", n.Amount)
	}
	return nil
}

func (Noise) PreviewCost() float64 { return 3 }

// rowRand returns the generator for row y.
func (n Noise) rowRand(y int) *rand.Rand {
	return rand.New(rand.NewPCG(n.Seed, uint64(y)))
}

func (n Noise) Apply(ctx context.Context, src *pixel.Buffer, sel *selection.Selection) (*pixel.Buffer, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if n.Amount == 0 {
		return src.Clone(), ctx.Err()
	}
	return mapRows(ctx, n, src, sel, func(y int, dst, row []float32) {
		rng := n.rowRand(y)
		for i := 0; i < len(row); i += 4 {
			r, g, b := n.perturb(rng, row[i], row[i+1], row[i+2])
			dst[i], dst[i+1], dst[i+2], dst[i+3] = r, g, b, row[i+3]
		}
	})
}

func (n Noise) perturb(rng *rand.Rand, r, g, b float32) (float32, float32, float32) {
	if n.Type == SaltPepper {
		if rng.Float32() >= n.Amount {
			return r, g, b
		}
		if rng.IntN(2) == 0 {
			return 0, 0, 0
		}
		return 1, 1, 1
	}

	sample := func() float32 {
		if n.Type == Gaussian {
			return float32(rng.NormFloat64()) * n.Amount / 4
		}
		return (rng.Float32() - 0.5) * n.Amount
	}
	if n.Monochromatic {
		d := sample()
		return clamp01(r + d), clamp01(g + d), clamp01(b + d)
	}
	return clamp01(r + sample()), clamp01(g + sample()), clamp01(b + sample())
}
