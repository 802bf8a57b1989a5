package filter

import (
	"math"
	"sync"
)

// GaussianKernel returns a normalized 1D Gaussian kernel for sigma.
// The kernel has 2*ceil(3*sigma)+1 taps, covering 99.7% of the
// distribution. For sigma <= 0 it returns the identity kernel [1].
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}

	half := KernelRadius(sigma)
	kernel := make([]float32, 2*half+1)
	twoSigmaSq := 2 * sigma * sigma

	var sum float64
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// KernelRadius is the number of taps on each side of the center.
func KernelRadius(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(math.Ceil(sigma * 3))
}

// kernelCache keeps recently used kernels, keyed by sigma in hundredths.
type kernelCache struct {
	mu      sync.RWMutex
	kernels map[int][]float32
	limit   int
}

var kernels = &kernelCache{kernels: make(map[int][]float32), limit: 64}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(math.Round(sigma * 100))

	c.mu.RLock()
	k, ok := c.kernels[key]
	c.mu.RUnlock()
	if ok {
		return k
	}

	k = GaussianKernel(float64(key) / 100)

	c.mu.Lock()
	if len(c.kernels) >= c.limit {
		clear(c.kernels)
	}
	c.kernels[key] = k
	c.mu.Unlock()
	return k
}

// CachedGaussianKernel is GaussianKernel with sigma quantized to 0.01 and
// the result shared between callers. The returned slice must not be
// modified.
func CachedGaussianKernel(sigma float64) []float32 {
	return kernels.get(sigma)
}
