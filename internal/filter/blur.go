package filter

import (
	"context"
	"sync"

	"github.com/gogpu/imgedit/internal/parallel"
)

// Plane is a row-major image with interleaved channels.
type Plane struct {
	Pix      []float32
	Width    int
	Height   int
	Channels int
}

// Gaussian blurs src into dst with a separable Gaussian of the given
// sigma. dst and src must have the same shape and must not alias. A
// non-positive sigma copies src.
func Gaussian(ctx context.Context, dst, src Plane, sigma float64) error {
	if sigma <= 0 {
		copy(dst.Pix, src.Pix)
		return ctx.Err()
	}
	kernel := CachedGaussianKernel(sigma)

	tmp := getScratch(len(src.Pix))
	defer putScratch(tmp)
	mid := Plane{Pix: tmp, Width: src.Width, Height: src.Height, Channels: src.Channels}

	err := parallel.Rows(ctx, src.Width, src.Height, func(y0, y1 int) {
		horizontal(mid, src, kernel, y0, y1)
	})
	if err != nil {
		return err
	}
	return parallel.Rows(ctx, src.Width, src.Height, func(y0, y1 int) {
		vertical(dst, mid, kernel, y0, y1)
	})
}

func horizontal(dst, src Plane, kernel []float32, y0, y1 int) {
	half := len(kernel) / 2
	ch := src.Channels
	w := src.Width
	var acc [4]float32

	for y := y0; y < y1; y++ {
		row := src.Pix[y*w*ch : (y+1)*w*ch]
		out := dst.Pix[y*w*ch : (y+1)*w*ch]
		for x := range w {
			acc = [4]float32{}
			for k, weight := range kernel {
				sx := min(max(x+k-half, 0), w-1)
				for c := range ch {
					acc[c] += row[sx*ch+c] * weight
				}
			}
			copy(out[x*ch:x*ch+ch], acc[:ch])
		}
	}
}

func vertical(dst, src Plane, kernel []float32, y0, y1 int) {
	half := len(kernel) / 2
	ch := src.Channels
	stride := src.Width * ch
	h := src.Height

	for y := y0; y < y1; y++ {
		out := dst.Pix[y*stride : (y+1)*stride]
		clear(out)
		for k, weight := range kernel {
			sy := min(max(y+k-half, 0), h-1)
			row := src.Pix[sy*stride : (sy+1)*stride]
			for i, v := range row {
				out[i] += v * weight
			}
		}
	}
}

type scratch struct{ buf []float32 }

var scratchPool = sync.Pool{
	New: func() any { return &scratch{} },
}

func getScratch(n int) []float32 {
	s := scratchPool.Get().(*scratch)
	if cap(s.buf) < n {
		return make([]float32, n)
	}
	return s.buf[:n]
}

// putScratch returns a buffer to the pool. Very large buffers are dropped.
func putScratch(buf []float32) {
	if cap(buf) <= 64<<20 {
		scratchPool.Put(&scratch{buf: buf})
	}
}
