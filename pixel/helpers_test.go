package pixel

import (
	"math"

	"github.com/gogpu/imgedit/color"
)

// gradientBuffer returns a buffer whose pixels all differ.
func gradientBuffer(w, h int) *Buffer {
	b := MustNew(w, h, color.Transparent)
	for y := range h {
		for x := range w {
			_ = b.Set(x, y, color.RGBA{
				R: float32(x) / float32(w),
				G: float32(y) / float32(h),
				B: float32(x+y) / float32(w+h),
				A: 1,
			})
		}
	}
	return b
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func nearPoint(p, q Point, tol float64) bool {
	return near(p.X, q.X, tol) && near(p.Y, q.Y, tol)
}
