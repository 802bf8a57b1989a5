package pixel

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Point is a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle with Min inclusive and Max exclusive.
type Rect struct {
	Min, Max Point
}

// RectOf converts an integer rectangle.
func RectOf(r image.Rectangle) Rect {
	return Rect{
		Min: Pt(float64(r.Min.X), float64(r.Min.Y)),
		Max: Pt(float64(r.Max.X), float64(r.Max.Y)),
	}
}

// Empty reports whether the rectangle contains no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Image returns the smallest integer rectangle containing r.
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.Min.X)), int(math.Floor(r.Min.Y)),
		int(math.Ceil(r.Max.X)), int(math.Ceil(r.Max.Y)),
	)
}

// Matrix is a 2D affine transform, the 3×3 matrix
//
//	| A  B  C |
//	| D  E  F |
//	| 0  0  1 |
//
// mapping (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate returns a translation by (x, y).
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scaling about the origin.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate returns a rotation about the origin by angle radians. With y
// pointing down, positive angles rotate clockwise on screen.
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// Shear returns a shear transform.
func Shear(x, y float64) Matrix {
	return Matrix{A: 1, B: x, D: y, E: 1}
}

// Multiply returns m × n: the transform that applies n first, then m.
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Compose returns ms[0] × ms[1] × … × ms[n-1]. Transforms apply right to
// left: the last matrix acts on a point first. Compose() is the identity.
func Compose(ms ...Matrix) Matrix {
	out := Identity()
	for _, m := range ms {
		out = out.Multiply(m)
	}
	return out
}

// Determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse transform. ok is false for singular matrices.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	id := 1 / det
	return Matrix{
		A: m.E * id,
		B: -m.B * id,
		C: (m.B*m.F - m.C*m.E) * id,
		D: -m.D * id,
		E: m.A * id,
		F: (m.C*m.D - m.A*m.F) * id,
	}, true
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation reports whether m only translates.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// TransformPoint applies m to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the linear part of m (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// TransformRect returns the bounding box of the transformed rectangle.
func (m Matrix) TransformRect(r Rect) Rect {
	corners := [4]Point{
		m.TransformPoint(r.Min),
		m.TransformPoint(Pt(r.Max.X, r.Min.Y)),
		m.TransformPoint(r.Max),
		m.TransformPoint(Pt(r.Min.X, r.Max.Y)),
	}
	out := Rect{Min: corners[0], Max: corners[0]}
	for _, c := range corners[1:] {
		out.Min.X = math.Min(out.Min.X, c.X)
		out.Min.Y = math.Min(out.Min.Y, c.Y)
		out.Max.X = math.Max(out.Max.X, c.X)
		out.Max.Y = math.Max(out.Max.Y, c.Y)
	}
	return out
}

// Aff3 returns m in the form used by golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}
}

// Anchor names the fixed point of a canvas resize.
type Anchor uint8

// Anchors, row by row.
const (
	TopLeft Anchor = iota
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
)

var anchorNames = [...]string{
	"top-left", "top", "top-right",
	"left", "center", "right",
	"bottom-left", "bottom", "bottom-right",
}

func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return "invalid"
}

// Offset returns where the old content's origin lands on the new canvas.
func (a Anchor) Offset(oldW, oldH, newW, newH int) image.Point {
	col, row := int(a)%3, int(a)/3
	return image.Pt(col*(newW-oldW)/2, row*(newH-oldH)/2)
}
