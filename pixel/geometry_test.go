package pixel

import (
	"image"
	"math"
	"testing"
)

func TestMatrixBasics(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		in   Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -2), Pt(1, 1), Pt(11, -1)},
		{"scale", Scale(2, 3), Pt(1, 1), Pt(2, 3)},
		{"rotate 90", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"shear", Shear(1, 0), Pt(1, 2), Pt(3, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.in); !nearPoint(got, tt.want, 1e-12) {
				t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMultiplyAppliesRightFirst(t *testing.T) {
	// Scale then translate: T × S.
	m := Translate(5, 0).Multiply(Scale(2, 2))
	if got := m.TransformPoint(Pt(1, 1)); !nearPoint(got, Pt(7, 2), 1e-12) {
		t.Errorf("T×S(1,1) = %v, want (7,2)", got)
	}
	// Translate then scale: S × T.
	m = Scale(2, 2).Multiply(Translate(5, 0))
	if got := m.TransformPoint(Pt(1, 1)); !nearPoint(got, Pt(12, 2), 1e-12) {
		t.Errorf("S×T(1,1) = %v, want (12,2)", got)
	}
}

func TestComposeAssociative(t *testing.T) {
	a := Rotate(0.3)
	b := Translate(4, -1)
	c := Scale(1.5, 0.5)
	left := a.Multiply(b).Multiply(c)
	right := a.Multiply(b.Multiply(c))
	all := Compose(a, b, c)

	p := Pt(2, 7)
	want := a.TransformPoint(b.TransformPoint(c.TransformPoint(p)))
	for name, m := range map[string]Matrix{"(ab)c": left, "a(bc)": right, "Compose": all} {
		if got := m.TransformPoint(p); !nearPoint(got, want, 1e-9) {
			t.Errorf("%s: %v, want %v", name, got, want)
		}
	}
	if !Compose().IsIdentity() {
		t.Error("empty Compose is not the identity")
	}
}

func TestInvert(t *testing.T) {
	m := Compose(Translate(3, 4), Rotate(1.1), Scale(2, 0.5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("invertible matrix reported singular")
	}
	p := Pt(-3, 8)
	if got := inv.TransformPoint(m.TransformPoint(p)); !nearPoint(got, p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", got, p)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("singular matrix inverted")
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100).Multiply(Scale(2, 2))
	if got := m.TransformVector(Pt(1, 1)); !nearPoint(got, Pt(2, 2), 1e-12) {
		t.Errorf("TransformVector = %v, want (2,2)", got)
	}
}

func TestTransformRect(t *testing.T) {
	r := Rect{Min: Pt(0, 0), Max: Pt(2, 1)}
	got := Rotate(math.Pi / 2).TransformRect(r)
	want := Rect{Min: Pt(-1, 0), Max: Pt(0, 2)}
	if !nearPoint(got.Min, want.Min, 1e-12) || !nearPoint(got.Max, want.Max, 1e-12) {
		t.Errorf("TransformRect = %v, want %v", got, want)
	}
	if img := (Rect{Min: Pt(0.5, -0.5), Max: Pt(1.2, 2)}).Image(); img != image.Rect(0, -1, 2, 2) {
		t.Errorf("Image() = %v", img)
	}
}

func TestAff3(t *testing.T) {
	m := Matrix{A: 1, B: 2, C: 3, D: 4, E: 5, F: 6}
	a := m.Aff3()
	for i, want := range []float64{1, 2, 3, 4, 5, 6} {
		if a[i] != want {
			t.Errorf("Aff3[%d] = %v, want %v", i, a[i], want)
		}
	}
}

func TestAnchorOffset(t *testing.T) {
	tests := []struct {
		a    Anchor
		want image.Point
	}{
		{TopLeft, image.Pt(0, 0)},
		{Center, image.Pt(2, 1)},
		{BottomRight, image.Pt(4, 2)},
		{Top, image.Pt(2, 0)},
		{Left, image.Pt(0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.a.String(), func(t *testing.T) {
			if got := tt.a.Offset(4, 4, 8, 6); got != tt.want {
				t.Errorf("Offset = %v, want %v", got, tt.want)
			}
		})
	}
}
