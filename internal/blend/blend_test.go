package blend

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-5
}

func TestModeNames(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("vivid-light"); err == nil {
		t.Error("unknown mode parsed")
	}
	if Mode(200).Valid() {
		t.Error("Mode(200) reported valid")
	}
	if len(Modes()) != 16 {
		t.Errorf("len(Modes()) = %d, want 16", len(Modes()))
	}
}

func TestSeparableModes(t *testing.T) {
	cb := [3]float32{0.2, 0.5, 0.8}
	cs := [3]float32{0.6, 0.5, 0.1}
	tests := []struct {
		mode Mode
		want func(b, s float32) float32
	}{
		{Normal, func(b, s float32) float32 { return s }},
		{Multiply, func(b, s float32) float32 { return b * s }},
		{Screen, func(b, s float32) float32 { return b + s - b*s }},
		{Darken, func(b, s float32) float32 { return min(b, s) }},
		{Lighten, func(b, s float32) float32 { return max(b, s) }},
		{Difference, func(b, s float32) float32 { return float32(math.Abs(float64(b - s))) }},
		{Exclusion, func(b, s float32) float32 { return b + s - 2*b*s }},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got := Mix(tt.mode, cb, cs)
			for i := range 3 {
				if want := tt.want(cb[i], cs[i]); !near(got[i], want) {
					t.Errorf("channel %d = %v, want %v", i, got[i], want)
				}
			}
		})
	}
}

func TestOverlayIsSwappedHardLight(t *testing.T) {
	for _, v := range [][2]float32{{0.1, 0.9}, {0.7, 0.3}, {0.5, 0.5}} {
		o := Mix(Overlay, [3]float32{v[0]}, [3]float32{v[1]})
		h := Mix(HardLight, [3]float32{v[1]}, [3]float32{v[0]})
		if !near(o[0], h[0]) {
			t.Errorf("overlay(%v) = %v, hardlight swapped = %v", v, o[0], h[0])
		}
	}
}

func TestDodgeBurnEdges(t *testing.T) {
	if got := colorDodge(0, 1); got != 0 {
		t.Errorf("dodge(0,1) = %v, want 0", got)
	}
	if got := colorDodge(0.5, 1); got != 1 {
		t.Errorf("dodge(0.5,1) = %v, want 1", got)
	}
	if got := colorBurn(1, 0); got != 1 {
		t.Errorf("burn(1,0) = %v, want 1", got)
	}
	if got := colorBurn(0.5, 0); got != 0 {
		t.Errorf("burn(0.5,0) = %v, want 0", got)
	}
}

func TestSoftLightNeutral(t *testing.T) {
	for _, cb := range []float32{0, 0.1, 0.3, 0.5, 0.9, 1} {
		if got := softLight(cb, 0.5); !near(got, cb) {
			t.Errorf("softLight(%v, 0.5) = %v, want unchanged", cb, got)
		}
	}
}

func TestNonSeparablePreserveLuminosity(t *testing.T) {
	cb := [3]float32{0.2, 0.4, 0.6}
	cs := [3]float32{0.9, 0.1, 0.3}
	for _, m := range []Mode{Hue, Saturation, Color} {
		got := Mix(m, cb, cs)
		if !near(Lum(got[0], got[1], got[2]), Lum(cb[0], cb[1], cb[2])) {
			t.Errorf("%v changed backdrop luminosity: %v", m, got)
		}
	}
	got := Mix(Luminosity, cb, cs)
	if !near(Lum(got[0], got[1], got[2]), Lum(cs[0], cs[1], cs[2])) {
		t.Errorf("luminosity did not take source luminosity: %v", got)
	}
}

func TestSetSatGray(t *testing.T) {
	r, g, b := SetSat(0.4, 0.4, 0.4, 0.5)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("SetSat(gray) = %v %v %v, want 0", r, g, b)
	}
	r, g, b = SetSat(0.2, 0.8, 0.5, 0.3)
	if !near(r, 0) || !near(g, 0.3) || !near(b, 0.15) {
		t.Errorf("SetSat = %v %v %v", r, g, b)
	}
}

func TestOver(t *testing.T) {
	white := [4]float32{1, 1, 1, 1}
	red := [4]float32{1, 0, 0, 1}

	t.Run("half opacity normal", func(t *testing.T) {
		got := Over(Normal, Gamma, white, red, 0.5)
		want := [4]float32{1, 0.5, 0.5, 1}
		for i := range got {
			if !near(got[i], want[i]) {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})
	t.Run("transparent source keeps backdrop", func(t *testing.T) {
		dst := [4]float32{0.3, 0.2, 0.1, 0.7}
		if got := Over(Multiply, Gamma, dst, [4]float32{1, 1, 1, 0}, 1); got != dst {
			t.Errorf("got %v, want %v", got, dst)
		}
		if got := Over(Normal, Linear, dst, red, 0); got != dst {
			t.Errorf("zero opacity: got %v, want %v", got, dst)
		}
	})
	t.Run("empty backdrop takes source", func(t *testing.T) {
		src := [4]float32{0.3, 0.6, 0.9, 0.5}
		got := Over(Screen, Gamma, [4]float32{}, src, 1)
		if got != src {
			t.Errorf("got %v, want %v", got, src)
		}
	})
	t.Run("opaque normal replaces", func(t *testing.T) {
		if got := Over(Normal, Gamma, white, red, 1); got != red {
			t.Errorf("got %v, want %v", got, red)
		}
	})
	t.Run("multiply opaque", func(t *testing.T) {
		dst := [4]float32{0.5, 0.5, 0.5, 1}
		got := Over(Multiply, Gamma, dst, [4]float32{0.5, 1, 0, 1}, 1)
		want := [4]float32{0.25, 0.5, 0, 1}
		for i := range got {
			if !near(got[i], want[i]) {
				t.Fatalf("got %v, want %v", got, want)
			}
		}
	})
	t.Run("linear differs from gamma", func(t *testing.T) {
		black := [4]float32{0, 0, 0, 1}
		g := Over(Normal, Gamma, black, white, 0.5)
		l := Over(Normal, Linear, black, white, 0.5)
		if !near(g[0], 0.5) {
			t.Errorf("gamma mid = %v, want 0.5", g[0])
		}
		// Half linear light encodes to ~0.735.
		if math.Abs(float64(l[0])-0.7354) > 2e-3 {
			t.Errorf("linear mid = %v, want ~0.735", l[0])
		}
	})
}

func TestRow(t *testing.T) {
	dst := []float32{1, 1, 1, 1, 0, 0, 0, 0}
	src := []float32{0, 0, 0, 1, 0, 0, 1, 1}
	Row(Normal, Gamma, dst, src, 0.5)
	want := []float32{0.5, 0.5, 0.5, 1, 0, 0, 1, 0.5}
	for i := range dst {
		if !near(dst[i], want[i]) {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}
