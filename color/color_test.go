package color

import (
	"errors"
	stdcolor "image/color"
	"math"
	"testing"
)

// Verify at compile time that RGBA implements color.Color.
var _ stdcolor.Color = RGBA{}

var allSpaces = []Space{SpaceRGB, SpaceHSL, SpaceHSV, SpaceCMYK, SpaceLab, SpaceXYZ}

// sampleColors covers primaries, grays, and arbitrary in-gamut colors.
var sampleColors = []Color{
	NewRGB(0, 0, 0),
	NewRGB(1, 1, 1),
	NewRGB(0.5, 0.5, 0.5),
	NewRGB(1, 0, 0),
	NewRGB(0, 1, 0),
	NewRGB(0, 0, 1),
	NewRGB(0.2, 0.4, 0.6),
	NewRGB(0.9, 0.1, 0.35),
	NewRGB(0.03, 0.02, 0.01),
	{Space: SpaceRGB, C: [4]float64{0.25, 0.75, 0.5}, Alpha: 0.3},
}

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// sameColor compares colors, treating hue as circular and ignoring hue
// where it is undefined.
func sameColor(a, b Color, tol float64) bool {
	if a.Space != b.Space || !closeTo(a.Alpha, b.Alpha, tol) {
		return false
	}
	for i := 0; i < a.Space.Channels(); i++ {
		if i == 0 && (a.Space == SpaceHSL || a.Space == SpaceHSV) {
			d := math.Abs(a.C[0] - b.C[0])
			d = math.Min(d, 360-d)
			if d > tol*360 && a.C[1] > tol {
				return false
			}
			continue
		}
		if !closeTo(a.C[i], b.C[i], tol) {
			return false
		}
	}
	return true
}

func TestConvertRoundTrip(t *testing.T) {
	for _, from := range allSpaces {
		for _, to := range allSpaces {
			t.Run(from.String()+"_"+to.String(), func(t *testing.T) {
				for _, rgb := range sampleColors {
					a := MustConvert(rgb, from)
					b, err := Convert(a, to)
					if err != nil {
						t.Fatalf("Convert(%v, %v): %v", a, to, err)
					}
					back, err := Convert(b, from)
					if err != nil {
						t.Fatalf("Convert(%v, %v): %v", b, from, err)
					}
					if !sameColor(a, back, 1e-4) {
						t.Errorf("%v -> %v -> %v", a, b, back)
					}
				}
			})
		}
	}
}

func TestConvertKnownValues(t *testing.T) {
	tests := []struct {
		name string
		in   Color
		to   Space
		want Color
	}{
		{"red to HSL", NewRGB(1, 0, 0), SpaceHSL, NewHSL(0, 1, 0.5)},
		{"green to HSV", NewRGB(0, 1, 0), SpaceHSV, NewHSV(120, 1, 1)},
		{"gray to HSL", NewRGB(0.5, 0.5, 0.5), SpaceHSL, NewHSL(0, 0, 0.5)},
		{"blue to CMYK", NewRGB(0, 0, 1), SpaceCMYK, NewCMYK(1, 1, 0, 0)},
		{"black to CMYK", NewRGB(0, 0, 0), SpaceCMYK, NewCMYK(0, 0, 0, 1)},
		{"white to Lab", NewRGB(1, 1, 1), SpaceLab, NewLab(100, 0, 0)},
		{"black to Lab", NewRGB(0, 0, 0), SpaceLab, NewLab(0, 0, 0)},
		{"white to XYZ", NewRGB(1, 1, 1), SpaceXYZ, NewXYZ(D50[0], D50[1], D50[2])},
		{"HSL cyan", NewHSL(180, 1, 0.5), SpaceRGB, NewRGB(0, 1, 1)},
		{"HSV wraps hue", NewHSV(-60, 1, 1), SpaceRGB, NewRGB(1, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, tt.to)
			if err != nil {
				t.Fatal(err)
			}
			if !sameColor(got, tt.want, 1e-6) {
				t.Errorf("Convert(%v, %v) = %v, want %v", tt.in, tt.to, got, tt.want)
			}
		})
	}
}

func TestConvertNearWhiteToHSL(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
	}{
		{"overshoot", 1 + 1e-15, 1, 1 - 1e-15},
		{"all above one", 1.0000001, 1.0000002, 1.0000001},
		{"below zero", -1e-15, 0, 1e-15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustConvert(NewRGB(tt.r, tt.g, tt.b), SpaceHSL)
			if got.C[1] != 0 {
				t.Errorf("saturation = %v, want 0", got.C[1])
			}
			if got.C[2] < 0 || got.C[2] > 1 {
				t.Errorf("lightness = %v, want within [0,1]", got.C[2])
			}
		})
	}

	white := NewHSL(0, 0, 1)
	for _, via := range []Space{SpaceXYZ, SpaceLab} {
		back := MustConvert(MustConvert(white, via), SpaceHSL)
		if !sameColor(back, white, 1e-6) {
			t.Errorf("white via %v = %v", via, back)
		}
	}
}

func TestConvertLabRedReference(t *testing.T) {
	// sRGB red in D50 Lab is approximately (54.29, 80.80, 69.89).
	got := MustConvert(NewRGB(1, 0, 0), SpaceLab)
	want := [3]float64{54.29, 80.80, 69.89}
	for i := range want {
		if !closeTo(got.C[i], want[i], 0.2) {
			t.Errorf("Lab[%d] = %.3f, want ~%.2f", i, got.C[i], want[i])
		}
	}
}

func TestConvertUnsupported(t *testing.T) {
	_, err := Convert(NewRGB(1, 0, 0), Space(42))
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("err = %v, want ErrUnsupportedConversion", err)
	}
	_, err = Convert(Color{Space: Space(42)}, SpaceRGB)
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("err = %v, want ErrUnsupportedConversion", err)
	}
}

func TestConvertPreservesAlpha(t *testing.T) {
	in := Color{Space: SpaceRGB, C: [4]float64{0.1, 0.2, 0.3}, Alpha: 0.25}
	for _, s := range allSpaces {
		if got := MustConvert(in, s); got.Alpha != 0.25 {
			t.Errorf("%v: alpha = %v, want 0.25", s, got.Alpha)
		}
	}
}

func TestMatrixMapsWhiteToD50(t *testing.T) {
	x, y, z := rgbToXYZ(1, 1, 1)
	if !closeTo(x, D50[0], 1e-9) || !closeTo(y, D50[1], 1e-9) || !closeTo(z, D50[2], 1e-9) {
		t.Errorf("rgbToXYZ(1,1,1) = (%v, %v, %v), want %v", x, y, z, D50)
	}
}

func TestRGBA_ColorInterface(t *testing.T) {
	tests := []struct {
		name                       string
		c                          RGBA
		wantR, wantG, wantB, wantA uint32
	}{
		{"opaque black", Black, 0, 0, 0, 65535},
		{"opaque white", White, 65535, 65535, 65535, 65535},
		{"transparent", Transparent, 0, 0, 0, 0},
		{"50% alpha red", RGBA{1, 0, 0, 0.5}, 32768, 0, 0, 32768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := tt.c.RGBA()
			if diff(r, tt.wantR) > 1 || diff(g, tt.wantG) > 1 || diff(b, tt.wantB) > 1 || diff(a, tt.wantA) > 1 {
				t.Errorf("RGBA() = (%d, %d, %d, %d), want (%d, %d, %d, %d)",
					r, g, b, a, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestFromStd(t *testing.T) {
	got := FromStd(stdcolor.NRGBA{R: 255, G: 0, B: 51, A: 255})
	want := RGBA{1, 0, 0.2, 1}
	if !closeTo(float64(got.R), float64(want.R), 1e-6) ||
		!closeTo(float64(got.B), float64(want.B), 1e-6) ||
		got.A != 1 {
		t.Errorf("FromStd = %v, want %v", got, want)
	}
}

func TestLerpEndpointsExact(t *testing.T) {
	a := RGBA{0.1, 0.2, 0.3, 0.4}
	b := RGBA{0.9, 0.7, 0.13, 1}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#fff", White},
		{"000000", Black},
		{"#ff000080", RGBA{1, 0, 0, 128.0 / 255}},
		{"bogus", Black},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
