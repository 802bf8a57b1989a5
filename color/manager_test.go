package color

import (
	"errors"
	"testing"
)

func TestManagerBuiltins(t *testing.T) {
	m := NewManager()
	for _, name := range []string{ProfileSRGB, ProfileSRGBv2, ProfileCGATS001} {
		p, ok := m.Profile(name)
		if !ok {
			t.Fatalf("built-in profile %q not loaded", name)
		}
		if p.Name() != name {
			t.Errorf("Name() = %q, want %q", p.Name(), name)
		}
	}
	if p, _ := m.Profile(ProfileCGATS001); p.Space() != SpaceCMYK {
		t.Errorf("CGATS001 space = %v, want CMYK", p.Space())
	}
	if p, _ := m.Profile(ProfileSRGB); p.Space() != SpaceRGB {
		t.Errorf("sRGB space = %v, want RGB", p.Space())
	}
}

func TestManagerLoadTwice(t *testing.T) {
	m := NewManager()
	p, _ := m.Profile(ProfileSRGB)
	err := m.Add(p)
	if !errors.Is(err, ErrProfileExists) {
		t.Errorf("Add duplicate: err = %v, want ErrProfileExists", err)
	}
}

func TestManagerLoadInvalid(t *testing.T) {
	m := NewManager()
	if err := m.Load("junk", []byte("not a profile")); err == nil {
		t.Error("Load(junk) succeeded, want error")
	}
	if _, ok := m.Profile("junk"); ok {
		t.Error("invalid profile was registered")
	}
}

func TestTransformMissingProfile(t *testing.T) {
	m := NewManager()
	in := NewRGB(0.2, 0.4, 0.6)

	got, err := m.Transform(in, ProfileSRGB, "AdobeRGB", Perceptual)
	if !errors.Is(err, ErrProfileMissing) {
		t.Fatalf("err = %v, want ErrProfileMissing", err)
	}
	if got != in {
		t.Errorf("missing profile result = %v, want identity %v", got, in)
	}

	tr, err := m.Transformer("nope", ProfileSRGB, Perceptual)
	if !errors.Is(err, ErrProfileMissing) {
		t.Fatalf("Transformer err = %v, want ErrProfileMissing", err)
	}
	px := RGBA{0.3, 0.2, 0.1, 0.5}
	if out := tr.Apply(px); out != px {
		t.Errorf("identity transformer Apply = %v, want %v", out, px)
	}
}

func TestTransformSameProfileIsIdentity(t *testing.T) {
	m := NewManager()
	in := NewRGB(0.2, 0.4, 0.6)
	got, err := m.Transform(in, ProfileSRGB, ProfileSRGB, RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("Transform = %v, want %v", got, in)
	}
}

func TestTransformSRGBVersions(t *testing.T) {
	// The v2 and v4 profiles describe the same space; compact encodings
	// differ slightly.
	m := NewManager()
	for _, in := range sampleColors {
		got, err := m.Transform(in, ProfileSRGB, ProfileSRGBv2, RelativeColorimetric)
		if err != nil {
			t.Fatal(err)
		}
		if !sameColor(got, in, 3e-2) {
			t.Errorf("sRGB v4 -> v2: %v -> %v", in, got)
		}
	}
}

func TestTransformToCMYKInGamut(t *testing.T) {
	m := NewManager()
	for _, intent := range []Intent{Perceptual, RelativeColorimetric, Saturation, AbsoluteColorimetric} {
		t.Run(intent.String(), func(t *testing.T) {
			got, err := m.Transform(NewRGB(0, 0, 1), ProfileSRGB, ProfileCGATS001, intent)
			if err != nil {
				t.Fatal(err)
			}
			if got.Space != SpaceCMYK {
				t.Fatalf("space = %v, want CMYK", got.Space)
			}
			for i := range 4 {
				if got.C[i] < 0 || got.C[i] > 1 {
					t.Errorf("channel %d = %v out of [0,1]", i, got.C[i])
				}
			}
		})
	}
}

func TestTransformerMemoizes(t *testing.T) {
	m := NewManager()
	tr, err := m.Transformer(ProfileSRGB, ProfileSRGBv2, RelativeColorimetric)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Identity() {
		t.Fatal("distinct profiles produced identity transformer")
	}
	a := tr.Apply(RGBA{0.5, 0.25, 0.75, 1})
	b := tr.Apply(RGBA{0.5, 0.25, 0.75, 0.5})
	if a.R != b.R || a.G != b.G || a.B != b.B {
		t.Errorf("memoized result differs: %v vs %v", a, b)
	}
	if b.A != 0.5 {
		t.Errorf("alpha = %v, want 0.5", b.A)
	}
}

func TestGamutMapIntents(t *testing.T) {
	out := Color{Space: SpaceRGB, C: [4]float64{1.4, 0.5, -0.2}, Alpha: 1}
	for _, intent := range []Intent{Perceptual, RelativeColorimetric, Saturation, AbsoluteColorimetric} {
		got := gamutMap(out, intent)
		for i := range 3 {
			if got.C[i] < 0 || got.C[i] > 1 {
				t.Errorf("%v: channel %d = %v out of gamut", intent, i, got.C[i])
			}
		}
	}

	// Saturation keeps channel ratios of non-negative colors.
	got := gamutMap(Color{Space: SpaceRGB, C: [4]float64{2, 1, 0.5}}, Saturation)
	if !closeTo(got.C[0], 1, 1e-12) || !closeTo(got.C[1], 0.5, 1e-12) || !closeTo(got.C[2], 0.25, 1e-12) {
		t.Errorf("saturation map = %v", got.C)
	}

	// Perceptual keeps luma.
	in := Color{Space: SpaceRGB, C: [4]float64{1.2, 0.4, 0.1}}
	got = gamutMap(in, Perceptual)
	if !closeTo(lum(got.C[0], got.C[1], got.C[2]), lum(1.2, 0.4, 0.1), 1e-9) {
		t.Errorf("perceptual map changed luma: %v", got.C)
	}
}

func TestParseIntent(t *testing.T) {
	for i := Perceptual; i <= AbsoluteColorimetric; i++ {
		got, err := ParseIntent(i.String())
		if err != nil || got != i {
			t.Errorf("ParseIntent(%q) = %v, %v", i.String(), got, err)
		}
	}
	if _, err := ParseIntent("vivid"); err == nil {
		t.Error("ParseIntent(vivid) succeeded")
	}
}
