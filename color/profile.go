package color

import (
	"encoding/binary"
	"fmt"
	"sync"

	"seehuhn.de/go/icc"
)

// Intent selects the gamut-mapping policy of a profile transform.
// The values match the ICC rendering intent numbers.
type Intent uint8

const (
	// Perceptual compresses out-of-gamut colors toward the achromatic
	// axis while preserving luminance.
	Perceptual Intent = iota
	// RelativeColorimetric maps white to white and clips out-of-gamut
	// channels.
	RelativeColorimetric
	// Saturation scales out-of-gamut colors uniformly, preserving the
	// ratios between channels.
	Saturation
	// AbsoluteColorimetric preserves the measured color, including the
	// source white point, and clips.
	AbsoluteColorimetric
)

func (i Intent) String() string {
	switch i {
	case Perceptual:
		return "perceptual"
	case RelativeColorimetric:
		return "relative"
	case Saturation:
		return "saturation"
	case AbsoluteColorimetric:
		return "absolute"
	default:
		return fmt.Sprintf("Intent(%d)", uint8(i))
	}
}

// ParseIntent is the inverse of Intent.String.
func ParseIntent(s string) (Intent, error) {
	for i := Perceptual; i <= AbsoluteColorimetric; i++ {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("color: unknown rendering intent %q", s)
}

// Profile is a parsed ICC profile. Its observable state never changes after
// ParseProfile returns; it is safe for concurrent use.
type Profile struct {
	name  string
	space Space
	raw   *icc.Profile
	white [3]float64

	mu      sync.Mutex // guards the lazily built transforms
	toPCS   map[Intent]*icc.Transform
	fromPCS map[Intent]*icc.Transform
}

// ParseProfile decodes ICC profile data. Only RGB, CMYK and Lab device
// spaces are accepted.
func ParseProfile(name string, data []byte) (*Profile, error) {
	raw, err := icc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("color: parsing profile %q: %w", name, err)
	}

	var space Space
	switch raw.ColorSpace {
	case icc.RGBSpace:
		space = SpaceRGB
	case icc.CMYKSpace:
		space = SpaceCMYK
	case icc.CIELabSpace:
		space = SpaceLab
	default:
		return nil, fmt.Errorf("%w: profile %q has device space %v",
			ErrUnsupportedConversion, name, raw.ColorSpace)
	}

	p := &Profile{
		name:    name,
		space:   space,
		raw:     raw,
		white:   D50,
		toPCS:   make(map[Intent]*icc.Transform),
		fromPCS: make(map[Intent]*icc.Transform),
	}
	if wp, ok := parseXYZTag(raw.TagData[icc.MediaWhitePoint]); ok {
		p.white = wp
	}

	// Fail early for profiles we cannot evaluate.
	if _, err := p.transform(RelativeColorimetric, icc.DeviceToPCS); err != nil {
		return nil, fmt.Errorf("color: profile %q: %w", name, err)
	}
	return p, nil
}

// parseXYZTag reads an XYZType tag: "XYZ ", 4 reserved bytes, then three
// s15Fixed16 numbers.
func parseXYZTag(data []byte) ([3]float64, bool) {
	if len(data) < 20 || string(data[:4]) != "XYZ " {
		return [3]float64{}, false
	}
	var xyz [3]float64
	for i := range xyz {
		v := int32(binary.BigEndian.Uint32(data[8+4*i:]))
		xyz[i] = float64(v) / 65536
	}
	if xyz[1] <= 0 {
		return [3]float64{}, false
	}
	return xyz, true
}

// Name returns the name the profile was loaded under.
func (p *Profile) Name() string { return p.name }

// Space returns the device color space of the profile.
func (p *Profile) Space() Space { return p.space }

// WhitePoint returns the media white point in PCS XYZ.
func (p *Profile) WhitePoint() [3]float64 { return p.white }

// Version returns the ICC version string, e.g. "4.3.0".
func (p *Profile) Version() string { return p.raw.Version.String() }

func (p *Profile) transform(intent Intent, dir icc.Direction) (*icc.Transform, error) {
	cache := p.toPCS
	if dir == icc.PCSToDevice {
		cache = p.fromPCS
	}
	if t, ok := cache[intent]; ok {
		return t, nil
	}
	t, err := icc.NewTransform(p.raw, dir, icc.RenderingIntent(intent))
	if err != nil && intent != RelativeColorimetric {
		// Profiles commonly ship a single intent table.
		t, err = icc.NewTransform(p.raw, dir, icc.RelativeColorimetric)
	}
	if err != nil {
		return nil, err
	}
	cache[intent] = t
	return t, nil
}

// ToXYZ converts device values to PCS XYZ (D50).
func (p *Profile) ToXYZ(device []float64, intent Intent) (x, y, z float64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.transform(intent, icc.DeviceToPCS)
	if err != nil {
		return 0, 0, 0, err
	}
	x, y, z = t.ToXYZ(device)
	return x, y, z, nil
}

// FromXYZ converts PCS XYZ (D50) to device values.
func (p *Profile) FromXYZ(x, y, z float64, intent Intent) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, err := p.transform(intent, icc.PCSToDevice)
	if err != nil {
		return nil, err
	}
	return t.FromXYZ(x, y, z), nil
}

// deviceValues returns the normalized channel values ICC transforms expect.
// Lab is scaled to [0,1] as in 16-bit ICC encoding.
func deviceValues(c Color) []float64 {
	switch c.Space {
	case SpaceLab:
		return []float64{c.C[0] / 100, (c.C[1] + 128) / 255, (c.C[2] + 128) / 255}
	case SpaceCMYK:
		return []float64{c.C[0], c.C[1], c.C[2], c.C[3]}
	default:
		return []float64{c.C[0], c.C[1], c.C[2]}
	}
}

func fromDeviceValues(space Space, v []float64, alpha float64) Color {
	out := Color{Space: space, Alpha: alpha}
	switch space {
	case SpaceLab:
		if len(v) >= 3 {
			out.C = [4]float64{v[0] * 100, v[1]*255 - 128, v[2]*255 - 128}
		}
	default:
		copy(out.C[:], v)
	}
	return out
}
