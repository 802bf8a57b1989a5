package color

import (
	"fmt"
	"slices"
	"sync"

	"seehuhn.de/go/icc"

	"github.com/gogpu/imgedit/internal/logging"
)

// Names of the built-in profiles every Manager starts with.
const (
	ProfileSRGB     = "sRGB"
	ProfileSRGBv2   = "sRGB-v2"
	ProfileCGATS001 = "CGATS001"
)

// Manager is a registry of named ICC profiles and the entry point for
// profile-to-profile transforms. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewManager returns a manager preloaded with the built-in sRGB (v4 and
// v2) and CGATS001 CMYK profiles.
func NewManager() *Manager {
	m := &Manager{profiles: make(map[string]*Profile)}
	builtins := []struct {
		name string
		data []byte
	}{
		{ProfileSRGB, icc.SRGBv4Profile},
		{ProfileSRGBv2, icc.SRGBv2Profile},
		{ProfileCGATS001, icc.CGATS001Profile},
	}
	for _, b := range builtins {
		if err := m.Load(b.name, b.data); err != nil {
			logging.Logger().Warn("color: built-in profile unavailable",
				"profile", b.name, "error", err)
		}
	}
	return m
}

// Load parses data and registers it under name. A name can be loaded only
// once; ErrProfileExists is returned otherwise.
func (m *Manager) Load(name string, data []byte) error {
	p, err := ParseProfile(name, data)
	if err != nil {
		return err
	}
	return m.Add(p)
}

// Add registers an already parsed profile under its own name.
func (m *Manager) Add(p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.name]; ok {
		return fmt.Errorf("%w: %q", ErrProfileExists, p.name)
	}
	m.profiles[p.name] = p
	logging.Logger().Debug("color: profile loaded",
		"profile", p.name, "space", p.space, "version", p.Version())
	return nil
}

// Profile looks up a profile by name.
func (m *Manager) Profile(name string) (*Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[name]
	return p, ok
}

// Names returns the loaded profile names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.profiles))
	for n := range m.profiles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// lookup resolves both profiles. A missing profile is reported with
// ErrProfileMissing and logged; callers fall back to identity.
func (m *Manager) lookup(from, to string) (src, dst *Profile, err error) {
	src, okSrc := m.Profile(from)
	dst, okDst := m.Profile(to)
	missing := ""
	switch {
	case !okSrc:
		missing = from
	case !okDst:
		missing = to
	default:
		return src, dst, nil
	}
	logging.Logger().Warn("color: profile missing, using identity transform",
		"profile", missing)
	return nil, nil, fmt.Errorf("%w: %q", ErrProfileMissing, missing)
}

// Transform converts c, interpreted in the from profile's device space,
// into the device space of the to profile.
//
// If either profile is not loaded, c is returned unchanged together with
// an error wrapping ErrProfileMissing; the result is still usable.
func (m *Manager) Transform(c Color, from, to string, intent Intent) (Color, error) {
	src, dst, err := m.lookup(from, to)
	if err != nil {
		return c, err
	}
	if src == dst {
		return Convert(c, dst.space)
	}
	return transform(c, src, dst, intent)
}

func transform(c Color, src, dst *Profile, intent Intent) (Color, error) {
	in, err := Convert(c, src.space)
	if err != nil {
		return Color{}, err
	}
	x, y, z, err := src.ToXYZ(deviceValues(in), intent)
	if err != nil {
		return Color{}, fmt.Errorf("color: %s to PCS: %w", src.name, err)
	}
	if intent == AbsoluteColorimetric {
		// von Kries scaling: keep the source white instead of mapping
		// it onto the destination white.
		x *= src.white[0] / dst.white[0]
		y *= src.white[1] / dst.white[1]
		z *= src.white[2] / dst.white[2]
	}
	dev, err := dst.FromXYZ(x, y, z, intent)
	if err != nil {
		return Color{}, fmt.Errorf("color: PCS to %s: %w", dst.name, err)
	}
	return gamutMap(fromDeviceValues(dst.space, dev, c.Alpha), intent), nil
}

// Transformer applies one profile transform to many pixel values. Results
// are memoized per input value, which pays off on images with large flat
// regions. A Transformer is not safe for concurrent use.
type Transformer struct {
	src, dst *Profile
	intent   Intent
	identity bool
	memo     map[RGBA]RGBA
}

// maxMemo bounds the per-Transformer cache.
const maxMemo = 1 << 16

// Transformer returns a pixel transform between two RGB profiles. When a
// profile is missing the returned Transformer is the identity and err
// wraps ErrProfileMissing.
func (m *Manager) Transformer(from, to string, intent Intent) (*Transformer, error) {
	src, dst, err := m.lookup(from, to)
	if err != nil {
		return &Transformer{identity: true}, err
	}
	if src.space != SpaceRGB || dst.space != SpaceRGB {
		return nil, fmt.Errorf("%w: pixel transform %v to %v",
			ErrUnsupportedConversion, src.space, dst.space)
	}
	return &Transformer{
		src:      src,
		dst:      dst,
		intent:   intent,
		identity: src == dst,
		memo:     make(map[RGBA]RGBA),
	}, nil
}

// Identity reports whether Apply returns its input unchanged.
func (t *Transformer) Identity() bool { return t.identity }

// Apply transforms one pixel value. Alpha is carried through.
func (t *Transformer) Apply(c RGBA) RGBA {
	if t.identity {
		return c
	}
	key := RGBA{R: c.R, G: c.G, B: c.B}
	if out, ok := t.memo[key]; ok {
		out.A = c.A
		return out
	}
	res, err := transform(key.Color(), t.src, t.dst, t.intent)
	if err != nil {
		return c
	}
	out := RGBA{R: float32(res.C[0]), G: float32(res.C[1]), B: float32(res.C[2])}
	if len(t.memo) < maxMemo {
		t.memo[key] = out
	}
	out.A = c.A
	return out
}
