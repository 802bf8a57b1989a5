// Package color provides color values, color-space conversions and
// ICC-profile based color management for imgedit.
//
// A [Color] is a value tagged with its [Space]. [Convert] moves a color
// between spaces with pure, deterministic functions; converting A→B→A
// reproduces the input within floating-point tolerance for every pair of
// supported spaces. The hub space is sRGB-encoded RGB.
//
// [RGBA] is the pixel value stored by pixel buffers: straight (not
// premultiplied) alpha, float32 channels normalized to [0,1], encoded in
// the document's working space.
//
// A [Manager] holds named, immutable [Profile] values and converts colors
// between them with a [Intent]. A Manager is scoped to whoever creates it
// (normally one per document); there is no process-wide profile state.
package color

import (
	"errors"
	"fmt"
	stdcolor "image/color"
)

// Common errors for color operations.
var (
	// ErrUnsupportedConversion is returned when no conversion path exists
	// between two color spaces.
	ErrUnsupportedConversion = errors.New("color: unsupported conversion")

	// ErrProfileMissing reports that a requested profile is not loaded.
	// It is non-fatal: the operation falls back to an identity transform
	// and returns a usable color together with this error.
	ErrProfileMissing = errors.New("color: profile missing")

	// ErrProfileExists is returned when loading a profile under a name
	// that is already taken. Loaded profiles are never replaced.
	ErrProfileExists = errors.New("color: profile already loaded")
)

// Space identifies a color space.
type Space uint8

const (
	// SpaceRGB is sRGB-encoded RGB, channels in [0,1].
	SpaceRGB Space = iota
	// SpaceHSL is hue [0,360), saturation and lightness in [0,1].
	SpaceHSL
	// SpaceHSV is hue [0,360), saturation and value in [0,1].
	SpaceHSV
	// SpaceCMYK is cyan, magenta, yellow, key in [0,1].
	SpaceCMYK
	// SpaceLab is CIE L*a*b* relative to D50: L in [0,100], a and b
	// roughly in [-128,127].
	SpaceLab
	// SpaceXYZ is CIE XYZ relative to D50 with Y in [0,1].
	SpaceXYZ
)

// String returns the conventional name of the space.
func (s Space) String() string {
	switch s {
	case SpaceRGB:
		return "RGB"
	case SpaceHSL:
		return "HSL"
	case SpaceHSV:
		return "HSV"
	case SpaceCMYK:
		return "CMYK"
	case SpaceLab:
		return "Lab"
	case SpaceXYZ:
		return "XYZ"
	default:
		return fmt.Sprintf("Space(%d)", uint8(s))
	}
}

// Channels returns the number of color channels of the space, or 0 for an
// unknown space.
func (s Space) Channels() int {
	switch s {
	case SpaceRGB, SpaceHSL, SpaceHSV, SpaceLab, SpaceXYZ:
		return 3
	case SpaceCMYK:
		return 4
	default:
		return 0
	}
}

// Color is a color value in a particular space. Unused trailing channels
// are zero. Alpha is always linear coverage in [0,1] and is carried through
// conversions unchanged.
type Color struct {
	Space Space
	C     [4]float64
	Alpha float64
}

// NewRGB creates an opaque sRGB color.
func NewRGB(r, g, b float64) Color {
	return Color{Space: SpaceRGB, C: [4]float64{r, g, b}, Alpha: 1}
}

// NewHSL creates an opaque HSL color.
func NewHSL(h, s, l float64) Color {
	return Color{Space: SpaceHSL, C: [4]float64{h, s, l}, Alpha: 1}
}

// NewHSV creates an opaque HSV color.
func NewHSV(h, s, v float64) Color {
	return Color{Space: SpaceHSV, C: [4]float64{h, s, v}, Alpha: 1}
}

// NewCMYK creates an opaque CMYK color.
func NewCMYK(c, m, y, k float64) Color {
	return Color{Space: SpaceCMYK, C: [4]float64{c, m, y, k}, Alpha: 1}
}

// NewLab creates an opaque CIE L*a*b* (D50) color.
func NewLab(l, a, b float64) Color {
	return Color{Space: SpaceLab, C: [4]float64{l, a, b}, Alpha: 1}
}

// NewXYZ creates an opaque CIE XYZ (D50) color.
func NewXYZ(x, y, z float64) Color {
	return Color{Space: SpaceXYZ, C: [4]float64{x, y, z}, Alpha: 1}
}

func (c Color) String() string {
	n := c.Space.Channels()
	if n == 0 {
		n = 4
	}
	return fmt.Sprintf("%v%.4g/%.4g", c.Space, c.C[:n], c.Alpha)
}

// RGBA is the canonical pixel value: straight alpha, float32 channels in
// [0,1]. Values outside [0,1] may appear transiently during computation but
// every adjustment clamps its output.
type RGBA struct {
	R, G, B, A float32
}

// Common colors
var (
	Black       = RGBA{R: 0, G: 0, B: 0, A: 1}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Red         = RGBA{R: 1, G: 0, B: 0, A: 1}
	Green       = RGBA{R: 0, G: 1, B: 0, A: 1}
	Blue        = RGBA{R: 0, G: 0, B: 1, A: 1}
	Transparent = RGBA{}
)

// Color returns the pixel value as an RGB [Color].
func (c RGBA) Color() Color {
	return Color{
		Space: SpaceRGB,
		C:     [4]float64{float64(c.R), float64(c.G), float64(c.B)},
		Alpha: float64(c.A),
	}
}

// RGBAOf converts c to RGB and returns it as a pixel value.
func RGBAOf(c Color) (RGBA, error) {
	rgb, err := Convert(c, SpaceRGB)
	if err != nil {
		return RGBA{}, err
	}
	return RGBA{
		R: float32(rgb.C[0]),
		G: float32(rgb.C[1]),
		B: float32(rgb.C[2]),
		A: float32(rgb.Alpha),
	}, nil
}

// Clamp restricts every channel to [0,1].
func (c RGBA) Clamp() RGBA {
	return RGBA{R: Clamp01(c.R), G: Clamp01(c.G), B: Clamp01(c.B), A: Clamp01(c.A)}
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Unpremultiply returns an unpremultiplied color.
func (c RGBA) Unpremultiply() RGBA {
	if c.A == 0 {
		return RGBA{}
	}
	return RGBA{R: c.R / c.A, G: c.G / c.A, B: c.B / c.A, A: c.A}
}

// Lerp interpolates between c (t=0) and other (t=1). The endpoints are
// reproduced exactly.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	u := 1 - t
	return RGBA{
		R: c.R*u + other.R*t,
		G: c.G*u + other.G*t,
		B: c.B*u + other.B*t,
		A: c.A*u + other.A*t,
	}
}

// RGBA implements the image/color.Color interface. It returns
// alpha-premultiplied 16-bit components.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	p := c.Clamp().Premultiply()
	return uint32(p.R*0xffff + 0.5), uint32(p.G*0xffff + 0.5),
		uint32(p.B*0xffff + 0.5), uint32(p.A*0xffff + 0.5)
}

// NRGBA64 converts the value to a 16-bit standard library color.
func (c RGBA) NRGBA64() stdcolor.NRGBA64 {
	return stdcolor.NRGBA64{
		R: to16(c.R),
		G: to16(c.G),
		B: to16(c.B),
		A: to16(c.A),
	}
}

// FromStd converts a standard library color to a pixel value.
func FromStd(c stdcolor.Color) RGBA {
	n := stdcolor.NRGBA64Model.Convert(c).(stdcolor.NRGBA64)
	return RGBA{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

func to16(v float32) uint16 {
	return uint16(Clamp01(v)*0xffff + 0.5)
}

// Clamp01 restricts v to [0,1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Hex creates an opaque or translucent color from a hex string.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", with or without a
// leading '#'. Malformed input yields opaque black.
func Hex(hex string) RGBA {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	a := uint32(255)

	switch len(hex) {
	case 3, 4:
		r, g, b = parseHex(hex[0:1])*17, parseHex(hex[1:2])*17, parseHex(hex[2:3])*17
		if len(hex) == 4 {
			a = parseHex(hex[3:4]) * 17
		}
	case 6, 8:
		r, g, b = parseHex(hex[0:2]), parseHex(hex[2:4]), parseHex(hex[4:6])
		if len(hex) == 8 {
			a = parseHex(hex[6:8])
		}
	default:
		return Black
	}

	return RGBA{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

func parseHex(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		v *= 16
		switch {
		case '0' <= c && c <= '9':
			v += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			v += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			v += uint32(c - 'A' + 10)
		}
	}
	return v
}
