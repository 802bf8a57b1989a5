// Package blend implements layer blend modes and source-over compositing
// on straight-alpha float32 pixels.
//
// Blend functions follow W3C Compositing and Blending Level 1. The
// separable modes act on each channel independently; Hue, Saturation,
// Color and Luminosity act on the whole RGB triple.
//
// References:
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import "fmt"

// Mode is a layer blend mode.
type Mode uint8

// Blend modes. The zero value is Normal.
const (
	Normal Mode = iota
	Multiply
	Screen
	Overlay
	Darken
	Lighten
	ColorDodge
	ColorBurn
	HardLight
	SoftLight
	Difference
	Exclusion
	Hue
	Saturation
	Color
	Luminosity

	modeCount
)

var modeNames = [modeCount]string{
	"normal", "multiply", "screen", "overlay", "darken", "lighten",
	"color-dodge", "color-burn", "hard-light", "soft-light",
	"difference", "exclusion", "hue", "saturation", "color", "luminosity",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m < modeCount }

// Separable reports whether the mode acts on channels independently.
func (m Mode) Separable() bool { return m < Hue }

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("blend: unknown mode %q", s)
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}
