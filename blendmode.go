package imgedit

import "github.com/gogpu/imgedit/internal/blend"

// BlendMode defines how a layer is combined with the layers below it.
type BlendMode = blend.Mode

// Blend modes. Formulas follow W3C Compositing and Blending Level 1.
const (
	// BlendNormal composites the layer over the backdrop.
	BlendNormal = blend.Normal

	// BlendMultiply darkens: backdrop * source.
	BlendMultiply = blend.Multiply

	// BlendScreen lightens: 1 - (1-backdrop)*(1-source).
	BlendScreen = blend.Screen

	// BlendOverlay multiplies dark backdrop areas and screens light ones.
	BlendOverlay = blend.Overlay

	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
	BlendColorDodge = blend.ColorDodge
	BlendColorBurn  = blend.ColorBurn
	BlendHardLight  = blend.HardLight
	BlendSoftLight  = blend.SoftLight
	BlendDifference = blend.Difference
	BlendExclusion  = blend.Exclusion

	// BlendHue takes the source hue with the backdrop's saturation and
	// luminosity. The other non-separable modes work alike.
	BlendHue        = blend.Hue
	BlendSaturation = blend.Saturation
	BlendColor      = blend.Color
	BlendLuminosity = blend.Luminosity
)

// ParseBlendMode parses the name returned by BlendMode.String, such as
// "color-dodge".
func ParseBlendMode(s string) (BlendMode, error) {
	return blend.ParseMode(s)
}

// BlendModes returns every blend mode.
func BlendModes() []BlendMode {
	return blend.Modes()
}

// BlendSpace selects the encoding blend formulas operate in.
type BlendSpace = blend.Space

const (
	// BlendGamma blends the stored gamma-encoded values.
	BlendGamma = blend.Gamma

	// BlendLinear decodes to linear light, blends, and re-encodes.
	BlendLinear = blend.Linear
)
