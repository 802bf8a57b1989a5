// Package transfer implements the sRGB transfer functions.
//
// Decode is the EOTF (encoded sRGB to linear light), Encode is its inverse.
// The exact forms use math.Pow; the Fast forms use 4096-entry lookup tables
// with linear interpolation and are meant for per-pixel compositing.
//
// References:
//   - sRGB specification: https://www.w3.org/Graphics/Color/sRGB
//   - GPU Gems 3, Chapter 24: "The Importance of Being Linear"
package transfer

import "math"

// lutSize is the number of table entries. 12-bit precision is far beyond
// what 8-bit output needs and keeps the interpolation error below 1e-4.
const lutSize = 4096

var (
	decodeLUT [lutSize + 1]float32
	encodeLUT [lutSize + 1]float32
)

func init() {
	for i := 0; i <= lutSize; i++ {
		v := float64(i) / lutSize
		decodeLUT[i] = float32(Decode(v))
		encodeLUT[i] = float32(Encode(v))
	}
}

// Decode converts an sRGB-encoded component in [0,1] to linear light.
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func Decode(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// Encode converts a linear component in [0,1] to sRGB encoding.
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func Encode(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// DecodeFast is the table-driven form of Decode. Input is clamped to [0,1].
func DecodeFast(s float32) float32 {
	return lookup(&decodeLUT, s)
}

// EncodeFast is the table-driven form of Encode. Input is clamped to [0,1].
func EncodeFast(l float32) float32 {
	return lookup(&encodeLUT, l)
}

func lookup(lut *[lutSize + 1]float32, v float32) float32 {
	if v <= 0 {
		return lut[0]
	}
	if v >= 1 {
		return lut[lutSize]
	}
	pos := v * lutSize
	i := int(pos)
	frac := pos - float32(i)
	return lut[i] + (lut[i+1]-lut[i])*frac
}
