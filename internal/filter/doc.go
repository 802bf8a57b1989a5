// Package filter holds the pixel kernels shared by selections and
// adjustments: separable Gaussian convolution over interleaved float32
// planes and 4x5 color matrices over straight-alpha RGBA.
//
// Planes are row-major with a fixed number of interleaved channels per
// pixel. Edges are extended by clamping, so a constant plane stays
// constant under convolution.
package filter
