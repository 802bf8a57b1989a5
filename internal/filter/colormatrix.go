package filter

// ColorMatrix is a 4x5 row-major color transform over straight-alpha RGBA
// in [0,1]:
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
type ColorMatrix [20]float32

// Rec. 709 luma weights.
const (
	LumR = 0.2126
	LumG = 0.7152
	LumB = 0.0722
)

// IdentityMatrix passes colors through unchanged.
func IdentityMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// OffsetMatrix adds offset to each color channel.
func OffsetMatrix(offset float32) ColorMatrix {
	m := IdentityMatrix()
	m[4], m[9], m[14] = offset, offset, offset
	return m
}

// ContrastMatrix scales color channels by slope around the 0.5 pivot.
func ContrastMatrix(slope float32) ColorMatrix {
	bias := 0.5 * (1 - slope)
	return ColorMatrix{
		slope, 0, 0, 0, bias,
		0, slope, 0, 0, bias,
		0, 0, slope, 0, bias,
		0, 0, 0, 1, 0,
	}
}

// GrayMatrix writes the weighted sum of the color channels to all three.
func GrayMatrix(wr, wg, wb float32) ColorMatrix {
	return ColorMatrix{
		wr, wg, wb, 0, 0,
		wr, wg, wb, 0, 0,
		wr, wg, wb, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// InvertMatrix inverts the color channels.
func InvertMatrix() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 1,
		0, -1, 0, 0, 1,
		0, 0, -1, 0, 1,
		0, 0, 0, 1, 0,
	}
}

// Transform applies the matrix to one pixel. The result is not clamped.
func (m *ColorMatrix) Transform(r, g, b, a float32) (float32, float32, float32, float32) {
	return m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4],
		m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9],
		m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14],
		m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]
}
