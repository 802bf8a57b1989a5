package color

import (
	"gonum.org/v1/gonum/mat"
)

// White points as XYZ with Y normalized to 1.
var (
	// D50 is the ICC profile connection space illuminant.
	D50 = [3]float64{0.9642, 1.0, 0.8249}
	// D65 is the sRGB reference white.
	D65 = [3]float64{0.95047, 1.0, 1.08883}
)

// sRGB primaries as CIE xy chromaticities.
var srgbPrimaries = [3][2]float64{
	{0.64, 0.33},
	{0.30, 0.60},
	{0.15, 0.06},
}

// bradford is the Bradford cone response matrix.
var bradford = mat.NewDense(3, 3, []float64{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
})

// Linear sRGB to D50 XYZ and back, derived once from the primaries.
var (
	rgbToXYZMatrix [3][3]float64
	xyzToRGBMatrix [3][3]float64
)

func init() {
	m, err := rgbToXYZ50()
	if err != nil {
		panic("color: deriving sRGB matrix: " + err.Error())
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		panic("color: inverting sRGB matrix: " + err.Error())
	}
	rgbToXYZMatrix = toArray(m)
	xyzToRGBMatrix = toArray(&inv)
}

// rgbToXYZ50 builds the linear sRGB to XYZ matrix for the D65 white and
// chromatically adapts it to D50.
func rgbToXYZ50() (*mat.Dense, error) {
	m, err := primariesToXYZ(srgbPrimaries, D65)
	if err != nil {
		return nil, err
	}
	adapt, err := adaptation(D65, D50)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(adapt, m)
	return &out, nil
}

// primariesToXYZ returns the matrix mapping linear RGB to XYZ for the given
// primaries, scaled so that RGB (1,1,1) maps to white.
func primariesToXYZ(p [3][2]float64, white [3]float64) (*mat.Dense, error) {
	cols := mat.NewDense(3, 3, nil)
	for i, xy := range p {
		x, y := xy[0], xy[1]
		cols.Set(0, i, x/y)
		cols.Set(1, i, 1)
		cols.Set(2, i, (1-x-y)/y)
	}

	var s mat.VecDense
	if err := s.SolveVec(cols, mat.NewVecDense(3, white[:])); err != nil {
		return nil, err
	}

	var out mat.Dense
	out.Mul(cols, mat.NewDiagDense(3, []float64{s.AtVec(0), s.AtVec(1), s.AtVec(2)}))
	return &out, nil
}

// adaptation returns the Bradford chromatic adaptation matrix from src to
// dst white.
func adaptation(src, dst [3]float64) (*mat.Dense, error) {
	var cs, cd mat.VecDense
	cs.MulVec(bradford, mat.NewVecDense(3, src[:]))
	cd.MulVec(bradford, mat.NewVecDense(3, dst[:]))

	scale := mat.NewDiagDense(3, []float64{
		cd.AtVec(0) / cs.AtVec(0),
		cd.AtVec(1) / cs.AtVec(1),
		cd.AtVec(2) / cs.AtVec(2),
	})

	var inv mat.Dense
	if err := inv.Inverse(bradford); err != nil {
		return nil, err
	}
	var tmp, out mat.Dense
	tmp.Mul(scale, bradford)
	out.Mul(&inv, &tmp)
	return &out, nil
}

func toArray(m mat.Matrix) [3][3]float64 {
	var a [3][3]float64
	for i := range 3 {
		for j := range 3 {
			a[i][j] = m.At(i, j)
		}
	}
	return a
}
