package astro

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rot313Vec rotates a vector through a 3-1-3 Euler sequence, e.g. PQW to ECI.
func Rot313Vec(θ1, θ2, θ3 float64, vI []float64) []float64 {
	return MxV33(R3R1R3(θ1, θ2, θ3), vI)
}

// R3R1R3 builds a 3-1-3 Euler angle rotation matrix (Schaub & Junkins).
func R3R1R3(θ1, θ2, θ3 float64) *mat.Dense {
	sθ1, cθ1 := math.Sincos(θ1)
	sθ2, cθ2 := math.Sincos(θ2)
	sθ3, cθ3 := math.Sincos(θ3)
	return mat.NewDense(3, 3, []float64{
		cθ3*cθ1 - sθ3*cθ2*sθ1, cθ3*sθ1 + sθ3*cθ2*cθ1, sθ3 * sθ2,
		-sθ3*cθ1 - cθ3*cθ2*sθ1, -sθ3*sθ1 + cθ3*cθ2*cθ1, cθ3 * sθ2,
		sθ2 * sθ1, -sθ2 * cθ1, cθ2,
	})
}

// R1 returns the rotation matrix about the 1st axis by angle x (radians).
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 returns the rotation matrix about the 2nd axis by angle x (radians).
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 returns the rotation matrix about the 3rd axis by angle x (radians).
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix by a 3-vector. No dimension check is
// performed: callers are expected to only pass 3x3/3-vectors.
func MxV33(m *mat.Dense, v []float64) []float64 {
	vVec := mat.NewVecDense(len(v), v)
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}
