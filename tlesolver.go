package astro

import (
	"gonum.org/v1/gonum/mat"
)

// TLEEstimationInput is the §4.8 estimation contract input: an initial
// guess TLE plus Cartesian observations to fit against. The initial guess
// is always a TLE; a Cartesian state + B* starting point is not accepted.
type TLEEstimationInput struct {
	InitialGuess   TLE
	Observations    []Observation // Observed is a 3-vector Cartesian position (or 6-vector with velocity)
	Body            CelestialBody
	SGP4            SGP4
	EstimateBStar   bool
}

// TLEEstimationResult bundles the fitted TLE with its least-squares
// analysis record (spec §4.8 Output).
type TLEEstimationResult struct {
	TLE    TLE
	Result *LeastSquaresResult
}

// tleToVector packs a TLE's estimable parameters into the 6- or 7-dim
// parameter vector solved by BatchLeastSquares (spec §4.8).
func tleToVector(t TLE, withBStar bool) []float64 {
	v := []float64{
		Deg2rad(t.Inclination),
		Deg2rad(t.RAAN),
		t.Eccentricity,
		Deg2rad(t.AoP),
		Deg2rad(t.MeanAnomaly),
		t.MeanMotion,
	}
	if withBStar {
		v = append(v, t.BStar)
	}
	return v
}

func vectorToTLE(base TLE, x []float64, withBStar bool) TLE {
	t := base
	t.Inclination = Rad2deg(x[0])
	t.RAAN = Rad2deg(x[1])
	t.Eccentricity = x[2]
	t.AoP = Rad2deg(x[3])
	t.MeanAnomaly = Rad2deg(x[4])
	t.MeanMotion = x[5]
	if withBStar {
		t.BStar = x[6]
	}
	return t
}

// EstimateTLE specializes BatchLeastSquares to the TLE parameter vector
// (spec §4.8): the inner "computed observation" generator propagates a
// candidate TLE via the SGP4 oracle and returns the Cartesian position
// (and, if the observations carry 6 components, velocity).
func EstimateTLE(in TLEEstimationInput, cfg LeastSquaresConfig) (*TLEEstimationResult, error) {
	if in.SGP4 == nil {
		return nil, NewUndefinedError("TLEEstimationInput.SGP4", nil)
	}
	x0 := tleToVector(in.InitialGuess, in.EstimateBStar)
	compute := func(x []float64, at Instant) ([]float64, error) {
		candidate := vectorToTLE(in.InitialGuess, x, in.EstimateBStar)
		s, err := in.SGP4.Propagate(candidate, at)
		if err != nil {
			return nil, err
		}
		width := len(in.Observations[0].Observed)
		if width == 3 {
			return s.Position(), nil
		}
		return append(append([]float64{}, s.Position()...), s.Velocity()...), nil
	}

	result, err := BatchLeastSquares(x0, nil, in.Observations, compute, cfg)
	if err != nil && result == nil {
		return nil, err
	}
	fitted := vectorToTLE(in.InitialGuess, result.Estimate, in.EstimateBStar)
	return &TLEEstimationResult{TLE: fitted, Result: result}, err
}

// covarianceDims is a small helper kept for callers that want the estimated
// element-space covariance's dimension without importing gonum/mat
// themselves.
func covarianceDims(m *mat.Dense) (int, int) { return m.Dims() }
