package astro

import (
	"math"
	"testing"
)

// TestBatchLeastSquaresLinearFit recovers y = m*t + b from noiseless samples.
func TestBatchLeastSquaresLinearFit(t *testing.T) {
	trueM, trueB := 2.0, 1.0
	compute := func(x []float64, at Instant) ([]float64, error) {
		tt := at.Sub(NewInstant(0, 0)).Seconds()
		return []float64{x[0]*tt + x[1]}, nil
	}
	var obs []Observation
	for i := 0; i < 10; i++ {
		tt := float64(i)
		inst := NewInstant(0, 0).Plus(DurationFromSeconds(tt))
		y := trueM*tt + trueB
		obs = append(obs, Observation{Instant: inst, Observed: []float64{y}, Sigma: []float64{1}})
	}
	result, err := BatchLeastSquares([]float64{0, 0}, nil, obs, compute, DefaultLeastSquaresConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Estimate[0]-trueM) > 1e-4 {
		t.Fatalf("expected slope %f, got %f", trueM, result.Estimate[0])
	}
	if math.Abs(result.Estimate[1]-trueB) > 1e-4 {
		t.Fatalf("expected intercept %f, got %f", trueB, result.Estimate[1])
	}
	if result.TerminationReason != "rms converged" {
		t.Fatalf("expected convergence, got %q", result.TerminationReason)
	}
	if result.Covariance == nil {
		t.Fatal("expected a posterior covariance to be populated")
	}
}

func TestBatchLeastSquaresRejectsNoObservations(t *testing.T) {
	compute := func(x []float64, at Instant) ([]float64, error) { return x, nil }
	if _, err := BatchLeastSquares([]float64{0}, nil, nil, compute, DefaultLeastSquaresConfig()); !IsWrong(err) {
		t.Fatal("expected WrongError for zero observations")
	}
}

func TestBatchLeastSquaresRejectsNonPositiveSigma(t *testing.T) {
	compute := func(x []float64, at Instant) ([]float64, error) { return x, nil }
	obs := []Observation{{Instant: NewInstant(0, 0), Observed: []float64{1}, Sigma: []float64{0}}}
	if _, err := BatchLeastSquares([]float64{0}, nil, obs, compute, DefaultLeastSquaresConfig()); !IsWrong(err) {
		t.Fatal("expected WrongError for a non-positive sigma")
	}
}

func TestUninformativePriorIsDiagonalAndLarge(t *testing.T) {
	p := uninformativePrior(3)
	r, c := p.Dims()
	if r != 3 || c != 3 {
		t.Fatalf("expected a 3x3 prior, got %dx%d", r, c)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				if p.At(i, j) <= 0 {
					t.Fatalf("expected a positive diagonal entry at (%d,%d)", i, j)
				}
			} else if p.At(i, j) != 0 {
				t.Fatalf("expected a zero off-diagonal entry at (%d,%d), got %f", i, j, p.At(i, j))
			}
		}
	}
}
