package astro

import (
	"math"
	"testing"
)

func TestFiniteDifferenceJacobianLinear(t *testing.T) {
	f := func(y []float64) []float64 {
		return []float64{2*y[0] + 3*y[1], y[0] - y[1]}
	}
	for _, scheme := range []DifferenceScheme{Forward, Backward, Central} {
		solver := NewFiniteDifferenceSolver(scheme, StepPolicy{StepPct: 1e-6, Floor: 1e-8})
		J := solver.Jacobian(f, []float64{1, 2})
		want := [][]float64{{2, 3}, {1, -1}}
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if math.Abs(J.At(i, j)-want[i][j]) > 1e-4 {
					t.Fatalf("scheme %v: J[%d][%d]=%f, want %f", scheme, i, j, J.At(i, j), want[i][j])
				}
			}
		}
	}
}

func TestFiniteDifferenceJacobianNonlinearCentralMoreAccurate(t *testing.T) {
	f := func(y []float64) []float64 { return []float64{y[0] * y[0] * y[0]} }
	y0 := []float64{2}
	central := NewFiniteDifferenceSolver(Central, StepPolicy{StepPct: 1e-3, Floor: 1e-6})
	forward := NewFiniteDifferenceSolver(Forward, StepPolicy{StepPct: 1e-3, Floor: 1e-6})
	want := 3 * y0[0] * y0[0] // d/dx x^3 = 3x^2 = 12
	jc := central.Jacobian(f, y0).At(0, 0)
	jf := forward.Jacobian(f, y0).At(0, 0)
	if math.Abs(jc-want) >= math.Abs(jf-want) {
		t.Fatalf("expected central differencing to be more accurate than forward: central err=%e forward err=%e", math.Abs(jc-want), math.Abs(jf-want))
	}
}

func TestStepPolicyFloor(t *testing.T) {
	p := StepPolicy{StepPct: 1e-6, Floor: 1e-3}
	if p.stepFor(1) != 1e-3 {
		t.Fatalf("expected the floor to dominate for a small value, got %e", p.stepFor(1))
	}
	if p.stepFor(1e6) <= 1e-3 {
		t.Fatalf("expected the proportional step to dominate for a large value, got %e", p.stepFor(1e6))
	}
}

func TestStateTransitionMatrixIdentityLikeForLinearFlow(t *testing.T) {
	// y(t) = 2*y0, a linear map: the STM is 2*I.
	generator := func(y0 []float64) [][]float64 {
		return [][]float64{{y0[0] * 2, y0[1] * 2}}
	}
	solver := NewFiniteDifferenceSolver(Central, StepPolicy{StepPct: 1e-6, Floor: 1e-8})
	stms := solver.StateTransitionMatrix(generator, []float64{1, 1})
	if len(stms) != 1 {
		t.Fatalf("expected one STM (one downstream instant), got %d", len(stms))
	}
	stm := stms[0]
	if math.Abs(stm.At(0, 0)-2) > 1e-4 || math.Abs(stm.At(1, 1)-2) > 1e-4 {
		t.Fatalf("expected diagonal 2, got %f and %f", stm.At(0, 0), stm.At(1, 1))
	}
	if math.Abs(stm.At(0, 1)) > 1e-4 || math.Abs(stm.At(1, 0)) > 1e-4 {
		t.Fatal("expected off-diagonal terms near zero for a decoupled linear flow")
	}
}
