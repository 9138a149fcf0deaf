package astro

import "gonum.org/v1/gonum/mat"

// DifferenceScheme selects which finite-difference stencil is used (spec
// §4.6).
type DifferenceScheme uint8

const (
	Forward DifferenceScheme = iota
	Backward
	Central
)

// StepPolicy controls the per-coordinate step size h_i = max(stepPct*|y_i|,
// floor), the policy named in spec §4.6.
type StepPolicy struct {
	StepPct float64
	Floor   float64
}

func (p StepPolicy) stepFor(yi float64) float64 {
	h := p.StepPct * abs(yi)
	if h < p.Floor {
		h = p.Floor
	}
	return h
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// FiniteDifferenceSolver computes Jacobians and state-transition matrices
// by numerical differentiation (spec §4.6), the general-purpose sibling of
// estimate.go's hand-differentiated analytic "A matrix" — used anywhere no
// closed-form partial is registered.
type FiniteDifferenceSolver struct {
	Scheme DifferenceScheme
	Step   StepPolicy
}

// NewFiniteDifferenceSolver builds a solver with the given scheme and step
// policy.
func NewFiniteDifferenceSolver(scheme DifferenceScheme, step StepPolicy) *FiniteDifferenceSolver {
	return &FiniteDifferenceSolver{Scheme: scheme, Step: step}
}

// Jacobian computes df/dy|y0 for f: R^n -> R^m at y0, per the configured
// scheme (spec §4.6 "Jacobian at a point").
func (s *FiniteDifferenceSolver) Jacobian(f func([]float64) []float64, y0 []float64) *mat.Dense {
	f0 := f(y0)
	n := len(y0)
	m := len(f0)
	J := mat.NewDense(m, n, nil)
	for j := 0; j < n; j++ {
		h := s.Step.stepFor(y0[j])
		switch s.Scheme {
		case Central:
			yPlus := perturbed(y0, j, h)
			yMinus := perturbed(y0, j, -h)
			fPlus, fMinus := f(yPlus), f(yMinus)
			for i := 0; i < m; i++ {
				J.Set(i, j, (fPlus[i]-fMinus[i])/(2*h))
			}
		case Backward:
			yMinus := perturbed(y0, j, -h)
			fMinus := f(yMinus)
			for i := 0; i < m; i++ {
				J.Set(i, j, (f0[i]-fMinus[i])/h)
			}
		default: // Forward
			yPlus := perturbed(y0, j, h)
			fPlus := f(yPlus)
			for i := 0; i < m; i++ {
				J.Set(i, j, (fPlus[i]-f0[i])/h)
			}
		}
	}
	return J
}

func perturbed(y []float64, idx int, delta float64) []float64 {
	out := append([]float64{}, y...)
	out[idx] += delta
	return out
}

// StateTransitionMatrix computes dy(t)/dy(0) for each downstream instant in
// ts, by perturbing every coordinate of y0 and invoking generator, which
// maps (perturbed initial vector) -> (trajectory of vectors, one per ts)
// (spec §4.6 "state-transition matrix").
func (s *FiniteDifferenceSolver) StateTransitionMatrix(generator func([]float64) [][]float64, y0 []float64) []*mat.Dense {
	base := generator(y0)
	n := len(y0)
	stms := make([]*mat.Dense, len(base))
	for k := range base {
		stms[k] = mat.NewDense(len(base[k]), n, nil)
	}
	for j := 0; j < n; j++ {
		h := s.Step.stepFor(y0[j])
		switch s.Scheme {
		case Central:
			trajPlus := generator(perturbed(y0, j, h))
			trajMinus := generator(perturbed(y0, j, -h))
			for k := range base {
				for i := range base[k] {
					stms[k].Set(i, j, (trajPlus[k][i]-trajMinus[k][i])/(2*h))
				}
			}
		case Backward:
			trajMinus := generator(perturbed(y0, j, -h))
			for k := range base {
				for i := range base[k] {
					stms[k].Set(i, j, (base[k][i]-trajMinus[k][i])/h)
				}
			}
		default:
			trajPlus := generator(perturbed(y0, j, h))
			for k := range base {
				for i := range base[k] {
					stms[k].Set(i, j, (trajPlus[k][i]-base[k][i])/h)
				}
			}
		}
	}
	return stms
}
