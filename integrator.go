package astro

import "math"

// RHS is the right-hand side of an ODE system dy/dt = f(t, y).
type RHS func(t float64, y []float64) []float64

// SolverFamily selects an embedded Runge-Kutta pair (spec §4.2).
type SolverFamily uint8

const (
	CashKarp54 SolverFamily = iota
	Fehlberg78
)

// tableau holds a Butcher tableau for an embedded pair: c (nodes), a (stage
// coefficients, lower-triangular), b (weights of the propagated solution:
// 5th order for Cash-Karp, 7th for Fehlberg), bStar (weights of the embedded
// companion solution, 4th and 8th order respectively, used for the error
// estimate and for dense-output interpolation).
type tableau struct {
	stages int
	order  int
	c      []float64
	a      [][]float64
	b      []float64
	bStar  []float64
}

// cashKarp54 is the classic 6-stage Cash-Karp 5(4) pair.
var cashKarp54 = tableau{
	stages: 6,
	order:  5,
	c:      []float64{0, 1.0 / 5, 3.0 / 10, 3.0 / 5, 1, 7.0 / 8},
	a: [][]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{3.0 / 10, -9.0 / 10, 6.0 / 5},
		{-11.0 / 54, 5.0 / 2, -70.0 / 27, 35.0 / 27},
		{1631.0 / 55296, 175.0 / 512, 575.0 / 13824, 44275.0 / 110592, 253.0 / 4096},
	},
	b:     []float64{37.0 / 378, 0, 250.0 / 621, 125.0 / 594, 0, 512.0 / 1771},
	bStar: []float64{2825.0 / 27648, 0, 18575.0 / 48384, 13525.0 / 55296, 277.0 / 14336, 1.0 / 4},
}

// fehlberg78 is the 13-stage Runge-Kutta-Fehlberg 7(8) pair.
var fehlberg78 = tableau{
	stages: 13,
	order:  7,
	c: []float64{0, 2.0 / 27, 1.0 / 9, 1.0 / 6, 5.0 / 12, 1.0 / 2, 5.0 / 6, 1.0 / 6, 2.0 / 3, 1.0 / 3, 1, 0, 1},
	a: [][]float64{
		{},
		{2.0 / 27},
		{1.0 / 36, 1.0 / 12},
		{1.0 / 24, 0, 1.0 / 8},
		{5.0 / 12, 0, -25.0 / 16, 25.0 / 16},
		{1.0 / 20, 0, 0, 1.0 / 4, 1.0 / 5},
		{-25.0 / 108, 0, 0, 125.0 / 108, -65.0 / 27, 125.0 / 54},
		{31.0 / 300, 0, 0, 0, 61.0 / 225, -2.0 / 9, 13.0 / 900},
		{2, 0, 0, -53.0 / 6, 704.0 / 45, -107.0 / 9, 67.0 / 90, 3},
		{-91.0 / 108, 0, 0, 23.0 / 108, -976.0 / 135, 311.0 / 54, -19.0 / 60, 17.0 / 6, -1.0 / 12},
		{2383.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -301.0 / 82, 2133.0 / 4100, 45.0 / 82, 45.0 / 164, 18.0 / 41},
		{3.0 / 205, 0, 0, 0, 0, -6.0 / 41, -3.0 / 205, -3.0 / 41, 3.0 / 41, 6.0 / 41, 0},
		{-1777.0 / 4100, 0, 0, -341.0 / 164, 4496.0 / 1025, -289.0 / 82, 2193.0 / 4100, 51.0 / 82, 33.0 / 164, 12.0 / 41, 0, 1},
	},
	b:     []float64{41.0 / 840, 0, 0, 0, 0, 34.0 / 105, 9.0 / 35, 9.0 / 35, 9.0 / 280, 9.0 / 280, 41.0 / 840, 0, 0},
	bStar: []float64{0, 0, 0, 0, 0, 34.0 / 105, 9.0 / 35, 9.0 / 35, 9.0 / 280, 9.0 / 280, 0, 41.0 / 840, 41.0 / 840},
}

func tableauFor(family SolverFamily) tableau {
	switch family {
	case Fehlberg78:
		return fehlberg78
	default:
		return cashKarp54
	}
}

// IntegratorConfig configures step-size control for the adaptive solver.
type IntegratorConfig struct {
	Family      SolverFamily
	AbsTol      float64
	RelTol      float64
	InitialStep float64 // magnitude; sign is derived from (tEnd-tStart)
	MaxSteps    int
}

// DefaultIntegratorConfig returns sane defaults for the Cash-Karp 5(4) pair.
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{Family: CashKarp54, AbsTol: 1e-12, RelTol: 1e-12, InitialStep: 10, MaxSteps: 1_000_000}
}

// Integrator performs single-threaded, non-suspending adaptive
// Runge-Kutta integration (spec §4.2, §5).
type Integrator struct {
	cfg     IntegratorConfig
	tableau tableau
}

// NewIntegrator builds an Integrator from the given configuration.
func NewIntegrator(cfg IntegratorConfig) *Integrator {
	return &Integrator{cfg: cfg, tableau: tableauFor(cfg.Family)}
}

// stage evaluates one adaptive RK step from (t, y) with signed step h,
// returning the propagated solution (b weights), the embedded companion
// solution (bStar weights, for error control and dense-output interpolation),
// and the stage derivatives.
func (it *Integrator) stage(f RHS, t float64, y []float64, h float64) (yHigh, yLow []float64, ks [][]float64) {
	tb := it.tableau
	n := len(y)
	ks = make([][]float64, tb.stages)
	for s := 0; s < tb.stages; s++ {
		ys := make([]float64, n)
		copy(ys, y)
		for j := 0; j < s; j++ {
			coeff := tb.a[s][j]
			if coeff == 0 {
				continue
			}
			for idx := 0; idx < n; idx++ {
				ys[idx] += h * coeff * ks[j][idx]
			}
		}
		ks[s] = f(t+tb.c[s]*h, ys)
	}
	yHigh = make([]float64, n)
	yLow = make([]float64, n)
	copy(yHigh, y)
	copy(yLow, y)
	for s := 0; s < tb.stages; s++ {
		for idx := 0; idx < n; idx++ {
			yHigh[idx] += h * tb.b[s] * ks[s][idx]
			yLow[idx] += h * tb.bStar[s] * ks[s][idx]
		}
	}
	return
}

func (it *Integrator) errorNorm(yHigh, yLow []float64) float64 {
	var maxRatio float64
	for i := range yHigh {
		scale := math.Max(it.cfg.AbsTol, it.cfg.RelTol*math.Abs(yHigh[i]))
		if scale == 0 {
			scale = it.cfg.AbsTol
		}
		ratio := math.Abs(yHigh[i]-yLow[i]) / scale
		if ratio > maxRatio {
			maxRatio = ratio
		}
	}
	return maxRatio
}

// Solve integrates f from (tStart, y0) to tEnd, returning only the terminal
// state. Zero-duration requests return y0 unchanged without invoking f
// (spec §4.2).
func (it *Integrator) Solve(f RHS, tStart, tEnd float64, y0 []float64) ([]float64, error) {
	if tStart == tEnd {
		out := make([]float64, len(y0))
		copy(out, y0)
		return out, nil
	}
	dir := Sign(tEnd - tStart)
	h := dir * math.Abs(it.cfg.InitialStep)
	t := tStart
	y := append([]float64{}, y0...)
	steps := 0
	for (dir > 0 && t < tEnd) || (dir < 0 && t > tEnd) {
		if steps >= it.cfg.MaxSteps {
			return y, NewRuntimeError("integrator step limit", t, nil)
		}
		if (dir > 0 && t+h > tEnd) || (dir < 0 && t+h < tEnd) {
			h = tEnd - t
		}
		yHigh, yLow, _ := it.stage(f, t, y, h)
		errNorm := it.errorNorm(yHigh, yLow)
		if errNorm <= 1 || math.Abs(h) < 1e-14 {
			t += h
			y = yHigh
			steps++
			if errNorm > 0 {
				factor := 0.9 * math.Pow(1/errNorm, 1.0/float64(it.tableau.order))
				factor = math.Min(5, math.Max(0.2, factor))
				h *= factor
			}
		} else {
			factor := 0.9 * math.Pow(1/errNorm, 1.0/float64(it.tableau.order))
			factor = math.Max(0.1, factor)
			h *= factor
		}
	}
	return y, nil
}

// DenseSample is one entry of a dense-output log: a time and its state.
type DenseSample struct {
	T float64
	Y []float64
}

// SolveDense integrates f from (tStart, y0) to tEnd, additionally returning
// samples at the caller's uniform step, interpolated linearly from the start
// state toward the embedded (bStar) solution of whichever adaptive step
// straddles each sample time rather than by re-integrating (spec §4.2 dense
// output).
func (it *Integrator) SolveDense(f RHS, tStart, tEnd float64, y0 []float64, step float64) ([]DenseSample, error) {
	if tStart == tEnd {
		return []DenseSample{{T: tStart, Y: append([]float64{}, y0...)}}, nil
	}
	dir := Sign(tEnd - tStart)
	h := dir * math.Abs(it.cfg.InitialStep)
	t := tStart
	y := append([]float64{}, y0...)
	samples := []DenseSample{{T: t, Y: append([]float64{}, y...)}}
	nextSample := tStart + dir*math.Abs(step)
	steps := 0
	for (dir > 0 && t < tEnd) || (dir < 0 && t > tEnd) {
		if steps >= it.cfg.MaxSteps {
			return samples, NewRuntimeError("integrator step limit", t, nil)
		}
		if (dir > 0 && t+h > tEnd) || (dir < 0 && t+h < tEnd) {
			h = tEnd - t
		}
		yHigh, yLow, _ := it.stage(f, t, y, h)
		errNorm := it.errorNorm(yHigh, yLow)
		if errNorm <= 1 || math.Abs(h) < 1e-14 {
			tNext := t + h
			for (dir > 0 && nextSample <= tNext) || (dir < 0 && nextSample >= tNext) {
				frac := (nextSample - t) / h
				interp := make([]float64, len(y))
				for i := range y {
					interp[i] = y[i] + frac*(yLow[i]-y[i]) // linear from the step start toward the embedded solution
				}
				samples = append(samples, DenseSample{T: nextSample, Y: interp})
				nextSample += dir * math.Abs(step)
			}
			t = tNext
			y = yHigh
			steps++
			if errNorm > 0 {
				factor := 0.9 * math.Pow(1/errNorm, 1.0/float64(it.tableau.order))
				factor = math.Min(5, math.Max(0.2, factor))
				h *= factor
			}
		} else {
			factor := 0.9 * math.Pow(1/errNorm, 1.0/float64(it.tableau.order))
			factor = math.Max(0.1, factor)
			h *= factor
		}
	}
	if last := samples[len(samples)-1]; last.T != tEnd {
		samples = append(samples, DenseSample{T: tEnd, Y: y})
	}
	return samples, nil
}
