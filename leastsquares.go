package astro

import (
	"math"

	"github.com/ChristopherRabotin/gokalman"
	kitlog "github.com/go-kit/log"
	"gonum.org/v1/gonum/mat"
)

// Observation is one (computed, observed) pair in the state's coordinate
// frame, grounded on hwmain/station.go's Measurement (StateVector/HTilde
// pattern generalized away from ground-station range/range-rate to an
// arbitrary coordinate-subset residual).
type Observation struct {
	Instant  Instant
	Observed []float64
	Sigma    []float64 // per-component standard deviation; must be > 0
}

// LeastSquaresConfig controls iteration termination (spec §4.7).
type LeastSquaresConfig struct {
	MaxIter         int
	UpdateThreshold float64 // convergence: |rms_curr - rms_prev| < threshold
	FiniteDiff      *FiniteDifferenceSolver
	Logger          kitlog.Logger // optional; when set, logs per-iteration RMS and termination only
}

// DefaultLeastSquaresConfig returns sane iteration defaults.
func DefaultLeastSquaresConfig() LeastSquaresConfig {
	return LeastSquaresConfig{
		MaxIter:         25,
		UpdateThreshold: 1e-6,
		FiniteDiff:      NewFiniteDifferenceSolver(Central, StepPolicy{StepPct: 1e-6, Floor: 1e-9}),
	}
}

// LeastSquaresResult is the batch-estimation analysis record (spec §4.7,
// §6.3): final estimate, posterior and Frisbee-empirical covariances,
// per-iteration RMS history, and the computed observation states at the
// final iteration. The per-iteration state updates (steps) are not recorded.
type LeastSquaresResult struct {
	Estimate          []float64
	Covariance        *mat.Dense // P_hat = Lambda^-1
	EmpiricalCovariance *mat.Dense // Frisbee
	RMSHistory        []float64
	TerminationReason string
	Iterations        int
	ComputedObservations [][]float64
}

// BatchLeastSquares iterates the standard normal-equations step (spec
// §4.7):
//
//	Lambda = Pbar^-1 + sum_i Hi^T Ri^-1 Hi
//	N      = Pbar^-1 xbar + sum_i Hi^T Ri^-1 yi
//	xhat   = Lambda^-1 N
//
// grounded on examples/statOD/batch/main.go's gokalman.NewBatchKF iteration
// loop and hwmain/station.go's HTilde sensitivity-matrix assembly pattern,
// generalized from ground-station range/range-rate residuals to an
// arbitrary "compute(x) -> predicted observation" closure.
func BatchLeastSquares(
	x0 []float64,
	priorCovariance *mat.Dense, // Pbar, or nil for an uninformative (zero-information) prior
	observations []Observation,
	compute func(x []float64, at Instant) ([]float64, error),
	cfg LeastSquaresConfig,
) (*LeastSquaresResult, error) {
	if len(observations) == 0 {
		return nil, NewWrongError("observations", "batch least squares requires at least one observation")
	}
	n := len(x0)
	for _, obs := range observations {
		for _, sig := range obs.Sigma {
			if sig <= 0 {
				return nil, NewWrongError("observation sigma", "must be strictly positive")
			}
		}
	}

	xStar := append([]float64{}, x0...)
	xBar := make([]float64, n)

	if priorCovariance == nil {
		priorCovariance = uninformativePrior(n)
	}
	var pBarInv *mat.Dense
	{
		var inv mat.Dense
		if err := inv.Inverse(priorCovariance); err != nil {
			return nil, NewRuntimeError("prior covariance inversion", priorCovariance, err)
		}
		pBarInv = &inv
	}

	result := &LeastSquaresResult{}
	prevRMS := math.Inf(1)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		lambda := mat.NewDense(n, n, nil)
		lambda.Add(lambda, pBarInv)
		N := mat.NewVecDense(n, nil)
		{
			xBarVec := mat.NewVecDense(n, xBar)
			var tmp mat.VecDense
			tmp.MulVec(pBarInv, xBarVec)
			N.AddVec(N, &tmp)
		}

		var sumSqResidual float64
		var residualCount int
		computedObs := make([][]float64, len(observations))

		for oi, obs := range observations {
			computed, err := compute(xStar, obs.Instant)
			if err != nil {
				return nil, err
			}
			computedObs[oi] = computed
			m := len(obs.Observed)
			y := make([]float64, m)
			for k := range y {
				y[k] = obs.Observed[k] - computed[k]
				sumSqResidual += y[k] * y[k]
				residualCount++
			}

			H := cfg.FiniteDiff.Jacobian(func(xx []float64) []float64 {
				c, cerr := compute(xx, obs.Instant)
				if cerr != nil {
					panic(cerr)
				}
				return c
			}, xStar)

			rInvDiag := make([]float64, m)
			for k, sig := range obs.Sigma {
				rInvDiag[k] = 1 / (sig * sig)
			}

			var HtRinv mat.Dense
			HtRinv.CloneFrom(H.T())
			for row := 0; row < n; row++ {
				for col := 0; col < m; col++ {
					HtRinv.Set(row, col, HtRinv.At(row, col)*rInvDiag[col])
				}
			}
			var HtRinvH mat.Dense
			HtRinvH.Mul(&HtRinv, H)
			lambda.Add(lambda, &HtRinvH)

			yVec := mat.NewVecDense(m, y)
			var HtRinvY mat.VecDense
			HtRinvY.MulVec(&HtRinv, yVec)
			N.AddVec(N, &HtRinvY)
		}

		var lambdaInv mat.Dense
		if err := lambdaInv.Inverse(lambda); err != nil {
			return nil, NewRuntimeError("normal-equations matrix inversion", lambda, err)
		}
		var xHat mat.VecDense
		xHat.MulVec(&lambdaInv, N)

		for i := 0; i < n; i++ {
			xStar[i] += xHat.AtVec(i)
			xBar[i] -= xHat.AtVec(i)
		}

		rms := math.Sqrt(sumSqResidual / float64(residualCount))
		result.RMSHistory = append(result.RMSHistory, rms)
		result.Iterations = iter + 1
		result.ComputedObservations = computedObs
		if cfg.Logger != nil {
			LogEstimationIteration(cfg.Logger, iter, rms)
		}

		if iter >= 2 && math.Abs(rms-prevRMS) < cfg.UpdateThreshold {
			result.TerminationReason = "rms converged"
			result.Estimate = xStar
			result.Covariance = &lambdaInv
			result.EmpiricalCovariance = frisbeeCovariance(&lambdaInv, observations, xStar, compute, cfg)
			if cfg.Logger != nil {
				LogEstimationDone(cfg.Logger, result.TerminationReason, result.Iterations)
			}
			return result, nil
		}
		prevRMS = rms
	}
	result.TerminationReason = "max iterations reached"
	result.Estimate = xStar
	if result.Covariance == nil {
		result.Covariance = mat.NewDense(n, n, nil)
	}
	if cfg.Logger != nil {
		LogEstimationDone(cfg.Logger, result.TerminationReason, result.Iterations)
	}
	return result, NewRuntimeError("least-squares iteration", result.RMSHistory, nil)
}

// uninformativePrior builds a large-but-finite diagonal prior covariance so
// an absent prior still inverts cleanly, using gokalman's DenseIdentity
// scaffolding idiom from estimate.go's OrbitEstimate (Φ0 = gokalman.DenseIdentity(6)).
// gokalman predates the gonum v1 module split and returns the deprecated
// github.com/gonum/matrix/mat64 type, so its values are copied element by
// element into this module's gonum.org/v1/gonum/mat.Dense rather than
// threading the old type through the rest of the solver.
func uninformativePrior(n int) *mat.Dense {
	scaffold := gokalman.ScaledDenseIdentity(n, 1e12)
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, scaffold.At(i, j))
		}
	}
	return out
}

// frisbeeCovariance computes P_hat * (sum Hi^T Ri^-1 yi yi^T Ri^-1 Hi) * P_hat,
// the empirical (Frisbee) covariance named in spec §4.7's Outputs.
func frisbeeCovariance(pHat *mat.Dense, observations []Observation, xStar []float64, compute func([]float64, Instant) ([]float64, error), cfg LeastSquaresConfig) *mat.Dense {
	n, _ := pHat.Dims()
	middle := mat.NewDense(n, n, nil)
	for _, obs := range observations {
		computed, err := compute(xStar, obs.Instant)
		if err != nil {
			continue
		}
		m := len(obs.Observed)
		y := make([]float64, m)
		rInvDiag := make([]float64, m)
		for k := range y {
			y[k] = obs.Observed[k] - computed[k]
			rInvDiag[k] = 1 / (obs.Sigma[k] * obs.Sigma[k])
		}
		H := cfg.FiniteDiff.Jacobian(func(xx []float64) []float64 {
			c, _ := compute(xx, obs.Instant)
			return c
		}, xStar)
		var HtRinv mat.Dense
		HtRinv.CloneFrom(H.T())
		for row := 0; row < n; row++ {
			for col := 0; col < m; col++ {
				HtRinv.Set(row, col, HtRinv.At(row, col)*rInvDiag[col])
			}
		}
		yVec := mat.NewVecDense(m, y)
		var HtRinvY mat.VecDense
		HtRinvY.MulVec(&HtRinv, yVec)
		var outer mat.Dense
		outer.Outer(1, &HtRinvY, &HtRinvY)
		middle.Add(middle, &outer)
	}
	var tmp, out mat.Dense
	tmp.Mul(pHat, middle)
	out.Mul(&tmp, pHat)
	return &out
}
