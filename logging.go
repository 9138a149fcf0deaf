package astro

import (
	"os"

	kitlog "github.com/go-kit/log"
)

// NewLogger builds a logfmt logger writing to stdout, in the same
// NewLogfmtLogger/NewSyncWriter/With idiom as the teacher's
// estimate.go:NewOrbitEstimate klog setup, but with the import path
// modernized to github.com/go-kit/log (the go-kit/kit/log subpackage the
// teacher used has since been extracted to its own module).
//
// Logging lives at propagation/estimation status boundaries (start, stop,
// convergence, non-convergence) — never inside the numerical inner loops of
// Integrator.stage or BatchLeastSquares' per-observation residual pass
// (spec §7 Error Handling: "error handling in numerical code never hides a
// result behind a log line").
func NewLogger(component string) kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(l, "ts", kitlog.DefaultTimestampUTC, "component", component)
}

// LogPropagationStart logs the beginning of a propagation run.
func LogPropagationStart(logger kitlog.Logger, epoch Instant, tMax Instant) {
	logger.Log("event", "propagate_start", "epoch", epoch.String(), "stop", tMax.String())
}

// LogPropagationEnd logs the end of a propagation run, including the error
// if the run did not complete cleanly.
func LogPropagationEnd(logger kitlog.Logger, final Instant, err error) {
	if err != nil {
		logger.Log("event", "propagate_error", "at", final.String(), "err", err)
		return
	}
	logger.Log("event", "propagate_end", "at", final.String())
}

// LogEstimationIteration logs one batch least-squares iteration's RMS, the
// natural status checkpoint for a multi-iteration solve.
func LogEstimationIteration(logger kitlog.Logger, iteration int, rms float64) {
	logger.Log("event", "estimate_iteration", "iteration", iteration, "rms", rms)
}

// LogEstimationDone logs the batch least-squares termination reason.
func LogEstimationDone(logger kitlog.Logger, reason string, iterations int) {
	logger.Log("event", "estimate_done", "reason", reason, "iterations", iterations)
}
