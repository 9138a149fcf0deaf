package astro

import "math"

// CloseApproach is the tuple (instant, miss_distance, relative_state) of a
// local minimum of inter-trajectory distance (spec §3.7).
type CloseApproach struct {
	Instant       Instant
	MissDistance  float64 // km
	RelativePosition []float64
	RelativeVelocity []float64
}

// Trajectory is anything that can report a Cartesian state at an instant —
// a thin oracle wrapper so the conjunction generator can treat a Propagator
// output or a pre-sampled ephemeris identically (spec §9 "value handles to
// immutable propagator configurations").
type Trajectory interface {
	StateAt(t Instant) (State, error)
}

// propagatorTrajectory adapts a Propagator + initial state into a
// Trajectory.
type propagatorTrajectory struct {
	prop *Propagator
	s0   State
}

func (p propagatorTrajectory) StateAt(t Instant) (State, error) {
	return p.prop.StateAt(p.s0, t)
}

// NewPropagatorTrajectory wraps a Propagator and its initial state as a
// Trajectory.
func NewPropagatorTrajectory(prop *Propagator, s0 State) Trajectory {
	return propagatorTrajectory{prop: prop, s0: s0}
}

// ConjunctionConfig controls the sampling grid and refinement tolerance
// (spec §4.9).
type ConjunctionConfig struct {
	SampleStep    float64 // seconds, default 60
	TimeTolerance float64 // seconds, default 1e-6
}

// DefaultConjunctionConfig returns the spec's stated defaults.
func DefaultConjunctionConfig() ConjunctionConfig {
	return ConjunctionConfig{SampleStep: 60, TimeTolerance: 1e-6}
}

func distance(ref, tgt Trajectory, t Instant) (d float64, relPos, relVel []float64, err error) {
	sRef, err := ref.StateAt(t)
	if err != nil {
		return 0, nil, nil, err
	}
	sTgt, err := tgt.StateAt(t)
	if err != nil {
		return 0, nil, nil, err
	}
	relPos = Sub(sRef.Position(), sTgt.Position())
	relVel = Sub(sRef.Velocity(), sTgt.Velocity())
	return Norm(relPos), relPos, relVel, nil
}

// ComputeCloseApproaches enumerates every local minimum of
// d(t)=|r_ref(t)-r_tgt(t)| over [start, end], grounded on the original
// source's Conjunction/CloseApproach/Generator naming
// (ComputeCloseApproaches, TimeOfClosestApproach) and on tools.go's
// bracket-and-bisect idiom for scalar root finding on a function of time
// (spec §4.9).
func ComputeCloseApproaches(ref, tgt Trajectory, start, end Instant, cfg ConjunctionConfig) ([]CloseApproach, error) {
	step := cfg.SampleStep
	if step <= 0 {
		step = 60
	}
	tol := cfg.TimeTolerance
	if tol <= 0 {
		tol = 1e-6
	}

	span := end.Sub(start).Seconds()
	if span <= 0 {
		return nil, NewWrongError("interval", "end must be strictly after start")
	}
	nSamples := int(span/step) + 2

	times := make([]float64, 0, nSamples)
	dists := make([]float64, 0, nSamples)
	for tOffset := 0.0; tOffset <= span; tOffset += step {
		t := start.Plus(DurationFromSeconds(tOffset))
		d, _, _, err := distance(ref, tgt, t)
		if err != nil {
			return nil, err
		}
		if tOffset == 0 && d < 1e-9 {
			return nil, NewWrongError("trajectories", "states are co-located")
		}
		times = append(times, tOffset)
		dists = append(dists, d)
	}
	if times[len(times)-1] != span {
		t := end
		d, _, _, err := distance(ref, tgt, t)
		if err != nil {
			return nil, err
		}
		times = append(times, span)
		dists = append(dists, d)
	}

	var approaches []CloseApproach
	for i := 1; i < len(dists)-1; i++ {
		if dists[i] < dists[i-1] && dists[i] < dists[i+1] {
			tca, err := refineTCA(ref, tgt, start, times[i-1], times[i+1], step, tol)
			if err != nil {
				return nil, err
			}
			d, relPos, relVel, err := distance(ref, tgt, tca)
			if err != nil {
				return nil, err
			}
			approaches = append(approaches, CloseApproach{Instant: tca, MissDistance: d, RelativePosition: relPos, RelativeVelocity: relVel})
		}
	}
	return dedupeByStep(approaches, step), nil
}

// refineTCA finds the zero of dd/dt within [tLo, tHi] (relative to start) by
// bisecting the sign of a central-difference derivative estimate, to within
// the configured time tolerance.
func refineTCA(ref, tgt Trajectory, start Instant, tLo, tHi, step, tol float64) (Instant, error) {
	ddt := func(tOffset float64) (float64, error) {
		h := math.Min(step/100, 1.0)
		dPlus, _, _, err := distance(ref, tgt, start.Plus(DurationFromSeconds(tOffset+h)))
		if err != nil {
			return 0, err
		}
		dMinus, _, _, err := distance(ref, tgt, start.Plus(DurationFromSeconds(tOffset-h)))
		if err != nil {
			return 0, err
		}
		return (dPlus - dMinus) / (2 * h), nil
	}
	gLo, err := ddt(tLo)
	if err != nil {
		return Instant{}, err
	}
	gHi, err := ddt(tHi)
	if err != nil {
		return Instant{}, err
	}
	if gLo == 0 {
		return start.Plus(DurationFromSeconds(tLo)), nil
	}
	if gHi == 0 {
		return start.Plus(DurationFromSeconds(tHi)), nil
	}
	if Sign(gLo) == Sign(gHi) {
		// Bracket didn't actually toggle; fall back to the midpoint sample.
		return start.Plus(DurationFromSeconds((tLo + tHi) / 2)), nil
	}
	for i := 0; i < 200 && (tHi-tLo) > tol; i++ {
		tMid := (tLo + tHi) / 2
		gMid, err := ddt(tMid)
		if err != nil {
			return Instant{}, err
		}
		if Sign(gMid) == Sign(gLo) {
			tLo, gLo = tMid, gMid
		} else {
			tHi = tMid
		}
	}
	return start.Plus(DurationFromSeconds((tLo + tHi) / 2)), nil
}

// dedupeByStep enforces the invariant that no two output TCAs are within
// the sampling step size of each other (spec §4.9 Invariants), keeping the
// lower-miss-distance candidate of any pair that violates it.
func dedupeByStep(approaches []CloseApproach, step float64) []CloseApproach {
	if len(approaches) < 2 {
		return approaches
	}
	out := []CloseApproach{approaches[0]}
	for _, a := range approaches[1:] {
		last := &out[len(out)-1]
		if math.Abs(a.Instant.Sub(last.Instant).Seconds()) < step {
			if a.MissDistance < last.MissDistance {
				*last = a
			}
			continue
		}
		out = append(out, a)
	}
	return out
}
