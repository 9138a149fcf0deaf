package astro

import (
	"math"

	kitlog "github.com/go-kit/log"
)

// Propagator composes one or more DynamicsTerm contributions into a
// combined right-hand side and drives an Integrator (spec §4.4), grounded
// on mission.go's Mission.Propagate/Mission.Stop/Mission.SetState,
// generalized from the teacher's single hard-coded Gaussian-VOP/Cartesian
// switch to this module's pluggable Dynamics registry (§4.5).
type Propagator struct {
	Broker     *CoordinateBroker
	Frame      Frame
	Terms      []DynamicsTerm
	Integrator *Integrator
	EventTol   float64      // independent-variable (time) tolerance for root-refine
	Logger     kitlog.Logger // optional; when set, logs propagation start/end boundaries only
}

// NewPropagator builds a Propagator over the union of every term's read/
// write subsets.
func NewPropagator(frame Frame, terms []DynamicsTerm, integrator *Integrator) *Propagator {
	broker := CartesianBroker(false)
	for _, t := range terms {
		for _, ws := range append(t.ReadSubsets(), t.WriteSubsets()...) {
			if !broker.Has(ws) {
				broker = broker.Union(NewCoordinateBroker(ws))
			}
		}
	}
	return &Propagator{Broker: broker, Frame: frame, Terms: terms, Integrator: integrator, EventTol: 1e-6}
}

func (p *Propagator) rhs(epoch Instant) RHS {
	return ComposedRHS(p.Broker, p.Frame, epoch, p.Terms)
}

// StateAt integrates s0 to instant t and returns the resulting State.
func (p *Propagator) StateAt(s0 State, t Instant) (State, error) {
	if !s0.IsDefined() {
		return State{}, NewUndefinedError("initial state", nil)
	}
	if p.Logger != nil {
		LogPropagationStart(p.Logger, s0.Instant, t)
	}
	dt := t.Sub(s0.Instant).Seconds()
	y, err := p.Integrator.Solve(p.rhs(s0.Instant), 0, dt, s0.Coordinates)
	if err != nil {
		if p.Logger != nil {
			LogPropagationEnd(p.Logger, s0.Instant, err)
		}
		return State{}, err
	}
	if p.Logger != nil {
		LogPropagationEnd(p.Logger, t, nil)
	}
	return State{Instant: t, Coordinates: y, Frame: s0.Frame, Broker: s0.Broker}, nil
}

// StatesAt integrates s0 across every instant in T (which must be sorted)
// and returns the state at each.
func (p *Propagator) StatesAt(s0 State, instants []Instant) ([]State, error) {
	if !s0.IsDefined() {
		return nil, NewUndefinedError("initial state", nil)
	}
	out := make([]State, len(instants))
	cur := s0
	for i, t := range instants {
		s, err := p.StateAt(cur, t)
		if err != nil {
			return out[:i], err
		}
		out[i] = s
		cur = s
	}
	return out, nil
}

// PropagateToEvent integrates s0 forward (or backward) looking for the
// first state satisfying condition within tMax of s0.Instant, or returns
// ok=false if none is found within the horizon (spec §4.4).
func (p *Propagator) PropagateToEvent(s0 State, condition Condition, tMax Instant) (state State, ok bool, err error) {
	if !s0.IsDefined() {
		return State{}, false, NewUndefinedError("initial state", nil)
	}
	dtTotal := tMax.Sub(s0.Instant).Seconds()
	if dtTotal == 0 {
		return s0, false, nil
	}
	dir := Sign(dtTotal)
	step := dir * math.Min(math.Abs(dtTotal), 60)
	if step == 0 {
		step = dir
	}

	prevState := s0
	prevVal, verr := condition.Value(prevState)
	if verr != nil {
		return State{}, false, verr
	}

	t := 0.0
	for (dir > 0 && t < dtTotal) || (dir < 0 && t > dtTotal) {
		next := t + step
		if (dir > 0 && next > dtTotal) || (dir < 0 && next < dtTotal) {
			next = dtTotal
		}
		y, ierr := p.Integrator.Solve(p.rhs(s0.Instant), t, next, prevState.Coordinates)
		if ierr != nil {
			return State{}, false, ierr
		}
		currState := State{Instant: s0.Instant.Plus(DurationFromSeconds(next)), Coordinates: y, Frame: s0.Frame, Broker: s0.Broker}
		currVal, cerr := condition.Value(currState)
		if cerr != nil {
			return State{}, false, cerr
		}
		if condition.Satisfied(prevVal, currVal) {
			refined, rerr := p.refineEvent(s0, condition, t, prevState, next, currState, prevVal, currVal)
			return refined, true, rerr
		}
		prevState, prevVal = currState, currVal
		t = next
	}
	return State{}, false, nil
}

// refineEvent brackets [tLo, tHi] (where the condition toggles) and
// bisects the propagated state's condition value to p.EventTol, the
// "bracket and bisect" root-refine policy of spec §4.4.
func (p *Propagator) refineEvent(s0 State, condition Condition, tLo float64, sLo State, tHi float64, sHi State, gLo, gHi float64) (State, error) {
	for i := 0; i < 200 && math.Abs(tHi-tLo) > p.EventTol; i++ {
		tMid := (tLo + tHi) / 2
		y, err := p.Integrator.Solve(p.rhs(s0.Instant), tLo, tMid, sLo.Coordinates)
		if err != nil {
			return State{}, err
		}
		sMid := State{Instant: s0.Instant.Plus(DurationFromSeconds(tMid)), Coordinates: y, Frame: s0.Frame, Broker: s0.Broker}
		gMid, err := condition.Value(sMid)
		if err != nil {
			return State{}, err
		}
		if condition.Satisfied(gLo, gMid) {
			tHi, sHi, gHi = tMid, sMid, gMid
		} else {
			tLo, sLo, gLo = tMid, sMid, gMid
		}
	}
	return sHi, nil
}
