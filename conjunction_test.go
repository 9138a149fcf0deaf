package astro

import (
	"math"
	"testing"
)

// linearTrajectory moves at constant velocity from a position at t=0,
// a minimal Trajectory implementation for exercising conjunction search
// without invoking a full Propagator.
type linearTrajectory struct {
	r0, v []float64
}

func (l linearTrajectory) StateAt(t Instant) (State, error) {
	dt := t.Sub(NewInstant(0, 0)).Seconds()
	r := Add(l.r0, Scale(dt, l.v))
	broker := CartesianBroker(false)
	coords := append(append([]float64{}, r...), l.v...)
	return State{Instant: t, Coordinates: coords, Frame: GCRF, Broker: broker}, nil
}

func TestComputeCloseApproachesFindsSingleMinimum(t *testing.T) {
	// ref stationary at origin; tgt passes through (0,0,1) at t=500s moving along x.
	ref := linearTrajectory{r0: []float64{0, 0, 0}, v: []float64{0, 0, 0}}
	tgt := linearTrajectory{r0: []float64{-500, 0, 1}, v: []float64{1, 0, 0}}
	start := NewInstant(0, 0)
	end := start.Plus(DurationFromSeconds(1000))
	approaches, err := ComputeCloseApproaches(ref, tgt, start, end, DefaultConjunctionConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(approaches) != 1 {
		t.Fatalf("expected exactly one close approach, got %d", len(approaches))
	}
	ca := approaches[0]
	if math.Abs(ca.MissDistance-1) > 1e-3 {
		t.Fatalf("expected a miss distance near 1 km, got %f", ca.MissDistance)
	}
	offset := ca.Instant.Sub(start).Seconds()
	if math.Abs(offset-500) > 1 {
		t.Fatalf("expected the TCA near t=500s, got %f", offset)
	}
}

func TestComputeCloseApproachesRejectsBackwardsInterval(t *testing.T) {
	ref := linearTrajectory{r0: []float64{0, 0, 0}, v: []float64{0, 0, 0}}
	tgt := linearTrajectory{r0: []float64{100, 0, 0}, v: []float64{0, 0, 0}}
	start := NewInstant(1000, 0)
	end := NewInstant(0, 0)
	if _, err := ComputeCloseApproaches(ref, tgt, start, end, DefaultConjunctionConfig()); !IsWrong(err) {
		t.Fatal("expected WrongError for a non-positive interval")
	}
}

func TestComputeCloseApproachesRejectsCoLocatedStart(t *testing.T) {
	ref := linearTrajectory{r0: []float64{0, 0, 0}, v: []float64{1, 0, 0}}
	tgt := linearTrajectory{r0: []float64{0, 0, 0}, v: []float64{1, 0, 0}}
	start := NewInstant(0, 0)
	end := start.Plus(DurationFromSeconds(100))
	if _, err := ComputeCloseApproaches(ref, tgt, start, end, DefaultConjunctionConfig()); !IsWrong(err) {
		t.Fatal("expected WrongError when trajectories start co-located")
	}
}

func TestDedupeByStepKeepsClosestOfNearbyPair(t *testing.T) {
	approaches := []CloseApproach{
		{Instant: NewInstant(0, 0), MissDistance: 5},
		{Instant: NewInstant(30, 0), MissDistance: 2},
	}
	out := dedupeByStep(approaches, 60)
	if len(out) != 1 {
		t.Fatalf("expected the two nearby candidates to collapse to one, got %d", len(out))
	}
	if out[0].MissDistance != 2 {
		t.Fatalf("expected the lower-miss-distance candidate to survive, got %f", out[0].MissDistance)
	}
}

func TestNewPropagatorTrajectoryDelegatesToPropagator(t *testing.T) {
	p := twoBodyPropagator()
	s0 := circularLEOState()
	traj := NewPropagatorTrajectory(p, s0)
	s, err := traj.StateAt(s0.Instant.Plus(DurationFromSeconds(100)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsDefined() {
		t.Fatal("expected a defined state from the propagator trajectory")
	}
}
