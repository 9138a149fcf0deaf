package astro

import (
	"math"
	"testing"
)

func testQLaw() QLaw {
	return QLaw{
		Target:   COE{SMA: 8000, Ecc: 0.01, Inc: Deg2rad(30), RAAN: Deg2rad(10), AoP: Deg2rad(0), Body: Earth},
		Weights:  QLawWeights{A: 1, E: 1, I: 1, RAAN: 1, AoP: 1},
		MaxAccel: 1e-7,
		Body:     Earth,
	}
}

func TestQLawQZeroAtTarget(t *testing.T) {
	q := testQLaw()
	val, err := q.Q(q.Target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 0 {
		t.Fatalf("expected Q=0 exactly at the target elements, got %f", val)
	}
}

func TestQLawQPositiveAwayFromTarget(t *testing.T) {
	q := testQLaw()
	c := q.Target
	c.SMA += 500
	val, err := q.Q(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val <= 0 {
		t.Fatal("expected a positive Q away from the target")
	}
}

func TestQLawMissingBody(t *testing.T) {
	q := testQLaw()
	q.Body = nil
	if _, err := q.Q(COE{SMA: 7000, Body: Earth}); !IsUndefined(err) {
		t.Fatal("expected UndefinedError when QLaw.Body is nil")
	}
}

func TestQLawGradientAnalyticMatchesFiniteDifference(t *testing.T) {
	q := testQLaw()
	c := COE{SMA: 7200, Ecc: 0.05, Inc: Deg2rad(25), RAAN: Deg2rad(5), AoP: Deg2rad(15), Body: Earth}
	analytic, err := q.GradientAnalytic(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fd := q.GradientFiniteDifference(c, 1e-6)
	for i := range analytic {
		denom := math.Max(math.Abs(analytic[i]), 1e-12)
		if math.Abs(analytic[i]-fd[i])/denom > 1e-3 {
			t.Fatalf("gradient component %d mismatch: analytic=%e fd=%e", i, analytic[i], fd[i])
		}
	}
}

func TestQLawThrustDirectionIsUnit(t *testing.T) {
	q := testQLaw()
	broker := CartesianBroker(false)
	s := State{Instant: NewInstant(0, 0), Coordinates: []float64{7000, 0, 0, 0, 7.5, 1}, Frame: GCRF, Broker: broker}
	dir, err := q.ThrustDirection(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(Norm(dir)-1) > 1e-9 {
		t.Fatalf("expected a unit thrust direction, got norm %f", Norm(dir))
	}
}

func TestCombineControlLawsRuggieroVsNaasz(t *testing.T) {
	dirs := [][]float64{{1, 0, 0}, {0, 1, 0}}
	factors := []float64{1, 3}
	ruggiero := CombineControlLaws(Ruggiero, dirs, factors)
	naasz := CombineControlLaws(Naasz, dirs, factors)
	if math.Abs(Norm(ruggiero)-1) > 1e-9 || math.Abs(Norm(naasz)-1) > 1e-9 {
		t.Fatal("expected combined directions to be unit vectors")
	}
	// Naasz squares the weights, so it should favor the second direction more strongly.
	if naasz[1] <= ruggiero[1] {
		t.Fatal("expected Naasz weighting to bias further toward the higher-factor direction")
	}
}

func TestCombineControlLawsZeroWeight(t *testing.T) {
	got := CombineControlLaws(Ruggiero, [][]float64{{1, 0, 0}}, []float64{0})
	if got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Fatal("expected the zero vector when all factors are zero")
	}
}
