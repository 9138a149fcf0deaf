package astro

import "testing"

func TestSatisfiesCriterion(t *testing.T) {
	cases := []struct {
		crit       Criterion
		prev, curr float64
		want       bool
	}{
		{PositiveCrossing, -1, 1, true},
		{PositiveCrossing, 1, 2, false},
		{NegativeCrossing, 1, -1, true},
		{NegativeCrossing, -1, -2, false},
		{AnyCrossing, -1, 1, true},
		{AnyCrossing, 1, -1, true},
		{AnyCrossing, 1, 2, false},
		{StrictlyPositive, 0.5, 1, true},
		{StrictlyPositive, 0.5, -1, false},
		{StrictlyNegative, -0.5, -1, true},
	}
	for _, c := range cases {
		if got := satisfiesCriterion(c.crit, c.prev, c.curr); got != c.want {
			t.Fatalf("satisfiesCriterion(%v, %f, %f) = %v, want %v", c.crit, c.prev, c.curr, got, c.want)
		}
	}
}

func TestRealConditionValueAndSatisfied(t *testing.T) {
	cond := RealCondition{
		Name:      "altitude-7000",
		G:         func(s State) (float64, error) { return Norm(s.Position()) - 7000, nil },
		Criterion: PositiveCrossing,
	}
	broker := CartesianBroker(false)
	s := State{Instant: NewInstant(0, 0), Coordinates: []float64{7100, 0, 0, 0, 7.5, 0}, Frame: GCRF, Broker: broker}
	v, err := cond.Value(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100 {
		t.Fatalf("expected value 100, got %f", v)
	}
	if !cond.Satisfied(-1, 1) {
		t.Fatal("expected a positive crossing to be satisfied")
	}
}

func TestAngularConditionWrap(t *testing.T) {
	cond := AngularCondition{Name: "raan", G: func(State) (float64, error) { return 0, nil }}
	v, err := cond.Value(State{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected wrapped value 0, got %f", v)
	}
}

func TestAngularConditionRange(t *testing.T) {
	cond := AngularCondition{
		Name:     "raan-range",
		RangeLo:  Deg2rad(350),
		RangeHi:  Deg2rad(10),
		UseRange: true,
	}
	if !cond.Satisfied(Deg2rad(340), Deg2rad(355)) {
		t.Fatal("expected entry into a wrap-through-zero range to be satisfied")
	}
	if cond.Satisfied(Deg2rad(5), Deg2rad(8)) {
		t.Fatal("already-inside-range should not re-trigger")
	}
}

func TestNewCOEElementCondition(t *testing.T) {
	cond := NewCOEElementCondition("ecc", Earth, func(c COE) float64 { return c.Ecc }, AnyCrossing)
	coe := COE{SMA: 7000, Ecc: 0.01, Inc: Deg2rad(30), RAAN: Deg2rad(10), AoP: Deg2rad(20), Anom: Deg2rad(40), Kind: TrueAnomaly, Body: Earth}
	r, v, err := coe.ToCartesian()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	broker := CartesianBroker(false)
	s := State{Instant: NewInstant(0, 0), Coordinates: append(append([]float64{}, r...), v...), Frame: GCRF, Broker: broker}
	got, err := cond.Value(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got < 0.009 || got > 0.011 {
		t.Fatalf("expected eccentricity near 0.01, got %f", got)
	}
}
