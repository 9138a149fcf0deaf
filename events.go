package astro

import "math"

// Criterion names how a scalar condition's sign history is interpreted as
// "satisfied" (spec §4.3).
type Criterion uint8

const (
	PositiveCrossing Criterion = iota
	NegativeCrossing
	AnyCrossing
	StrictlyPositive
	StrictlyNegative
)

// Condition is satisfied by inspecting the value of g at two successive
// states. RealCondition and AngularCondition both implement it.
type Condition interface {
	// Value evaluates the underlying scalar function at s.
	Value(s State) (float64, error)
	// Satisfied decides, from the values at two successive states, whether
	// the condition fires between them.
	Satisfied(prev, curr float64) bool
}

// RealCondition wraps a scalar-valued function g: State -> R with a
// crossing Criterion (spec §4.3).
type RealCondition struct {
	Name      string
	G         func(State) (float64, error)
	Criterion Criterion
}

func (c RealCondition) Value(s State) (float64, error) { return c.G(s) }

func (c RealCondition) Satisfied(prev, curr float64) bool {
	return satisfiesCriterion(c.Criterion, prev, curr)
}

func satisfiesCriterion(crit Criterion, prev, curr float64) bool {
	switch crit {
	case PositiveCrossing:
		return prev <= 0 && curr > 0
	case NegativeCrossing:
		return prev >= 0 && curr < 0
	case AnyCrossing:
		return (prev <= 0 && curr > 0) || (prev >= 0 && curr < 0)
	case StrictlyPositive:
		return curr > 0
	case StrictlyNegative:
		return curr < 0
	default:
		return false
	}
}

// AngularCondition is a RealCondition interpreted modulo 2*pi, additionally
// admitting a [lo, hi] CCW-arc range form (spec §4.3).
type AngularCondition struct {
	Name        string
	G           func(State) (float64, error)
	Criterion   Criterion
	RangeLo     float64
	RangeHi     float64
	UseRange    bool
}

func (c AngularCondition) Value(s State) (float64, error) {
	v, err := c.G(s)
	if err != nil {
		return 0, err
	}
	return wrap2Pi(v), nil
}

func (c AngularCondition) Satisfied(prev, curr float64) bool {
	if !c.UseRange {
		return satisfiesCriterion(c.Criterion, angularSignedDelta(prev, curr), 1)
	}
	inRange := func(x float64) bool {
		x = wrap2Pi(x)
		lo, hi := wrap2Pi(c.RangeLo), wrap2Pi(c.RangeHi)
		if lo <= hi {
			return x >= lo && x <= hi
		}
		return x >= lo || x <= hi // arc wraps through 0
	}
	return inRange(curr) && !inRange(prev)
}

// angularSignedDelta returns a representative of the shortest signed CCW/CW
// traversal from prev to curr, used so that a pure crossing criterion can
// be applied to an angle without discontinuity artifacts at the 0/2pi
// boundary.
func angularSignedDelta(prev, curr float64) float64 {
	d := wrap2Pi(curr) - wrap2Pi(prev)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// elementValue returns a single COE element, for use as the G function of a
// RealCondition/AngularCondition, by converting the incoming Cartesian state on every
// evaluation (spec §4.3 "BLM/COE specializations" — acceptable cost because
// it is called O(1) times per integrator step).
func elementValue(s State, body CelestialBody, extract func(COE) float64) (float64, error) {
	r, v := s.Position(), s.Velocity()
	if r == nil || v == nil {
		return 0, NewUndefinedError("Cartesian position/velocity for element condition", nil)
	}
	coe, err := NewCOEFromCartesian(r, v, body)
	if err != nil {
		return 0, err
	}
	return extract(coe), nil
}

// NewCOEElementCondition builds a RealCondition over a classical element,
// e.g. NewCOEElementCondition("e", body, func(c COE) float64 { return c.Ecc }, AnyCrossing).
func NewCOEElementCondition(name string, body CelestialBody, extract func(COE) float64, crit Criterion) RealCondition {
	return RealCondition{
		Name:      name,
		G:         func(s State) (float64, error) { return elementValue(s, body, extract) },
		Criterion: crit,
	}
}

// NewCOEAngularCondition builds an AngularCondition over a classical
// angular element (RAAN, AoP, or anomaly).
func NewCOEAngularCondition(name string, body CelestialBody, extract func(COE) float64, crit Criterion) AngularCondition {
	return AngularCondition{
		Name:      name,
		G:         func(s State) (float64, error) { return elementValue(s, body, extract) },
		Criterion: crit,
	}
}

// NewBLMElementCondition builds a condition over a Brouwer-Lyddane mean
// element, converting the incoming Cartesian state through NewCOEFromCartesian
// then ToMean on every evaluation.
func NewBLMElementCondition(name string, body CelestialBody, extract func(BLM) float64, crit Criterion) RealCondition {
	return RealCondition{
		Name: name,
		G: func(s State) (float64, error) {
			r, v := s.Position(), s.Velocity()
			if r == nil || v == nil {
				return 0, NewUndefinedError("Cartesian position/velocity for BLM condition", nil)
			}
			coe, err := NewCOEFromCartesian(r, v, body)
			if err != nil {
				return 0, err
			}
			mean, err := ToMean(coe)
			if err != nil {
				return 0, err
			}
			return extract(mean), nil
		},
		Criterion: crit,
	}
}
