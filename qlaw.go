package astro

import "math"

// CombinationMethod selects how per-element optimal thrust-direction angles
// are combined into a single thrust direction (spec §4.5, grounded on
// prop.go's OptimalΔOrbit.Control "Ruggiero"/"Naasz" summation methods).
type CombinationMethod uint8

const (
	Ruggiero CombinationMethod = iota
	Naasz
)

// QLawWeights holds the per-element weights W_oe of the Lyapunov function
// Q(a,e,i,Ω,ω) = sum W_oe * ((oe-oe_T)/oe_xx)^2 (spec §4.5). No
// per-element scaling factor S_oe is applied.
type QLawWeights struct {
	A, E, I, RAAN, AoP float64
}

// QLaw is a ThrustControl-shaped guidance law driving a spacecraft toward a
// target COE by descending the gradient of a Lyapunov Q function (Petropoulos
// formulation), grounded on prop.go's OptimalThrust closed-form angle style.
type QLaw struct {
	Target       COE
	Weights      QLawWeights
	MaxAccel     float64 // km/s^2, maximum achievable thrust acceleration
	Body         CelestialBody
}

// maxElementRate returns oe_xx, the maximum achievable rate of change of
// each element under the available thrust acceleration. a_xx and e_xx are
// the Petropoulos closed-form bounds; i_xx and Ω_xx use a (1+e) denominator
// in place of the AoP-dependent one of the closed form, and ω_xx is an
// order-of-magnitude proxy rather than a closed-form bound.
func (q QLaw) maxElementRate(c COE) (aDot, eDot, iDot, raanDot, aopDot float64, err error) {
	if q.Body == nil {
		return 0, 0, 0, 0, 0, NewUndefinedError("QLaw.Body", nil)
	}
	mu := q.Body.GM()
	a, e := c.SMA, c.Ecc
	n, merr := c.MeanMotion()
	if merr != nil {
		return 0, 0, 0, 0, 0, merr
	}
	p := c.SemiParameter()
	h := math.Sqrt(mu * p)
	aDot = 2 * q.MaxAccel * math.Sqrt(a*a*a*(1+e)/(mu*(1-e)))
	eDot = 2 * q.MaxAccel * p / h
	iDot = q.MaxAccel * p / (h * (1 + e))
	raanDot = q.MaxAccel * p / (h * math.Sin(c.Inc) * (1 + e))
	aopDot = 2 * q.MaxAccel * a * (1 - e*e) / (n * a * a * e) // conservative proxy, same order as the others
	return
}

// Q evaluates the Lyapunov function at the current classical elements.
func (q QLaw) Q(c COE) (float64, error) {
	aDot, eDot, iDot, raanDot, aopDot, err := q.maxElementRate(c)
	if err != nil {
		return 0, err
	}
	term := func(w, oe, oeT, oeXX float64) float64 {
		if oeXX == 0 {
			return 0
		}
		return w * math.Pow((oe-oeT)/oeXX, 2)
	}
	return term(q.Weights.A, c.SMA, q.Target.SMA, aDot) +
		term(q.Weights.E, c.Ecc, q.Target.Ecc, eDot) +
		term(q.Weights.I, c.Inc, q.Target.Inc, iDot) +
		term(q.Weights.RAAN, c.RAAN, q.Target.RAAN, raanDot) +
		term(q.Weights.AoP, c.AoP, q.Target.AoP, aopDot), nil
}

// GradientAnalytic computes dQ/d(oe) in closed form, matching the partial
// derivative style already used by prop.go's OptiΔ*CL family.
func (q QLaw) GradientAnalytic(c COE) ([5]float64, error) {
	aDot, eDot, iDot, raanDot, aopDot, err := q.maxElementRate(c)
	if err != nil {
		return [5]float64{}, err
	}
	grad := func(w, oe, oeT, oeXX float64) float64 {
		if oeXX == 0 {
			return 0
		}
		return 2 * w * (oe - oeT) / (oeXX * oeXX)
	}
	return [5]float64{
		grad(q.Weights.A, c.SMA, q.Target.SMA, aDot),
		grad(q.Weights.E, c.Ecc, q.Target.Ecc, eDot),
		grad(q.Weights.I, c.Inc, q.Target.Inc, iDot),
		grad(q.Weights.RAAN, c.RAAN, q.Target.RAAN, raanDot),
		grad(q.Weights.AoP, c.AoP, q.Target.AoP, aopDot),
	}, nil
}

// GradientFiniteDifference computes dQ/d(oe) by central differences, used
// to cross-check GradientAnalytic to 1e-5 relative (spec §4.5).
func (q QLaw) GradientFiniteDifference(c COE, stepPct float64) [5]float64 {
	var grad [5]float64
	perturb := func(idx int, delta float64) COE {
		cc := c
		switch idx {
		case 0:
			cc.SMA += delta
		case 1:
			cc.Ecc += delta
		case 2:
			cc.Inc += delta
		case 3:
			cc.RAAN += delta
		case 4:
			cc.AoP += delta
		}
		return cc
	}
	base := [5]float64{c.SMA, c.Ecc, c.Inc, c.RAAN, c.AoP}
	for i := 0; i < 5; i++ {
		h := stepPct * math.Max(math.Abs(base[i]), 1e-8)
		qPlus, _ := q.Q(perturb(i, h))
		qMinus, _ := q.Q(perturb(i, -h))
		grad[i] = (qPlus - qMinus) / (2 * h)
	}
	return grad
}

// ThrustDirection returns a unit thrust vector in the state's Cartesian
// frame, chosen from the signs of the Q gradient: along or against the
// velocity by the sign of dQ/dSMA, plus small orbit-normal and radial
// components by the signs of dQ/di and dQ/de. dQ/dt is not minimized over
// all directions.
func (q QLaw) ThrustDirection(s State) ([]float64, error) {
	r, v := s.Position(), s.Velocity()
	if r == nil || v == nil {
		return nil, NewUndefinedError("position/velocity (required by QLaw)", nil)
	}
	c, err := NewCOEFromCartesian(r, v, q.Body)
	if err != nil {
		return nil, err
	}
	grad, err := q.GradientAnalytic(c)
	if err != nil {
		return nil, err
	}
	// Project the gradient onto the velocity direction as the steepest
	// local descent proxy in the absence of the full Gauss-equation partial
	// matrix: thrust opposes the sign of dQ/dSMA primarily along velocity,
	// refined by the other elements' signs perpendicular to it.
	along := -Sign(grad[0])
	radial := Unit(r)
	tangential := Unit(v)
	normal := Unit(Cross(r, v))
	dir := Add(Scale(along, tangential), Add(Scale(-Sign(grad[2])*0.1, normal), Scale(-Sign(grad[1])*0.1, radial)))
	return Unit(dir), nil
}

// CombineControlLaws blends the per-element optimal thrust-direction angles
// of several single-element control laws into one unit thrust vector,
// following prop.go's Ruggiero (factor-weighted linear) and Naasz
// (weighted quadratic) summation methods.
func CombineControlLaws(method CombinationMethod, dirs [][]float64, factors []float64) []float64 {
	sum := []float64{0, 0, 0}
	var totalWeight float64
	for i, d := range dirs {
		w := factors[i]
		switch method {
		case Naasz:
			w = w * w
		}
		sum = Add(sum, Scale(w, d))
		totalWeight += w
	}
	if totalWeight == 0 {
		return []float64{0, 0, 0}
	}
	return Unit(sum)
}
