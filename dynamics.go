package astro

import "math"

// DynamicsTerm is a polymorphic contribution to dx/dt, declaring which
// coordinate subsets it reads and which it writes (additively combined
// across terms), and whether it is autonomous (spec §3.5). Built-in terms
// below are a closed tagged set per the "tagged sum over dynamics terms"
// design note (spec §9) rather than a deep interface hierarchy; ComposedRHS
// calls every term through this interface.
type DynamicsTerm interface {
	Name() string
	ReadSubsets() []CoordinateSubset
	WriteSubsets() []CoordinateSubset
	Autonomous() bool
	// Contribute adds this term's contribution to accel (same layout as
	// WriteSubsets) given the full state at t.
	Contribute(t float64, s State, out []float64) error
}

// PositionDerivative is the kinematic d(position)/dt = velocity term.
type PositionDerivative struct{}

func (PositionDerivative) Name() string { return "PositionDerivative" }
func (PositionDerivative) ReadSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianVelocity}
}
func (PositionDerivative) WriteSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianPosition}
}
func (PositionDerivative) Autonomous() bool { return true }

func (PositionDerivative) Contribute(_ float64, s State, out []float64) error {
	v := s.Velocity()
	if v == nil {
		return NewUndefinedError("velocity (required by PositionDerivative)", nil)
	}
	for i := range v {
		out[i] += v[i]
	}
	return nil
}

// CentralBodyGravity is -mu*r/|r|^3, the two-body point-mass term.
type CentralBodyGravity struct {
	Body CelestialBody
}

func (CentralBodyGravity) Name() string { return "CentralBodyGravity" }
func (CentralBodyGravity) ReadSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianPosition}
}
func (CentralBodyGravity) WriteSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianVelocity}
}
func (CentralBodyGravity) Autonomous() bool { return true }

func (t CentralBodyGravity) Contribute(_ float64, s State, out []float64) error {
	r := s.Position()
	if r == nil {
		return NewUndefinedError("position (required by CentralBodyGravity)", nil)
	}
	if t.Body == nil {
		return NewUndefinedError("CentralBodyGravity.Body", nil)
	}
	rNorm := Norm(r)
	if rNorm == 0 {
		return NewWrongError("position", "zero position vector")
	}
	mu := t.Body.GM()
	factor := -mu / (rNorm * rNorm * rNorm)
	for i := range r {
		out[i] += factor * r[i]
	}
	return nil
}

// ZonalGravity is the J2/J4 zonal perturbation acceleration, grounded on
// perturbations.go's Cartesian-method J2 acceleration formula.
type ZonalGravity struct {
	Body   CelestialBody
	Degree uint8 // 2 or 4
}

func (z ZonalGravity) Name() string { return "ZonalGravity" }
func (ZonalGravity) ReadSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianPosition}
}
func (ZonalGravity) WriteSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianVelocity}
}
func (ZonalGravity) Autonomous() bool { return true }

func (z ZonalGravity) Contribute(_ float64, s State, out []float64) error {
	r := s.Position()
	if r == nil {
		return NewUndefinedError("position (required by ZonalGravity)", nil)
	}
	if z.Body == nil {
		return NewUndefinedError("ZonalGravity.Body", nil)
	}
	mu := z.Body.GM()
	re := z.Body.EquatorialRadius()
	rNorm := Norm(r)
	if rNorm == 0 {
		return NewWrongError("position", "zero position vector")
	}
	x, y, zc := r[0], r[1], r[2]
	switch z.Degree {
	case 2:
		j2 := z.Body.J(2)
		factor := -1.5 * j2 * mu * re * re / math.Pow(rNorm, 5)
		zr2 := zc * zc / (rNorm * rNorm)
		out[0] += factor * x * (1 - 5*zr2)
		out[1] += factor * y * (1 - 5*zr2)
		out[2] += factor * zc * (3 - 5*zr2)
	case 4:
		j4 := z.Body.J(4)
		zr2 := zc * zc / (rNorm * rNorm)
		factor := 1.875 * j4 * mu * math.Pow(re, 4) / math.Pow(rNorm, 7)
		out[0] += factor * x * (7*zr2*zr2 - 14.0/3*zr2 + 1.0/3) * -1
		out[1] += factor * y * (7*zr2*zr2 - 14.0/3*zr2 + 1.0/3) * -1
		out[2] += factor * zc * (7*zr2*zr2 - 10*zr2 + 15.0/7) * -1
	}
	return nil
}

// ThirdBodyGravity is mu_b*(rho/|rho|^3 - r_b/|r_b|^3), the third-body
// perturbing acceleration for one external body, evaluated with an
// explicitly-injected CelestialBody ephemeris rather than a global (spec §9
// "global ephemerides access" redesign note).
type ThirdBodyGravity struct {
	Body  CelestialBody
	Frame Frame
}

func (tb ThirdBodyGravity) Name() string { return "ThirdBodyGravity:" + tb.Body.Name() }
func (ThirdBodyGravity) ReadSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianPosition}
}
func (ThirdBodyGravity) WriteSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianVelocity}
}
func (ThirdBodyGravity) Autonomous() bool { return false }

func (tb ThirdBodyGravity) Contribute(t float64, s State, out []float64) error {
	r := s.Position()
	if r == nil {
		return NewUndefinedError("position (required by ThirdBodyGravity)", nil)
	}
	rBody, err := tb.Body.Position(s.Instant, tb.Frame)
	if err != nil {
		return err
	}
	rho := Sub(r, rBody)
	rhoNorm, rBodyNorm := Norm(rho), Norm(rBody)
	if rhoNorm == 0 || rBodyNorm == 0 {
		return NewWrongError("third-body geometry", "co-located bodies")
	}
	mu := tb.Body.GM()
	for i := range r {
		out[i] += mu * (-rho[i]/math.Pow(rhoNorm, 3) - rBody[i]/math.Pow(rBodyNorm, 3))
	}
	return nil
}

// AtmosphericDrag is -0.5*rho*Cd*A/m*|v_rel|*v_rel (spec §4.5).
type AtmosphericDrag struct {
	Atmosphere Atmosphere
	Cd         float64
	Area       float64 // m^2
	BodyRate   []float64 // angular velocity of the atmosphere-corotating frame, rad/s, e.g. {0,0,omega_earth}
}

func (AtmosphericDrag) Name() string { return "AtmosphericDrag" }
func (AtmosphericDrag) ReadSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianPosition, SubsetCartesianVelocity, SubsetMass}
}
func (AtmosphericDrag) WriteSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianVelocity}
}
func (AtmosphericDrag) Autonomous() bool { return false }

func (d AtmosphericDrag) Contribute(_ float64, s State, out []float64) error {
	r, v := s.Position(), s.Velocity()
	if r == nil || v == nil {
		return NewUndefinedError("position/velocity (required by AtmosphericDrag)", nil)
	}
	m := s.Mass()
	if m <= 0 {
		return NewWrongError("mass", "must be positive for drag")
	}
	rho, err := d.Atmosphere.Density(r, s.Instant)
	if err != nil {
		return err
	}
	vRel := append([]float64{}, v...)
	if d.BodyRate != nil {
		corotation := Cross(d.BodyRate, r)
		vRel = Sub(v, corotation)
	}
	vRelNorm := Norm(vRel)
	factor := -0.5 * rho * d.Cd * d.Area / m * vRelNorm
	for i := range vRel {
		out[i] += factor * vRel[i]
	}
	return nil
}

// Thruster supplies thrust (N) and specific impulse (s) for ConstantThrust.
// Grounded on thrusters.go's EPThruster.Thrust concept, simplified to a
// fixed operating point since the spec's ConstantThrust term has no
// voltage/power allocation logic.
type Thruster struct {
	Name   string
	Thrust float64 // N
	Isp    float64 // s
}

// Standard electric-propulsion thrusters, values from thrusters.go.
var (
	PPS1350 = Thruster{Name: "PPS1350", Thrust: 89e-3, Isp: 1650}
	HERMeS  = Thruster{Name: "HERMeS", Thrust: 0.680, Isp: 2960}
)

const g0 = 9.807 // m/s^2, standard gravity used for Isp->mass-flow conversion

// ConstantThrust applies F/m*dHat along the unit vector returned by the
// Direction function (in the state's Cartesian frame), and drains mass at
// F/(g0*Isp) (spec §4.5).
type ConstantThrust struct {
	Thruster  Thruster
	Direction func(s State) ([]float64, error) // unit vector in the state's Cartesian frame
}

func (ConstantThrust) Name() string { return "ConstantThrust" }
func (ConstantThrust) ReadSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianPosition, SubsetCartesianVelocity, SubsetMass}
}
func (ConstantThrust) WriteSubsets() []CoordinateSubset {
	return []CoordinateSubset{SubsetCartesianVelocity, SubsetMass}
}
func (ConstantThrust) Autonomous() bool { return false }

func (ct ConstantThrust) Contribute(_ float64, s State, out []float64) error {
	m := s.Mass()
	if m <= 0 {
		return NewWrongError("mass", "must be positive for thrust")
	}
	dHat, err := ct.Direction(s)
	if err != nil {
		return err
	}
	// out is laid out [velocity(3), mass(1)] for this term's write subsets.
	accel := ct.Thruster.Thrust / 1000 / m // N/kg -> km/s^2 (mass in kg, thrust in N => m/s^2; /1000 to km/s^2)
	for i := 0; i < 3; i++ {
		out[i] += accel * dHat[i]
	}
	out[3] += -ct.Thruster.Thrust / (g0 * ct.Thruster.Isp)
	return nil
}

// ComposedRHS builds an RHS closure over a fixed CoordinateBroker by
// summing every term's contribution into its declared write subsets,
// grounded on mission.go's Func (which performed the same central-body +
// perturbation + thrust composition by hand for a hardcoded pair of
// propagator methods, generalized here to an arbitrary term list).
func ComposedRHS(broker *CoordinateBroker, frame Frame, epoch Instant, terms []DynamicsTerm) RHS {
	return func(t float64, y []float64) []float64 {
		s := State{Instant: epoch.Plus(DurationFromSeconds(t)), Coordinates: y, Frame: frame, Broker: broker}
		dy := make([]float64, len(y))
		for _, term := range terms {
			writes := term.WriteSubsets()
			width := 0
			for _, ws := range writes {
				width += ws.Size
			}
			scratch := make([]float64, width)
			if err := term.Contribute(t, s, scratch); err != nil {
				panic(err) // dynamics terms are pure functions of defined state; a failure here is a caller precondition violation
			}
			pos := 0
			for _, ws := range writes {
				lo, _, ok := broker.IndexOf(ws)
				if ok {
					for i := 0; i < ws.Size; i++ {
						dy[lo+i] += scratch[pos+i]
					}
				}
				pos += ws.Size
			}
		}
		return dy
	}
}
