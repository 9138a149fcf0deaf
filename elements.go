package astro

import (
	"math"
)

// equatorialTol and circularTol mirror the epsilon floors orbit.go used to
// clamp near-degenerate inclination/eccentricity before they caused
// divide-by-near-zero noise in Ω/ω.
const (
	equatorialTol = 1e-9
	circularTol   = 1e-9
)

// COE is the classical (Keplerian) orbital element set: semi-major axis,
// eccentricity, inclination, RAAN, argument of periapsis, and an anomaly of
// explicit Kind (spec §3.4).
type COE struct {
	SMA    float64 // a, km
	Ecc    float64 // e
	Inc    float64 // i, rad
	RAAN   float64 // Ω, rad
	AoP    float64 // ω, rad
	Anom   float64 // ν, M, or E depending on Kind, rad
	Kind   AnomalyKind
	Body   CelestialBody
}

// TrueAnom returns the true anomaly regardless of the stored Kind.
func (c COE) TrueAnom() (float64, error) {
	switch c.Kind {
	case TrueAnomaly:
		return c.Anom, nil
	case EccentricAnomaly:
		return TrueFromEccentric(c.Anom, c.Ecc), nil
	case MeanAnomaly:
		return TrueFromMean(c.Anom, c.Ecc)
	default:
		return 0, NewWrongError("COE.Kind", "unrecognized anomaly kind")
	}
}

// MeanAnom returns the mean anomaly regardless of the stored Kind.
func (c COE) MeanAnom() (float64, error) {
	switch c.Kind {
	case MeanAnomaly:
		return c.Anom, nil
	case EccentricAnomaly:
		return MeanFromEccentric(c.Anom, c.Ecc), nil
	case TrueAnomaly:
		return MeanFromTrue(c.Anom, c.Ecc), nil
	default:
		return 0, NewWrongError("COE.Kind", "unrecognized anomaly kind")
	}
}

// SemiParameter returns the semi-latus rectum p = a(1-e^2).
func (c COE) SemiParameter() float64 {
	return c.SMA * (1 - c.Ecc*c.Ecc)
}

// PeriapsisRadius returns a(1-e).
func (c COE) PeriapsisRadius() float64 { return c.SMA * (1 - c.Ecc) }

// ApoapsisRadius returns a(1+e).
func (c COE) ApoapsisRadius() float64 { return c.SMA * (1 + c.Ecc) }

// MeanMotion returns n = sqrt(mu/a^3); requires a defined Body.
func (c COE) MeanMotion() (float64, error) {
	if c.Body == nil {
		return 0, NewUndefinedError("COE.Body (needed for mean motion)", nil)
	}
	if c.SMA <= 0 {
		return 0, NewWrongError("COE.SMA", "must be positive for elliptic mean motion")
	}
	return math.Sqrt(c.Body.GM() / (c.SMA * c.SMA * c.SMA)), nil
}

// Period returns the orbital period T = 2*pi/n.
func (c COE) Period() (float64, error) {
	n, err := c.MeanMotion()
	if err != nil {
		return 0, err
	}
	return 2 * math.Pi / n, nil
}

// NodalPrecessionRate returns the J2 secular nodal precession rate
// dΩ/dt = -(3/2) n J2 (Re/p)^2 cos(i).
func (c COE) NodalPrecessionRate(j2, re float64) (float64, error) {
	n, err := c.MeanMotion()
	if err != nil {
		return 0, err
	}
	p := c.SemiParameter()
	return -1.5 * n * j2 * (re / p) * (re / p) * math.Cos(c.Inc), nil
}

// LTAN returns the local time of the ascending node in hours [0,24), given
// a Sun oracle's right ascension and equation of time at instant.
func (c COE) LTAN(instant Instant, sun SunOracle) (float64, error) {
	alphaSun, err := sun.RightAscension(instant)
	if err != nil {
		return 0, err
	}
	eot, err := sun.EquationOfTime(instant)
	if err != nil {
		return 0, err
	}
	ltan := 12 + (Rad2deg180(c.RAAN)-Rad2deg180(alphaSun)+eot)/(15.0)
	for ltan < 0 {
		ltan += 24
	}
	for ltan >= 24 {
		ltan -= 24
	}
	return ltan, nil
}

// ToCartesian converts COE to an inertial position/velocity pair via
// perifocal construction followed by the 3-1-3 rotation R3(-Ω)R1(-i)R3(-ω)
// (spec §4.1, grounded on orbit.go's NewOrbitFromOE).
func (c COE) ToCartesian() (r, v []float64, err error) {
	if c.Body == nil {
		return nil, nil, NewUndefinedError("COE.Body (needed for mu)", nil)
	}
	if c.Ecc < 0 || c.Ecc >= 1 {
		return nil, nil, NewWrongError("COE.Ecc", "must be in [0,1) for the elliptic conversion path")
	}
	mu := c.Body.GM()
	nu, err := c.TrueAnom()
	if err != nil {
		return nil, nil, err
	}
	p := c.SemiParameter()
	sinNu, cosNu := math.Sincos(nu)
	denom := 1 + c.Ecc*cosNu
	if math.Abs(denom) < 1e-12 {
		return nil, nil, NewRuntimeError("COE.ToCartesian perifocal radius", denom, nil)
	}
	rPF := []float64{p * cosNu / denom, p * sinNu / denom, 0}
	sqrtMuP := math.Sqrt(mu / p)
	vPF := []float64{-sqrtMuP * sinNu, sqrtMuP * (c.Ecc + cosNu), 0}

	Ω, i, ω := c.RAAN, c.Inc, c.AoP
	// Degenerate conventions, per canonical usage: circular sets omega=0,
	// equatorial sets Omega=0; already assumed baked into c by the caller
	// when constructed via NewCOEFromCartesian.
	rot := func(v []float64) []float64 {
		return MxV33(R3(-Ω), MxV33(R1(-i), MxV33(R3(-ω), v)))
	}
	return rot(rPF), rot(vPF), nil
}

// NewCOEFromCartesian converts a Cartesian position/velocity pair to COE
// (spec §4.1). Circular and equatorial degeneracies set ω=0 and/or Ω=0 per
// canonical convention, matching orbit.go's RV2COE branch structure.
func NewCOEFromCartesian(r, v []float64, body CelestialBody) (COE, error) {
	if body == nil {
		return COE{}, NewUndefinedError("CelestialBody (needed for mu)", nil)
	}
	mu := body.GM()
	rNorm := Norm(r)
	if rNorm == 0 {
		return COE{}, NewWrongError("position vector", "zero position vector")
	}
	hVec := Cross(r, v)
	hNorm := Norm(hVec)
	if hNorm < 1e-12 {
		return COE{}, NewWrongError("angular momentum", "rectilinear trajectory (h ~ 0)")
	}
	nVec := Cross([]float64{0, 0, 1}, hVec)
	nNorm := Norm(nVec)

	vNorm := Norm(v)
	eVec := make([]float64, 3)
	rDotV := Dot(r, v)
	for idx := 0; idx < 3; idx++ {
		eVec[idx] = (1/mu)*((vNorm*vNorm-mu/rNorm)*r[idx] - rDotV*v[idx])
	}
	e := Norm(eVec)
	if e < circularTol {
		e = 0
	}

	energy := vNorm*vNorm/2 - mu/rNorm
	var sma float64
	if math.Abs(1-e) > 1e-12 {
		sma = -mu / (2 * energy)
	} else {
		sma = hNorm * hNorm / mu // parabolic fallback, p = a for e=1 convention
	}

	inc := math.Acos(clamp(hVec[2]/hNorm, -1, 1))
	if inc < equatorialTol {
		inc = 0
	}

	equatorial := inc == 0
	circular := e == 0

	var raan, aop float64
	if !equatorial {
		raan = math.Acos(clamp(nVec[0]/nNorm, -1, 1))
		if nVec[1] < 0 {
			raan = 2*math.Pi - raan
		}
	}
	if !equatorial && !circular {
		aop = math.Acos(clamp(Dot(nVec, eVec)/(nNorm*e), -1, 1))
		if eVec[2] < 0 {
			aop = 2*math.Pi - aop
		}
	} else if equatorial && !circular {
		// "true longitude of periapsis" stands in for AoP when equatorial.
		aop = math.Acos(clamp(eVec[0]/e, -1, 1))
		if eVec[1] < 0 {
			aop = 2*math.Pi - aop
		}
	}

	var nu float64
	switch {
	case !circular:
		nu = math.Acos(clamp(Dot(eVec, r)/(e*rNorm), -1, 1))
		if rDotV < 0 {
			nu = 2*math.Pi - nu
		}
	case !equatorial:
		// Argument of latitude stands in for true anomaly when circular.
		nu = math.Acos(clamp(Dot(nVec, r)/(nNorm*rNorm), -1, 1))
		if r[2] < 0 {
			nu = 2*math.Pi - nu
		}
	default:
		nu = math.Acos(clamp(r[0]/rNorm, -1, 1))
		if r[1] < 0 {
			nu = 2*math.Pi - nu
		}
	}

	return COE{SMA: sma, Ecc: e, Inc: inc, RAAN: raan, AoP: aop, Anom: nu, Kind: TrueAnomaly, Body: body}, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
