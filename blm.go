package astro

import "math"

// Domain bounds for Brouwer-Lyddane mean elements (spec §3.4), taken
// directly from the original perigee-radius and eccentricity guards.
const (
	blmMinPerigeeRadius = 3.0e6 // meters
	blmMaxEccentricity  = 0.99
)

// Critical inclinations where the long-period AoP/RAAN rates have a
// zero-denominator singularity (spec §3.4), and the AoP values where the
// eccentricity-vector orientation becomes ill-conditioned.
const (
	CriticalInclinationLow  = 63.4349 * deg2rad
	CriticalInclinationHigh = 116.5651 * deg2rad
	criticalInclinationTol  = 1 * deg2rad
	criticalAoPTol          = 1 * deg2rad
)

// BLM is the Brouwer-Lyddane long-period mean element set (spec §3.4):
// mean (a, e, i, Ω, ω, M). ToMean and ToOsculating remove and restore only
// first-order J2 short-period terms.
type BLM struct {
	SMA  float64 // mean semi-major axis, km
	Ecc  float64
	Inc  float64 // rad
	RAAN float64 // rad
	AoP  float64 // rad
	MeanAnom float64 // rad
	Body CelestialBody
}

func nearCriticalInclination(i float64) error {
	if math.Abs(i-CriticalInclinationLow) < criticalInclinationTol {
		return NewNearCritical("inclination", Rad2deg(i), Rad2deg(criticalInclinationTol))
	}
	if math.Abs(i-CriticalInclinationHigh) < criticalInclinationTol {
		return NewNearCritical("inclination", Rad2deg(i), Rad2deg(criticalInclinationTol))
	}
	return nil
}

func nearCriticalAoP(aop float64) error {
	w := wrap2Pi(aop)
	if math.Abs(w-math.Pi/2) < criticalAoPTol || math.Abs(w-3*math.Pi/2) < criticalAoPTol {
		return NewNearCritical("argument of periapsis", Rad2deg(w), Rad2deg(criticalAoPTol))
	}
	return nil
}

func validateBLMDomain(c COE) error {
	if c.Ecc <= 0 || c.Ecc >= blmMaxEccentricity {
		return NewWrongError("eccentricity", "BLM requires 0 < e < 0.99")
	}
	perigeeM := c.PeriapsisRadius() * 1000
	if perigeeM < blmMinPerigeeRadius {
		return NewWrongError("periapsis radius", "BLM requires perigee radius > 3e6 m")
	}
	if c.Inc > math.Pi {
		return NewWrongError("inclination", "BLM requires inclination < 180 deg")
	}
	return nil
}

// shortPeriodCorrection returns the first-order J2 short-period corrections
// to (a, e, i, Ω, ω, M) evaluated at the given osculating-like elements, per
// Brouwer (1959) with the Lyddane (1963) modification for low eccentricity/
// inclination. Only the J2 term is carried; J3-J5 terms are not included
// anywhere in the conversion.
func shortPeriodCorrection(a, e, i, raan, aop, m, j2, re float64) (da, de, di, draan, daop, dm float64) {
	p := a * (1 - e*e)
	gamma2 := j2 / 2 * (re / p) * (re / p)
	sinI, cosI := math.Sincos(i)
	E, _ := EccentricFromMean(m, e)
	nu := TrueFromEccentric(E, e)
	_, cosNu := math.Sincos(nu)
	r := p / (1 + e*cosNu)

	da = gamma2 * a * ((3*cosI*cosI-1)*((a/r)*(a/r)*(a/r)-1/(1-e*e)*math.Pow(1-e*e, -1.5)) + 3*(1-cosI*cosI)*(a/r)*(a/r)*(a/r)*math.Cos(2*aop+2*nu))
	de = gamma2 * (1 - e*e) / e * ((3*cosI*cosI-1)*((a/r)*(a/r)*(a/r)-math.Pow(1-e*e, -1.5)) + 3*(1-cosI*cosI)*(a/r)*(a/r)*(a/r)*math.Cos(2*aop+2*nu))
	di = gamma2 / 2 * cosI * sinI * 3 * math.Cos(2*aop+2*nu)
	draan = -gamma2 * cosI * (3 * math.Sin(2*aop+2*nu))
	daop = gamma2 * (2 - 2.5*sinI*sinI) * math.Sin(2*aop+2*nu)
	dm = -gamma2 * math.Sqrt(1-e*e) / e * ((1-1.5*sinI*sinI)*(cosNu*(2+e*cosNu)/(1+e*cosNu)-2*e) )
	return
}

// ToMean applies the forward (osculating-to-mean) map as a fixed-point
// iteration over the short-period correction, matching the spec's
// description of the Brouwer/Lyddane forward map (§4.1).
func ToMean(osc COE) (BLM, error) {
	if err := validateBLMDomain(osc); err != nil {
		return BLM{}, err
	}
	if err := nearCriticalInclination(osc.Inc); err != nil {
		return BLM{}, err
	}
	if err := nearCriticalAoP(osc.AoP); err != nil {
		return BLM{}, err
	}
	j2 := osc.Body.J(2)
	re := osc.Body.EquatorialRadius()
	m, err := osc.MeanAnom()
	if err != nil {
		return BLM{}, err
	}

	a, e, i, raan, aop := osc.SMA, osc.Ecc, osc.Inc, osc.RAAN, osc.AoP
	mOsc := m
	const maxIter = 50
	const tol = 1e-12
	for iter := 0; iter < maxIter; iter++ {
		da, de, di, draan, daop, dm := shortPeriodCorrection(a, e, i, raan, aop, m, j2, re)
		newA := osc.SMA - da
		newE := osc.Ecc - de
		newI := osc.Inc - di
		newRaan := osc.RAAN - draan
		newAop := osc.AoP - daop
		newM := mOsc - dm
		if math.Abs(newA-a) < tol*a && math.Abs(newE-e) < tol {
			a, e, i, raan, aop, m = newA, newE, newI, newRaan, newAop, newM
			return BLM{SMA: a, Ecc: e, Inc: i, RAAN: wrap2Pi(raan), AoP: wrap2Pi(aop), MeanAnom: wrap2Pi(m), Body: osc.Body}, nil
		}
		a, e, i, raan, aop, m = newA, newE, newI, newRaan, newAop, newM
	}
	return BLM{}, NewRuntimeError("osculating-to-mean fixed point", a, nil)
}

// ToOsculating applies the reverse (mean-to-osculating) map: the short
// period corrections are applied additively on top of the mean elements
// (spec §4.1).
func (b BLM) ToOsculating() (COE, error) {
	mean := COE{SMA: b.SMA, Ecc: b.Ecc, Inc: b.Inc, RAAN: b.RAAN, AoP: b.AoP, Anom: b.MeanAnom, Kind: MeanAnomaly, Body: b.Body}
	if err := validateBLMDomain(mean); err != nil {
		return COE{}, err
	}
	if err := nearCriticalInclination(b.Inc); err != nil {
		return COE{}, err
	}
	j2 := b.Body.J(2)
	re := b.Body.EquatorialRadius()
	da, de, di, draan, daop, dm := shortPeriodCorrection(b.SMA, b.Ecc, b.Inc, b.RAAN, b.AoP, b.MeanAnom, j2, re)
	return COE{
		SMA:  b.SMA + da,
		Ecc:  b.Ecc + de,
		Inc:  b.Inc + di,
		RAAN: wrap2Pi(b.RAAN + draan),
		AoP:  wrap2Pi(b.AoP + daop),
		Anom: wrap2Pi(b.MeanAnom + dm),
		Kind: MeanAnomaly,
		Body: b.Body,
	}, nil
}

// ToCOE converts mean elements to an equivalent true-anomaly COE by
// resolving the mean anomaly, without applying short-period corrections.
func (b BLM) ToCOE() (COE, error) {
	nu, err := TrueFromMean(b.MeanAnom, b.Ecc)
	if err != nil {
		return COE{}, err
	}
	return COE{SMA: b.SMA, Ecc: b.Ecc, Inc: b.Inc, RAAN: b.RAAN, AoP: b.AoP, Anom: nu, Kind: TrueAnomaly, Body: b.Body}, nil
}
