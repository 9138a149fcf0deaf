package astro

import "math"

// MEE is the modified equinoctial element set: non-singular for zero
// eccentricity, singular only at i=pi (spec §3.4, §4.1).
type MEE struct {
	P float64 // semi-latus rectum, km
	F float64 // e*cos(ω+Ω)
	G float64 // e*sin(ω+Ω)
	H float64 // tan(i/2)*cos(Ω)
	K float64 // tan(i/2)*sin(Ω)
	L float64 // true longitude, rad
	Body CelestialBody
}

// NewMEEFromCartesian converts a Cartesian position/velocity pair to MEE.
func NewMEEFromCartesian(r, v []float64, body CelestialBody) (MEE, error) {
	if body == nil {
		return MEE{}, NewUndefinedError("CelestialBody (needed for mu)", nil)
	}
	mu := body.GM()
	rNorm := Norm(r)
	if rNorm == 0 {
		return MEE{}, NewWrongError("position vector", "zero position vector")
	}
	hVec := Cross(r, v)
	hNorm := Norm(hVec)
	if hNorm < 1e-12 {
		return MEE{}, NewWrongError("angular momentum", "rectilinear trajectory (h ~ 0)")
	}
	hHat := Unit(hVec)
	if math.Abs(1+hHat[2]) < 1e-12 {
		return MEE{}, NewWrongError("inclination", "retrograde singularity at i=pi")
	}
	p := hNorm * hNorm / mu
	k := hHat[0] / (1 + hHat[2])
	h := -hHat[1] / (1 + hHat[2])

	// Perifocal-like (f,g) basis built directly from h,k per the standard
	// equinoctial construction (Walker, Ireland & Owens 1985).
	denom := 1 + h*h + k*k
	fHat := []float64{1 - k*k + h*h, 2 * h * k, -2 * k}
	gHat := []float64{2 * h * k, 1 + k*k - h*h, 2 * h}
	for i := range fHat {
		fHat[i] /= denom
		gHat[i] /= denom
	}

	vNorm := Norm(v)
	rDotV := Dot(r, v)
	eVec := make([]float64, 3)
	for i := 0; i < 3; i++ {
		eVec[i] = (1/mu)*((vNorm*vNorm-mu/rNorm)*r[i] - rDotV*v[i])
	}
	f := Dot(eVec, fHat)
	g := Dot(eVec, gHat)

	// True longitude from the rotated-position atan2, per spec §4.1.
	x := Dot(r, fHat)
	y := Dot(r, gHat)
	L := math.Atan2(y, x)

	return MEE{P: p, F: f, G: g, H: h, K: k, L: L, Body: body}, nil
}

// ToCartesian converts MEE back to an inertial position/velocity pair.
func (m MEE) ToCartesian() (r, v []float64, err error) {
	if m.Body == nil {
		return nil, nil, NewUndefinedError("MEE.Body (needed for mu)", nil)
	}
	mu := m.Body.GM()
	alpha2 := m.H*m.H - m.K*m.K
	ssq := 1 + m.H*m.H + m.K*m.K
	sinL, cosL := math.Sincos(m.L)
	w := 1 + m.F*cosL + m.G*sinL
	if w == 0 {
		return nil, nil, NewRuntimeError("MEE.ToCartesian denominator", w, nil)
	}
	rMag := m.P / w

	rX := rMag / ssq * (cosL + alpha2*cosL + 2*m.H*m.K*sinL)
	rY := rMag / ssq * (sinL - alpha2*sinL + 2*m.H*m.K*cosL)
	rZ := 2 * rMag / ssq * (m.H*sinL - m.K*cosL)

	sqrtMuP := math.Sqrt(mu / m.P)
	vX := -sqrtMuP / ssq * (sinL + alpha2*sinL - 2*m.H*m.K*cosL + m.G - 2*m.F*m.H*m.K + alpha2*m.G)
	vY := -sqrtMuP / ssq * (-cosL + alpha2*cosL + 2*m.H*m.K*sinL - m.F + 2*m.G*m.H*m.K + alpha2*m.F)
	vZ := 2 * sqrtMuP / ssq * (m.H*cosL + m.K*sinL + m.F*m.H + m.G*m.K)

	return []float64{rX, rY, rZ}, []float64{vX, vY, vZ}, nil
}

// ToCOE converts MEE to classical elements (a, e, i, Ω, ω, ν).
func (m MEE) ToCOE() (COE, error) {
	e := math.Hypot(m.F, m.G)
	a := m.P / (1 - e*e)
	i := 2 * math.Atan(math.Hypot(m.H, m.K))
	raan := math.Atan2(m.K, m.H)
	aopPlusRaan := math.Atan2(m.G, m.F)
	aop := aopPlusRaan - raan
	nu := m.L - aopPlusRaan
	return COE{SMA: a, Ecc: e, Inc: i, RAAN: wrap2Pi(raan), AoP: wrap2Pi(aop), Anom: wrap2Pi(nu), Kind: TrueAnomaly, Body: m.Body}, nil
}

func wrap2Pi(x float64) float64 {
	for x < 0 {
		x += 2 * math.Pi
	}
	for x >= 2*math.Pi {
		x -= 2 * math.Pi
	}
	return x
}
