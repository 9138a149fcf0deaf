package astro

import (
	"fmt"
	"strings"
)

// CelestialBody is the gravitational-parameter/zonal-coefficient/ephemeris
// oracle consumed by dynamics terms and element conversions (spec §6.2).
// The core never computes a body's own position from first principles: it
// asks this interface. Concrete values below (Earth, Sun, ...) supply the
// constant fields directly and report Undefined-error for Position, which
// an embedding application overrides with a real ephemeris-backed
// implementation when third-body computations are needed (LTAN uses
// SunOracle instead).
type CelestialBody interface {
	Name() string
	GM() float64
	EquatorialRadius() float64
	J(n uint8) float64
	SOI() float64
	// Position returns this body's position (km) in frame at instant.
	Position(instant Instant, frame Frame) ([]float64, error)
}

// constantBody is a CelestialBody with fixed gravitational and shape
// parameters and no ephemeris of its own — the table-of-constants idiom the
// teacher uses for its package-level Earth/Mars/... values, generalized
// behind an interface instead of a concrete exported struct so a caller can
// substitute a body backed by a real ephemeris oracle.
type constantBody struct {
	name             string
	gm               float64
	equatorialRadius float64
	j2, j3, j4       float64
	soi              float64
}

func (b constantBody) Name() string             { return b.name }
func (b constantBody) GM() float64              { return b.gm }
func (b constantBody) EquatorialRadius() float64 { return b.equatorialRadius }
func (b constantBody) SOI() float64              { return b.soi }

func (b constantBody) J(n uint8) float64 {
	switch n {
	case 2:
		return b.j2
	case 3:
		return b.j3
	case 4:
		return b.j4
	default:
		return 0
	}
}

func (b constantBody) Position(Instant, Frame) ([]float64, error) {
	return nil, NewUndefinedError(fmt.Sprintf("ephemeris position of %s (constantBody has none; supply a CelestialBody backed by a real ephemeris oracle)", b.name), nil)
}

// Concrete bodies, values per the teacher's package-level table.
var (
	Sun     CelestialBody = constantBody{name: "Sun", gm: 1.32712440017987e11}
	Mercury CelestialBody = constantBody{name: "Mercury", gm: 2.2032e4, equatorialRadius: 2439.7}
	Venus   CelestialBody = constantBody{name: "Venus", gm: 3.24858599e5, equatorialRadius: 6051.8, j2: 0.000027, soi: 0.616e6}
	Earth   CelestialBody = constantBody{name: "Earth", gm: 3.98600433e5, equatorialRadius: 6378.1363, j2: 1082.6269e-6, j3: -2.5324e-6, j4: -1.6204e-6, soi: 924645.0}
	Mars    CelestialBody = constantBody{name: "Mars", gm: 4.28283100e4, equatorialRadius: 3396.19, j2: 1964e-6, j3: 36e-6, j4: -18e-6, soi: 576000}
	Jupiter CelestialBody = constantBody{name: "Jupiter", gm: 1.266865361e8, equatorialRadius: 71492.0, j2: 0.01475, j4: -0.00058, soi: 48.2e6}
	Saturn  CelestialBody = constantBody{name: "Saturn", gm: 3.7931208e7, equatorialRadius: 60268.0, j2: 0.01645, j4: -0.001}
	Uranus  CelestialBody = constantBody{name: "Uranus", gm: 5.7939513e6, equatorialRadius: 25559.0, j2: 0.012}
)

// CelestialBodyFromString looks up one of the built-in bodies by name.
func CelestialBodyFromString(name string) (CelestialBody, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "mercury":
		return Mercury, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	case "saturn":
		return Saturn, nil
	case "uranus":
		return Uranus, nil
	default:
		return nil, NewWrongError("celestial body name", "undefined body '"+name+"'")
	}
}

// Atmosphere supplies density at a position/instant for AtmosphericDrag
// (spec §6.2). The core performs no atmosphere modeling itself.
type Atmosphere interface {
	Density(position []float64, instant Instant) (float64, error)
}

// SunOracle supplies the right ascension and equation-of-time of the Sun
// needed for LTAN (spec §4.1). Kept distinct from CelestialBody.Position
// because LTAN needs apparent equatorial coordinates, not a Cartesian
// ephemeris vector.
type SunOracle interface {
	RightAscension(instant Instant) (float64, error)
	EquationOfTime(instant Instant) (float64, error)
}

// SGP4 propagates a TLE to a state at an instant (spec §6.2, §4.8). The
// default implementation lives in astro/sgp4adapter, wrapping
// github.com/joshuaferrara/go-satellite so the core never links SGP4 math
// directly.
type SGP4 interface {
	Propagate(tle TLE, instant Instant) (State, error)
}
