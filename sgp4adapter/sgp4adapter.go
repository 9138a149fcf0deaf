// Package sgp4adapter wires github.com/joshuaferrara/go-satellite's SGP4
// propagator behind astro.SGP4, grounded on anupshinde-goeph/satellite's
// Sat/NewSat/Propagate wrapper pattern (TLEToSat + Propagate by calendar
// components, TEME-frame Cartesian output).
package sgp4adapter

import (
	gosatellite "github.com/joshuaferrara/go-satellite"

	"github.com/openastro/astrocore"
)

// TEME is the propagator's native output frame (True Equator, Mean
// Equinox of date). It is treated as quasi-inertial for the purposes of
// this module; callers needing ICRF/GCRF must apply their own frame
// rotation, which is out of scope here (astro.Frame conversion is not a
// concern this adapter takes on).
var TEME astro.Frame = temeFrame{}

type temeFrame struct{}

func (temeFrame) Name() string          { return "TEME" }
func (temeFrame) IsQuasiInertial() bool { return true }

// Propagator implements astro.SGP4 using go-satellite's WGS84 gravity
// model, re-deriving the gosatellite.Satellite record from the TLE's own
// fields on every call (TLE is a pure value type in this module, unlike
// the teacher's single long-lived Spacecraft/Orbit pair).
type Propagator struct{}

// NewPropagator returns an astro.SGP4 backed by go-satellite.
func NewPropagator() Propagator { return Propagator{} }

// Propagate implements astro.SGP4.
func (Propagator) Propagate(tle astro.TLE, instant astro.Instant) (astro.State, error) {
	line1, line2, err := teleLines(tle)
	if err != nil {
		return astro.State{}, err
	}
	sat := gosatellite.TLEToSat(line1, line2, gosatellite.GravityWGS84)

	year, month, day, hour, min, sec := instant.Calendar()
	pos, vel := gosatellite.Propagate(sat, year, month, day, hour, min, sec)

	broker := astro.CartesianBroker(false)
	coords := []float64{pos.X, pos.Y, pos.Z, vel.X, vel.Y, vel.Z}
	builder := astro.NewStateBuilder(TEME, broker)
	return builder.Build(instant, coords), nil
}

// teleLines reconstructs a two-line element set from the parsed TLE value,
// since go-satellite's entry point takes element lines rather than a
// decoded struct.
func teleLines(tle astro.TLE) (string, string, error) {
	text := tle.String()
	if tle.Name != "" {
		// Strip the optional name line: go-satellite expects exactly the two
		// numeric element lines.
		for i := 0; i < len(text); i++ {
			if text[i] == '\n' {
				text = text[i+1:]
				break
			}
		}
	}
	var l1, l2 string
	split := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			split = i
			break
		}
	}
	if split < 0 {
		return "", "", astro.NewWrongError("TLE", "could not split into two element lines")
	}
	l1 = text[:split]
	l2 = text[split+1:]
	return l1, l2, nil
}
