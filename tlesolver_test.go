package astro

import (
	"math"
	"testing"
)

// fakeSGP4 propagates a TLE as an undisturbed two-body orbit from its
// classical elements, standing in for an SGP4 implementation so the
// estimator can be exercised without linking the real propagator.
type fakeSGP4 struct{}

func (fakeSGP4) Propagate(tle TLE, instant Instant) (State, error) {
	n := tle.MeanMotion * 2 * math.Pi / 86400
	dt := instant.Sub(tle.EpochInstant()).Seconds()
	coe := COE{
		SMA:  semiMajorAxisFromMeanMotion(tle.MeanMotion),
		Ecc:  tle.Eccentricity,
		Inc:  Deg2rad(tle.Inclination),
		RAAN: Deg2rad(tle.RAAN),
		AoP:  Deg2rad(tle.AoP),
		Anom: Deg2rad(tle.MeanAnomaly) + n*dt,
		Kind: MeanAnomaly,
		Body: Earth,
	}
	r, v, err := coe.ToCartesian()
	if err != nil {
		return State{}, err
	}
	broker := CartesianBroker(false)
	coords := append(append([]float64{}, r...), v...)
	return NewStateBuilder(GCRF, broker).Build(instant, coords), nil
}

func semiMajorAxisFromMeanMotion(revPerDay float64) float64 {
	n := revPerDay * 2 * math.Pi / 86400
	return math.Cbrt(Earth.GM() / (n * n))
}

func TestTLEToVectorAndBack(t *testing.T) {
	tle := TLE{Inclination: 51.6, RAAN: 247.4, Eccentricity: 0.0006, AoP: 130.5, MeanAnomaly: 325.0, MeanMotion: 15.72, BStar: -1e-5}
	v := tleToVector(tle, true)
	if len(v) != 7 {
		t.Fatalf("expected a 7-element vector with B* included, got %d", len(v))
	}
	back := vectorToTLE(tle, v, true)
	if math.Abs(back.Inclination-tle.Inclination) > 1e-9 {
		t.Fatalf("expected inclination to round trip, got %f want %f", back.Inclination, tle.Inclination)
	}
	if back.BStar != tle.BStar {
		t.Fatalf("expected B* to round trip, got %f want %f", back.BStar, tle.BStar)
	}
}

func TestTLEToVectorWithoutBStar(t *testing.T) {
	tle := TLE{Inclination: 51.6, RAAN: 247.4, Eccentricity: 0.0006, AoP: 130.5, MeanAnomaly: 325.0, MeanMotion: 15.72}
	v := tleToVector(tle, false)
	if len(v) != 6 {
		t.Fatalf("expected a 6-element vector without B*, got %d", len(v))
	}
}

func TestEstimateTLERequiresSGP4(t *testing.T) {
	in := TLEEstimationInput{InitialGuess: TLE{}, Observations: []Observation{{Observed: []float64{1, 2, 3}, Sigma: []float64{1, 1, 1}}}}
	if _, err := EstimateTLE(in, DefaultLeastSquaresConfig()); !IsUndefined(err) {
		t.Fatal("expected UndefinedError when SGP4 is nil")
	}
}

func TestEstimateTLERecoversInclination(t *testing.T) {
	truth := TLE{
		SatelliteNumber: 1, EpochYear: 2008, EpochDay: 264.5,
		Inclination: 51.6416, RAAN: 247.4627, Eccentricity: 0.0006703,
		AoP: 130.5360, MeanAnomaly: 325.0288, MeanMotion: 15.72125391,
	}
	sgp4 := fakeSGP4{}
	var obs []Observation
	epoch := truth.EpochInstant()
	for i := 0; i < 8; i++ {
		at := epoch.Plus(DurationFromSeconds(float64(i) * 300))
		s, err := sgp4.Propagate(truth, at)
		if err != nil {
			t.Fatalf("unexpected error generating synthetic observation: %v", err)
		}
		obs = append(obs, Observation{Instant: at, Observed: s.Position(), Sigma: []float64{0.01, 0.01, 0.01}})
	}
	guess := truth
	guess.Inclination += 0.2
	guess.RAAN += 0.3
	in := TLEEstimationInput{InitialGuess: guess, Observations: obs, Body: Earth, SGP4: sgp4}
	result, err := EstimateTLE(in, DefaultLeastSquaresConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.TLE.Inclination-truth.Inclination) > 1e-3 {
		t.Fatalf("expected recovered inclination near %f, got %f", truth.Inclination, result.TLE.Inclination)
	}
}
