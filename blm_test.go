package astro

import (
	"math"
	"testing"
)

func leoOsculating(inc, aop float64) COE {
	return COE{SMA: 7000, Ecc: 0.01, Inc: inc, RAAN: Deg2rad(40), AoP: aop, Anom: Deg2rad(100), Kind: TrueAnomaly, Body: Earth}
}

func TestBLMToMeanToOsculatingRoundTrip(t *testing.T) {
	osc := leoOsculating(Deg2rad(51.6), Deg2rad(30))
	mean, err := ToMean(osc)
	if err != nil {
		t.Fatalf("ToMean failed: %v", err)
	}
	back, err := mean.ToOsculating()
	if err != nil {
		t.Fatalf("ToOsculating failed: %v", err)
	}
	if math.Abs(back.SMA-osc.SMA) > 1 {
		t.Fatalf("expected SMA to roughly round-trip within 1 km, got %f vs %f", back.SMA, osc.SMA)
	}
	if math.Abs(back.Inc-osc.Inc) > Deg2rad(0.1) {
		t.Fatalf("expected inclination to roughly round-trip, got %f vs %f", back.Inc, osc.Inc)
	}
}

func TestBLMRejectsEccentricityOutOfDomain(t *testing.T) {
	osc := leoOsculating(Deg2rad(51.6), Deg2rad(30))
	osc.Ecc = 0.995
	if _, err := ToMean(osc); !IsWrong(err) {
		t.Fatal("expected WrongError for eccentricity above 0.99")
	}
	osc.Ecc = 0
	if _, err := ToMean(osc); !IsWrong(err) {
		t.Fatal("expected WrongError for zero eccentricity (outside the open-interval domain guard)")
	}
}

func TestBLMRejectsLowPerigee(t *testing.T) {
	osc := leoOsculating(Deg2rad(51.6), Deg2rad(30))
	osc.SMA = 2500 // perigee well under the 3000 km floor
	if _, err := ToMean(osc); !IsWrong(err) {
		t.Fatal("expected WrongError for a sub-floor perigee radius")
	}
}

func TestBLMNearCriticalInclination(t *testing.T) {
	osc := leoOsculating(CriticalInclinationLow, Deg2rad(30))
	if _, err := ToMean(osc); !IsNearCritical(err) {
		t.Fatal("expected NearCritical for inclination at the critical value")
	}
}

func TestBLMNearCriticalAoP(t *testing.T) {
	osc := leoOsculating(Deg2rad(51.6), math.Pi/2)
	if _, err := ToMean(osc); !IsNearCritical(err) {
		t.Fatal("expected NearCritical for AoP at 90 degrees")
	}
}
