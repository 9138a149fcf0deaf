package astro

import "testing"

func TestEarthConstants(t *testing.T) {
	if Earth.Name() != "Earth" {
		t.Fatalf("expected Earth, got %s", Earth.Name())
	}
	if Earth.GM() <= 0 {
		t.Fatal("expected positive GM for Earth")
	}
	if Earth.J(2) == 0 {
		t.Fatal("expected nonzero J2 for Earth")
	}
	if Earth.J(5) != 0 {
		t.Fatal("expected J(5) to default to zero for an unmodeled zonal term")
	}
}

func TestConstantBodyPositionUndefined(t *testing.T) {
	_, err := Earth.Position(NewInstant(0, 0), GCRF)
	if !IsUndefined(err) {
		t.Fatal("expected constantBody.Position to report UndefinedError")
	}
}

func TestCelestialBodyFromString(t *testing.T) {
	b, err := CelestialBodyFromString("EARTH")
	if err != nil || b.Name() != "Earth" {
		t.Fatalf("expected case-insensitive lookup to find Earth, got %v, err=%v", b, err)
	}
	if _, err := CelestialBodyFromString("Vulcan"); err == nil || !IsWrong(err) {
		t.Fatal("expected WrongError for an unknown body name")
	}
}
