package astro

import "testing"

func TestDurationNormalize(t *testing.T) {
	d := NewDuration(0, 1.5)
	if d.seconds != 1 {
		t.Fatalf("expected carry into seconds, got %+v", d)
	}
	d2 := NewDuration(0, -0.5)
	if d2.seconds != -1 || d2.attoseconds <= 0 {
		t.Fatalf("expected negative fraction to normalize, got %+v", d2)
	}
}

func TestDurationAddNegSign(t *testing.T) {
	a := DurationFromSeconds(10.5)
	b := DurationFromSeconds(-3.25)
	sum := a.Add(b)
	if sum.Seconds() != 7.25 {
		t.Fatalf("expected 7.25, got %f", sum.Seconds())
	}
	if a.Neg().Seconds() != -10.5 {
		t.Fatal("Neg mismatch")
	}
	if DurationFromSeconds(0).Sign() != 0 || DurationFromSeconds(-1).Sign() != -1 || DurationFromSeconds(1).Sign() != 1 {
		t.Fatal("Sign mismatch")
	}
}

func TestInstantArithmetic(t *testing.T) {
	t0 := NewInstant(0, 0)
	t1 := t0.Plus(DurationFromSeconds(3600))
	if !t1.After(t0) || !t0.Before(t1) {
		t.Fatal("expected t1 after t0")
	}
	if d := t1.Sub(t0); d.Seconds() != 3600 {
		t.Fatalf("expected 3600s difference, got %f", d.Seconds())
	}
	if !t0.Equal(NewInstant(0, 0)) {
		t.Fatal("expected equal instants to compare equal")
	}
}

func TestInstantCalendar(t *testing.T) {
	epoch := NewInstant(0, 0)
	y, mo, d, h, mi, s := epoch.Calendar()
	if y != 2000 || mo != 1 || d != 1 || h != 0 || mi != 0 || s != 0 {
		t.Fatalf("expected epoch to decode to 2000-01-01T00:00:00, got %d-%02d-%02dT%02d:%02d:%02d", y, mo, d, h, mi, s)
	}

	// One full (leap) year past the epoch: 2000 is a leap year, so
	// 2000-01-01 + 366 days = 2001-01-01.
	oneYear := epoch.Plus(DurationFromSeconds(366 * 86400))
	y, mo, d, h, mi, s = oneYear.Calendar()
	if y != 2001 || mo != 1 || d != 1 {
		t.Fatalf("expected 2001-01-01, got %d-%02d-%02d", y, mo, d)
	}

	before := epoch.Plus(DurationFromSeconds(-1))
	y, mo, d, h, mi, s = before.Calendar()
	if y != 1999 || mo != 12 || d != 31 || h != 23 || mi != 59 || s != 59 {
		t.Fatalf("expected 1999-12-31T23:59:59, got %d-%02d-%02dT%02d:%02d:%02d", y, mo, d, h, mi, s)
	}
}
