package astro

import "fmt"

const attosPerSecond int64 = 1e18

// Duration is a signed elapsed time represented as whole seconds plus an
// attosecond remainder, preserving sub-nanosecond precision over
// century-long spans without the cancellation error of a float64 seconds
// count.
type Duration struct {
	seconds     int64
	attoseconds int64 // always in [0, attosPerSecond), sign carried by seconds
}

// NewDuration builds a Duration from a whole-seconds count and a fractional
// seconds remainder, normalizing the attosecond field.
func NewDuration(seconds int64, fractionSeconds float64) Duration {
	d := Duration{seconds: seconds, attoseconds: int64(fractionSeconds * float64(attosPerSecond))}
	return d.normalize()
}

// DurationFromSeconds builds a Duration from a float64 seconds count.
func DurationFromSeconds(s float64) Duration {
	whole := int64(s)
	frac := s - float64(whole)
	return NewDuration(whole, frac)
}

func (d Duration) normalize() Duration {
	for d.attoseconds < 0 {
		d.attoseconds += attosPerSecond
		d.seconds--
	}
	for d.attoseconds >= attosPerSecond {
		d.attoseconds -= attosPerSecond
		d.seconds++
	}
	return d
}

// Seconds returns the duration as a float64 seconds count.
func (d Duration) Seconds() float64 {
	return float64(d.seconds) + float64(d.attoseconds)/float64(attosPerSecond)
}

// Add returns d+o.
func (d Duration) Add(o Duration) Duration {
	return Duration{seconds: d.seconds + o.seconds, attoseconds: d.attoseconds + o.attoseconds}.normalize()
}

// Neg returns -d.
func (d Duration) Neg() Duration {
	return Duration{seconds: -d.seconds, attoseconds: -d.attoseconds}.normalize()
}

// Sign returns -1, 0 or 1.
func (d Duration) Sign() int {
	switch {
	case d.seconds > 0 || (d.seconds == 0 && d.attoseconds > 0):
		return 1
	case d.seconds < 0 || (d.seconds == 0 && d.attoseconds < 0):
		return -1
	default:
		return 0
	}
}

func (d Duration) String() string {
	return fmt.Sprintf("%.9fs", d.Seconds())
}

// Instant is a real-valued offset from a global reference epoch. Arithmetic
// between instants yields a Duration; arithmetic between an Instant and a
// Duration yields an Instant.
type Instant struct {
	seconds     int64
	attoseconds int64
}

// Undefined instant sentinel: the zero value is a valid instant (the
// reference epoch itself), so undefined-ness must be tracked by the caller
// (e.g. a *Instant nil pointer, or IsZero with a documented epoch choice).

// NewInstant builds an Instant the given whole seconds and fractional
// seconds past the reference epoch.
func NewInstant(seconds int64, fractionSeconds float64) Instant {
	d := NewDuration(seconds, fractionSeconds)
	return Instant{seconds: d.seconds, attoseconds: d.attoseconds}
}

// Sub returns the signed Duration t-o.
func (t Instant) Sub(o Instant) Duration {
	return Duration{seconds: t.seconds - o.seconds, attoseconds: t.attoseconds - o.attoseconds}.normalize()
}

// Plus returns the Instant t+d.
func (t Instant) Plus(d Duration) Instant {
	sum := Duration{seconds: t.seconds + d.seconds, attoseconds: t.attoseconds + d.attoseconds}.normalize()
	return Instant{seconds: sum.seconds, attoseconds: sum.attoseconds}
}

// Before reports whether t occurs strictly before o.
func (t Instant) Before(o Instant) bool {
	return t.Sub(o).Sign() < 0
}

// After reports whether t occurs strictly after o.
func (t Instant) After(o Instant) bool {
	return t.Sub(o).Sign() > 0
}

// Equal reports whether t and o denote the same instant.
func (t Instant) Equal(o Instant) bool {
	return t.seconds == o.seconds && t.attoseconds == o.attoseconds
}

func (t Instant) String() string {
	return fmt.Sprintf("T%+d.%09ds", t.seconds, t.attoseconds/1e9)
}

// Calendar decomposes the instant into a proleptic Gregorian UTC calendar
// date and time of day, treating the reference epoch as
// 2000-01-01T00:00:00. This is the module's only calendar-arithmetic
// surface; actual leap-second/time-scale handling is an external concern
// (spec §6.2).
func (t Instant) Calendar() (year, month, day, hour, min, sec int) {
	totalSeconds := t.seconds
	daySeconds := totalSeconds % 86400
	dayCount := totalSeconds / 86400
	if daySeconds < 0 {
		daySeconds += 86400
		dayCount--
	}
	hour = int(daySeconds / 3600)
	min = int((daySeconds % 3600) / 60)
	sec = int(daySeconds % 60)

	year = 2000
	days := int(dayCount)
	if days >= 0 {
		for {
			n := daysInYear(year)
			if days < n {
				break
			}
			days -= n
			year++
		}
	} else {
		for days < 0 {
			year--
			days += daysInYear(year)
		}
	}
	monthLengths := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if isLeap(year) {
		monthLengths[1] = 29
	}
	month = 1
	for _, ml := range monthLengths {
		if days < ml {
			break
		}
		days -= ml
		month++
	}
	day = days + 1
	return
}
