package astro

import (
	"fmt"

	"github.com/pkg/errors"
)

// UndefinedError is returned when an operation is attempted on a value that
// carries no meaningful state (e.g. a zero-value Orbit, an empty TLE).
type UndefinedError struct {
	What string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%s is undefined", e.What)
}

// NewUndefinedError wraps an optional cause into an UndefinedError.
func NewUndefinedError(what string, cause error) error {
	if cause == nil {
		return &UndefinedError{What: what}
	}
	return errors.Wrap(&UndefinedError{What: what}, cause.Error())
}

// WrongError is returned when an input violates a documented precondition
// (e.g. a negative semi-latus rectum, a malformed TLE line).
type WrongError struct {
	What   string
	Reason string
}

func (e *WrongError) Error() string {
	return fmt.Sprintf("%s is wrong: %s", e.What, e.Reason)
}

// NewWrongError builds a WrongError.
func NewWrongError(what, reason string) error {
	return &WrongError{What: what, Reason: reason}
}

// RuntimeError is returned when an algorithm fails to converge, carrying the
// last iterate so a caller can inspect how close it got.
type RuntimeError struct {
	What      string
	LastValue interface{}
	Cause     error
}

func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s did not converge (last=%v): %v", e.What, e.LastValue, e.Cause)
	}
	return fmt.Sprintf("%s did not converge (last=%v)", e.What, e.LastValue)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

// NewRuntimeError builds a RuntimeError carrying the last iterate.
func NewRuntimeError(what string, lastValue interface{}, cause error) error {
	return &RuntimeError{What: what, LastValue: lastValue, Cause: cause}
}

// NotImplementedError marks a documented gap: a feature the spec names as an
// open question rather than a committed behavior.
type NotImplementedError struct {
	What string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented", e.What)
}

// NewNotImplementedError builds a NotImplementedError.
func NewNotImplementedError(what string) error {
	return &NotImplementedError{What: what}
}

// NearCritical flags a Brouwer-Lyddane mean-element conversion that is
// numerically close to a known singularity (an inclination near a critical
// value, or an argument of periapsis near 90 or 270 degrees). It is a typed sentinel, not a log line: callers can type-assert
// or errors.As to decide whether the returned elements are trustworthy.
type NearCritical struct {
	What      string
	Value     float64
	Threshold float64
}

func (e *NearCritical) Error() string {
	return fmt.Sprintf("%s (%.6f) is within %.6f of a singularity", e.What, e.Value, e.Threshold)
}

// NewNearCritical builds a NearCritical sentinel.
func NewNearCritical(what string, value, threshold float64) error {
	return &NearCritical{What: what, Value: value, Threshold: threshold}
}

// IsUndefined reports whether err is (or wraps) an UndefinedError.
func IsUndefined(err error) bool {
	var e *UndefinedError
	return errors.As(err, &e)
}

// IsWrong reports whether err is (or wraps) a WrongError.
func IsWrong(err error) bool {
	var e *WrongError
	return errors.As(err, &e)
}

// IsNearCritical reports whether err is (or wraps) a NearCritical sentinel.
func IsNearCritical(err error) bool {
	var e *NearCritical
	return errors.As(err, &e)
}
