package physics

import (
	"errors"
	"fmt"

	"github.com/koteyur/ccd2d/geom"
)

var (
	// ErrOutOfRange is returned when a constructor or option receives a value
	// outside its valid range (non-positive radius or mass, zero steps, NaN).
	ErrOutOfRange = errors.New("value out of range")

	// ErrRegistered is returned when a dynamic body is added to a system while
	// it is still registered with another one.
	ErrRegistered = errors.New("body already registered with another system")
)

func outOfRange(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrOutOfRange}, args...)...)
}

func checkPositive(name string, v float64) error {
	if !geom.IsFinite(v) || v <= 0 {
		return outOfRange("%s must be > 0, got %v", name, v)
	}
	return nil
}

func checkFinite(name string, v float64) error {
	if !geom.IsFinite(v) {
		return outOfRange("%s must be finite, got %v", name, v)
	}
	return nil
}

func checkFiniteVec(name string, v geom.Vector2) error {
	if !v.IsFinite() {
		return outOfRange("%s must be finite, got %v", name, v)
	}
	return nil
}
