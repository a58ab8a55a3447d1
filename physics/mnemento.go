package physics

import (
	"errors"
	"math"
)

// CollisionMnemento records the earliest collision time found during one
// continuous-collision iteration together with the callbacks that resolve
// the collisions happening at exactly that time.
type CollisionMnemento struct {
	timeout float64
	time    float64
	events  []func() error
}

// NewCollisionMnemento returns an empty mnemento accepting times in [0, timeout].
func NewCollisionMnemento(timeout float64) *CollisionMnemento {
	m := &CollisionMnemento{}
	m.Reset(timeout)
	return m
}

// Reset empties the mnemento for a new iteration.
func (m *CollisionMnemento) Reset(timeout float64) {
	m.timeout = timeout
	m.time = timeout
	clear(m.events)
	m.events = m.events[:0]
}

// Timeout returns the upper bound of accepted times.
func (m *CollisionMnemento) Timeout() float64 {
	return m.timeout
}

// Time returns the earliest collision time, or Timeout if there is none.
func (m *CollisionMnemento) Time() float64 {
	return m.time
}

// HasEvents reports whether any collision has been registered.
func (m *CollisionMnemento) HasEvents() bool {
	return len(m.events) > 0
}

// Len returns the number of collisions registered at Time.
func (m *CollisionMnemento) Len() int {
	return len(m.events)
}

// Add registers a collision at time t. Negative times are clamped to 0 and
// times beyond Timeout are ignored. A time strictly earlier than the current
// one discards the collisions registered so far; an equal time appends.
func (m *CollisionMnemento) Add(t float64, resolve func() error) {
	if math.IsNaN(t) || t > m.timeout {
		return
	}
	t = max(t, 0)
	switch {
	case t < m.time:
		m.time = t
		clear(m.events)
		m.events = append(m.events[:0], resolve)
	case t == m.time:
		m.events = append(m.events, resolve)
	}
}

// Resolve runs the registered callbacks in registration order and returns
// their joined errors.
func (m *CollisionMnemento) Resolve() error {
	var errs []error
	for _, fn := range m.events {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
