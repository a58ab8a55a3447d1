package physics

import (
	"errors"
	"fmt"

	"github.com/koteyur/ccd2d/geom"
)

// Event is a synchronous fan-out event. Subscribers are called in
// registration order on the emitting goroutine. A failing subscriber does not
// stop delivery: errors and recovered panics from all subscribers are joined
// and returned by [Event.Emit].
type Event[T any] struct {
	nextID int
	subs   []subscription[T]
}

type subscription[T any] struct {
	id int
	fn func(T) error
}

// Subscribe registers fn and returns a function that removes it.
func (e *Event[T]) Subscribe(fn func(T) error) (cancel func()) {
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription[T]{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of subscribers.
func (e *Event[T]) Len() int {
	return len(e.subs)
}

// Emit calls every subscriber with arg.
func (e *Event[T]) Emit(arg T) error {
	if len(e.subs) == 0 {
		return nil
	}
	var errs []error
	for _, s := range e.subs {
		if err := s.call(arg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s subscription[T]) call(arg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("physics: event subscriber panicked: %v", r)
		}
	}()
	return s.fn(arg)
}

// PreSimulate is emitted for every enabled simulated body before each substep.
// Subscribers may add forces with [Simulated.AddForce].
type PreSimulate struct {
	Body    SimulatedBody
	Timeout float64
}

// PreAnimate is emitted for every enabled animated body before each substep.
// Subscribers script the motion by setting velocities or accelerations.
type PreAnimate struct {
	Body    *AnimatedBody
	Timeout float64
}

// Collision describes a resolved contact between a simulated body and a
// static body. Other is never modified.
type Collision struct {
	Body   SimulatedBody
	Other  Body
	Normal geom.Vector2
	Point  geom.Vector2

	// Speed is the approach speed along Normal before the response.
	Speed float64
}
