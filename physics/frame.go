package physics

import (
	"errors"
	"fmt"

	"github.com/koteyur/ccd2d/geom"
)

// Frame is a mutable 2D affine frame (position and rotation) shared by
// reference between a dynamic body and whatever renders it. The simulation
// writes to it in place; subscribers registered with [Frame.OnChange] are
// notified after every mutation.
type Frame struct {
	position geom.Vector2
	rotation float64

	nextID    int
	listeners []frameListener
	failures  []error
}

type frameListener struct {
	id int
	fn func(f *Frame)
}

// NewFrame returns a frame at the given position and rotation in radians.
func NewFrame(position geom.Vector2, rotation float64) *Frame {
	return &Frame{position: position, rotation: rotation}
}

// Position returns the origin of the frame.
func (f *Frame) Position() geom.Vector2 {
	return f.position
}

// Rotation returns the rotation of the frame in radians.
func (f *Frame) Rotation() float64 {
	return f.rotation
}

// Matrix returns the rotation matrix of the frame.
func (f *Frame) Matrix() geom.Mat2 {
	return geom.Rotation(f.rotation)
}

// ToWorld maps a point in frame coordinates to world coordinates.
func (f *Frame) ToWorld(local geom.Vector2) geom.Vector2 {
	return f.Matrix().MulVector2(local).Add(f.position)
}

// ToLocal maps a world point to frame coordinates.
func (f *Frame) ToLocal(world geom.Vector2) geom.Vector2 {
	return f.Matrix().Transpose().MulVector2(world.Sub(f.position))
}

// SetPosition moves the frame origin to p.
func (f *Frame) SetPosition(p geom.Vector2) {
	if p == f.position {
		return
	}
	f.position = p
	f.changed()
}

// SetRotation sets the rotation in radians.
func (f *Frame) SetRotation(radians float64) {
	if radians == f.rotation {
		return
	}
	f.rotation = radians
	f.changed()
}

// Translate moves the frame origin by d.
func (f *Frame) Translate(d geom.Vector2) {
	if d.X == 0 && d.Y == 0 {
		return
	}
	f.position = f.position.Add(d)
	f.changed()
}

// Rotate adds radians to the rotation.
func (f *Frame) Rotate(radians float64) {
	if radians == 0 {
		return
	}
	f.rotation += radians
	f.changed()
}

// Move translates and rotates the frame with a single notification.
func (f *Frame) Move(d geom.Vector2, radians float64) {
	if d.X == 0 && d.Y == 0 && radians == 0 {
		return
	}
	f.position = f.position.Add(d)
	f.rotation += radians
	f.changed()
}

// OnChange registers fn to be called after every mutation of the frame.
// The returned function removes the registration.
//
// A panicking listener does not keep the others from running. The panic is
// recovered and reported by [Frame.Err], and by the next [System.Simulate]
// for frames of registered bodies.
func (f *Frame) OnChange(fn func(f *Frame)) (cancel func()) {
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, frameListener{id: id, fn: fn})
	return func() {
		for i, l := range f.listeners {
			if l.id == id {
				f.listeners = append(f.listeners[:i:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

func (f *Frame) changed() {
	for _, l := range f.listeners {
		if err := l.call(f); err != nil {
			f.failures = append(f.failures, err)
		}
	}
}

func (l frameListener) call(f *Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("physics: frame listener panicked: %v", r)
		}
	}()
	l.fn(f)
	return nil
}

// Err returns the recovered listener panics since the last call and clears
// them.
func (f *Frame) Err() error {
	err := errors.Join(f.failures...)
	f.failures = nil
	return err
}
