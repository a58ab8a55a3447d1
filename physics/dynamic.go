package physics

import (
	"github.com/koteyur/ccd2d/geom"
)

// Dynamic holds the state of a body the engine moves. It is embedded by
// [Simulated] and [AnimatedBody].
type Dynamic struct {
	Base

	// Velocity is the linear velocity in units per second.
	Velocity geom.Vector2

	// AngularVelocity is in radians per second, counter-clockwise positive.
	AngularVelocity float64

	// Acceleration and AngularAcceleration accumulate during a substep and
	// are integrated into the velocities before the body moves.
	Acceleration        geom.Vector2
	AngularAcceleration float64

	frame  *Frame
	radius float64

	owner   *System
	indexed geom.Box3 // extent the owner's tree stores the body under
}

func newDynamic(frame *Frame, radius float64) Dynamic {
	if frame == nil {
		frame = NewFrame(geom.Vector2{}, 0)
	}
	return Dynamic{Base: newBase(), frame: frame, radius: radius}
}

// DynamicBase returns d. It makes every type embedding Dynamic a [DynamicBody].
func (d *Dynamic) DynamicBase() *Dynamic {
	return d
}

// Frame returns the frame shared with the rendering layer.
func (d *Dynamic) Frame() *Frame {
	return d.frame
}

// Position returns the current position of the body.
func (d *Dynamic) Position() geom.Vector2 {
	return d.frame.position
}

// Rotation returns the current rotation of the body in radians.
func (d *Dynamic) Rotation() float64 {
	return d.frame.rotation
}

// BoundingRadius returns the radius of the circle enclosing the body.
func (d *Dynamic) BoundingRadius() float64 {
	return d.radius
}

// System returns the system the body is registered with, or nil.
func (d *Dynamic) System() *System {
	return d.owner
}

// StaticBox returns the box around the body at its current position, lifted
// to its depth interval.
func (d *Dynamic) StaticBox() geom.Box3 {
	return geom.B2FromCircle(d.frame.position, d.radius).Lift(d.Z, d.ZDepth)
}

// DynamicBox returns the static box swept by the current velocity over dt.
func (d *Dynamic) DynamicBox(dt float64) geom.Box3 {
	return geom.B2FromCircle(d.frame.position, d.radius).
		ExpandByVector(d.Velocity.MulScalar(dt)).
		Lift(d.Z, d.ZDepth)
}

// ApplyImpulse adds a velocity change directly.
func (d *Dynamic) ApplyImpulse(dv geom.Vector2) {
	d.Velocity = d.Velocity.Add(dv)
}

func (d *Dynamic) integrateVelocity(dt float64) {
	d.Velocity = d.Velocity.Add(d.Acceleration.MulScalar(dt))
	d.AngularVelocity += d.AngularAcceleration * dt
}

func (d *Dynamic) advance(t float64) {
	d.frame.Move(d.Velocity.MulScalar(t), d.AngularVelocity*t)
}

// DynamicBody is implemented by bodies the engine moves.
type DynamicBody interface {
	Body
	DynamicBase() *Dynamic
}
