package physics

import (
	"errors"
	"math"

	"github.com/koteyur/ccd2d/geom"
)

// SimulatedBody is a dynamic body moved by forces and collision response.
// [SimulatedCircle] is the only shape provided.
type SimulatedBody interface {
	DynamicBody
	SimulatedBase() *Simulated

	// MomentOfInertia returns the rotational mass about the body center.
	MomentOfInertia() float64

	// CollideWithStatic asks s for the earliest contact with the body
	// within the mnemento's timeout.
	CollideWithStatic(s StaticBody, m *CollisionMnemento)

	// ConstrainByStatic asks s for a correction plane if the body already
	// overlaps it.
	ConstrainByStatic(s StaticBody, fc *ForceConstraints)
}

// Simulated holds the state shared by simulated bodies.
type Simulated struct {
	Dynamic

	// Constraints collects the depenetration planes of the current substep.
	Constraints ForceConstraints

	// OnPreSimulate fires before each substep; subscribers may add forces.
	OnPreSimulate Event[PreSimulate]

	// OnCollision fires after the body's velocity has been updated by a contact.
	OnCollision Event[Collision]

	mass float64
	self SimulatedBody

	drive       geom.Vector2 // acceleration of the substep before contact planes
	lastContact uint64       // substep of the owner's last contact, 0 if none
}

func newSimulated(self SimulatedBody, frame *Frame, radius, mass float64) Simulated {
	return Simulated{Dynamic: newDynamic(frame, radius), mass: mass, self: self}
}

// SimulatedBase returns s.
func (s *Simulated) SimulatedBase() *Simulated {
	return s
}

// Mass returns the mass of the body.
func (s *Simulated) Mass() float64 {
	return s.mass
}

// AddForce accumulates a force for the current substep.
func (s *Simulated) AddForce(f geom.Vector2) {
	s.Acceleration = s.Acceleration.Add(f.MulScalar(1 / s.mass))
}

// AddTorque accumulates a torque for the current substep.
func (s *Simulated) AddTorque(torque float64) {
	if i := s.self.MomentOfInertia(); i > 0 {
		s.AngularAcceleration += torque / i
	}
}

// CollideAtSurface applies the impulse of a contact with other at point,
// where normal points from the surface towards the body. The velocity is
// reflected along normal scaled by the combined bounciness and friction
// opposes sliding at the contact point without reversing it. Contacts the
// body already separates from are ignored.
//
// A body that was in contact during the last substeps does not bounce when
// the rebound could not outlast one substep of its acceleration; it comes
// to rest instead.
func (s *Simulated) CollideAtSurface(normal, point geom.Vector2, other Body) error {
	n := normal.Normal()
	if n.IsZero() {
		return nil
	}
	vn := s.Velocity.Dot(n)
	if vn >= 0 {
		return nil
	}

	om := other.BodyBase().Material
	bounciness := s.Material.ResultingBounciness(om)
	if s.owner != nil && s.owner.absorbs(s, n, -vn*bounciness) {
		bounciness = 0
	}

	dvn := -vn * (1 + bounciness)
	s.Velocity = s.Velocity.Add(n.MulScalar(dvn))
	s.rub(n, point, s.Material.ResultingFriction(om), dvn)

	c := Collision{Body: s.self, Other: other, Normal: n, Point: point, Speed: -vn}
	err := s.OnCollision.Emit(c)
	if s.owner != nil {
		s.lastContact = s.owner.substep
		err = errors.Join(err, s.owner.OnCollision.Emit(c))
	}
	return err
}

// rub applies the friction impulse of a contact at point along the unit
// normal n that changed the normal speed by dvn. It reports whether the
// velocity changed.
func (s *Simulated) rub(n, point geom.Vector2, friction, dvn float64) bool {
	tangent := n.Perp()
	lever := point.Sub(s.Position())
	vt := s.Velocity.Add(geom.CrossScalar(s.AngularVelocity, lever)).Dot(tangent)
	if !(friction > 0) || math.Abs(vt) <= geom.Epsilon {
		return false
	}
	leverArm := lever.Cross(tangent)
	ratio := 0.0
	if inertia := s.self.MomentOfInertia(); inertia > 0 {
		ratio = s.mass / inertia
	}
	// tangential speed change at the contact per unit of linear impulse
	k := 1 + ratio*leverArm*leverArm
	impulse := min(friction*math.Abs(dvn), math.Abs(vt)/k)
	impulse = -math.Copysign(impulse, vt)
	s.Velocity = s.Velocity.Add(tangent.MulScalar(impulse))
	s.AngularVelocity += ratio * impulse * leverArm
	return true
}

// rubContacts applies friction at the planes of the substep. approach is the
// velocity the body would have had without them; its inward part along a
// plane is the normal speed the plane took away.
func (s *Simulated) rubContacts(approach geom.Vector2) {
	rubbed := false
	for _, p := range s.Constraints.planes {
		dvn := -approach.Dot(p.Direction)
		if p.Other == nil || dvn <= 0 {
			continue
		}
		point := s.Position().Sub(p.Direction.MulScalar(s.radius))
		friction := s.Material.ResultingFriction(p.Other.BodyBase().Material)
		if s.rub(p.Direction, point, friction, dvn) {
			rubbed = true
		}
	}
	if rubbed {
		s.Velocity = s.Constraints.confine(s.Velocity)
	}
}
