package physics

import (
	"github.com/koteyur/ccd2d/geom"
)

// StaticCircle is a fixed solid disk.
type StaticCircle struct {
	Static

	center geom.Vector2
	radius float64
}

// NewStaticCircle returns a static disk. radius must be positive.
func NewStaticCircle(center geom.Vector2, radius float64) (*StaticCircle, error) {
	if err := checkFiniteVec("center", center); err != nil {
		return nil, err
	}
	if err := checkPositive("radius", radius); err != nil {
		return nil, err
	}
	return &StaticCircle{Static: newStatic(), center: center, radius: radius}, nil
}

// Center returns the center of the disk.
func (s *StaticCircle) Center() geom.Vector2 { return s.center }

// Radius returns the radius of the disk.
func (s *StaticCircle) Radius() float64 { return s.radius }

// Box implements [StaticBoxedBody].
func (s *StaticCircle) Box() geom.Box3 {
	return geom.B2FromCircle(s.center, s.radius).Lift(s.Z, s.ZDepth)
}

// CollideWithCircle implements [StaticBody].
func (s *StaticCircle) CollideWithCircle(c *SimulatedCircle, m *CollisionMnemento) {
	reach := s.radius + c.radius
	t, ok := sweepCircle(c.Position().Sub(s.center), c.Velocity, reach, m.Timeout())
	if !ok {
		return
	}
	m.Add(t, func() error {
		n := c.Position().Sub(s.center).Normal()
		contact := s.center.Add(n.MulScalar(s.radius))
		return c.CollideAtSurface(n, contact, s)
	})
}

// ForceConstraintForCircle implements [StaticBody].
func (s *StaticCircle) ForceConstraintForCircle(c *SimulatedCircle, fc *ForceConstraints) {
	pointConstraint(fc, c.Position(), s.center, s.radius+c.radius, separation(c))
}
