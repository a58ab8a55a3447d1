package physics

import (
	"github.com/koteyur/ccd2d/geom"
)

// StaticPoint is a single fixed point.
type StaticPoint struct {
	Static

	at geom.Vector2
}

// NewStaticPoint returns a static point at p.
func NewStaticPoint(p geom.Vector2) (*StaticPoint, error) {
	if err := checkFiniteVec("point", p); err != nil {
		return nil, err
	}
	return &StaticPoint{Static: newStatic(), at: p}, nil
}

// Point returns the location of the point.
func (p *StaticPoint) Point() geom.Vector2 {
	return p.at
}

// Box implements [StaticBoxedBody].
func (p *StaticPoint) Box() geom.Box3 {
	return geom.B2FromPoints(p.at).Lift(p.Z, p.ZDepth)
}

// CollideWithCircle implements [StaticBody].
func (p *StaticPoint) CollideWithCircle(c *SimulatedCircle, m *CollisionMnemento) {
	t, ok := sweepCircle(c.Position().Sub(p.at), c.Velocity, c.radius, m.Timeout())
	if !ok {
		return
	}
	m.Add(t, func() error {
		return c.CollideAtSurface(c.Position().Sub(p.at), p.at, p)
	})
}

// ForceConstraintForCircle implements [StaticBody].
func (p *StaticPoint) ForceConstraintForCircle(c *SimulatedCircle, fc *ForceConstraints) {
	pointConstraint(fc, c.Position(), p.at, c.radius, separation(c))
}
