package physics

import (
	"github.com/koteyur/ccd2d/geom"
)

// StaticLine is an infinite half-plane. Its unit normal points out of the
// solid side; points p with Normal·p < Offset are inside.
type StaticLine struct {
	Static

	normal geom.Vector2
	offset float64
}

// NewStaticLine returns the half-plane bounded by the line through point
// perpendicular to normal. normal need not be unit length.
func NewStaticLine(point, normal geom.Vector2) (*StaticLine, error) {
	if err := checkFiniteVec("point", point); err != nil {
		return nil, err
	}
	if err := checkFiniteVec("normal", normal); err != nil {
		return nil, err
	}
	n := normal.Normal()
	if n.IsZero() {
		return nil, outOfRange("line normal must not be zero")
	}
	return &StaticLine{Static: newStatic(), normal: n, offset: n.Dot(point)}, nil
}

// Normal returns the unit normal.
func (l *StaticLine) Normal() geom.Vector2 {
	return l.normal
}

// Offset returns the signed distance of the line from the origin along Normal.
func (l *StaticLine) Offset() float64 {
	return l.offset
}

// Point returns the point of the line closest to the origin.
func (l *StaticLine) Point() geom.Vector2 {
	return l.normal.MulScalar(l.offset)
}

// Distance returns the signed distance of p from the line.
func (l *StaticLine) Distance(p geom.Vector2) float64 {
	return l.normal.Dot(p) - l.offset
}

// CollideWithCircle implements [StaticBody].
func (l *StaticLine) CollideWithCircle(c *SimulatedCircle, m *CollisionMnemento) {
	dist := l.Distance(c.Position())
	t, ok := sweepPlane(dist, c.Velocity.Dot(l.normal), c.radius, m.Timeout())
	if !ok {
		return
	}
	m.Add(t, func() error {
		contact := c.Position().Sub(l.normal.MulScalar(c.radius))
		return c.CollideAtSurface(l.normal, contact, l)
	})
}

// ForceConstraintForCircle implements [StaticBody].
func (l *StaticLine) ForceConstraintForCircle(c *SimulatedCircle, fc *ForceConstraints) {
	switch dist := l.Distance(c.Position()); {
	case dist < c.radius:
		fc.Add(l.normal, c.radius-dist)
	case dist-c.radius <= contactSlop:
		fc.Touch(l.normal)
	}
}
