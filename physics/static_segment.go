package physics

import (
	"github.com/koteyur/ccd2d/geom"
)

// StaticLineSegment is a two-sided segment between two points. Circles
// collide with either face and with the rounded ends.
type StaticLineSegment struct {
	Static

	a, b    geom.Vector2
	tangent geom.Vector2
	normal  geom.Vector2
	offset  float64
	length  float64
}

// NewStaticLineSegment returns the segment from a to b.
func NewStaticLineSegment(a, b geom.Vector2) (*StaticLineSegment, error) {
	if err := checkFiniteVec("segment start", a); err != nil {
		return nil, err
	}
	if err := checkFiniteVec("segment end", b); err != nil {
		return nil, err
	}
	d := b.Sub(a)
	length := d.Length()
	if length < geom.Epsilon {
		return nil, outOfRange("segment must have non-zero length")
	}
	tangent := d.MulScalar(1 / length)
	normal := tangent.Perp()
	return &StaticLineSegment{
		Static:  newStatic(),
		a:       a,
		b:       b,
		tangent: tangent,
		normal:  normal,
		offset:  normal.Dot(a),
		length:  length,
	}, nil
}

// A returns the start point.
func (s *StaticLineSegment) A() geom.Vector2 { return s.a }

// B returns the end point.
func (s *StaticLineSegment) B() geom.Vector2 { return s.b }

// Tangent returns the unit direction from A to B.
func (s *StaticLineSegment) Tangent() geom.Vector2 { return s.tangent }

// Normal returns the unit normal, Tangent rotated by +90 degrees.
func (s *StaticLineSegment) Normal() geom.Vector2 { return s.normal }

// Offset returns the signed distance of the supporting line from the origin.
func (s *StaticLineSegment) Offset() float64 { return s.offset }

// Length returns the distance between A and B.
func (s *StaticLineSegment) Length() float64 { return s.length }

// Box implements [StaticBoxedBody].
func (s *StaticLineSegment) Box() geom.Box3 {
	return geom.B2FromPoints(s.a, s.b).Lift(s.Z, s.ZDepth)
}

// ClosestPoint returns the point of the segment closest to p.
func (s *StaticLineSegment) ClosestPoint(p geom.Vector2) geom.Vector2 {
	return closestOnSegment(p, s.a, s.tangent, s.length)
}

// CollideWithCircle implements [StaticBody].
func (s *StaticLineSegment) CollideWithCircle(c *SimulatedCircle, m *CollisionMnemento) {
	p, v := c.Position(), c.Velocity
	n := s.normal
	dist := n.Dot(p) - s.offset
	vn := n.Dot(v)
	if dist < 0 || (dist == 0 && vn > 0) {
		n, dist, vn = n.Negate(), -dist, -vn
	}

	if t, ok := sweepPlane(dist, vn, c.radius, m.Timeout()); ok {
		along := p.Add(v.MulScalar(t)).Sub(s.a).Dot(s.tangent)
		if along >= 0 && along <= s.length {
			m.Add(t, func() error {
				contact := c.Position().Sub(n.MulScalar(c.radius))
				return c.CollideAtSurface(n, contact, s)
			})
			return
		}
	}

	// The face is missed, so the first contact, if any, is at an end.
	for _, end := range [2]geom.Vector2{s.a, s.b} {
		if t, ok := sweepCircle(p.Sub(end), v, c.radius, m.Timeout()); ok {
			m.Add(t, func() error {
				return c.CollideAtSurface(c.Position().Sub(end), end, s)
			})
		}
	}
}

// ForceConstraintForCircle implements [StaticBody].
func (s *StaticLineSegment) ForceConstraintForCircle(c *SimulatedCircle, fc *ForceConstraints) {
	p := c.Position()
	fallback := s.normal
	if s.normal.Dot(p)-s.offset < 0 {
		fallback = fallback.Negate()
	}
	pointConstraint(fc, p, s.ClosestPoint(p), c.radius, fallback)
}
