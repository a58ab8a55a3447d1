package physics

import (
	"math"

	"github.com/koteyur/ccd2d/geom"
)

// sweepCircle returns the earliest time in [0, timeout] at which a circle at
// offset rel from a fixed center, moving with velocity v, comes within reach
// of it. A circle that already overlaps while approaching hits at 0.
func sweepCircle(rel, v geom.Vector2, reach, timeout float64) (float64, bool) {
	a := v.LengthSquared()
	if a < geom.Epsilon {
		return 0, false
	}
	halfB := rel.Dot(v)
	if halfB >= 0 {
		return 0, false // moving apart or sideways
	}
	c := rel.LengthSquared() - reach*reach
	if c <= 0 {
		return 0, true
	}
	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	t := (-halfB - math.Sqrt(disc)) / a
	if t > timeout {
		return 0, false
	}
	return max(t, 0), true
}

// sweepPlane returns the earliest time in [0, timeout] at which a circle at
// signed distance dist from a plane, moving with normal speed vn, comes
// within radius of it.
func sweepPlane(dist, vn, radius, timeout float64) (float64, bool) {
	if vn > -geom.Epsilon {
		return 0, false
	}
	gap := dist - radius
	if gap <= 0 {
		return 0, true
	}
	t := gap / -vn
	if t > timeout {
		return 0, false
	}
	return t, true
}

// closestOnSegment returns the point of segment [a, b] closest to p.
func closestOnSegment(p, a, tangent geom.Vector2, length float64) geom.Vector2 {
	s := min(max(p.Sub(a).Dot(tangent), 0), length)
	return a.Add(tangent.MulScalar(s))
}

// pointConstraint adds the plane separating a circle at center from point.
// fallback is used when the center sits exactly on the point.
func pointConstraint(fc *ForceConstraints, center, point geom.Vector2, reach float64, fallback geom.Vector2) {
	d := center.Sub(point)
	dist := d.Length()
	if dist >= reach {
		if dist-reach <= contactSlop {
			fc.Touch(d)
		}
		return
	}
	dir := d.Normal()
	if dir.IsZero() {
		dir = fallback
	}
	fc.Add(dir, reach-dist)
}
