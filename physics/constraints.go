package physics

import (
	"slices"

	"github.com/koteyur/ccd2d/geom"
)

// contactSlop is the largest gap at which a body still counts as touching
// static geometry.
const contactSlop = 1e-6

// Plane is a contact constraint: the body overlaps some static geometry by
// Depth, or touches it when Depth is 0, and must not move against the unit
// vector Direction.
type Plane struct {
	Direction geom.Vector2
	Depth     float64

	// Other is the static body the plane belongs to, nil when added directly.
	Other Body
}

// ForceConstraints collects the planes of one substep for one body.
type ForceConstraints struct {
	planes  []Plane
	normals []geom.Vector2
}

// Add registers an overlap plane. Non-positive depths and zero directions
// are ignored.
func (fc *ForceConstraints) Add(direction geom.Vector2, depth float64) {
	dir := direction.Normal()
	if dir.IsZero() || !(depth > 0) {
		return
	}
	fc.planes = append(fc.planes, Plane{Direction: dir, Depth: depth})
}

// Touch registers a touching contact. Zero directions are ignored.
func (fc *ForceConstraints) Touch(direction geom.Vector2) {
	if dir := direction.Normal(); !dir.IsZero() {
		fc.planes = append(fc.planes, Plane{Direction: dir})
	}
}

// Reset removes all planes.
func (fc *ForceConstraints) Reset() {
	fc.planes = fc.planes[:0]
}

// Len returns the number of planes.
func (fc *ForceConstraints) Len() int {
	return len(fc.planes)
}

// Planes returns the collected planes. The slice is reused after Reset.
func (fc *ForceConstraints) Planes() []Plane {
	return fc.planes
}

// Prune drops the touching planes a body with velocity v and acceleration a
// leaves, or approaches faster than a alone would within dt. Collision
// handling takes care of those. Overlap planes are kept.
func (fc *ForceConstraints) Prune(v, a geom.Vector2, dt float64) {
	fc.planes = slices.DeleteFunc(fc.planes, func(p Plane) bool {
		if p.Depth > 0 {
			return false
		}
		vn := v.Dot(p.Direction)
		return vn > geom.Epsilon || -vn > restingSpeed(a, p.Direction, dt)
	})
}

// Apply removes the acceleration and velocity components pointing into the
// planes and nudges the frame out by correction * (depth - allowance).
func (fc *ForceConstraints) Apply(d *Dynamic, allowance, correction float64) {
	if len(fc.planes) == 0 {
		return
	}
	var push geom.Vector2
	for _, p := range fc.planes {
		if excess := p.Depth - allowance; excess > 0 {
			push = push.Add(p.Direction.MulScalar(excess * correction))
		}
	}
	d.Acceleration = fc.confine(d.Acceleration)
	d.Velocity = fc.confine(d.Velocity)
	d.frame.Translate(push)
}

// confine returns the vector closest to v that points into none of the
// planes: v itself, v with its inward part along a single plane removed, or
// zero when the planes wedge the body in.
func (fc *ForceConstraints) confine(v geom.Vector2) geom.Vector2 {
	fc.normals = fc.normals[:0]
	for _, p := range fc.planes {
		fc.normals = append(fc.normals, p.Direction)
	}
	if admissible(v, fc.normals) {
		return v
	}
	var best geom.Vector2
	found := false
	for _, n := range fc.normals {
		vn := v.Dot(n)
		if vn >= 0 {
			continue
		}
		u := v.Sub(n.MulScalar(vn))
		if !admissible(u, fc.normals) {
			continue
		}
		if !found || u.Sub(v).LengthSquared() < best.Sub(v).LengthSquared() {
			best, found = u, true
		}
	}
	return best
}

func admissible(v geom.Vector2, normals []geom.Vector2) bool {
	for _, n := range normals {
		if v.Dot(n) < -geom.Epsilon {
			return false
		}
	}
	return true
}

// restingSpeed is the approach speed along the unit normal n that
// acceleration a builds up within dt.
func restingSpeed(a, n geom.Vector2, dt float64) float64 {
	return max(0, -a.Dot(n)) * dt * (1 + geom.Epsilon)
}
