// Package geom provides the 2D/3D vector, rotation and bounding box primitives
// used by the spatial index and the physics engine.
package geom

import "math"

// Epsilon is the tolerance below which lengths and speeds are treated as zero.
const Epsilon = 1e-9

// Vector2 is a 2D vector or point.
type Vector2 struct {
	X float64
	Y float64
}

// Vec2 returns a new [Vector2].
func Vec2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// MulScalar returns v scaled by s.
func (v Vector2) MulScalar(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

// Negate returns -v.
func (v Vector2) Negate() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of v and o.
func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o.
func (v Vector2) Cross(o Vector2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// CrossScalar returns the cross product of the scalar (z axis) w with v,
// i.e. the tangential velocity of point v under angular velocity w.
func CrossScalar(w float64, v Vector2) Vector2 {
	return Vector2{X: -w * v.Y, Y: w * v.X}
}

// LengthSquared returns the squared length of v.
func (v Vector2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Length returns the length of v.
func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// DistanceTo returns the distance between v and o.
func (v Vector2) DistanceTo(o Vector2) float64 {
	return v.Sub(o).Length()
}

// Normal returns v scaled to unit length. A zero vector stays zero.
func (v Vector2) Normal() Vector2 {
	l := v.Length()
	if l < Epsilon {
		return Vector2{}
	}
	return Vector2{X: v.X / l, Y: v.Y / l}
}

// Perp returns v rotated by +90 degrees.
func (v Vector2) Perp() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Rotate returns v rotated counter-clockwise by the given angle in radians.
func (v Vector2) Rotate(radians float64) Vector2 {
	return Rotation(radians).MulVector2(v)
}

// IsZero reports whether both components are within [Epsilon] of zero.
func (v Vector2) IsZero() bool {
	return math.Abs(v.X) < Epsilon && math.Abs(v.Y) < Epsilon
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// Vector3 lifts v into 3D with the given z.
func (v Vector2) Vector3(z float64) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: z}
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
