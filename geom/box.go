package geom

import "math"

// Box2 is a 2D axis-aligned bounding box defined by its minimum and maximum corners.
type Box2 struct {
	Min Vector2
	Max Vector2
}

// B2Empty returns an empty [Box2] (min = +Inf, max = -Inf) ready for expansion.
func B2Empty() Box2 {
	inf := math.Inf(1)
	return Box2{Min: Vector2{X: inf, Y: inf}, Max: Vector2{X: -inf, Y: -inf}}
}

// B2FromPoints returns the smallest box containing all the given points.
func B2FromPoints(points ...Vector2) Box2 {
	b := B2Empty()
	for _, p := range points {
		b.ExpandByPoint(p)
	}
	return b
}

// B2FromCircle returns the box around a circle.
func B2FromCircle(center Vector2, radius float64) Box2 {
	r := Vector2{X: radius, Y: radius}
	return Box2{Min: center.Sub(r), Max: center.Add(r)}
}

// IsEmpty returns if this bounding box is empty (max < min on any coord).
func (b Box2) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// ExpandByPoint may expand this bounding box to include the specified point.
func (b *Box2) ExpandByPoint(p Vector2) {
	b.Min = Vector2{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y)}
	b.Max = Vector2{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y)}
}

// ExpandByVector extends the box in the direction of d only, as swept by a
// translation of d.
func (b Box2) ExpandByVector(d Vector2) Box2 {
	if d.X < 0 {
		b.Min.X += d.X
	} else {
		b.Max.X += d.X
	}
	if d.Y < 0 {
		b.Min.Y += d.Y
	} else {
		b.Max.Y += d.Y
	}
	return b
}

// ContainsPoint returns if this bounding box contains the specified point.
func (b Box2) ContainsPoint(p Vector2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Lift returns the 3D box spanning b in the plane and [z, z+depth] in depth.
func (b Box2) Lift(z, depth float64) Box3 {
	return Box3{
		Min: Vector3{X: b.Min.X, Y: b.Min.Y, Z: z},
		Max: Vector3{X: b.Max.X, Y: b.Max.Y, Z: z + depth},
	}
}

// Box3 is a 3D axis-aligned bounding box. The physics engine uses X and Y for
// the plane and Z for the depth range a body occupies.
type Box3 struct {
	Min Vector3
	Max Vector3
}

// B3 returns a new [Box3] from its corners.
func B3(min, max Vector3) Box3 {
	return Box3{Min: min, Max: max}
}

// B3Empty returns an empty [Box3] ready for expansion.
func B3Empty() Box3 {
	inf := math.Inf(1)
	return Box3{Min: Vector3{X: inf, Y: inf, Z: inf}, Max: Vector3{X: -inf, Y: -inf, Z: -inf}}
}

// B3Point returns the degenerate box of a single point.
func B3Point(p Vector3) Box3 {
	return Box3{Min: p, Max: p}
}

// IsEmpty returns if this bounding box is empty (max < min on any coord).
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint may expand this bounding box to include the specified point.
func (b *Box3) ExpandByPoint(p Vector3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// ExpandByBox may expand this bounding box to include the specified box.
func (b *Box3) ExpandByBox(o Box3) {
	b.ExpandByPoint(o.Min)
	b.ExpandByPoint(o.Max)
}

// IntersectsBox returns true if b and o touch or overlap. Boundaries count.
func (b Box3) IntersectsBox(o Box3) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y &&
		b.Min.Z <= o.Max.Z && o.Min.Z <= b.Max.Z
}

// ContainsPoint returns if this bounding box contains the specified point.
func (b Box3) ContainsPoint(p Vector3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// ContainsBox returns if o lies entirely within b.
func (b Box3) ContainsBox(o Box3) bool {
	return b.ContainsPoint(o.Min) && b.ContainsPoint(o.Max)
}

// Center returns the center point of the box.
func (b Box3) Center() Vector3 {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the vector from the minimum corner to the maximum corner.
func (b Box3) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Plane returns the 2D extent of b, dropping depth.
func (b Box3) Plane() Box2 {
	return Box2{Min: b.Min.Vector2(), Max: b.Max.Vector2()}
}
