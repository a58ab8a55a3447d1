// Package physics implements a 2D rigid body simulator for circles moving
// against static geometry, with continuous collision detection.
//
// A [System] owns the registered bodies. Hosts advance it once per frame with
// [System.Simulate] and read the results through each dynamic body's [Frame].
package physics

// Base holds the state shared by every body.
type Base struct {
	// Material is the surface material used at contacts.
	Material Material

	// Enabled bodies take part in the simulation. Disabled static bodies
	// are ignored by collisions and disabled dynamic bodies do not move.
	Enabled bool

	// Z and ZDepth give the depth interval [Z, Z+ZDepth] the body occupies.
	// Two bodies interact only if their intervals overlap.
	// Change them only while the body is not registered with a System.
	Z      float64
	ZDepth float64
}

func newBase() Base {
	return Base{Material: DefaultMaterial, Enabled: true}
}

// BodyBase returns b. It makes every type embedding Base a [Body].
func (b *Base) BodyBase() *Base {
	return b
}

// ZOverlaps reports whether the depth intervals of b and o overlap.
func (b *Base) ZOverlaps(o *Base) bool {
	return b.Z <= o.Z+o.ZDepth && o.Z <= b.Z+b.ZDepth
}

// SetZRange sets the depth interval.
func (b *Base) SetZRange(z, depth float64) {
	b.Z = z
	b.ZDepth = max(depth, 0)
}

// Body is implemented by every body kind.
type Body interface {
	BodyBase() *Base
}
