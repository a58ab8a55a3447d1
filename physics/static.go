package physics

import (
	"github.com/koteyur/ccd2d/geom"
)

// StaticBody is immovable geometry that simulated circles collide with.
// Implementations are [StaticLine], [StaticLineSegment], [StaticPoint] and
// [StaticCircle].
type StaticBody interface {
	Body

	// CollideWithCircle registers the earliest contact of c with the body
	// along c's current velocity, if it happens within m's timeout.
	CollideWithCircle(c *SimulatedCircle, m *CollisionMnemento)

	// ForceConstraintForCircle adds a correction plane to fc if c already
	// overlaps the body, or a touching plane if c rests against it.
	ForceConstraintForCircle(c *SimulatedCircle, fc *ForceConstraints)
}

// StaticBoxedBody is a static body with a finite extent that can be indexed.
type StaticBoxedBody interface {
	StaticBody

	// Box returns the plane extent lifted to [Z, Z+ZDepth].
	Box() geom.Box3
}

// Static holds the state shared by static bodies.
type Static struct {
	Base
}

func newStatic() Static {
	return Static{Base: newBase()}
}

// separation returns the direction used to push c away from a feature it
// is centred on exactly.
func separation(c *SimulatedCircle) geom.Vector2 {
	if dir := c.Velocity.Negate().Normal(); !dir.IsZero() {
		return dir
	}
	return geom.Vec2(0, 1)
}
