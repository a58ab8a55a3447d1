package physics

// Relative moments of inertia k for [SimulatedCircle], where
// MomentOfInertia = k * mass * radius².
const (
	// SolidDisk is a uniform flat disk.
	SolidDisk = 1.0 / 2
	// HollowDisk is a thin hoop with all mass on the rim.
	HollowDisk = 1.0
	// Ring is an alias of HollowDisk.
	Ring = HollowDisk
	// SolidSphere is a uniform ball seen from the side.
	SolidSphere = 2.0 / 5
	// HollowSphere is a thin shell ball seen from the side.
	HollowSphere = 2.0 / 3
)

// Inertias maps the names used in scene files to relative moments of inertia.
var Inertias = map[string]float64{
	"solid-disk":    SolidDisk,
	"hollow-disk":   HollowDisk,
	"ring":          Ring,
	"solid-sphere":  SolidSphere,
	"hollow-sphere": HollowSphere,
}

// SimulatedCircle is a simulated body with a circular shape.
type SimulatedCircle struct {
	Simulated

	radius          float64
	relativeInertia float64
}

// NewSimulatedCircle returns a circle of the given radius and mass attached to
// frame (a new frame at the origin if nil). relativeInertia is the shape
// factor k, see [SolidDisk].
func NewSimulatedCircle(frame *Frame, radius, mass, relativeInertia float64) (*SimulatedCircle, error) {
	if err := checkPositive("radius", radius); err != nil {
		return nil, err
	}
	if err := checkPositive("mass", mass); err != nil {
		return nil, err
	}
	if err := checkPositive("relative moment of inertia", relativeInertia); err != nil {
		return nil, err
	}
	c := &SimulatedCircle{radius: radius, relativeInertia: relativeInertia}
	c.Simulated = newSimulated(c, frame, radius, mass)
	return c, nil
}

// Radius returns the radius of the circle.
func (c *SimulatedCircle) Radius() float64 {
	return c.radius
}

// RelativeMomentOfInertia returns the shape factor k.
func (c *SimulatedCircle) RelativeMomentOfInertia() float64 {
	return c.relativeInertia
}

// MomentOfInertia returns k * mass * radius².
func (c *SimulatedCircle) MomentOfInertia() float64 {
	return c.relativeInertia * c.mass * c.radius * c.radius
}

// CollideWithStatic implements [SimulatedBody].
func (c *SimulatedCircle) CollideWithStatic(s StaticBody, m *CollisionMnemento) {
	s.CollideWithCircle(c, m)
}

// ConstrainByStatic implements [SimulatedBody].
func (c *SimulatedCircle) ConstrainByStatic(s StaticBody, fc *ForceConstraints) {
	n := fc.Len()
	s.ForceConstraintForCircle(c, fc)
	for i := n; i < fc.Len(); i++ {
		fc.planes[i].Other = s
	}
}
