package physics

import "math"

// Material holds the surface properties of a body.
type Material struct {
	// Friction is the Coulomb friction coefficient, >= 0.
	Friction float64 `json:"friction" toml:"friction" yaml:"friction"`

	// Bounciness is the coefficient of restitution: 0 absorbs the normal
	// velocity, 1 reflects it fully.
	Bounciness float64 `json:"bounciness" toml:"bounciness" yaml:"bounciness"`
}

// Material presets.
var (
	DefaultMaterial = Material{Friction: 0.3, Bounciness: 0.3}
	MaterialRubber  = Material{Friction: 0.9, Bounciness: 0.8}
	MaterialWood    = Material{Friction: 0.5, Bounciness: 0.4}
	MaterialSteel   = Material{Friction: 0.4, Bounciness: 0.6}
	MaterialIce     = Material{Friction: 0.03, Bounciness: 0.1}
	MaterialElastic = Material{Friction: 0, Bounciness: 1}
)

// Materials maps preset names to materials, as used by scene files.
var Materials = map[string]Material{
	"default": DefaultMaterial,
	"rubber":  MaterialRubber,
	"wood":    MaterialWood,
	"steel":   MaterialSteel,
	"ice":     MaterialIce,
	"elastic": MaterialElastic,
}

// combine is the geometric mean of two non-negative coefficients.
// It is symmetric and a material combined with itself keeps its value.
func combine(a, b float64) float64 {
	return math.Sqrt(max(a, 0) * max(b, 0))
}

// ResultingFriction returns the friction coefficient at a contact between m and o.
func (m Material) ResultingFriction(o Material) float64 {
	return combine(m.Friction, o.Friction)
}

// ResultingBounciness returns the restitution at a contact between m and o.
func (m Material) ResultingBounciness(o Material) float64 {
	return combine(m.Bounciness, o.Bounciness)
}
