// Package scene describes physics scenes as data: the system configuration,
// the static geometry and the bodies. Scenes are stored as TOML, YAML or
// JSON files and turned into a running [World] with [Build].
package scene

import (
	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/physics"
)

// Vec is a 2D vector written as a two element array, [x, y].
type Vec [2]float64

// V returns the vector as a geom.Vector2.
func (v Vec) V() geom.Vector2 {
	return geom.Vec2(v[0], v[1])
}

// VecOf returns v as a Vec.
func VecOf(v geom.Vector2) Vec {
	return Vec{v.X, v.Y}
}

// Scene is the root of a scene file.
type Scene struct {
	Name     string     `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Physics  Physics    `json:"physics" toml:"physics" yaml:"physics"`
	Lines    []Line     `json:"lines,omitempty" toml:"lines,omitempty" yaml:"lines,omitempty"`
	Segments []Segment  `json:"segments,omitempty" toml:"segments,omitempty" yaml:"segments,omitempty"`
	Points   []Point    `json:"points,omitempty" toml:"points,omitempty" yaml:"points,omitempty"`
	Circles  []Circle   `json:"circles,omitempty" toml:"circles,omitempty" yaml:"circles,omitempty"`
	Bodies   []Body     `json:"bodies,omitempty" toml:"bodies,omitempty" yaml:"bodies,omitempty"`
	Animated []Animated `json:"animated,omitempty" toml:"animated,omitempty" yaml:"animated,omitempty"`
}

// Physics maps onto [physics.Config]. Zero or missing values take the
// defaults of [physics.DefaultConfig].
type Physics struct {
	Gravity                *Vec     `json:"gravity,omitempty" toml:"gravity,omitempty" yaml:"gravity,omitempty"`
	SimulationSteps        int      `json:"simulation_steps,omitempty" toml:"simulation_steps,omitempty" yaml:"simulation_steps,omitempty"`
	MaxCollisionIterations int      `json:"max_collision_iterations,omitempty" toml:"max_collision_iterations,omitempty" yaml:"max_collision_iterations,omitempty"`
	PenetrationAllowance   *float64 `json:"penetration_allowance,omitempty" toml:"penetration_allowance,omitempty" yaml:"penetration_allowance,omitempty"`
	PenetrationCorrection  *float64 `json:"penetration_correction,omitempty" toml:"penetration_correction,omitempty" yaml:"penetration_correction,omitempty"`
	IndexDimensions        int      `json:"index_dimensions,omitempty" toml:"index_dimensions,omitempty" yaml:"index_dimensions,omitempty"`
}

// Config returns the physics configuration with defaults filled in.
func (p Physics) Config() physics.Config {
	cfg := physics.DefaultConfig()
	if p.Gravity != nil {
		cfg.Gravity = p.Gravity.V()
	}
	if p.SimulationSteps != 0 {
		cfg.SimulationSteps = p.SimulationSteps
	}
	if p.MaxCollisionIterations != 0 {
		cfg.MaxCollisionIterations = p.MaxCollisionIterations
	}
	if p.PenetrationAllowance != nil {
		cfg.PenetrationAllowance = *p.PenetrationAllowance
	}
	if p.PenetrationCorrection != nil {
		cfg.PenetrationCorrection = *p.PenetrationCorrection
	}
	if p.IndexDimensions != 0 {
		cfg.IndexDimensions = p.IndexDimensions
	}
	return cfg
}

// Common holds the fields shared by every entry.
type Common struct {
	// Name identifies the entry in logs and output. Optional.
	Name string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`

	// Material is a preset name from [physics.Materials]; empty means "default".
	// Friction and Bounciness override the preset values.
	Material   string   `json:"material,omitempty" toml:"material,omitempty" yaml:"material,omitempty"`
	Friction   *float64 `json:"friction,omitempty" toml:"friction,omitempty" yaml:"friction,omitempty"`
	Bounciness *float64 `json:"bounciness,omitempty" toml:"bounciness,omitempty" yaml:"bounciness,omitempty"`

	Z        float64 `json:"z,omitempty" toml:"z,omitempty" yaml:"z,omitempty"`
	ZDepth   float64 `json:"z_depth,omitempty" toml:"z_depth,omitempty" yaml:"z_depth,omitempty"`
	Disabled bool    `json:"disabled,omitempty" toml:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Line is an infinite half-plane through Point, solid against Normal.
type Line struct {
	Common `yaml:",inline"`
	Point  Vec `json:"point" toml:"point" yaml:"point"`
	Normal Vec `json:"normal" toml:"normal" yaml:"normal"`
}

// Segment is a static segment from A to B.
type Segment struct {
	Common `yaml:",inline"`
	A      Vec `json:"a" toml:"a" yaml:"a"`
	B      Vec `json:"b" toml:"b" yaml:"b"`
}

// Point is a static point.
type Point struct {
	Common `yaml:",inline"`
	At     Vec `json:"at" toml:"at" yaml:"at"`
}

// Circle is a static disk.
type Circle struct {
	Common `yaml:",inline"`
	Center Vec     `json:"center" toml:"center" yaml:"center"`
	Radius float64 `json:"radius" toml:"radius" yaml:"radius"`
}

// Body is a simulated circle.
type Body struct {
	Common          `yaml:",inline"`
	Position        Vec     `json:"position" toml:"position" yaml:"position"`
	Rotation        float64 `json:"rotation,omitempty" toml:"rotation,omitempty" yaml:"rotation,omitempty"`
	Velocity        Vec     `json:"velocity,omitempty" toml:"velocity,omitempty" yaml:"velocity,omitempty"`
	AngularVelocity float64 `json:"angular_velocity,omitempty" toml:"angular_velocity,omitempty" yaml:"angular_velocity,omitempty"`
	Radius          float64 `json:"radius" toml:"radius" yaml:"radius"`

	// Mass defaults to 1.
	Mass float64 `json:"mass,omitempty" toml:"mass,omitempty" yaml:"mass,omitempty"`

	// Inertia names a shape from [physics.Inertias], "solid-disk" if empty.
	// InertiaFactor, when set, gives the relative moment of inertia directly.
	Inertia       string  `json:"inertia,omitempty" toml:"inertia,omitempty" yaml:"inertia,omitempty"`
	InertiaFactor float64 `json:"inertia_factor,omitempty" toml:"inertia_factor,omitempty" yaml:"inertia_factor,omitempty"`
}

// Animated is a kinematic body moving with constant acceleration.
type Animated struct {
	Common          `yaml:",inline"`
	Position        Vec     `json:"position" toml:"position" yaml:"position"`
	Rotation        float64 `json:"rotation,omitempty" toml:"rotation,omitempty" yaml:"rotation,omitempty"`
	Velocity        Vec     `json:"velocity,omitempty" toml:"velocity,omitempty" yaml:"velocity,omitempty"`
	AngularVelocity float64 `json:"angular_velocity,omitempty" toml:"angular_velocity,omitempty" yaml:"angular_velocity,omitempty"`
	Acceleration    Vec     `json:"acceleration,omitempty" toml:"acceleration,omitempty" yaml:"acceleration,omitempty"`
	Radius          float64 `json:"radius,omitempty" toml:"radius,omitempty" yaml:"radius,omitempty"`
}
