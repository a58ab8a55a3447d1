package physics

import (
	"errors"
	"log/slog"

	"github.com/koteyur/ccd2d/geom"
)

// Config holds the tunables of a [System].
type Config struct {
	// Gravity is the global acceleration applied to every simulated body.
	Gravity geom.Vector2

	// SimulationSteps is the number of equal substeps per Simulate call.
	SimulationSteps int

	// MaxCollisionIterations bounds the continuous collision loop of one
	// substep. When reached, bodies move by the remaining time unchecked.
	MaxCollisionIterations int

	// PenetrationAllowance is the overlap depth left uncorrected.
	PenetrationAllowance float64

	// PenetrationCorrection is the fraction of the excess overlap removed
	// per substep.
	PenetrationCorrection float64

	// IndexDimensions selects a quad-tree (2) or an oct-tree (3) that also
	// splits on depth.
	IndexDimensions int

	// Logger receives rebuild and diagnostics messages. nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used by [NewSystem] before options.
func DefaultConfig() Config {
	return Config{
		Gravity:                geom.Vec2(0, -9.81),
		SimulationSteps:        1,
		MaxCollisionIterations: 64,
		PenetrationAllowance:   0.05,
		PenetrationCorrection:  0.4,
		IndexDimensions:        2,
	}
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if !c.Gravity.IsFinite() {
		errs = append(errs, outOfRange("gravity must be finite, got %v", c.Gravity))
	}
	if c.SimulationSteps < 1 {
		errs = append(errs, outOfRange("simulation steps must be >= 1, got %d", c.SimulationSteps))
	}
	if c.MaxCollisionIterations < 1 {
		errs = append(errs, outOfRange("max collision iterations must be >= 1, got %d", c.MaxCollisionIterations))
	}
	if !geom.IsFinite(c.PenetrationAllowance) || c.PenetrationAllowance < 0 {
		errs = append(errs, outOfRange("penetration allowance must be >= 0, got %v", c.PenetrationAllowance))
	}
	if !geom.IsFinite(c.PenetrationCorrection) || c.PenetrationCorrection < 0 || c.PenetrationCorrection > 1 {
		errs = append(errs, outOfRange("penetration correction must be in [0, 1], got %v", c.PenetrationCorrection))
	}
	if c.IndexDimensions != 2 && c.IndexDimensions != 3 {
		errs = append(errs, outOfRange("index dimensions must be 2 or 3, got %d", c.IndexDimensions))
	}
	return errors.Join(errs...)
}

// Option changes a [Config] in [NewSystem].
type Option func(*Config)

// WithSimulationSteps sets the number of substeps per Simulate call.
func WithSimulationSteps(n int) Option {
	return func(c *Config) { c.SimulationSteps = n }
}

// WithMaxCollisionIterations sets the continuous collision loop cap.
func WithMaxCollisionIterations(n int) Option {
	return func(c *Config) { c.MaxCollisionIterations = n }
}

// WithPenetration sets the depenetration allowance and correction factor.
func WithPenetration(allowance, correction float64) Option {
	return func(c *Config) {
		c.PenetrationAllowance = allowance
		c.PenetrationCorrection = correction
	}
}

// WithIndexDimensions selects a quad-tree (2) or an oct-tree (3).
func WithIndexDimensions(dims int) Option {
	return func(c *Config) { c.IndexDimensions = dims }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
