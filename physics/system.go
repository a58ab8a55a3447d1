package physics

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/spatial"
)

// System owns the registered bodies and advances them with [System.Simulate].
// It is not safe for concurrent use.
type System struct {
	cfg Config
	log *slog.Logger

	statics   *spatial.Tree[StaticBoxedBody]
	lines     []*StaticLine
	unbounded []StaticBody // static bodies without a box other than lines
	simulated *spatial.Tree[SimulatedBody]
	animated  *spatial.Tree[*AnimatedBody]

	// OnCollision fires for every contact resolved by any simulated body,
	// after the body's own OnCollision subscribers.
	OnCollision Event[Collision]

	stats    Stats
	substep  uint64  // substeps run so far
	sweeping float64 // duration of the substep being swept, 0 outside sweeps
	mnemento *CollisionMnemento
	sims     []SimulatedBody
	anims    []*AnimatedBody
}

// Stats counts the work done by the last [System.Simulate] call.
type Stats struct {
	Substeps   int
	Iterations int // continuous collision iterations
	Collisions int // contacts resolved
	Planes     int // overlap and touching planes applied
	CapHits    int // substeps that reached MaxCollisionIterations
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Substeps:   s.Substeps + o.Substeps,
		Iterations: s.Iterations + o.Iterations,
		Collisions: s.Collisions + o.Collisions,
		Planes:     s.Planes + o.Planes,
		CapHits:    s.CapHits + o.CapHits,
	}
}

// NewSystem returns an empty system with the given gravity.
func NewSystem(gravity geom.Vector2, opts ...Option) (*System, error) {
	cfg := DefaultConfig()
	cfg.Gravity = gravity
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewSystemFromConfig(cfg)
}

// NewSystemFromConfig returns an empty system configured by cfg.
func NewSystemFromConfig(cfg Config) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &System{
		cfg:       cfg,
		log:       log,
		statics:   spatial.New[StaticBoxedBody](cfg.IndexDimensions),
		simulated: spatial.New[SimulatedBody](cfg.IndexDimensions),
		animated:  spatial.New[*AnimatedBody](cfg.IndexDimensions),
		mnemento:  NewCollisionMnemento(0),
	}, nil
}

// Config returns the configuration of the system.
func (s *System) Config() Config {
	return s.cfg
}

// Gravity returns the global acceleration.
func (s *System) Gravity() geom.Vector2 {
	return s.cfg.Gravity
}

// SetGravity changes the global acceleration.
func (s *System) SetGravity(g geom.Vector2) {
	s.cfg.Gravity = g
}

// SimulationSteps returns the number of substeps per Simulate call.
func (s *System) SimulationSteps() int {
	return s.cfg.SimulationSteps
}

// Stats returns the counters of the last Simulate call.
func (s *System) Stats() Stats {
	return s.stats
}

// AddStaticBody registers a static body. Lines go to the list checked for
// every body, boxed bodies to the static index. Adding a body twice has no
// effect.
func (s *System) AddStaticBody(b StaticBody) {
	switch b := b.(type) {
	case *StaticLine:
		s.AddStaticLine(b)
	case StaticBoxedBody:
		box := b.Box()
		if !s.statics.Contains(b, box) {
			s.statics.AddSolid(b, box)
		}
	default:
		if !slices.Contains(s.unbounded, b) {
			s.unbounded = append(s.unbounded, b)
		}
	}
}

// AddStaticLine registers an infinite line.
func (s *System) AddStaticLine(l *StaticLine) {
	if !slices.Contains(s.lines, l) {
		s.lines = append(s.lines, l)
	}
}

// AddStaticPoint registers a static point.
func (s *System) AddStaticPoint(p *StaticPoint) {
	s.AddStaticBody(p)
}

// RemoveStaticBody unregisters b and reports whether it was registered.
// A boxed body is located by its current Box, so its geometry and depth
// range must not have changed since it was added.
func (s *System) RemoveStaticBody(b StaticBody) bool {
	switch b := b.(type) {
	case *StaticLine:
		return s.RemoveStaticLine(b)
	case StaticBoxedBody:
		return s.statics.RemoveSolid(b, b.Box())
	default:
		i := slices.Index(s.unbounded, b)
		if i < 0 {
			return false
		}
		s.unbounded = slices.Delete(s.unbounded, i, i+1)
		return true
	}
}

// RemoveStaticLine unregisters l and reports whether it was registered.
func (s *System) RemoveStaticLine(l *StaticLine) bool {
	i := slices.Index(s.lines, l)
	if i < 0 {
		return false
	}
	s.lines = slices.Delete(s.lines, i, i+1)
	return true
}

// RemoveStaticPoint unregisters p and reports whether it was registered.
func (s *System) RemoveStaticPoint(p *StaticPoint) bool {
	return s.RemoveStaticBody(p)
}

// AddDynamicBody registers a simulated or animated body.
func (s *System) AddDynamicBody(b DynamicBody) error {
	switch b := b.(type) {
	case SimulatedBody:
		return s.AddSimulatedBody(b)
	case *AnimatedBody:
		return s.AddAnimatedBody(b)
	default:
		return fmt.Errorf("physics: unsupported dynamic body %T", b)
	}
}

// RemoveDynamicBody unregisters a simulated or animated body and reports
// whether it was registered with s.
func (s *System) RemoveDynamicBody(b DynamicBody) bool {
	switch b := b.(type) {
	case SimulatedBody:
		return s.RemoveSimulatedBody(b)
	case *AnimatedBody:
		return s.RemoveAnimatedBody(b)
	default:
		return false
	}
}

// AddSimulatedBody registers b. It fails with [ErrRegistered] if b belongs
// to another system; adding it to s again has no effect.
func (s *System) AddSimulatedBody(b SimulatedBody) error {
	d := b.DynamicBase()
	if ok, err := s.claim(d); !ok {
		return err
	}
	s.simulated.AddSolid(b, d.indexed)
	return nil
}

// RemoveSimulatedBody unregisters b and reports whether it was registered.
func (s *System) RemoveSimulatedBody(b SimulatedBody) bool {
	d := b.DynamicBase()
	if d.owner != s {
		return false
	}
	s.simulated.RemoveSolid(b, d.indexed)
	d.owner = nil
	return true
}

// AddAnimatedBody registers b. It fails with [ErrRegistered] if b belongs
// to another system; adding it to s again has no effect.
func (s *System) AddAnimatedBody(b *AnimatedBody) error {
	d := b.DynamicBase()
	if ok, err := s.claim(d); !ok {
		return err
	}
	s.animated.AddSolid(b, d.indexed)
	return nil
}

// RemoveAnimatedBody unregisters b and reports whether it was registered.
func (s *System) RemoveAnimatedBody(b *AnimatedBody) bool {
	d := b.DynamicBase()
	if d.owner != s {
		return false
	}
	s.animated.RemoveSolid(b, d.indexed)
	d.owner = nil
	return true
}

// claim takes ownership of d. It returns false when d must not be inserted.
func (s *System) claim(d *Dynamic) (bool, error) {
	switch d.owner {
	case s:
		return false, nil
	case nil:
		d.owner = s
		d.indexed = d.StaticBox()
		return true, nil
	default:
		return false, ErrRegistered
	}
}

// Rebuild recomputes the bounds and depth of the spatial indexes from the
// registered bodies. Call it after bulk population and whenever the static
// geometry grows.
func (s *System) Rebuild() {
	s.reindex()
	s.statics.Rebuild(0)
	s.simulated.Rebuild(0)
	s.animated.Rebuild(0)
	s.log.Debug("physics: rebuilt spatial index",
		"statics", s.statics.Size(),
		"depth", s.statics.Depth(),
		"bounds", s.statics.Bounds(),
		"simulated", s.simulated.Size(),
		"animated", s.animated.Size(),
		"lines", len(s.lines),
	)
}

// Size returns the number of registered bodies.
func (s *System) Size() int {
	return s.NumStatic() + s.NumSimulated() + s.NumAnimated()
}

// NumStatic returns the number of registered static bodies, lines included.
func (s *System) NumStatic() int {
	return s.statics.Size() + len(s.lines) + len(s.unbounded)
}

// NumSimulated returns the number of registered simulated bodies.
func (s *System) NumSimulated() int {
	return s.simulated.Size()
}

// NumAnimated returns the number of registered animated bodies.
func (s *System) NumAnimated() int {
	return s.animated.Size()
}

// QueryStatic calls fn for every line and every static body whose box
// intersects box.
func (s *System) QueryStatic(box geom.Box3, fn func(StaticBody)) {
	for _, l := range s.lines {
		fn(l)
	}
	for _, b := range s.unbounded {
		fn(b)
	}
	s.statics.ForEachInBox(box, func(b StaticBoxedBody) { fn(b) })
}

// QuerySimulated calls fn for every simulated body whose box intersects box.
func (s *System) QuerySimulated(box geom.Box3, fn func(SimulatedBody)) {
	s.simulated.ForEachInBox(box, fn)
}

// QueryAnimated calls fn for every animated body whose box intersects box.
func (s *System) QueryAnimated(box geom.Box3, fn func(*AnimatedBody)) {
	s.animated.ForEachInBox(box, fn)
}

// ForEachStatic calls fn for every static body.
func (s *System) ForEachStatic(fn func(StaticBody)) {
	for _, l := range s.lines {
		fn(l)
	}
	for _, b := range s.unbounded {
		fn(b)
	}
	s.statics.ForEach(func(b StaticBoxedBody) { fn(b) })
}

// ForEachSimulated calls fn for every simulated body.
func (s *System) ForEachSimulated(fn func(SimulatedBody)) {
	s.simulated.ForEach(fn)
}

// ForEachAnimated calls fn for every animated body.
func (s *System) ForEachAnimated(fn func(*AnimatedBody)) {
	s.animated.ForEach(fn)
}

// collect snapshots the dynamic bodies so hooks may add or remove bodies
// while they are processed.
func (s *System) collect() {
	clear(s.sims)
	s.sims = s.sims[:0]
	s.simulated.ForEach(func(b SimulatedBody) { s.sims = append(s.sims, b) })
	clear(s.anims)
	s.anims = s.anims[:0]
	s.animated.ForEach(func(b *AnimatedBody) { s.anims = append(s.anims, b) })
}

// reindex moves every dynamic body to the index node matching its current
// extent. Hosts may move frames between Simulate calls.
func (s *System) reindex() {
	s.collect()
	s.reindexCollected()
}

func (s *System) reindexCollected() {
	for _, b := range s.sims {
		if d := b.DynamicBase(); d.owner == s {
			reindex(s.simulated, b, d)
		}
	}
	for _, b := range s.anims {
		if d := b.DynamicBase(); d.owner == s {
			reindex(s.animated, b, d)
		}
	}
}

func reindex[T comparable](tree *spatial.Tree[T], b T, d *Dynamic) {
	box := d.StaticBox()
	if box == d.indexed {
		return
	}
	if !tree.MoveSolid(b, d.indexed, box) {
		tree.AddSolid(b, box)
	}
	d.indexed = box
}
