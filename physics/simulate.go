package physics

import (
	"errors"
	"slices"

	"github.com/koteyur/ccd2d/geom"
)

// Simulate advances the system by timeout seconds in SimulationSteps equal
// substeps. Each substep resets the force accumulators, runs the pre-simulate
// and pre-animate hooks, removes existing overlap with static geometry and
// holds resting bodies on the surfaces they touch, then moves the simulated
// bodies from one earliest collision to the next until the substep is used
// up.
//
// The full timeout is always consumed. The returned error joins the errors
// of all event subscribers and the panics recovered from frame listeners.
func (s *System) Simulate(timeout float64) error {
	if !geom.IsFinite(timeout) {
		return outOfRange("timeout must be finite, got %v", timeout)
	}
	s.stats = Stats{}
	if timeout <= 0 {
		return nil
	}
	s.reindex()
	dt := timeout / float64(s.cfg.SimulationSteps)
	var errs []error
	for range s.cfg.SimulationSteps {
		if err := s.step(dt); err != nil {
			errs = append(errs, err)
		}
		s.stats.Substeps++
	}
	return errors.Join(errs...)
}

func (s *System) step(dt float64) error {
	var errs []error
	emit := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.substep++
	s.collect()

	for _, b := range s.sims {
		sb := b.SimulatedBase()
		if !sb.Enabled {
			continue
		}
		sb.Constraints.Reset()
		sb.Acceleration = s.cfg.Gravity
		sb.AngularAcceleration = 0
	}

	for _, b := range s.sims {
		if sb := b.SimulatedBase(); sb.Enabled {
			emit(sb.OnPreSimulate.Emit(PreSimulate{Body: b, Timeout: dt}))
		}
	}
	for _, a := range s.anims {
		if a.Enabled {
			emit(a.OnPreAnimate.Emit(PreAnimate{Body: a, Timeout: dt}))
		}
	}

	for _, a := range s.anims {
		if a.Enabled && a.owner == s {
			a.integrateVelocity(dt)
		}
	}

	s.sims = slices.DeleteFunc(s.sims, func(b SimulatedBody) bool {
		sb := b.SimulatedBase()
		return !sb.Enabled || sb.owner != s
	})
	for _, b := range s.sims {
		s.constrain(b, dt)
	}

	emit(s.sweep(dt))

	for _, a := range s.anims {
		if a.Enabled && a.owner == s {
			a.advance(dt)
		}
	}
	s.reindexCollected()

	for _, b := range s.sims {
		emit(b.DynamicBase().Frame().Err())
	}
	for _, a := range s.anims {
		emit(a.Frame().Err())
	}
	return errors.Join(errs...)
}

// constrain applies the planes of every static body b overlaps or touches,
// integrates the velocities over dt and applies friction at the planes.
func (s *System) constrain(b SimulatedBody, dt float64) {
	sb := b.SimulatedBase()
	box := geom.B2FromCircle(sb.Position(), sb.radius+contactSlop).Lift(sb.Z, sb.ZDepth)
	s.QueryStatic(box, func(st StaticBody) {
		if interacts(&sb.Base, st.BodyBase()) {
			b.ConstrainByStatic(st, &sb.Constraints)
		}
	})

	fc := &sb.Constraints
	sb.drive = sb.Acceleration
	fc.Prune(sb.Velocity, sb.Acceleration, dt)
	if fc.Len() > 0 {
		sb.lastContact = s.substep
	}
	s.stats.Planes += fc.Len()
	approach := sb.Velocity.Add(sb.Acceleration.MulScalar(dt))
	fc.Apply(&sb.Dynamic, s.cfg.PenetrationAllowance, s.cfg.PenetrationCorrection)
	sb.integrateVelocity(dt)
	sb.rubContacts(approach)
}

// absorbs reports whether a rebound of speed out along n ends in a rest:
// b touched something within restingWindow substeps and the rebound could
// not outlast one substep of its acceleration. Bodies falling in from afar
// keep their bounce.
func (s *System) absorbs(b *Simulated, n geom.Vector2, out float64) bool {
	if s.sweeping == 0 || b.lastContact == 0 || s.substep-b.lastContact > restingWindow {
		return false
	}
	return out <= restingSpeed(b.drive, n, s.sweeping)
}

// sweep moves the simulated bodies through dt, stopping at every earliest
// collision to resolve it.
func (s *System) sweep(dt float64) error {
	var errs []error
	m := s.mnemento
	s.sweeping = dt
	defer func() { s.sweeping = 0 }()
	remaining := dt
	for iter := 0; remaining > 0; iter++ {
		if iter == s.cfg.MaxCollisionIterations {
			s.log.Warn("physics: collision iteration cap reached",
				"iterations", iter,
				"remaining", remaining,
				"bodies", len(s.sims),
			)
			s.stats.CapHits++
			s.advance(remaining)
			break
		}
		s.stats.Iterations++

		m.Reset(remaining)
		for _, b := range s.sims {
			sb := b.SimulatedBase()
			s.QueryStatic(sb.DynamicBox(remaining), func(st StaticBody) {
				if interacts(&sb.Base, st.BodyBase()) {
					b.CollideWithStatic(st, m)
				}
			})
		}
		if !m.HasEvents() {
			s.advance(remaining)
			break
		}

		t := m.Time()
		s.advance(t)
		s.stats.Collisions += m.Len()
		if err := m.Resolve(); err != nil {
			errs = append(errs, err)
		}
		remaining -= t
	}
	return errors.Join(errs...)
}

func (s *System) advance(t float64) {
	if t <= 0 {
		return
	}
	for _, b := range s.sims {
		b.DynamicBase().advance(t)
	}
}

// restingWindow is the number of substeps after a contact during which weak
// rebounds are absorbed. A rebound slower than one substep of acceleration
// lands again within two substeps.
const restingWindow = 2

func interacts(a, b *Base) bool {
	return b.Enabled && a.ZOverlaps(b)
}
