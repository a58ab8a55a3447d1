package scene

import (
	"errors"
	"fmt"

	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/physics"
)

// ErrInvalid is wrapped by every problem reported by [Validate].
var ErrInvalid = errors.New("invalid scene")

type problems struct {
	errs []error
}

func (p *problems) add(where string, format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%w: %s: %s", ErrInvalid, where, fmt.Sprintf(format, args...)))
}

func (p *problems) vec(where, name string, v Vec) {
	if !v.V().IsFinite() {
		p.add(where, "%s must be finite, got %v", name, v)
	}
}

func (p *problems) common(where string, c Common) {
	if c.Material != "" {
		if _, ok := physics.Materials[c.Material]; !ok {
			p.add(where, "unknown material %q", c.Material)
		}
	}
	if c.Friction != nil && !(*c.Friction >= 0) {
		p.add(where, "friction must be >= 0, got %v", *c.Friction)
	}
	if c.Bounciness != nil && !(*c.Bounciness >= 0) {
		p.add(where, "bounciness must be >= 0, got %v", *c.Bounciness)
	}
	if !geom.IsFinite(c.Z) {
		p.add(where, "z must be finite, got %v", c.Z)
	}
	if !(c.ZDepth >= 0) || !geom.IsFinite(c.ZDepth) {
		p.add(where, "z_depth must be >= 0, got %v", c.ZDepth)
	}
}

// Validate reports every problem of sc at once. Each error wraps [ErrInvalid]
// and names the offending entry, as in "bodies[2]: radius must be > 0".
func Validate(sc *Scene) error {
	var p problems
	if err := sc.Physics.Config().Validate(); err != nil {
		p.add("physics", "%v", err)
	}
	for i, l := range sc.Lines {
		w := entry("lines", i, l.Name)
		p.common(w, l.Common)
		p.vec(w, "point", l.Point)
		p.vec(w, "normal", l.Normal)
		if l.Normal.V().IsZero() {
			p.add(w, "normal must not be zero")
		}
	}
	for i, s := range sc.Segments {
		w := entry("segments", i, s.Name)
		p.common(w, s.Common)
		p.vec(w, "a", s.A)
		p.vec(w, "b", s.B)
		if s.A.V().DistanceTo(s.B.V()) < geom.Epsilon {
			p.add(w, "a and b must differ")
		}
	}
	for i, pt := range sc.Points {
		w := entry("points", i, pt.Name)
		p.common(w, pt.Common)
		p.vec(w, "at", pt.At)
	}
	for i, c := range sc.Circles {
		w := entry("circles", i, c.Name)
		p.common(w, c.Common)
		p.vec(w, "center", c.Center)
		if !(c.Radius > 0) {
			p.add(w, "radius must be > 0, got %v", c.Radius)
		}
	}
	for i, b := range sc.Bodies {
		w := entry("bodies", i, b.Name)
		p.common(w, b.Common)
		p.vec(w, "position", b.Position)
		p.vec(w, "velocity", b.Velocity)
		if !(b.Radius > 0) {
			p.add(w, "radius must be > 0, got %v", b.Radius)
		}
		if b.Mass < 0 {
			p.add(w, "mass must be > 0, got %v", b.Mass)
		}
		if _, err := b.inertia(); err != nil {
			p.add(w, "%v", err)
		}
	}
	for i, a := range sc.Animated {
		w := entry("animated", i, a.Name)
		p.common(w, a.Common)
		p.vec(w, "position", a.Position)
		p.vec(w, "velocity", a.Velocity)
		p.vec(w, "acceleration", a.Acceleration)
		if !(a.Radius >= 0) {
			p.add(w, "radius must be >= 0, got %v", a.Radius)
		}
	}
	return errors.Join(p.errs...)
}

func entry(kind string, i int, name string) string {
	if name != "" {
		return fmt.Sprintf("%s[%d] %q", kind, i, name)
	}
	return fmt.Sprintf("%s[%d]", kind, i)
}

func (b Body) inertia() (float64, error) {
	if b.InertiaFactor != 0 {
		if !(b.InertiaFactor > 0) {
			return 0, fmt.Errorf("inertia_factor must be > 0, got %v", b.InertiaFactor)
		}
		return b.InertiaFactor, nil
	}
	if b.Inertia == "" {
		return physics.SolidDisk, nil
	}
	k, ok := physics.Inertias[b.Inertia]
	if !ok {
		return 0, fmt.Errorf("unknown inertia %q", b.Inertia)
	}
	return k, nil
}

func (c Common) material() physics.Material {
	m := physics.DefaultMaterial
	if c.Material != "" {
		m = physics.Materials[c.Material]
	}
	if c.Friction != nil {
		m.Friction = *c.Friction
	}
	if c.Bounciness != nil {
		m.Bounciness = *c.Bounciness
	}
	return m
}

func (c Common) apply(b *physics.Base) {
	b.Material = c.material()
	b.Enabled = !c.Disabled
	b.SetZRange(c.Z, c.ZDepth)
}
