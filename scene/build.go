package scene

import (
	"fmt"
	"log/slog"

	"github.com/koteyur/ccd2d/geom"
	"github.com/koteyur/ccd2d/physics"
)

// World is a scene turned into a populated [physics.System]. The slices keep
// the order of the scene file.
type World struct {
	Name   string
	System *physics.System

	Lines    []*physics.StaticLine
	Segments []*physics.StaticLineSegment
	Points   []*physics.StaticPoint
	Circles  []*physics.StaticCircle
	Bodies   []*physics.SimulatedCircle
	Animated []*physics.AnimatedBody

	names map[physics.Body]string
}

// Build validates sc and creates its bodies in a new system logging to
// logger (slog.Default() if nil). The spatial index is rebuilt before
// returning.
func Build(sc *Scene, logger *slog.Logger) (*World, error) {
	if err := Validate(sc); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg := sc.Physics.Config()
	cfg.Logger = logger
	sys, err := physics.NewSystemFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	w := &World{Name: sc.Name, System: sys, names: make(map[physics.Body]string)}

	for i, l := range sc.Lines {
		line, err := physics.NewStaticLine(l.Point.V(), l.Normal.V())
		if err != nil {
			return nil, err
		}
		l.apply(&line.Base)
		w.name(line, l.Common, "lines", i)
		w.Lines = append(w.Lines, line)
		sys.AddStaticLine(line)
	}
	for i, s := range sc.Segments {
		seg, err := physics.NewStaticLineSegment(s.A.V(), s.B.V())
		if err != nil {
			return nil, err
		}
		s.apply(&seg.Base)
		w.name(seg, s.Common, "segments", i)
		w.Segments = append(w.Segments, seg)
		sys.AddStaticBody(seg)
	}
	for i, p := range sc.Points {
		pt, err := physics.NewStaticPoint(p.At.V())
		if err != nil {
			return nil, err
		}
		p.apply(&pt.Base)
		w.name(pt, p.Common, "points", i)
		w.Points = append(w.Points, pt)
		sys.AddStaticPoint(pt)
	}
	for i, c := range sc.Circles {
		circle, err := physics.NewStaticCircle(c.Center.V(), c.Radius)
		if err != nil {
			return nil, err
		}
		c.apply(&circle.Base)
		w.name(circle, c.Common, "circles", i)
		w.Circles = append(w.Circles, circle)
		sys.AddStaticBody(circle)
	}
	for i, b := range sc.Bodies {
		body, err := b.circle()
		if err != nil {
			return nil, fmt.Errorf("bodies[%d]: %w", i, err)
		}
		w.name(body, b.Common, "bodies", i)
		w.Bodies = append(w.Bodies, body)
		if err := sys.AddSimulatedBody(body); err != nil {
			return nil, err
		}
	}
	for i, a := range sc.Animated {
		frame := physics.NewFrame(a.Position.V(), a.Rotation)
		body, err := physics.NewAnimatedBody(frame, a.Radius)
		if err != nil {
			return nil, err
		}
		a.apply(&body.Base)
		body.Velocity = a.Velocity.V()
		body.AngularVelocity = a.AngularVelocity
		body.Acceleration = a.Acceleration.V()
		w.name(body, a.Common, "animated", i)
		w.Animated = append(w.Animated, body)
		if err := sys.AddAnimatedBody(body); err != nil {
			return nil, err
		}
	}

	sys.Rebuild()
	logger.Info("scene built",
		"scene", sc.Name,
		"static", sys.NumStatic(),
		"simulated", sys.NumSimulated(),
		"animated", sys.NumAnimated(),
	)
	return w, nil
}

// circle creates the simulated circle b describes.
func (b Body) circle() (*physics.SimulatedCircle, error) {
	k, err := b.inertia()
	if err != nil {
		return nil, err
	}
	mass := b.Mass
	if mass == 0 {
		mass = 1
	}
	frame := physics.NewFrame(b.Position.V(), b.Rotation)
	body, err := physics.NewSimulatedCircle(frame, b.Radius, mass, k)
	if err != nil {
		return nil, err
	}
	b.apply(&body.Base)
	body.Velocity = b.Velocity.V()
	body.AngularVelocity = b.AngularVelocity
	return body, nil
}

func (w *World) name(b physics.Body, c Common, kind string, i int) {
	name := c.Name
	if name == "" {
		name = entry(kind, i, "")
	}
	w.names[b] = name
}

// AddBody adds a simulated circle created after Build to the world and its
// system.
func (w *World) AddBody(name string, b *physics.SimulatedCircle) error {
	if err := w.System.AddSimulatedBody(b); err != nil {
		return err
	}
	if name == "" {
		name = entry("bodies", len(w.Bodies), "")
	}
	w.names[b] = name
	w.Bodies = append(w.Bodies, b)
	return nil
}

// NameOf returns the scene name of b, or its position in the scene file such
// as "bodies[3]" when it has none.
func (w *World) NameOf(b physics.Body) string {
	return w.names[b]
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) error {
	return w.System.Simulate(dt)
}

// Bounds returns the box around the finite geometry and the current
// positions of the dynamic bodies. Lines contribute the point closest to
// the origin.
func (w *World) Bounds() geom.Box2 {
	b := geom.B2Empty()
	for _, l := range w.Lines {
		b.ExpandByPoint(l.Point())
	}
	for _, s := range w.Segments {
		b.ExpandByPoint(s.A())
		b.ExpandByPoint(s.B())
	}
	for _, p := range w.Points {
		b.ExpandByPoint(p.Point())
	}
	for _, c := range w.Circles {
		circle := geom.B2FromCircle(c.Center(), c.Radius())
		b.ExpandByPoint(circle.Min)
		b.ExpandByPoint(circle.Max)
	}
	for _, c := range w.Bodies {
		circle := geom.B2FromCircle(c.Position(), c.Radius())
		b.ExpandByPoint(circle.Min)
		b.ExpandByPoint(circle.Max)
	}
	for _, a := range w.Animated {
		circle := geom.B2FromCircle(a.Position(), a.BoundingRadius())
		b.ExpandByPoint(circle.Min)
		b.ExpandByPoint(circle.Max)
	}
	return b
}
