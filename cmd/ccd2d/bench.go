package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/koteyur/ccd2d/physics"
	"github.com/koteyur/ccd2d/scene"
)

type benchOptions struct {
	bodies   int
	frames   int
	segments int
	steps    int
	dt       float64
	seed     uint64
}

func newBenchCmd() *cobra.Command {
	opts := benchOptions{bodies: 500, frames: 600, segments: 50, steps: 1, dt: 1.0 / 60, seed: 1}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Simulate a random scene and report throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.bodies < 0 || opts.frames < 1 || opts.segments < 0 || opts.steps < 1 || !(opts.dt > 0) {
				return fmt.Errorf("bench: --bodies and --segments must be >= 0, --frames and --steps >= 1, --dt > 0")
			}
			return bench(cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.bodies, "bodies", opts.bodies, "number of simulated circles")
	f.IntVarP(&opts.frames, "frames", "n", opts.frames, "number of frames to simulate")
	f.IntVar(&opts.segments, "segments", opts.segments, "number of random static segments")
	f.IntVar(&opts.steps, "steps", opts.steps, "simulation substeps per frame")
	f.Float64Var(&opts.dt, "dt", opts.dt, "frame duration in seconds")
	f.Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	return cmd
}

// benchScene is a box of half width size with random ramps inside and
// bodies dropped from random positions.
func benchScene(o benchOptions) *scene.Scene {
	rng := rand.New(rand.NewPCG(o.seed, o.seed))
	size := 100.0
	between := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }
	gravity := scene.Vec{0, -98.1}

	sc := &scene.Scene{
		Name: "bench",
		Physics: scene.Physics{
			Gravity:         &gravity,
			SimulationSteps: o.steps,
		},
		Lines: []scene.Line{
			{Common: scene.Common{Name: "floor"}, Point: scene.Vec{0, 0}, Normal: scene.Vec{0, 1}},
			{Common: scene.Common{Name: "left"}, Point: scene.Vec{-size, 0}, Normal: scene.Vec{1, 0}},
			{Common: scene.Common{Name: "right"}, Point: scene.Vec{size, 0}, Normal: scene.Vec{-1, 0}},
		},
	}
	for range o.segments {
		a := scene.Vec{between(-size, size), between(5, 2*size)}
		b := scene.Vec{a[0] + between(-20, 20), a[1] + between(-10, 10)}
		sc.Segments = append(sc.Segments, scene.Segment{A: a, B: b})
	}
	materials := []string{"default", "rubber", "wood", "steel", "ice"}
	for range o.bodies {
		sc.Bodies = append(sc.Bodies, scene.Body{
			Common:   scene.Common{Material: materials[rng.IntN(len(materials))]},
			Position: scene.Vec{between(-size+5, size-5), between(2*size, 4*size)},
			Velocity: scene.Vec{between(-20, 20), between(-20, 0)},
			Radius:   between(0.5, 2),
		})
	}
	return sc
}

func bench(out io.Writer, o benchOptions) error {
	w, err := scene.Build(benchScene(o), nil)
	if err != nil {
		return err
	}

	var total physics.Stats
	start := time.Now()
	for range o.frames {
		if err := w.Step(o.dt); err != nil {
			return err
		}
		total = total.Add(w.System.Stats())
	}
	elapsed := time.Since(start)

	logStats("bench finished", o.frames, total)
	_, err = fmt.Fprintf(out,
		"bodies=%d segments=%d frames=%d elapsed=%s frames/s=%.1f collisions=%d iterations=%d cap_hits=%d\n",
		o.bodies, o.segments, o.frames, elapsed.Round(time.Millisecond),
		float64(o.frames)/elapsed.Seconds(), total.Collisions, total.Iterations, total.CapHits,
	)
	return err
}
