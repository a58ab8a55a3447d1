package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/koteyur/ccd2d/physics"
	"github.com/koteyur/ccd2d/scene"
)

type runOptions struct {
	frames int
	dt     float64
	every  int
	format string
}

func newRunCmd() *cobra.Command {
	opts := runOptions{frames: 60, dt: 1.0 / 60, every: 10, format: "table"}
	cmd := &cobra.Command{
		Use:   "run <scene>",
		Short: "Simulate a scene headless and print the body states",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			w, err := loadWorld(args[0])
			if err != nil {
				return err
			}
			return run(cmd.OutOrStdout(), w, opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.frames, "frames", "n", opts.frames, "number of frames to simulate")
	f.Float64Var(&opts.dt, "dt", opts.dt, "frame duration in seconds")
	f.IntVar(&opts.every, "every", opts.every, "print every n-th frame")
	f.StringVarP(&opts.format, "format", "f", opts.format, "output format: table or csv")
	return cmd
}

func (o runOptions) validate() error {
	switch {
	case o.frames < 0:
		return fmt.Errorf("--frames must be >= 0, got %d", o.frames)
	case !(o.dt > 0):
		return fmt.Errorf("--dt must be > 0, got %v", o.dt)
	case o.every < 1:
		return fmt.Errorf("--every must be >= 1, got %d", o.every)
	case o.format != "table" && o.format != "csv":
		return fmt.Errorf("--format must be table or csv, got %q", o.format)
	}
	return nil
}

// run steps w for o.frames frames and writes the state of every simulated
// body on frame 0, every o.every frames and on the last frame.
func run(out io.Writer, w *scene.World, o runOptions) error {
	rep := newReporter(out, o.format)
	if err := rep.header(); err != nil {
		return err
	}
	if err := rep.frame(0, 0, w); err != nil {
		return err
	}
	var total physics.Stats
	for frame := 1; frame <= o.frames; frame++ {
		if err := w.Step(o.dt); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		total = total.Add(w.System.Stats())
		if frame%o.every == 0 || frame == o.frames {
			if err := rep.frame(frame, float64(frame)*o.dt, w); err != nil {
				return err
			}
		}
	}
	logStats("run finished", o.frames, total)
	return rep.flush()
}

var columns = []string{"frame", "time", "body", "x", "y", "vx", "vy", "angle", "spin"}

type reporter struct {
	csv   *csv.Writer
	table *tabwriter.Writer
}

func newReporter(out io.Writer, format string) *reporter {
	if format == "csv" {
		return &reporter{csv: csv.NewWriter(out)}
	}
	return &reporter{table: tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)}
}

func (r *reporter) row(cells []string) error {
	if r.csv != nil {
		return r.csv.Write(cells)
	}
	for _, c := range cells {
		if _, err := io.WriteString(r.table, c+"\t"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(r.table, "\n")
	return err
}

func (r *reporter) header() error {
	return r.row(columns)
}

func (r *reporter) frame(frame int, t float64, w *scene.World) error {
	for _, b := range w.Bodies {
		p := b.Position()
		err := r.row([]string{
			strconv.Itoa(frame),
			num(t),
			w.NameOf(b),
			num(p.X),
			num(p.Y),
			num(b.Velocity.X),
			num(b.Velocity.Y),
			num(b.Rotation()),
			num(b.AngularVelocity),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *reporter) flush() error {
	if r.csv != nil {
		r.csv.Flush()
		return r.csv.Error()
	}
	return r.table.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
