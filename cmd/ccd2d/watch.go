package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/koteyur/ccd2d/internal/logx"
	"github.com/koteyur/ccd2d/internal/termview"
	"github.com/koteyur/ccd2d/scene"
)

type watchOptions struct {
	dt    float64
	scale float64
}

func newWatchCmd() *cobra.Command {
	opts := watchOptions{dt: 1.0 / 30}
	cmd := &cobra.Command{
		Use:   "watch <scene>",
		Short: "Show a running scene in the terminal and reload it on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !(opts.dt > 0) {
				return fmt.Errorf("--dt must be > 0, got %v", opts.dt)
			}
			return watch(cmd.Context(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&opts.dt, "dt", opts.dt, "frame duration in seconds")
	f.Float64Var(&opts.scale, "scale", 0, "cells per world unit (0 fits the scene)")
	return cmd
}

type viewer struct {
	filename string
	opts     watchOptions
	screen   tcell.Screen
	view     *termview.View
	world    *scene.World
	time     float64
	paused   bool
	message  string
}

func watch(ctx context.Context, filename string, o watchOptions) error {
	w, err := loadWorld(filename)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Log lines would garble the screen.
	prev := slog.Default()
	slog.SetDefault(logx.New(io.Discard, slog.LevelError, false))
	defer slog.SetDefault(prev)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	updates, err := scene.Watch(ctx, filename, slog.Default())
	if err != nil {
		return err
	}

	width, height := screen.Size()
	v := &viewer{
		filename: filename,
		opts:     o,
		screen:   screen,
		view:     termview.New(w.Bounds(), width, height),
		world:    w,
	}
	v.fit()
	return v.loop(ctx, updates)
}

func (v *viewer) loop(ctx context.Context, updates <-chan scene.Update) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Duration(v.opts.dt * float64(time.Second)))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.handle(ev) {
				return nil
			}
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if u.Err != nil {
				v.message = u.Err.Error()
				continue
			}
			v.replace(u.Scene)
		case <-ticker.C:
			if !v.paused {
				if err := v.world.Step(v.opts.dt); err != nil {
					v.message = err.Error()
				}
				v.time += v.opts.dt
			}
			v.draw()
		}
	}
}

func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.view.Pan(0, -2)
		case tcell.KeyDown:
			v.view.Pan(0, 2)
		case tcell.KeyLeft:
			v.view.Pan(-4, 0)
		case tcell.KeyRight:
			v.view.Pan(4, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				v.paused = !v.paused
			case 'r':
				v.restart()
			case '+', '=':
				v.view.Zoom(1.25)
			case '-':
				v.view.Zoom(0.8)
			case 'f':
				v.fit()
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
		v.view.Resize(v.screen.Size())
	}
	return true
}

func (v *viewer) fit() {
	v.view.Fit(v.world.Bounds())
	if v.opts.scale > 0 {
		v.view.Scale = v.opts.scale
	}
}

func (v *viewer) restart() {
	sc, err := scene.Open(v.filename)
	if err != nil {
		v.message = err.Error()
		return
	}
	v.replace(sc)
}

func (v *viewer) replace(sc *scene.Scene) {
	w, err := scene.Build(sc, slog.Default())
	if err != nil {
		v.message = err.Error()
		return
	}
	v.world = w
	v.time = 0
	v.message = "reloaded"
}

func (v *viewer) draw() {
	state := "running"
	if v.paused {
		state = "paused"
	}
	stats := v.world.System.Stats()
	status := fmt.Sprintf(" %s  t=%.2fs  %s  bodies=%d  collisions=%d  %s",
		v.world.Name, v.time, state, v.world.System.NumSimulated(), stats.Collisions, v.message)
	v.view.Draw(v.screen, v.world, status)
}
