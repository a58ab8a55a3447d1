// Command ccd2d runs, views and benchmarks ccd2d scene files.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koteyur/ccd2d/internal/logx"
	"github.com/koteyur/ccd2d/physics"
	"github.com/koteyur/ccd2d/scene"
)

type rootOptions struct {
	debug   bool
	verbose bool
	quiet   bool
	noColor bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	root := &cobra.Command{
		Use:           "ccd2d",
		Short:         "Continuous collision detection for 2D circles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := logx.LevelFromFlags(opts.debug, opts.verbose, opts.quiet)
			logx.SetDefault(cmd.ErrOrStderr(), level, !opts.noColor)
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "log debug messages")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log info messages")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable coloured log levels")

	root.AddCommand(
		newRunCmd(),
		newWatchCmd(),
		newBenchCmd(),
		newValidateCmd(),
	)
	return root
}

// loadWorld opens and builds the scene file filename.
func loadWorld(filename string) (*scene.World, error) {
	sc, err := scene.Open(filename)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return scene.Build(sc, slog.Default())
}

func logStats(msg string, frames int, stats physics.Stats) {
	slog.Info(msg,
		"frames", frames,
		"substeps", stats.Substeps,
		"iterations", stats.Iterations,
		"collisions", stats.Collisions,
		"planes", stats.Planes,
		"cap_hits", stats.CapHits,
	)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
