package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koteyur/ccd2d/scene"
)

var errInvalidScenes = errors.New("invalid scenes")

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene>...",
		Short: "Check scene files for errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, filename := range args {
				sc, err := scene.Open(filename)
				if err == nil {
					err = scene.Validate(sc)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s:\n", filename)
					for _, e := range unwrapJoined(err) {
						fmt.Fprintf(out, "  %v\n", e)
					}
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", filename)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errInvalidScenes, failed, len(args))
			}
			return nil
		},
	}
}

// unwrapJoined lists the errors joined in err, or err itself.
func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
