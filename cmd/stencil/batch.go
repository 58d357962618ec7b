package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stencilset/stencil/pkg/gallery"
)

// BatchOptions carry the flags of the batch subcommand.
type BatchOptions struct {
	OutDir string
}

// NewBatchCmd builds the batch subcommand: one render per overlay data file.
func NewBatchCmd(global *GlobalOptions) *cobra.Command {
	opts := &BatchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <example>",
		Short: "Render one output per overlay data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := gallery.New(global.Root, gallery.WithLogger(global.Logger()))
			if err != nil {
				return err
			}

			written, err := runner.Batch(cmd.Context(), args[0], opts.OutDir)
			if err != nil {
				return err
			}

			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for rendered outputs (example directory if empty)")

	return cmd
}
