package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// GlobalOptions carry the flags shared by every subcommand.
type GlobalOptions struct {
	Root    string
	Verbose bool
}

// Logger builds the CLI logger honoring --verbose.
func (o *GlobalOptions) Logger() *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewStencilCmd builds the root command with every subcommand attached.
func NewStencilCmd() *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   "stencil",
		Short: "stencil renders the template examples in this repository",
		Long: `stencil renders the template examples in this repository.

Each directory under examples/ pairs one template with one data file and a
README. stencil discovers those directories, validates the convention, and
renders templates with their data.`,
	}

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.PersistentFlags().StringVar(&opts.Root, "root", "examples", "gallery root directory")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(NewRenderCmd(opts))
	cmd.AddCommand(NewBatchCmd(opts))
	cmd.AddCommand(NewListCmd(opts))
	cmd.AddCommand(NewCheckCmd(opts))

	return cmd
}
