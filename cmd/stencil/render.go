package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stencilset/stencil/pkg/gallery"
)

// RenderOptions carry the flags of the render subcommand.
type RenderOptions struct {
	Engine   string
	Output   string
	Overlay  string
	DataFile string
}

// NewRenderCmd builds the render subcommand. With no example argument and a
// terminal attached it falls back to an interactive picker.
func NewRenderCmd(global *GlobalOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render [example]",
		Short: "Render one example with its data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				picked, err := pickExample(global.Root)
				if err != nil {
					return err
				}
				name = picked
			}

			runner, err := gallery.New(global.Root, gallery.WithLogger(global.Logger()))
			if err != nil {
				return err
			}

			req := gallery.Request{
				Example:  name,
				Engine:   opts.Engine,
				Overlay:  opts.Overlay,
				DataFile: opts.DataFile,
			}

			if opts.Output != "" {
				path, err := runner.RenderToFile(cmd.Context(), req, opts.Output)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s to %s\n", name, path)
				return nil
			}

			res, err := runner.Render(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Output)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", "", "engine override (jinja, gotpl)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.Overlay, "overlay", "", "overlay data file merged over the base data")
	cmd.Flags().StringVar(&opts.DataFile, "data", "", "data file override (relative to the example directory)")

	return cmd
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
