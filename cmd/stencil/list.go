package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stencilset/stencil/pkg/example"
)

// NewListCmd builds the list subcommand.
func NewListCmd(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the discovered examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			examples, err := example.Discover(global.Root)
			if err != nil {
				return err
			}
			if len(examples) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No examples found under %q\n", global.Root)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tENGINE\tDESCRIPTION")
			for _, ex := range examples {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ex.Name, ex.Manifest.Engine, ex.Description())
			}
			return w.Flush()
		},
	}
}
