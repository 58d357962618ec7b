package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stencilset/stencil/pkg/example"
)

// NewCheckCmd builds the check subcommand: the example-directory convention
// verifier. Every finding is reported; any finding makes the command fail.
func NewCheckCmd(global *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [example...]",
		Short: "Verify the example-directory convention",
		RunE: func(cmd *cobra.Command, args []string) error {
			var findings []example.Finding

			if len(args) == 0 {
				all, err := example.CheckAll(global.Root)
				if err != nil {
					return err
				}
				findings = all
			} else {
				for _, name := range args {
					ex, err := example.Load(filepath.Join(global.Root, name))
					if err != nil {
						return err
					}
					findings = append(findings, example.Check(ex)...)
				}
			}

			if len(findings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "All examples follow the convention.")
				return nil
			}

			for _, finding := range findings {
				fmt.Fprintln(cmd.OutOrStdout(), finding.String())
			}
			return fmt.Errorf("%d convention problem(s) found", len(findings))
		},
	}
}
