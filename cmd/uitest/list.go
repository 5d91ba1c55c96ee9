package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reactapp-uitests/internal/usecase/scenarios"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range scenarios.All(scenarios.Deps{}) {
				fmt.Fprintf(w, "%s\t%s\n", s.Name(), s.Description())
			}
			return w.Flush()
		},
	}
}
