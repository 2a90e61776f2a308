package main

import (
	"github.com/spf13/cobra"

	"threatscope/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()
			return tui.Run(cmd.Context(), a.svc)
		},
	}
}
