package main

import (
	"github.com/spf13/cobra"

	"threatscope/internal/logger"
	"threatscope/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API, metrics and gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.New(a.svc, a.cfg, logger.WithComponent("server"))
			return srv.Serve(cmd.Context())
		},
	}
}
