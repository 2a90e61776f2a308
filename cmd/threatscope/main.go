package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"threatscope/internal/config"
	"threatscope/internal/geo"
	"threatscope/internal/logger"
	"threatscope/internal/threat"
	"threatscope/internal/upstream"
)

var (
	configPath  string
	logLevel    string
	upstreamURL string
)

func main() {
	root := &cobra.Command{
		Use:           "threatscope",
		Short:         "Aggregate IP threat intelligence from host and vulnerability sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&upstreamURL, "upstream", "", "base URL of the intel services")

	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newTUICmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("threatscope failed")
		stop()
		os.Exit(1)
	}
}

// app is the wired service shared by every subcommand.
type app struct {
	cfg *config.Config
	svc *threat.Service
	geo *geo.Resolver
}

// bootstrap loads configuration and wires the service. quiet silences logging
// for front ends that own the terminal.
func bootstrap(quiet bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if upstreamURL != "" {
		cfg.Upstream.BaseURL = upstreamURL
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}
	if quiet {
		logger.Discard()
	}

	a := &app{cfg: cfg}
	var opts []threat.Option
	if cfg.GeoIPDB != "" {
		a.geo, err = geo.Open(cfg.GeoIPDB)
		if err != nil {
			return nil, err
		}
		opts = append(opts, threat.WithLocator(a.geo))
	}

	client := upstream.New(cfg.Upstream, nil, logger.WithComponent("upstream"))
	a.svc = threat.NewService(client, threat.NewStore(), logger.WithComponent("threat"), opts...)
	return a, nil
}

func (a *app) Close() {
	if a.geo != nil {
		_ = a.geo.Close()
	}
}
