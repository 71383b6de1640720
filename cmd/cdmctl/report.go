package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tlindner/cdmctl/internal/config"
	"github.com/tlindner/cdmctl/internal/models"
	"github.com/tlindner/cdmctl/internal/services/cluster"
	"github.com/tlindner/cdmctl/internal/services/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a timing report for the latest backup events",
	Long: `Pull the latest backup events from the cluster, compute timing
statistics (total, scan, fetch, copy and verification durations) for each
successful event and write them to a CSV report.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	clusterSvc := cluster.New(log.Logger, cfg.Cluster)
	reportSvc := report.New(log.Logger, clusterSvc)

	result, err := reportSvc.Run(ctx, cfg.Report)
	if err != nil {
		log.Error().Err(err).Msg("report failed")
		return err
	}

	log.Info().
		Int("events", result.EventsSeen).
		Int("rows", result.RowsBuilt).
		Str("output", result.OutputPath).
		Msg("report completed successfully")
	return nil
}

// loadConfig loads and validates the configuration file named by the
// --config flag.
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	if configFile == "" {
		log.Error().Msg("config file is required")
		_ = cmd.Help()
		return nil, fmt.Errorf("config file is required")
	}

	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return nil, err
	}

	log.Info().
		Str("config", configFile).
		Str("cluster", cfg.Cluster.Address).
		Msg("configuration loaded")
	return cfg, nil
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
// The returned stop function releases the signal registration.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
