package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tlindner/cdmctl/internal/services/cluster"
	"github.com/tlindner/cdmctl/internal/services/restore"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a SQL database to a recovery point",
	Long: `Restore the configured SQL database through the cluster management
API. The restore targets the latest recovery point unless restore.recovery_time
is set, and waits for the async restore request to finish.`,
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Restore == nil {
		log.Error().Msg("restore section missing from config")
		return fmt.Errorf("restore is not configured")
	}

	ctx, cancel := signalContext()
	defer cancel()

	clusterSvc := cluster.New(log.Logger, cfg.Cluster)
	restoreSvc := restore.New(log.Logger, clusterSvc)

	result, err := restoreSvc.Run(ctx, *cfg.Restore)
	if err != nil {
		log.Error().Err(err).Msg("restore failed")
		return err
	}

	log.Info().
		Str("database", cfg.Restore.Database).
		Str("recovery_time", result.RecoveryTime).
		Str("status", result.Status).
		Dur("duration", result.Duration).
		Msg("restore completed successfully")
	return nil
}
