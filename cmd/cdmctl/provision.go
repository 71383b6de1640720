package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tlindner/cdmctl/internal/services/cluster"
	"github.com/tlindner/cdmctl/internal/services/provision"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Bulk-provision NAS shares from a CSV file",
	Long: `Register every NAS share listed in the input CSV on the cluster,
create a fileset from the configured template on each share and assign the
configured SLA domain. A failing row is reported and the batch continues.`,
	RunE: runProvision,
}

func runProvision(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Provision == nil {
		log.Error().Msg("provision section missing from config")
		return fmt.Errorf("provision is not configured")
	}

	ctx, cancel := signalContext()
	defer cancel()

	clusterSvc := cluster.New(log.Logger, cfg.Cluster)
	provisionSvc := provision.New(log.Logger, clusterSvc)

	result, err := provisionSvc.Run(ctx, *cfg.Provision)
	if err != nil {
		log.Error().Err(err).Msg("provisioning failed")
		return err
	}

	log.Info().
		Int("provisioned", result.Provisioned).
		Int("failed", result.Failed).
		Msg("provisioning completed")

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d shares failed to provision", result.Failed, len(result.Results))
	}
	return nil
}
