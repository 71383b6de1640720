package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tlindner/cdmctl/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file without calling the cluster.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Cluster:")
	fmt.Printf("  Address: %s\n", cfg.Cluster.Address)
	fmt.Printf("  Username: %s\n", cfg.Cluster.Username)
	fmt.Printf("  Timeout: %s\n", cfg.Cluster.Timeout)
	fmt.Println()
	fmt.Println("Report:")
	fmt.Printf("  Limit: %d\n", cfg.Report.Limit)
	fmt.Printf("  Event type: %s\n", cfg.Report.EventType)
	fmt.Printf("  Output: %s\n", cfg.Report.Output)
	fmt.Println()
	fmt.Println("Optional Features:")
	fmt.Printf("  Restore: %v\n", cfg.Restore != nil)
	fmt.Printf("  Provision: %v\n", cfg.Provision != nil)

	if cfg.Restore != nil {
		fmt.Println()
		fmt.Println("Restore Configuration:")
		fmt.Printf("  Instance: %s\n", cfg.Restore.Instance)
		fmt.Printf("  Database: %s\n", cfg.Restore.Database)
		if cfg.Restore.RecoveryTime != "" {
			fmt.Printf("  Recovery time: %s\n", cfg.Restore.RecoveryTime)
		} else {
			fmt.Printf("  Recovery time: (latest recovery point)\n")
		}
		fmt.Printf("  Poll interval: %s\n", cfg.Restore.PollInterval)
		fmt.Printf("  Poll timeout: %s\n", cfg.Restore.PollTimeout)
	}

	if cfg.Provision != nil {
		fmt.Println()
		fmt.Println("Provision Configuration:")
		fmt.Printf("  Input: %s\n", cfg.Provision.Input)
		fmt.Printf("  Fileset template: %s\n", cfg.Provision.FilesetTemplate)
		fmt.Printf("  SLA domain: %s\n", cfg.Provision.SLADomain)
		fmt.Printf("  Share credentials: %v\n", cfg.Provision.Username != "")
	}

	return nil
}
