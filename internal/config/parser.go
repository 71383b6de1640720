// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tlindner/cdmctl/internal/models"
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{}

	// Parse cluster config (required).
	cfg.Cluster = models.ClusterConfig{
		Address:  strings.TrimRight(p.expandEnv(p.v.GetString("cluster.address")), "/"),
		Username: p.expandEnv(p.v.GetString("cluster.username")),
		Password: p.expandEnv(p.v.GetString("cluster.password")),
		Timeout:  p.v.GetDuration("cluster.timeout"),
	}

	if cfg.Cluster.Address == "" {
		return nil, fmt.Errorf("cluster.address is required")
	}
	if cfg.Cluster.Username == "" {
		return nil, fmt.Errorf("cluster.username is required")
	}
	if cfg.Cluster.Password == "" {
		return nil, fmt.Errorf("cluster.password is required")
	}
	if cfg.Cluster.Timeout == 0 {
		cfg.Cluster.Timeout = 2 * time.Minute
	}

	// Parse report settings.
	cfg.Report = models.ReportConfig{
		Limit:     p.v.GetInt("report.limit"),
		EventType: p.v.GetString("report.event_type"),
		Output:    p.expandEnv(p.v.GetString("report.output")),
	}

	// Set defaults.
	if cfg.Report.Limit == 0 {
		cfg.Report.Limit = 25
	}
	if cfg.Report.EventType == "" {
		cfg.Report.EventType = "Backup"
	}
	if cfg.Report.Output == "" {
		cfg.Report.Output = "./backup-events.csv"
	}

	// Parse optional restore config.
	if p.v.IsSet("restore") {
		cfg.Restore = &models.RestoreConfig{
			Instance:     p.v.GetString("restore.instance"),
			Database:     p.v.GetString("restore.database"),
			RecoveryTime: p.v.GetString("restore.recovery_time"),
			PollInterval: p.v.GetDuration("restore.poll_interval"),
			PollTimeout:  p.v.GetDuration("restore.poll_timeout"),
		}

		if cfg.Restore.Database == "" {
			return nil, fmt.Errorf("restore.database is required when restore is configured")
		}
		if cfg.Restore.Instance == "" {
			return nil, fmt.Errorf("restore.instance is required when restore is configured")
		}

		// Set defaults.
		if cfg.Restore.PollInterval == 0 {
			cfg.Restore.PollInterval = 10 * time.Second
		}
		if cfg.Restore.PollTimeout == 0 {
			cfg.Restore.PollTimeout = 30 * time.Minute
		}
	}

	// Parse optional provision config.
	if p.v.IsSet("provision") {
		cfg.Provision = &models.ProvisionConfig{
			Input:           p.expandEnv(p.v.GetString("provision.input")),
			FilesetTemplate: p.v.GetString("provision.fileset_template"),
			SLADomain:       p.v.GetString("provision.sla_domain"),
			Username:        p.expandEnv(p.v.GetString("provision.username")),
			Password:        p.expandEnv(p.v.GetString("provision.password")),
		}

		if cfg.Provision.Input == "" {
			return nil, fmt.Errorf("provision.input is required when provision is configured")
		}
		if cfg.Provision.FilesetTemplate == "" {
			return nil, fmt.Errorf("provision.fileset_template is required when provision is configured")
		}
		if cfg.Provision.SLADomain == "" {
			return nil, fmt.Errorf("provision.sla_domain is required when provision is configured")
		}
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Cluster.Address == "" {
		return fmt.Errorf("cluster.address is required")
	}
	if cfg.Cluster.Username == "" {
		return fmt.Errorf("cluster.username is required")
	}
	if cfg.Cluster.Password == "" {
		return fmt.Errorf("cluster.password is required")
	}

	return nil
}
