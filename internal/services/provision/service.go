// Package provision bulk-registers NAS shares on the cluster from a CSV
// input file and puts a fileset with an SLA domain on each of them.
package provision

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tlindner/cdmctl/internal/models"
	"github.com/tlindner/cdmctl/internal/services/cluster"
)

// Service defines the interface for the provisioning runner.
type Service interface {
	Run(ctx context.Context, cfg models.ProvisionConfig) (*models.ProvisionResult, error)
}

// Impl implements the provision Service interface.
type Impl struct {
	clusterSvc cluster.Service
	logger     zerolog.Logger
}

// New creates a provisioning service backed by the given cluster client.
func New(logger zerolog.Logger, clusterSvc cluster.Service) *Impl {
	return &Impl{
		clusterSvc: clusterSvc,
		logger:     logger,
	}
}

// Run provisions every share listed in the input CSV. Rows are processed
// sequentially; a failing row is recorded in the result and the run moves on
// to the next row, so one bad share does not sink the whole batch.
func (s *Impl) Run(ctx context.Context, cfg models.ProvisionConfig) (*models.ProvisionResult, error) {
	batchID := uuid.NewString()
	logger := s.logger.With().Str("batch_id", batchID).Logger()

	rows, err := ReadShareCSV(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input file %s contains no share rows", cfg.Input)
	}

	logger.Info().
		Int("shares", len(rows)).
		Str("fileset_template", cfg.FilesetTemplate).
		Str("sla_domain", cfg.SLADomain).
		Msg("starting share provisioning")

	if err := s.clusterSvc.Login(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	defer func() {
		if err := s.clusterSvc.Close(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to close API session")
		}
	}()

	templateID, err := s.clusterSvc.FilesetTemplateByName(ctx, cfg.FilesetTemplate)
	if err != nil {
		return nil, fmt.Errorf("resolving fileset template: %w", err)
	}
	slaID, err := s.clusterSvc.SLADomainByName(ctx, cfg.SLADomain)
	if err != nil {
		return nil, fmt.Errorf("resolving SLA domain: %w", err)
	}

	result := &models.ProvisionResult{}
	for _, row := range rows {
		outcome := s.provisionShare(ctx, cfg, row, templateID, slaID)
		if outcome.Error != nil {
			logger.Error().
				Err(outcome.Error).
				Str("hostname", row.Hostname).
				Str("export_point", row.ExportPoint).
				Msg("share provisioning failed")
			result.Failed++
		} else {
			result.Provisioned++
		}
		result.Results = append(result.Results, outcome)
	}

	logger.Info().
		Int("provisioned", result.Provisioned).
		Int("failed", result.Failed).
		Msg("share provisioning finished")
	return result, nil
}

// provisionShare runs the per-row flow: resolve host, register share, create
// fileset, assign SLA.
func (s *Impl) provisionShare(ctx context.Context, cfg models.ProvisionConfig, row models.ShareRow, templateID, slaID string) models.ShareResult {
	result := models.ShareResult{Row: row}

	hostID, err := s.clusterSvc.HostByName(ctx, row.Hostname)
	if err != nil {
		result.Error = fmt.Errorf("resolving host: %w", err)
		return result
	}

	shareID, err := s.clusterSvc.AddShare(ctx, models.ShareRequest{
		HostID:      hostID,
		ShareType:   row.ShareType,
		ExportPoint: row.ExportPoint,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		result.Error = fmt.Errorf("adding share: %w", err)
		return result
	}
	result.ShareID = shareID

	filesetID, err := s.clusterSvc.CreateFileset(ctx, shareID, templateID)
	if err != nil {
		result.Error = fmt.Errorf("creating fileset: %w", err)
		return result
	}
	result.FilesetID = filesetID

	if err := s.clusterSvc.AssignSLA(ctx, slaID, []string{filesetID}); err != nil {
		result.Error = fmt.Errorf("assigning SLA: %w", err)
		return result
	}

	return result
}

// ReadShareCSV parses the provisioning input file. Expected columns are
// hostname, export_point and share_type; a header row is required.
func ReadShareCSV(path string) ([]models.ShareRow, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator's config
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parseShareCSV(f)
}

func parseShareCSV(r io.Reader) ([]models.ShareRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("expected columns hostname,export_point,share_type, got %v", header)
	}

	var rows []models.ShareRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row := models.ShareRow{
			Hostname:    strings.TrimSpace(record[0]),
			ExportPoint: strings.TrimSpace(record[1]),
			ShareType:   strings.ToUpper(strings.TrimSpace(record[2])),
		}
		if row.Hostname == "" || row.ExportPoint == "" {
			return nil, fmt.Errorf("line %d: hostname and export_point are required", line)
		}
		if row.ShareType != models.ShareTypeNFS && row.ShareType != models.ShareTypeSMB {
			return nil, fmt.Errorf("line %d: share_type must be NFS or SMB, got %q", line, record[2])
		}
		rows = append(rows, row)
	}

	return rows, nil
}
