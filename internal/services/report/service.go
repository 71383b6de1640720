package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tlindner/cdmctl/internal/models"
	"github.com/tlindner/cdmctl/internal/services/cluster"
)

// Service defines the interface for the report runner.
type Service interface {
	Run(ctx context.Context, cfg models.ReportConfig) (*models.ReportResult, error)
}

// Impl implements the report Service interface.
type Impl struct {
	clusterSvc cluster.Service
	builder    *Builder
	logger     zerolog.Logger
}

// New creates a report service backed by the given cluster client.
func New(logger zerolog.Logger, clusterSvc cluster.Service) *Impl {
	return &Impl{
		clusterSvc: clusterSvc,
		builder:    NewBuilder(logger),
		logger:     logger,
	}
}

// Run pulls the latest events from the cluster, builds one row per
// successful event and writes the CSV report. Events are processed
// sequentially in retrieval order; the first API failure aborts the run.
func (s *Impl) Run(ctx context.Context, cfg models.ReportConfig) (*models.ReportResult, error) {
	s.logger.Info().
		Int("limit", cfg.Limit).
		Str("event_type", cfg.EventType).
		Str("output", cfg.Output).
		Msg("starting event report")

	if err := s.clusterSvc.Login(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	defer func() {
		if err := s.clusterSvc.Close(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close API session")
		}
	}()

	summaries, err := s.clusterSvc.LatestEvents(ctx, cfg.Limit, cfg.EventType)
	if err != nil {
		return nil, fmt.Errorf("fetching latest events: %w", err)
	}

	rows := make([]models.EventReportRow, 0, len(summaries))
	for _, summary := range summaries {
		detail, err := s.clusterSvc.EventSeries(ctx, summary.EventSeriesID)
		if err != nil {
			return nil, fmt.Errorf("fetching event series %s: %w", summary.EventSeriesID, err)
		}

		row, err := s.builder.BuildRow(*detail)
		if err != nil {
			return nil, fmt.Errorf("building row for series %s: %w", summary.EventSeriesID, err)
		}
		if row == nil {
			continue
		}
		rows = append(rows, *row)
	}

	if err := WriteCSVFile(cfg.Output, rows); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}

	result := &models.ReportResult{
		EventsSeen: len(summaries),
		RowsBuilt:  len(rows),
		OutputPath: cfg.Output,
	}

	s.logger.Info().
		Int("events", result.EventsSeen).
		Int("rows", result.RowsBuilt).
		Str("output", result.OutputPath).
		Msg("event report written")
	return result, nil
}
