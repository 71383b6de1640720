// Package restore drives an in-place SQL database restore through the
// cluster management API.
package restore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tlindner/cdmctl/internal/models"
	"github.com/tlindner/cdmctl/internal/services/cluster"
)

// Service defines the interface for the restore runner.
type Service interface {
	Run(ctx context.Context, cfg models.RestoreConfig) (*models.RestoreResult, error)
}

// Impl implements the restore Service interface.
type Impl struct {
	clusterSvc cluster.Service
	logger     zerolog.Logger
}

// New creates a restore service backed by the given cluster client.
func New(logger zerolog.Logger, clusterSvc cluster.Service) *Impl {
	return &Impl{
		clusterSvc: clusterSvc,
		logger:     logger,
	}
}

// Run restores the configured database and waits for the async request to
// finish. The target recovery time defaults to the database's latest
// recovery point.
func (s *Impl) Run(ctx context.Context, cfg models.RestoreConfig) (*models.RestoreResult, error) {
	start := time.Now()

	s.logger.Info().
		Str("instance", cfg.Instance).
		Str("database", cfg.Database).
		Msg("starting database restore")

	if err := s.clusterSvc.Login(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	defer func() {
		if err := s.clusterSvc.Close(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to close API session")
		}
	}()

	db, err := s.clusterSvc.SQLDatabaseByName(ctx, cfg.Instance, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("looking up database: %w", err)
	}

	recoveryTime := cfg.RecoveryTime
	if recoveryTime == "" {
		if db.LatestRecoveryPoint == "" {
			return nil, fmt.Errorf("database %s has no recovery point", db.Name)
		}
		recoveryTime = db.LatestRecoveryPoint
	}

	requestID, err := s.clusterSvc.RestoreSQLDatabase(ctx, db.ID, recoveryTime)
	if err != nil {
		return nil, fmt.Errorf("requesting restore: %w", err)
	}

	status, err := s.waitForRequest(ctx, requestID, cfg.PollInterval, cfg.PollTimeout)
	if err != nil {
		return nil, err
	}

	result := &models.RestoreResult{
		DatabaseID:   db.ID,
		RequestID:    requestID,
		RecoveryTime: recoveryTime,
		Status:       status,
		Duration:     time.Since(start),
	}

	s.logger.Info().
		Str("database_id", result.DatabaseID).
		Str("request_id", result.RequestID).
		Dur("duration", result.Duration).
		Msg("database restore finished")
	return result, nil
}

// waitForRequest polls the async request until it reaches a terminal state.
func (s *Impl) waitForRequest(ctx context.Context, requestID string, interval, timeout time.Duration) (string, error) {
	if interval == 0 {
		interval = 10 * time.Second
	}
	if timeout == 0 {
		timeout = 30 * time.Minute
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		req, err := s.clusterSvc.RequestStatus(ctx, requestID)
		if err != nil {
			return "", fmt.Errorf("polling request %s: %w", requestID, err)
		}

		switch req.Status {
		case models.RequestSucceeded:
			return req.Status, nil
		case models.RequestFailed:
			return "", fmt.Errorf("restore request %s failed", requestID)
		}

		s.logger.Debug().
			Str("request_id", requestID).
			Str("status", req.Status).
			Float64("progress", req.Progress).
			Msg("restore still running")

		if time.Now().After(deadline) {
			return "", fmt.Errorf("restore request %s did not finish within %s", requestID, timeout)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("restore interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
