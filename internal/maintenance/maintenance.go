// Package maintenance keeps the sqlite thumbnail cache small and fast.
package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const lastRunKey = "maintenance.last_run_at"

// Pruner removes expired cache entries.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Status holds cache database status information.
type Status struct {
	DBFileSize  int64  `json:"db_file_size"`
	WALFileSize int64  `json:"wal_file_size"`
	PageCount   int64  `json:"page_count"`
	PageSize    int64  `json:"page_size"`
	Entries     int64  `json:"entries"`
	Found       int64  `json:"found"`
	LastRunAt   string `json:"last_run_at,omitempty"`
}

// Service provides cache database maintenance operations.
type Service struct {
	db     *sql.DB
	dbPath string
	pruner Pruner
	logger *slog.Logger
}

// NewService creates a maintenance service. pruner may be nil, in which
// case Run only optimizes.
func NewService(db *sql.DB, dbPath string, pruner Pruner, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		dbPath: dbPath,
		pruner: pruner,
		logger: logger.With(slog.String("component", "maintenance")),
	}
}

// Status returns current cache database status.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	st := &Status{}

	if info, err := os.Stat(s.dbPath); err == nil {
		st.DBFileSize = info.Size()
	}
	if info, err := os.Stat(s.dbPath + "-wal"); err == nil {
		st.WALFileSize = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&st.PageCount); err != nil {
		s.logger.Warn("reading page_count", slog.Any("error", err))
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&st.PageSize); err != nil {
		s.logger.Warn("reading page_size", slog.Any("error", err))
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(found), 0) FROM thumbnail_cache`).Scan(&st.Entries, &st.Found)
	if err != nil {
		return nil, fmt.Errorf("counting cache entries: %w", err)
	}

	var lastRun string
	if err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache_meta WHERE key = ?`, lastRunKey).Scan(&lastRun); err == nil {
		st.LastRunAt = lastRun
	}

	return st, nil
}

// Run prunes expired entries, then optimizes. It returns the number of
// pruned entries.
func (s *Service) Run(ctx context.Context) (int64, error) {
	var pruned int64
	if s.pruner != nil {
		n, err := s.pruner.Prune(ctx)
		if err != nil {
			return 0, err
		}
		pruned = n
		s.logger.Info("pruned expired cache entries", slog.Int64("count", pruned))
	}

	if err := s.Optimize(ctx); err != nil {
		return pruned, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_meta (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		lastRunKey, now, now)
	if err != nil {
		s.logger.Warn("recording maintenance timestamp", slog.Any("error", err))
	}
	return pruned, nil
}

// Optimize runs PRAGMA optimize followed by a WAL checkpoint.
func (s *Service) Optimize(ctx context.Context) error {
	s.logger.Debug("running PRAGMA optimize")
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("PRAGMA optimize: %w", err)
	}

	s.logger.Debug("running WAL checkpoint")
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Vacuum runs VACUUM to rebuild the database file.
func (s *Service) Vacuum(ctx context.Context) error {
	s.logger.Info("running VACUUM")
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM: %w", err)
	}
	s.logger.Info("vacuum complete")
	return nil
}

// StartScheduler runs Run on a fixed interval until the context is canceled.
func (s *Service) StartScheduler(ctx context.Context, interval time.Duration) {
	s.logger.Info("maintenance scheduler started",
		slog.String("interval", interval.String()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("maintenance scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Run(ctx); err != nil {
				s.logger.Error("scheduled maintenance failed", slog.Any("error", err))
			}
		}
	}
}
