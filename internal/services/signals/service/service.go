// Package service provides the signals service implementation
package service

import (
	"context"
	"strings"
	"time"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/platform/logger"
	"signalfarm/internal/platform/store"
	"signalfarm/internal/services/signals/domain"
	"signalfarm/internal/services/signals/repo"
)

// Config for the signals service
type Config struct {
	// HardLimit caps RecentHighPriority fetches; defaults to 100 if <=0
	HardLimit int

	// MirrorTable is the ClickHouse destination for the analytical copy;
	// empty disables mirroring even when a CH seam is present
	MirrorTable string
}

// Service implements domain.WriterPort and domain.QueryPort.
// Postgres is the source of truth; ClickHouse gets a best-effort append-only
// mirror for analytics and must never fail a write
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	CH     store.Clickhouse // optional
	Cfg    Config
}

// New constructs a new signals service; ch may be nil
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], ch store.Clickhouse, cfg Config) *Service {
	if db == nil {
		panic("signals.Service requires a non nil TxRunner")
	}
	if b == nil {
		panic("signals.Service requires a non nil Repo binder")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{DB: db, Binder: b, CH: ch, Cfg: cfg}
}

// WriteBatch implements domain.WriterPort
func (s *Service) WriteBatch(ctx context.Context, xs []domain.RecordWrite) error {
	if len(xs) == 0 {
		return nil
	}
	if err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).WriteBatch(ctx, xs)
	}); err != nil {
		return err
	}
	s.mirror(ctx, xs)
	return nil
}

// mirror ships the batch to ClickHouse. Failures are logged and classified,
// never propagated: the PG write already succeeded and the mirror is
// reconstructible from it
func (s *Service) mirror(ctx context.Context, xs []domain.RecordWrite) {
	if s.CH == nil || s.Cfg.MirrorTable == "" {
		return
	}
	rows := make([][]any, 0, len(xs))
	for _, r := range xs {
		rows = append(rows, []any{
			r.MessageID, r.Project, r.RecordedAt.UTC(),
			strings.Join(r.Categories, ","), strings.Join(r.Context, ","),
			r.Priority, r.Channel, r.SourceType, r.Weight,
		})
	}
	if err := s.CH.Insert(ctx, s.Cfg.MirrorTable, rows); err != nil {
		logger.C(ctx).Warn().Err(err).
			Int("rows", len(rows)).
			Str("table", s.Cfg.MirrorTable).
			Msg("signals: clickhouse mirror failed")
	}
}

// RecordsForProject implements domain.QueryPort
func (s *Service) RecordsForProject(ctx context.Context, project string, since time.Time) ([]domain.Record, error) {
	var out []domain.Record
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).RecordsForProject(ctx, project, since)
		return err
	})
	return out, err
}

// RecentHighPriority implements domain.QueryPort
func (s *Service) RecentHighPriority(
	ctx context.Context,
	project string,
	since time.Time,
	minScore float64,
	limit int,
) ([]domain.Record, error) {
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	var out []domain.Record
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).RecentHighPriority(ctx, project, since, minScore, limit)
		return err
	})
	return out, err
}

// MentionCounts implements domain.QueryPort
func (s *Service) MentionCounts(ctx context.Context, since, until time.Time) ([]domain.MentionCount, error) {
	var out []domain.MentionCount
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).MentionCounts(ctx, since, until)
		return err
	})
	return out, err
}
