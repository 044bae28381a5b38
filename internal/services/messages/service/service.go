// Package service provides the messages service implementation
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/platform/errors"
	"signalfarm/internal/services/messages/domain"
	"signalfarm/internal/services/messages/repo"
)

// Config for the messages service
type Config struct {
	// HardLimit is the maximum allowed limit per List call; defaults to 5000 if <=0
	HardLimit int
}

// Service implements domain.WriterPort and domain.ReaderPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
}

// New constructs a new messages service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 5000
	}
	return &Service{DB: db, Binder: b, Cfg: cfg}
}

// Ingest implements domain.WriterPort
func (s *Service) Ingest(ctx context.Context, in domain.IngestInput) (domain.Message, error) {
	if in.Content == "" {
		return domain.Message{}, errors.InvalidArgf("messages: empty content")
	}
	if in.PostedAt.IsZero() {
		in.PostedAt = time.Now()
	}
	m := domain.Message{
		ID:         uuid.NewString(),
		Channel:    in.Channel,
		SourceType: in.SourceType,
		PostedAt:   in.PostedAt.UTC(),
		Content:    in.Content,
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Insert(ctx, m)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

// ListUnprocessed implements domain.ReaderPort
func (s *Service) ListUnprocessed(ctx context.Context, in domain.ListInput) ([]domain.Message, domain.AfterKey, error) {
	limit := in.Limit
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}

	var rows []domain.Message
	var next domain.AfterKey
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		rows, next, err = s.Binder.Bind(q).ListUnprocessed(ctx, in, limit)
		return err
	})
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	return rows, next, nil
}

// MarkProcessed implements domain.ReaderPort
func (s *Service) MarkProcessed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).MarkProcessed(ctx, ids)
	})
}
