// Package service provides the alerts service implementation
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/platform/errors"
	"signalfarm/internal/services/alerts/domain"
	"signalfarm/internal/services/alerts/repo"
)

// Config for the alerts service
type Config struct {
	// HardLimit caps Recent fetches; defaults to 50 if <=0
	HardLimit int
}

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Cfg    Config
	now    func() time.Time
}

// New constructs a new alerts service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("alerts.Service requires a non nil TxRunner")
	}
	if b == nil {
		panic("alerts.Service requires a non nil Repo binder")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 50
	}
	return &Service{DB: db, Binder: b, Cfg: cfg, now: time.Now}
}

// Add implements domain.WriterPort
func (s *Service) Add(ctx context.Context, in domain.AlertInput) (domain.Alert, error) {
	if in.Message == "" {
		return domain.Alert{}, errors.InvalidArgf("alerts: empty message")
	}
	if in.Kind == "" {
		in.Kind = domain.KindHighPriority
	}
	a := domain.Alert{
		ID:        uuid.NewString(),
		Project:   in.Project,
		Kind:      in.Kind,
		Message:   in.Message,
		Priority:  in.Priority,
		CreatedAt: s.now().UTC(),
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Insert(ctx, a)
	})
	if err != nil {
		return domain.Alert{}, err
	}
	return a, nil
}

// Recent implements domain.QueryPort
func (s *Service) Recent(ctx context.Context, in domain.ListInput) ([]domain.Alert, error) {
	if in.Limit <= 0 || in.Limit > s.Cfg.HardLimit {
		in.Limit = s.Cfg.HardLimit
	}
	var out []domain.Alert
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Recent(ctx, in)
		return err
	})
	return out, err
}

// Acknowledge implements domain.QueryPort
func (s *Service) Acknowledge(ctx context.Context, id string) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		ok, err := s.Binder.Bind(q).Acknowledge(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NotFoundf("alert not found or already acknowledged")
		}
		return nil
	})
}
