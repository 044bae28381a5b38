// Package service implements the classify pipeline
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"signalfarm/internal/core/classifier"
	"signalfarm/internal/core/discovery"
	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/platform/errors"
	"signalfarm/internal/platform/logger"
	alertdom "signalfarm/internal/services/alerts/domain"
	"signalfarm/internal/services/classify/domain"
	msgdom "signalfarm/internal/services/messages/domain"
	projdom "signalfarm/internal/services/projects/domain"
	sigdom "signalfarm/internal/services/signals/domain"
)

// Config for the classify service
type Config struct {
	Workers           int
	PageSize          int
	PromoteConfidence float64 // candidates at or above this get promoted after a run
	AlertPriority     float64 // records at or above this raise an alert
	DryRun            bool
}

// Service implements domain.RunnerPort and domain.PreviewPort
type Service struct {
	Msgs  msgdom.ReaderPort
	Sigs  sigdom.WriterPort
	Reg   projdom.RegistryPort
	Admin projdom.AdminPort
	Alrts alertdom.WriterPort
	Lex   *lexicon.Pack
	Cfg   Config
}

// New constructs a new classify service
func New(p domain.Ports, lex *lexicon.Pack, cfg Config) *Service {
	if lex == nil {
		panic("classify.Service requires a lexicon")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5000
	}
	if cfg.PromoteConfidence <= 0 {
		cfg.PromoteConfidence = 0.7
	}
	if cfg.AlertPriority <= 0 {
		cfg.AlertPriority = 1.3
	}
	return &Service{
		Msgs:  p.Messages,
		Sigs:  p.Signals,
		Reg:   p.Registry,
		Admin: p.Admin,
		Alrts: p.Alerts,
		Lex:   lex,
		Cfg:   cfg,
	}
}

// perMessage is the classification output for one message, assembled
// concurrently and flushed in page order
type perMessage struct {
	recs   []sigdom.RecordWrite
	cands  []projdom.CandidateUpsert
	alerts []alertdom.AlertInput
}

// RunRange implements domain.RunnerPort
func (s *Service) RunRange(ctx context.Context, since, until time.Time) (domain.Stats, error) {
	var stats domain.Stats

	if !until.IsZero() && until.Before(since) {
		return stats, errors.InvalidArgf("until before since")
	}

	// The index is snapshotted once per run; mid-run registry edits are
	// picked up by the next run
	idx, err := s.Reg.Index(ctx)
	if err != nil {
		return stats, errors.Wrapf(err, errors.ErrorCodeDB, "classify: build registry index")
	}
	cls := classifier.New(s.Lex, idx)
	disc := discovery.New(s.Lex)

	after := msgdom.AfterKey{}
	for {
		rows, next, err := s.Msgs.ListUnprocessed(ctx, msgdom.ListInput{
			Since: since, Until: until,
			After: after, Limit: s.Cfg.PageSize,
		})
		if err != nil {
			return stats, err
		}
		if len(rows) == 0 {
			break
		}

		out := make([]perMessage, len(rows))
		sem := make(chan struct{}, s.Cfg.Workers)
		wg := sync.WaitGroup{}

		for i := range rows {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer func() { <-sem; wg.Done() }()
				out[i] = s.classifyOne(cls, disc, idx, rows[i])
			}(i)
		}
		wg.Wait()

		if err := s.flush(ctx, rows, out, &stats); err != nil {
			return stats, err
		}
		stats.Messages += len(rows)
		after = next
	}

	if !s.Cfg.DryRun {
		promoted, err := s.Admin.PromoteEligible(ctx, s.Cfg.PromoteConfidence)
		if err != nil {
			return stats, errors.Wrapf(err, errors.ErrorCodeDB, "classify: promote candidates")
		}
		stats.Promoted = promoted
		if len(promoted) > 0 {
			logger.C(ctx).Info().Strs("projects", promoted).Msg("classify: promoted candidates")
		}
	}
	return stats, nil
}

func (s *Service) classifyOne(
	cls *classifier.Classifier,
	disc *discovery.Discoverer,
	idx *classifier.Index,
	m msgdom.Message,
) perMessage {
	var pm perMessage

	cl := cls.Classify(m.Content, classifier.Source{Channel: m.Channel, Type: m.SourceType})
	for _, p := range cl.Projects {
		pm.recs = append(pm.recs, sigdom.RecordWrite{
			MessageID:  m.ID,
			Project:    p.Name,
			RecordedAt: m.PostedAt,
			Categories: cl.Categories,
			Context:    cl.Context,
			Priority:   cl.PriorityScore,
			Content:    cl.Text,
			Channel:    m.Channel,
			SourceType: m.SourceType,
			Weight:     cl.SourceWeight,
		})
		if cl.PriorityScore >= s.Cfg.AlertPriority {
			pm.alerts = append(pm.alerts, alertdom.AlertInput{
				Project:  p.Name,
				Kind:     alertdom.KindHighPriority,
				Message:  fmt.Sprintf("priority %.2f signal: %s", cl.PriorityScore, snippet(cl.Text, 140)),
				Priority: cl.PriorityScore,
			})
		}
	}

	for _, c := range disc.Scan(m.Content, idx.HasProject) {
		pm.cands = append(pm.cands, projdom.CandidateUpsert{
			Name:       c.Name,
			Confidence: c.Confidence,
			Origin:     c.Origin,
			SeenAt:     m.PostedAt,
		})
	}
	return pm
}

// flush persists one page. Record writes and processed marks are
// all-or-nothing for the page; candidate observations and alerts are
// best-effort side effects and only warn on failure
func (s *Service) flush(ctx context.Context, rows []msgdom.Message, out []perMessage, stats *domain.Stats) error {
	flat := make([]sigdom.RecordWrite, 0, 256)
	for i := range out {
		flat = append(flat, out[i].recs...)
	}

	if s.Cfg.DryRun {
		stats.Records += len(flat)
		for i := range out {
			stats.Candidates += len(out[i].cands)
			stats.Alerts += len(out[i].alerts)
		}
		return nil
	}

	if len(flat) > 0 {
		if err := s.Sigs.WriteBatch(ctx, flat); err != nil {
			return errors.Wrapf(err, errors.ErrorCodeDB, "classify: write signal records")
		}
		stats.Records += len(flat)
	}

	for i := range out {
		for _, c := range out[i].cands {
			if err := s.Admin.Observe(ctx, c); err != nil {
				logger.C(ctx).Warn().Err(err).Str("candidate", c.Name).Msg("classify: observe candidate failed")
				continue
			}
			stats.Candidates++
		}
		for _, a := range out[i].alerts {
			if _, err := s.Alrts.Add(ctx, a); err != nil {
				logger.C(ctx).Warn().Err(err).Str("project", a.Project).Msg("classify: add alert failed")
				continue
			}
			stats.Alerts++
		}
	}

	ids := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	return s.Msgs.MarkProcessed(ctx, ids)
}

// Preview implements domain.PreviewPort
func (s *Service) Preview(ctx context.Context, raw string, src classifier.Source) (domain.Preview, error) {
	idx, err := s.Reg.Index(ctx)
	if err != nil {
		return domain.Preview{}, errors.Wrapf(err, errors.ErrorCodeDB, "classify: build registry index")
	}
	cls := classifier.New(s.Lex, idx)
	disc := discovery.New(s.Lex)
	return domain.Preview{
		Classification: cls.Classify(raw, src),
		Candidates:     disc.Scan(raw, idx.HasProject),
	}, nil
}

// snippet cuts s to at most n bytes without splitting a multi-byte rune
func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
