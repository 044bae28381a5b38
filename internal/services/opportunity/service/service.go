// Package service implements the opportunity analysis service
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/core/opportunity"
	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/platform/errors"
	"signalfarm/internal/platform/logger"
	alertdom "signalfarm/internal/services/alerts/domain"
	"signalfarm/internal/services/opportunity/domain"
	"signalfarm/internal/services/opportunity/repo"
	projdom "signalfarm/internal/services/projects/domain"
	sigdom "signalfarm/internal/services/signals/domain"
)

// Alert thresholds for assessment scores
const (
	alertHighScore   = 80.0
	alertMediumScore = 70.0
)

// Config for the opportunity service
type Config struct {
	Workers     int     // parallel assessments in AnalyzeAll; defaults to 2
	MinActivity float64 // AnalyzeAll drops projects below this activity; defaults to 0.3
	TopLimit    int     // cap for Top queries; defaults to 20
}

// Service implements domain.AnalyzerPort and domain.SnapshotPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Sigs   sigdom.QueryPort
	Reg    projdom.RegistryPort
	Adm    projdom.AdminPort
	Alrts  alertdom.WriterPort
	An     *opportunity.Analyzer
	Cfg    Config
	now    func() time.Time
}

// New constructs a new opportunity service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], p domain.Ports, lex *lexicon.Pack, cfg Config) *Service {
	if db == nil {
		panic("opportunity.Service requires a non nil TxRunner")
	}
	if b == nil {
		panic("opportunity.Service requires a non nil Repo binder")
	}
	if p.Signals == nil || p.Registry == nil || p.Admin == nil || p.Alerts == nil {
		panic("opportunity.Service requires Signals, Registry, Admin and Alerts ports")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.MinActivity <= 0 {
		cfg.MinActivity = 0.3
	}
	if cfg.TopLimit <= 0 {
		cfg.TopLimit = 20
	}
	return &Service{
		DB:     db,
		Binder: b,
		Sigs:   p.Signals,
		Reg:    p.Registry,
		Adm:    p.Admin,
		Alrts:  p.Alerts,
		An:     opportunity.New(lex),
		Cfg:    cfg,
		now:    time.Now,
	}
}

// ScoreProject implements domain.AnalyzerPort
func (s *Service) ScoreProject(ctx context.Context, name string) (domain.Assessment, error) {
	p, ok, err := s.Reg.Get(ctx, name)
	if err != nil {
		return domain.Assessment{}, err
	}
	if !ok {
		return domain.Assessment{}, errors.NotFoundf("project %q is not tracked", name)
	}
	return s.assess(ctx, p.Name, true)
}

// assess computes, persists and (optionally) alerts on one project snapshot
func (s *Service) assess(ctx context.Context, project string, alert bool) (domain.Assessment, error) {
	now := s.now().UTC()
	recs, err := s.Sigs.RecordsForProject(ctx, project, now.Add(-opportunity.TrendWindow))
	if err != nil {
		return domain.Assessment{}, errors.Wrapf(err, errors.ErrorCodeDB, "opportunity: load records for %s", project)
	}

	a := domain.Assessment{
		Project:     project,
		GeneratedAt: now,
		Snapshot:    s.An.Assess(now, toCore(recs)),
	}

	if err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).Upsert(ctx, a)
	}); err != nil {
		return domain.Assessment{}, errors.Wrapf(err, errors.ErrorCodeDB, "opportunity: store snapshot for %s", project)
	}

	if err := s.Adm.UpdateScore(ctx, project, a.Score, a.Worth); err != nil {
		return domain.Assessment{}, errors.Wrapf(err, errors.ErrorCodeDB, "opportunity: update project score for %s", project)
	}

	if alert {
		s.maybeAlert(ctx, a)
	}
	return a, nil
}

// maybeAlert raises an opportunity alert for strong scores. Best effort:
// the snapshot is already stored, a failed alert only warns
func (s *Service) maybeAlert(ctx context.Context, a domain.Assessment) {
	var level string
	switch {
	case a.Score >= alertHighScore:
		level = "high"
	case a.Score >= alertMediumScore:
		level = "medium"
	default:
		return
	}
	_, err := s.Alrts.Add(ctx, alertdom.AlertInput{
		Project:  a.Project,
		Kind:     alertdom.KindOpportunity,
		Message:  fmt.Sprintf("%s opportunity: %s scored %.1f (%s)", level, a.Project, a.Score, a.Type),
		Priority: a.Score / 100,
	})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("project", a.Project).Msg("opportunity: alert failed")
	}
}

// AnalyzeAll implements domain.AnalyzerPort
func (s *Service) AnalyzeAll(ctx context.Context) (domain.Report, error) {
	projects, err := s.Reg.ListActive(ctx)
	if err != nil {
		return domain.Report{}, errors.Wrapf(err, errors.ErrorCodeDB, "opportunity: list projects")
	}

	type slot struct {
		a    domain.Assessment
		err  error
		skip bool
	}
	out := make([]slot, len(projects))

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}
	for i := range projects {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			a, err := s.assess(ctx, projects[i].Name, true)
			if err != nil {
				out[i] = slot{err: err}
				return
			}
			if a.Components.Activity < s.Cfg.MinActivity {
				out[i] = slot{skip: true}
				return
			}
			out[i] = slot{a: a}
		}(i)
	}
	wg.Wait()

	rep := domain.Report{}
	for i := range out {
		switch {
		case out[i].err != nil:
			if rep.Failures == nil {
				rep.Failures = map[string]string{}
			}
			rep.Failures[projects[i].Name] = out[i].err.Error()
		case out[i].skip:
			rep.Skipped++
		default:
			rep.Assessments = append(rep.Assessments, out[i].a)
		}
	}
	sort.Slice(rep.Assessments, func(i, j int) bool {
		return rep.Assessments[i].Score > rep.Assessments[j].Score
	})
	return rep, nil
}

// Top implements domain.SnapshotPort
func (s *Service) Top(ctx context.Context, limit int) ([]domain.Assessment, error) {
	if limit <= 0 || limit > s.Cfg.TopLimit {
		limit = s.Cfg.TopLimit
	}
	var out []domain.Assessment
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).Top(ctx, limit)
		return err
	})
	return out, err
}

func toCore(recs []sigdom.Record) []opportunity.Record {
	out := make([]opportunity.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, opportunity.Record{
			At:         r.RecordedAt,
			Content:    r.Content,
			Categories: r.Categories,
			Context:    r.Context,
			Priority:   r.Priority,
		})
	}
	return out
}
