// Package service provides the projects registry implementation
package service

import (
	"context"
	"time"

	"signalfarm/internal/core/classifier"
	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/platform/logger"
	"signalfarm/internal/services/projects/domain"
	"signalfarm/internal/services/projects/repo"
)

// Config for the projects service
type Config struct {
	// CandidateLimit caps the Candidates listing; defaults to 100 if <=0
	CandidateLimit int
}

// Service implements domain.RegistryPort and domain.AdminPort
type Service struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[repo.Storage]
	Lex    *lexicon.Pack
	Cfg    Config
}

// New constructs a new projects service
func New(db repokit.TxRunner, b repokit.Binder[repo.Storage], lex *lexicon.Pack, cfg Config) *Service {
	if db == nil {
		panic("projects.Service requires a non nil TxRunner")
	}
	if b == nil {
		panic("projects.Service requires a non nil Repo binder")
	}
	if lex == nil {
		panic("projects.Service requires a lexicon")
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 100
	}
	return &Service{DB: db, Binder: b, Lex: lex, Cfg: cfg}
}

// ListActive implements domain.RegistryPort
func (s *Service) ListActive(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).ListActive(ctx)
		return err
	})
	return out, err
}

// Get implements domain.RegistryPort
func (s *Service) Get(ctx context.Context, name string) (domain.Project, bool, error) {
	var (
		p  domain.Project
		ok bool
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		p, ok, err = s.Binder.Bind(q).GetByName(ctx, name)
		return err
	})
	return p, ok, err
}

// Index implements domain.RegistryPort: snapshot the registry into the
// classifier's immutable lookup tables
func (s *Service) Index(ctx context.Context) (*classifier.Index, error) {
	var (
		projects []domain.Project
		channels []domain.Channel
	)
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		var err error
		if projects, err = st.ListActive(ctx); err != nil {
			return err
		}
		channels, err = st.Channels(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	cps := make([]classifier.Project, 0, len(projects))
	for _, p := range projects {
		cps = append(cps, classifier.Project{
			Name:      p.Name,
			Symbol:    p.Symbol,
			Tier:      tierOf(p.Tier),
			Keywords:  p.Keywords,
			Contracts: p.Contracts,
		})
	}
	chs := make(map[string]classifier.Channel, len(channels))
	for _, c := range channels {
		chs[c.ID] = classifier.Channel{Project: c.Project, Weight: c.Weight, Kind: c.Kind}
	}
	return classifier.NewIndex(cps, chs), nil
}

// Seed implements domain.AdminPort
func (s *Service) Seed(ctx context.Context, seeds []domain.SeedProject) error {
	now := time.Now().UTC()
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		for _, sp := range seeds {
			if err := st.UpsertProject(ctx, domain.Project{
				Name:           sp.Name,
				Symbol:         sp.Symbol,
				Tier:           sp.Tier,
				Keywords:       sp.Keywords,
				Contracts:      sp.Contracts,
				TrackingReason: sp.TrackingReason,
				InvestmentType: sp.InvestmentType,
				Active:         true,
				CreatedAt:      now,
			}); err != nil {
				return err
			}
			for _, id := range sp.OfficialChannels {
				if err := st.UpsertChannel(ctx, s.channel(id, sp.Name, "official")); err != nil {
					return err
				}
			}
			for _, id := range sp.PartnerChannels {
				if err := st.UpsertChannel(ctx, s.channel(id, sp.Name, "partner")); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Service) channel(id, project, kind string) domain.Channel {
	w, ok := s.Lex.SourceWeights[kind]
	if !ok {
		w = s.Lex.DefaultSourceWeight()
	}
	return domain.Channel{ID: id, Project: project, Kind: kind, Weight: w}
}

// Observe implements domain.AdminPort
func (s *Service) Observe(ctx context.Context, c domain.CandidateUpsert) error {
	if c.SeenAt.IsZero() {
		c.SeenAt = time.Now().UTC()
	}
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).ObserveCandidate(ctx, c)
	})
}

// PromoteEligible implements domain.AdminPort. Promoted candidates become
// medium tier projects keyed by their own name
func (s *Service) PromoteEligible(ctx context.Context, minConfidence float64) ([]string, error) {
	var promoted []string
	now := time.Now().UTC()

	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		st := s.Binder.Bind(q)
		cands, err := st.EligibleCandidates(ctx, minConfidence)
		if err != nil {
			return err
		}
		for _, c := range cands {
			// A promoted candidate may collide with a project seeded in the
			// meantime; the upsert keeps the seeded row and just refreshes it
			if err := st.UpsertProject(ctx, domain.Project{
				Name:           c.Name,
				Tier:           domain.TierMedium,
				Keywords:       []string{c.Name},
				TrackingReason: "auto-promoted from discovery",
				Active:         true,
				DiscoveredFrom: c.Origin,
				CreatedAt:      now,
			}); err != nil {
				return err
			}
			if err := st.MarkPromoted(ctx, c.Name); err != nil {
				return err
			}
			// Very confident discoveries (0.8 and up) are flagged up front,
			// before any opportunity sweep has scored them
			if c.Confidence >= 0.8 {
				if err := st.MarkWorth(ctx, c.Name); err != nil {
					return err
				}
			}
			promoted = append(promoted, c.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(promoted) > 0 {
		logger.C(ctx).Info().Int("count", len(promoted)).Msg("projects: candidates promoted")
	}
	return promoted, nil
}

// Candidates implements domain.AdminPort
func (s *Service) Candidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	if limit <= 0 || limit > s.Cfg.CandidateLimit {
		limit = s.Cfg.CandidateLimit
	}
	var out []domain.Candidate
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.Binder.Bind(q).ListCandidates(ctx, limit)
		return err
	})
	return out, err
}

// UpdateScore implements domain.AdminPort
func (s *Service) UpdateScore(ctx context.Context, name string, score float64, worth bool) error {
	return s.DB.Tx(ctx, func(q repokit.Queryer) error {
		return s.Binder.Bind(q).UpdateScore(ctx, name, score, worth)
	})
}

func tierOf(t string) classifier.Tier {
	if t == domain.TierHigh {
		return classifier.TierHigh
	}
	return classifier.TierMedium
}
