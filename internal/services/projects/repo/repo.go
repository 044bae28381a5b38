// Package repo provides the projects registry repository implementation
package repo

import (
	"context"
	"strings"
	"time"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/projects/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the projects repository
type Storage interface {
	ListActive(ctx context.Context) ([]domain.Project, error)
	GetByName(ctx context.Context, name string) (domain.Project, bool, error)
	Channels(ctx context.Context) ([]domain.Channel, error)
	UpsertProject(ctx context.Context, p domain.Project) error
	UpsertChannel(ctx context.Context, c domain.Channel) error
	UpdateScore(ctx context.Context, name string, score float64, worth bool) error
	MarkWorth(ctx context.Context, name string) error
	ObserveCandidate(ctx context.Context, c domain.CandidateUpsert) error
	EligibleCandidates(ctx context.Context, minConfidence float64) ([]domain.Candidate, error)
	MarkPromoted(ctx context.Context, name string) error
	ListCandidates(ctx context.Context, limit int) ([]domain.Candidate, error)
}

const projectCols = `
	p.name, p.symbol, p.tier, p.keywords, p.contracts,
	p.tracking_reason, p.investment_type, p.active, p.discovered_from, p.created_at`

// ListActive implements Storage
func (s *pg) ListActive(ctx context.Context) ([]domain.Project, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+projectCols+`
		FROM projects p
		WHERE p.active
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByName implements Storage
func (s *pg) GetByName(ctx context.Context, name string) (domain.Project, bool, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+projectCols+`
		FROM projects p
		WHERE lower(p.name) = lower($1)
		LIMIT 1`, name)
	if err != nil {
		return domain.Project{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return domain.Project{}, false, rows.Err()
	}
	p, err := scanProject(rows)
	if err != nil {
		return domain.Project{}, false, err
	}
	return p, true, rows.Err()
}

// Channels implements Storage
func (s *pg) Channels(ctx context.Context) ([]domain.Channel, error) {
	rows, err := s.q.Query(ctx, `
		SELECT c.id, c.project_name, c.kind, c.weight
		FROM channels c
		JOIN projects p ON lower(p.name) = lower(c.project_name)
		WHERE p.active
		ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Channel
	for rows.Next() {
		var c domain.Channel
		if err := rows.Scan(&c.ID, &c.Project, &c.Kind, &c.Weight); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertProject implements Storage; name is the identity, case-insensitive
func (s *pg) UpsertProject(ctx context.Context, p domain.Project) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO projects
			(name, symbol, tier, keywords, contracts,
			tracking_reason, investment_type, active, discovered_from, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (lower(name)) DO UPDATE SET
			symbol = EXCLUDED.symbol,
			tier = EXCLUDED.tier,
			keywords = EXCLUDED.keywords,
			contracts = EXCLUDED.contracts,
			tracking_reason = EXCLUDED.tracking_reason,
			investment_type = EXCLUDED.investment_type,
			active = EXCLUDED.active`,
		p.Name, strings.ToUpper(p.Symbol), p.Tier, p.Keywords, p.Contracts,
		p.TrackingReason, p.InvestmentType, p.Active, p.DiscoveredFrom, p.CreatedAt)
	return err
}

// UpdateScore implements Storage; refreshes the derived opportunity fields
// without touching the project's identity or tracking material
func (s *pg) UpdateScore(ctx context.Context, name string, score float64, worth bool) error {
	_, err := s.q.Exec(ctx, `
		UPDATE projects SET
			opportunity_score = $2,
			worth_participating = $3,
			scored_at = now()
		WHERE lower(name) = lower($1)`,
		name, score, worth)
	return err
}

// MarkWorth implements Storage; flags a project as worth participating
// without waiting for its first opportunity snapshot
func (s *pg) MarkWorth(ctx context.Context, name string) error {
	_, err := s.q.Exec(ctx, `
		UPDATE projects SET worth_participating = TRUE
		WHERE lower(name) = lower($1)`, name)
	return err
}

// UpsertChannel implements Storage
func (s *pg) UpsertChannel(ctx context.Context, c domain.Channel) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO channels (id, project_name, kind, weight)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET
			project_name = EXCLUDED.project_name,
			kind = EXCLUDED.kind,
			weight = EXCLUDED.weight`,
		c.ID, c.Project, c.Kind, c.Weight)
	return err
}

// ObserveCandidate implements Storage. Repeated sightings bump the mention
// count and keep the best confidence seen so far
func (s *pg) ObserveCandidate(ctx context.Context, c domain.CandidateUpsert) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO project_candidates
			(name, confidence, origin, mentions, first_seen, last_seen, promoted)
		VALUES ($1,$2,$3,1,$4,$4,false)
		ON CONFLICT (lower(name)) DO UPDATE SET
			confidence = GREATEST(project_candidates.confidence, EXCLUDED.confidence),
			mentions = project_candidates.mentions + 1,
			last_seen = EXCLUDED.last_seen`,
		c.Name, c.Confidence, c.Origin, c.SeenAt.UTC())
	return err
}

// EligibleCandidates implements Storage
func (s *pg) EligibleCandidates(ctx context.Context, minConfidence float64) ([]domain.Candidate, error) {
	rows, err := s.q.Query(ctx, `
		SELECT name, confidence, origin, mentions, first_seen, last_seen, promoted
		FROM project_candidates
		WHERE NOT promoted AND confidence >= $1
		ORDER BY confidence DESC, name`, minConfidence)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCandidates(rows)
}

// MarkPromoted implements Storage
func (s *pg) MarkPromoted(ctx context.Context, name string) error {
	_, err := s.q.Exec(ctx,
		`UPDATE project_candidates SET promoted = true WHERE lower(name) = lower($1)`, name)
	return err
}

// ListCandidates implements Storage
func (s *pg) ListCandidates(ctx context.Context, limit int) ([]domain.Candidate, error) {
	rows, err := s.q.Query(ctx, `
		SELECT name, confidence, origin, mentions, first_seen, last_seen, promoted
		FROM project_candidates
		WHERE NOT promoted
		ORDER BY confidence DESC, last_seen DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCandidates(rows)
}

func scanProject(rows repokit.Rows) (domain.Project, error) {
	var p domain.Project
	var created time.Time
	err := rows.Scan(
		&p.Name, &p.Symbol, &p.Tier, &p.Keywords, &p.Contracts,
		&p.TrackingReason, &p.InvestmentType, &p.Active, &p.DiscoveredFrom, &created,
	)
	p.CreatedAt = created
	return p, err
}

func collectCandidates(rows repokit.Rows) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.Name, &c.Confidence, &c.Origin, &c.Mentions,
			&c.FirstSeen, &c.LastSeen, &c.Promoted,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
