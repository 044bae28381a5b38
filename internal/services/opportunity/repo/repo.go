// Package repo provides repository implementations for opportunity snapshots
package repo

import (
	"context"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/opportunity/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the opportunity snapshot repository. One row per project,
// replaced on every assessment
type Storage interface {
	Upsert(ctx context.Context, a domain.Assessment) error
	Top(ctx context.Context, limit int) ([]domain.Assessment, error)
}

const snapshotCols = `
	s.project_name, s.opp_type, s.type_confidence, s.effort, s.time_sensitivity,
	s.activity, s.growth, s.sentiment, s.urgency, s.roi,
	s.score, s.worth_participating, s.generated_at`

// Upsert implements Storage
func (s *pg) Upsert(ctx context.Context, a domain.Assessment) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO opportunity_snapshots
			(project_name, opp_type, type_confidence, effort, time_sensitivity,
			 activity, growth, sentiment, urgency, roi,
			 score, worth_participating, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (lower(project_name)) DO UPDATE SET
			opp_type = EXCLUDED.opp_type,
			type_confidence = EXCLUDED.type_confidence,
			effort = EXCLUDED.effort,
			time_sensitivity = EXCLUDED.time_sensitivity,
			activity = EXCLUDED.activity,
			growth = EXCLUDED.growth,
			sentiment = EXCLUDED.sentiment,
			urgency = EXCLUDED.urgency,
			roi = EXCLUDED.roi,
			score = EXCLUDED.score,
			worth_participating = EXCLUDED.worth_participating,
			generated_at = EXCLUDED.generated_at`,
		a.Project, a.Type, a.TypeConfidence, a.Effort, a.TimeSensitivity,
		a.Components.Activity, a.Components.Growth, a.Components.Sentiment,
		a.Components.Urgency, a.Components.ROI,
		a.Score, a.Worth, a.GeneratedAt)
	return err
}

// Top implements Storage
func (s *pg) Top(ctx context.Context, limit int) ([]domain.Assessment, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+snapshotCols+`
		FROM opportunity_snapshots s
		ORDER BY s.score DESC, s.project_name
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Assessment, 0, limit)
	for rows.Next() {
		var a domain.Assessment
		if err := rows.Scan(
			&a.Project, &a.Type, &a.TypeConfidence, &a.Effort, &a.TimeSensitivity,
			&a.Components.Activity, &a.Components.Growth, &a.Components.Sentiment,
			&a.Components.Urgency, &a.Components.ROI,
			&a.Score, &a.Worth, &a.GeneratedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
