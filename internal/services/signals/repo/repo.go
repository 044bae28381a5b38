// Package repo provides the signals repository implementation
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/signals/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the signals repository
type Storage interface {
	WriteBatch(ctx context.Context, xs []domain.RecordWrite) error
	RecordsForProject(ctx context.Context, project string, since time.Time) ([]domain.Record, error)
	RecentHighPriority(ctx context.Context, project string, since time.Time, minScore float64, limit int) ([]domain.Record, error)
	MentionCounts(ctx context.Context, since, until time.Time) ([]domain.MentionCount, error)
}

// WriteBatch implements Storage
func (s *pg) WriteBatch(ctx context.Context, xs []domain.RecordWrite) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO signals
		(message_id, project_name, recorded_at, categories, context,
		priority, content_norm, channel, source_type, source_weight) VALUES `)

	args := make([]any, 0, len(xs)*10)
	for i, r := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*10 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4,
			base+5, base+6, base+7, base+8, base+9)

		args = append(args,
			r.MessageID, r.Project, r.RecordedAt.UTC(), r.Categories, r.Context,
			r.Priority, r.Content, r.Channel, r.SourceType, r.Weight,
		)
	}
	// Write-once per (message, project)
	sb.WriteString(` ON CONFLICT (message_id, project_name) DO NOTHING`)
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

const recordCols = `
	s.message_id::text, s.project_name, s.recorded_at,
	s.categories, s.context, s.priority, s.content_norm`

// RecordsForProject implements Storage
func (s *pg) RecordsForProject(ctx context.Context, project string, since time.Time) ([]domain.Record, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+recordCols+`
		FROM signals s
		WHERE lower(s.project_name) = lower($1) AND s.recorded_at >= $2
		ORDER BY s.recorded_at, s.message_id`,
		project, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// RecentHighPriority implements Storage
func (s *pg) RecentHighPriority(
	ctx context.Context,
	project string,
	since time.Time,
	minScore float64,
	limit int,
) ([]domain.Record, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+recordCols+`
		FROM signals s
		WHERE lower(s.project_name) = lower($1)
			AND s.recorded_at >= $2
			AND s.priority >= $3
		ORDER BY s.priority DESC, s.recorded_at DESC
		LIMIT $4`,
		project, since.UTC(), minScore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// MentionCounts implements Storage
func (s *pg) MentionCounts(ctx context.Context, since, until time.Time) ([]domain.MentionCount, error) {
	rows, err := s.q.Query(ctx, `
		SELECT s.project_name, COUNT(*) AS mentions
		FROM signals s
		WHERE s.recorded_at >= $1 AND s.recorded_at < $2
		GROUP BY s.project_name
		ORDER BY mentions DESC, s.project_name`,
		since.UTC(), until.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MentionCount
	for rows.Next() {
		var mc domain.MentionCount
		if err := rows.Scan(&mc.Project, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

func collectRecords(rows repokit.Rows) ([]domain.Record, error) {
	var out []domain.Record
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(
			&r.MessageID, &r.Project, &r.RecordedAt,
			&r.Categories, &r.Context, &r.Priority, &r.Content,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
