// Package repo provides repository implementations for alerts
package repo

import (
	"context"
	"fmt"
	"strings"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/alerts/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the alerts repository
type Storage interface {
	Insert(ctx context.Context, a domain.Alert) error
	Recent(ctx context.Context, in domain.ListInput) ([]domain.Alert, error)
	Acknowledge(ctx context.Context, id string) (bool, error)
}

// Insert implements Storage. Alerts are append-only
func (s *pg) Insert(ctx context.Context, a domain.Alert) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO alerts (id, project_name, kind, message, priority, created_at, acknowledged)
		VALUES ($1,$2,$3,$4,$5,$6,false)`,
		a.ID, a.Project, a.Kind, a.Message, a.Priority, a.CreatedAt)
	return err
}

// Recent implements Storage
func (s *pg) Recent(ctx context.Context, in domain.ListInput) ([]domain.Alert, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT a.id::text, a.project_name, a.kind, a.message, a.priority, a.created_at, a.acknowledged
		FROM alerts a
		WHERE true
	`)
	if in.Project != "" {
		sb.WriteString("  AND lower(a.project_name) = lower(" + arg(in.Project) + ")\n")
	}
	if in.Kind != "" {
		sb.WriteString("  AND a.kind = " + arg(in.Kind) + "\n")
	}
	sb.WriteString("ORDER BY a.created_at DESC, a.id\nLIMIT " + arg(in.Limit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Alert, 0, in.Limit)
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.Project, &a.Kind, &a.Message, &a.Priority, &a.CreatedAt, &a.Acknowledged); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Acknowledge implements Storage; returns false when the id does not exist
func (s *pg) Acknowledge(ctx context.Context, id string) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE alerts SET acknowledged = true
		WHERE id = $1::uuid AND NOT acknowledged`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
