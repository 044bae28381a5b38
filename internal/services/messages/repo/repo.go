// Package repo provides repository implementations for messages
package repo

import (
	"context"
	"fmt"
	"strings"

	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/messages/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the messages repository
type Storage interface {
	Insert(ctx context.Context, m domain.Message) error
	ListUnprocessed(ctx context.Context, in domain.ListInput, hardLimit int) ([]domain.Message, domain.AfterKey, error)
	MarkProcessed(ctx context.Context, ids []string) error
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, m domain.Message) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO messages (id, channel, source_type, posted_at, content, processed)
		VALUES ($1,$2,$3,$4,$5,false)
		ON CONFLICT (id) DO NOTHING`,
		m.ID, m.Channel, m.SourceType, m.PostedAt, m.Content)
	return err
}

// ListUnprocessed implements Storage
func (s *pg) ListUnprocessed(
	ctx context.Context,
	in domain.ListInput,
	hardLimit int,
) ([]domain.Message, domain.AfterKey, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT m.id::text, m.channel, m.source_type, m.posted_at, m.content, m.processed
		FROM messages m
		WHERE NOT m.processed
	`)
	if !in.Since.IsZero() {
		sb.WriteString("  AND m.posted_at >= " + arg(in.Since) + "\n")
	}
	if !in.Until.IsZero() {
		sb.WriteString("  AND m.posted_at < " + arg(in.Until) + "\n")
	}
	// Keyset only when AfterKey is set (avoid ""::uuid on first page)
	if in.After.ID != "" {
		sb.WriteString("  AND (m.posted_at, m.id) > (" + arg(in.After.PostedAt) + ", " + arg(in.After.ID) + "::uuid)\n")
	}
	sb.WriteString("ORDER BY m.posted_at, m.id\nLIMIT " + arg(hardLimit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, domain.AfterKey{}, err
	}
	defer rows.Close()

	out := make([]domain.Message, 0, hardLimit)
	var last domain.AfterKey
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Channel, &m.SourceType, &m.PostedAt, &m.Content, &m.Processed); err != nil {
			return nil, domain.AfterKey{}, err
		}
		out = append(out, m)
		last = domain.AfterKey{PostedAt: m.PostedAt, ID: m.ID}
	}
	return out, last, rows.Err()
}

// MarkProcessed implements Storage
func (s *pg) MarkProcessed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.q.Exec(ctx, `
		UPDATE messages SET processed = true, processed_at = now()
		WHERE id = ANY($1::uuid[])`, ids)
	return err
}
