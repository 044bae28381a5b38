package domain

import (
	"context"
	"time"
)

// WriterPort writes classification records
type WriterPort interface {
	// WriteBatch persists records idempotently (ON CONFLICT DO NOTHING)
	WriteBatch(ctx context.Context, xs []RecordWrite) error
}

// QueryPort reads records for aggregation
type QueryPort interface {
	// RecordsForProject returns all records for a project since the cutoff,
	// oldest first
	RecordsForProject(ctx context.Context, project string, since time.Time) ([]Record, error)

	// RecentHighPriority returns up to limit records at or above minScore
	// since the cutoff, highest priority first
	RecentHighPriority(ctx context.Context, project string, since time.Time, minScore float64, limit int) ([]Record, error)

	// MentionCounts returns per-project record counts inside [since, until)
	MentionCounts(ctx context.Context, since, until time.Time) ([]MentionCount, error)
}
