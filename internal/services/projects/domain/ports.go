package domain

import (
	"context"

	"signalfarm/internal/core/classifier"
)

// RegistryPort is the read surface other modules use to resolve projects
type RegistryPort interface {
	// ListActive returns all active tracked projects
	ListActive(ctx context.Context) ([]Project, error)

	// Get returns a project by name (case-insensitive)
	Get(ctx context.Context, name string) (Project, bool, error)

	// Index builds the classifier lookup tables from the current registry
	Index(ctx context.Context) (*classifier.Index, error)
}

// AdminPort mutates the registry
type AdminPort interface {
	// Seed upserts the bootstrap projects and their channels; existing rows
	// keep their identity, discovery state is untouched
	Seed(ctx context.Context, seeds []SeedProject) error

	// Observe records one discovery observation, bumping mention counts
	Observe(ctx context.Context, c CandidateUpsert) error

	// PromoteEligible turns candidates at or above minConfidence into medium
	// tier projects and marks them promoted; returns the promoted names
	PromoteEligible(ctx context.Context, minConfidence float64) ([]string, error)

	// Candidates lists unpromoted candidates ordered by confidence
	Candidates(ctx context.Context, limit int) ([]Candidate, error)

	// UpdateScore refreshes the derived opportunity fields on a tracked
	// project after a snapshot recompute
	UpdateScore(ctx context.Context, name string, score float64, worth bool) error
}
