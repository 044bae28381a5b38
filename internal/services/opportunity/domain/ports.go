package domain

import (
	"context"

	alertdom "signalfarm/internal/services/alerts/domain"
	projdom "signalfarm/internal/services/projects/domain"
	sigdom "signalfarm/internal/services/signals/domain"
)

// AnalyzerPort scores projects from their signal history
type AnalyzerPort interface {
	// ScoreProject assesses one tracked project and persists the snapshot
	ScoreProject(ctx context.Context, name string) (Assessment, error)

	// AnalyzeAll sweeps every active project, skipping the ones below the
	// activity floor, and returns the surviving assessments sorted by score
	AnalyzeAll(ctx context.Context) (Report, error)
}

// SnapshotPort reads persisted snapshots back
type SnapshotPort interface {
	// Top returns the highest-scoring stored snapshots
	Top(ctx context.Context, limit int) ([]Assessment, error)
}

// Ports are dependencies injected into the opportunity module
type Ports struct {
	Signals  sigdom.QueryPort     // required
	Registry projdom.RegistryPort // required
	Admin    projdom.AdminPort    // required
	Alerts   alertdom.WriterPort  // required
}
