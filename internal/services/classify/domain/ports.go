// Package domain holds classify pipeline ports
package domain

import (
	"context"
	"time"

	"signalfarm/internal/core/classifier"
	"signalfarm/internal/core/discovery"
	alertdom "signalfarm/internal/services/alerts/domain"
	msgdom "signalfarm/internal/services/messages/domain"
	projdom "signalfarm/internal/services/projects/domain"
	sigdom "signalfarm/internal/services/signals/domain"
)

// Stats summarizes one pipeline run
type Stats struct {
	Messages   int      `json:"messages"`
	Records    int      `json:"records"`
	Candidates int      `json:"candidates"`
	Alerts     int      `json:"alerts"`
	Promoted   []string `json:"promoted,omitempty"`
}

// Preview is a dry classification of a single message, never persisted
type Preview struct {
	Classification classifier.Classification `json:"classification"`
	Candidates     []discovery.Candidate     `json:"candidates,omitempty"`
}

// RunnerPort is the external port for the classify job
type RunnerPort interface {
	// RunRange drains unprocessed messages inside [since, until), classifies
	// each one, persists signal records, observes discovery candidates and
	// promotes the eligible ones. Zero times mean unbounded
	RunRange(ctx context.Context, since, until time.Time) (Stats, error)
}

// PreviewPort classifies a message without touching storage
type PreviewPort interface {
	Preview(ctx context.Context, raw string, src classifier.Source) (Preview, error)
}

// Ports are dependencies injected into the classify module
type Ports struct {
	Messages msgdom.ReaderPort    // required
	Signals  sigdom.WriterPort    // required
	Registry projdom.RegistryPort // required
	Admin    projdom.AdminPort    // required
	Alerts   alertdom.WriterPort  // required
}
