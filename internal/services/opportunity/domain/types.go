// Package domain holds opportunity service types and ports
package domain

import (
	"time"

	"signalfarm/internal/core/opportunity"
)

// Assessment is one project's persisted opportunity snapshot
type Assessment struct {
	Project     string    `json:"project"`
	GeneratedAt time.Time `json:"generated_at"`
	opportunity.Snapshot
}

// Report is the outcome of a full portfolio sweep. Per-project failures are
// collected, never aborted on
type Report struct {
	Assessments []Assessment      `json:"assessments"`
	Skipped     int               `json:"skipped"`
	Failures    map[string]string `json:"failures,omitempty"`
}
