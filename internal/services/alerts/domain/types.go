// Package domain holds alerts domain types and ports
package domain

import "time"

// Kinds of alert we emit
const (
	KindHighPriority = "high_priority_signal"
	KindOpportunity  = "opportunity"
	KindCandidate    = "new_candidate"
)

// Alert is a single notification row
type Alert struct {
	ID           string    `json:"id"`
	Project      string    `json:"project"`
	Kind         string    `json:"kind"`
	Message      string    `json:"message"`
	Priority     float64   `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
	Acknowledged bool      `json:"acknowledged"`
}

// AlertInput is what callers provide; ID and CreatedAt are assigned on write
type AlertInput struct {
	Project  string
	Kind     string
	Message  string
	Priority float64
}

// ListInput filters Recent queries
type ListInput struct {
	Project string
	Kind    string
	Limit   int
}
