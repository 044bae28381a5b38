// Package domain defines the types and interfaces for the signals service
package domain

import "time"

// RecordWrite is one classification record to persist. Records are write-once:
// re-processing the same message for the same project is a no-op
type RecordWrite struct {
	MessageID  string // uuid, required
	Project    string // required
	RecordedAt time.Time
	Categories []string
	Context    []string
	Priority   float64
	Content    string // normalized text
	Channel    string
	SourceType string
	Weight     float64
}

// Record is the read view the opportunity engine consumes
type Record struct {
	MessageID  string
	Project    string
	RecordedAt time.Time
	Categories []string
	Context    []string
	Priority   float64
	Content    string
}

// MentionCount is one project's record count inside a window
type MentionCount struct {
	Project string
	Count   int64
}
