// Package domain defines core types and interfaces for messages
package domain

import "time"

// AfterKey supports stable keyset pagination over (posted_at, id)
type AfterKey struct {
	PostedAt time.Time
	ID       string // uuid
}

// IngestInput is one raw message entering the pipeline
type IngestInput struct {
	Channel    string    `json:"channel" validate:"omitempty,max=200"`
	SourceType string    `json:"source_type" validate:"omitempty,oneof=official partner community general"`
	PostedAt   time.Time `json:"posted_at"`
	Content    string    `json:"content" validate:"required,max=20000"`
}

// ListInput defines the input parameters for listing unprocessed messages
type ListInput struct {
	Since time.Time // inclusive, zero = from start
	Until time.Time // exclusive, zero = open ended
	After AfterKey  // zero value = from start
	Limit int       // hard-capped in service
}

// Message is the stored message view shared across consumers
type Message struct {
	ID         string // uuid
	Channel    string
	SourceType string
	PostedAt   time.Time
	Content    string
	Processed  bool
}
