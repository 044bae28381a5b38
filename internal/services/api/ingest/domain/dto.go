// Package domain holds ingest API DTOs
package domain

import (
	"time"
)

// MessageInput is one raw message to ingest
// swagger:model
type MessageInput struct {
	Channel    string    `json:"channel"     example:"nimbus_official"`
	SourceType string    `json:"source_type" validate:"omitempty,oneof=official partner community general" example:"official"`
	PostedAt   time.Time `json:"posted_at,omitempty"`
	Content    string    `json:"content"     validate:"required,max=20000" example:"Airdrop claim is live, deadline Friday"`
}

// BatchInput ingests several messages in one call
// swagger:model
type BatchInput struct {
	Messages []MessageInput `json:"messages" validate:"required,min=1,max=1000,dive"`
}

// BatchResult reports per-message outcomes
// swagger:model
type BatchResult struct {
	Accepted int      `json:"accepted" example:"9"`
	Rejected int      `json:"rejected" example:"1"`
	IDs      []string `json:"ids"`
	Errors   []string `json:"errors,omitempty"`
}
