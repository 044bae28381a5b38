// Package domain holds classify API DTOs
package domain

import "time"

// PreviewInput classifies a single message without persisting anything
// swagger:model
type PreviewInput struct {
	Text       string `json:"text"        validate:"required,max=20000" example:"Nimbus airdrop claim is live"`
	Channel    string `json:"channel,omitempty"     example:"nimbus_official"`
	SourceType string `json:"source_type,omitempty" validate:"omitempty,oneof=official partner community general" example:"community"`
}

// RunInput triggers a pipeline run over a message window. Zero times mean
// unbounded
// swagger:model
type RunInput struct {
	Since time.Time `json:"since,omitempty"`
	Until time.Time `json:"until,omitempty"`
}
