// Package domain holds projects API DTOs
package domain

import (
	projdom "signalfarm/internal/services/projects/domain"
)

// SeedInput upserts a set of tracked projects
// swagger:model
type SeedInput struct {
	Projects []projdom.SeedProject `json:"projects" validate:"required,min=1,dive"`
}

// CandidatesInput lists discovery candidates
// swagger:model
type CandidatesInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// PromoteInput promotes eligible candidates into tracked projects
// swagger:model
type PromoteInput struct {
	MinConfidence float64 `json:"min_confidence,omitempty" validate:"omitempty,gt=0,lte=1" example:"0.7"`
}

// PromoteResult reports promoted project names
// swagger:model
type PromoteResult struct {
	Promoted []string `json:"promoted"`
}
