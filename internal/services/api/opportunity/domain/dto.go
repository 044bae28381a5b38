// Package domain holds opportunity API DTOs
package domain

// ScoreInput assesses one tracked project
// swagger:model
type ScoreInput struct {
	Project string `json:"project" validate:"required" example:"Nimbus"`
}

// TopInput lists the highest-scoring stored snapshots
// swagger:model
type TopInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"10"`
}
