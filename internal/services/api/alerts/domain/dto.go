// Package domain holds alerts API DTOs
package domain

// RecentInput filters the alert feed
// swagger:model
type RecentInput struct {
	Project string `json:"project,omitempty" example:"Nimbus"`
	Kind    string `json:"kind,omitempty"    validate:"omitempty,oneof=high_priority_signal opportunity new_candidate" example:"opportunity"`
	Limit   int    `json:"limit,omitempty"   validate:"omitempty,min=1,max=200" example:"25"`
}

// AckInput acknowledges one alert
// swagger:model
type AckInput struct {
	ID string `json:"id" validate:"required,uuid4" example:"8f14e45f-ceea-467f-9d9f-3b2c6d8a1e42"`
}
