// Package domain defines the core types and interfaces for the projects registry
package domain

import "time"

// Tier mirrors the registry priority buckets
const (
	TierHigh   = "high"
	TierMedium = "medium"
)

// Project is one tracked project with its identification material
type Project struct {
	Name            string
	Symbol          string
	Tier            string
	Keywords        []string
	Contracts       []string
	TrackingReason  string
	InvestmentType  string
	Active          bool
	DiscoveredFrom  string // candidate origin when auto-promoted, empty for seeded projects
	CreatedAt       time.Time
	OfficialChannel []string
	PartnerChannel  []string
}

// Channel is one tracked source channel bound to a project
type Channel struct {
	ID      string
	Project string
	Kind    string // "official" | "partner"
	Weight  float64
}

// Candidate is an unconfirmed project surfaced by discovery
type Candidate struct {
	Name       string
	Confidence float64
	Origin     string
	Mentions   int
	FirstSeen  time.Time
	LastSeen   time.Time
	Promoted   bool
}

// CandidateUpsert carries one discovery observation
type CandidateUpsert struct {
	Name       string
	Confidence float64
	Origin     string
	SeenAt     time.Time
}

// SeedProject is the bootstrap shape accepted by Seed
type SeedProject struct {
	Name             string   `json:"name" validate:"required"`
	Symbol           string   `json:"symbol"`
	Tier             string   `json:"tier" validate:"required,oneof=high medium"`
	Keywords         []string `json:"keywords"`
	Contracts        []string `json:"contracts"`
	OfficialChannels []string `json:"official_channels"`
	PartnerChannels  []string `json:"partner_channels"`
	TrackingReason   string   `json:"tracking_reason"`
	InvestmentType   string   `json:"investment_type"`
}
