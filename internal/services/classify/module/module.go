// Package module implements the classify module
package module

import (
	"net/http"

	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/services/classify/domain"
	"signalfarm/internal/services/classify/service"
)

// Ports exposed by the classify module
type Ports struct {
	Runner  domain.RunnerPort
	Preview domain.PreviewPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new classify module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("classify"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("classify module: expected WithPorts(classify/domain.Ports)")
	}
	if ports.Messages == nil || ports.Signals == nil {
		panic("classify module: Ports missing Messages or Signals")
	}
	if ports.Registry == nil || ports.Admin == nil || ports.Alerts == nil {
		panic("classify module: Ports missing Registry, Admin or Alerts")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}
	if overrides.PromoteConfidence != 0 {
		cfg.PromoteConfidence = overrides.PromoteConfidence
	}
	if overrides.AlertPriority != 0 {
		cfg.AlertPriority = overrides.AlertPriority
	}
	// bool override wins (defaults false if caller didn't set)
	cfg.DryRun = overrides.DryRun || cfg.DryRun

	lex, err := lexicon.Load()
	if err != nil {
		panic(err)
	}

	svc := service.New(ports, lex, service.Config{
		Workers:           cfg.Workers,
		PageSize:          cfg.PageSize,
		PromoteConfidence: cfg.PromoteConfidence,
		AlertPriority:     cfg.AlertPriority,
		DryRun:            cfg.DryRun,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc, Preview: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "classify" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
