// Package module implements the opportunity module
package module

import (
	"net/http"

	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/opportunity/domain"
	"signalfarm/internal/services/opportunity/repo"
	"signalfarm/internal/services/opportunity/service"
)

// Ports exposed by the opportunity module
type Ports struct {
	Analyzer  domain.AnalyzerPort
	Snapshots domain.SnapshotPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new opportunity module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("opportunity"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("opportunity module: expected WithPorts(opportunity/domain.Ports)")
	}

	cfg := FromConfig(deps.Cfg)

	lex, err := lexicon.Load()
	if err != nil {
		panic(err)
	}

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, ports, lex, service.Config{
		Workers:     cfg.Workers,
		MinActivity: cfg.MinActivity,
		TopLimit:    cfg.TopLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Analyzer: svc, Snapshots: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "opportunity" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
