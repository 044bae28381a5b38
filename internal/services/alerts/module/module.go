// Package module provides the alerts module
package module

import (
	"net/http"

	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/services/alerts/domain"
	"signalfarm/internal/services/alerts/repo"
	"signalfarm/internal/services/alerts/service"
)

// Ports exposed by the alerts module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new alerts module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Writer: svc, Query: svc}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "alerts" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix implements modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares implements modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
