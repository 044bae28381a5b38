// Package module wires opportunity analysis into the API using modkit
package module

import (
	"net/http"

	modkit "signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/platform/net/middleware"
	str "signalfarm/internal/platform/strings"

	ohttp "signalfarm/internal/services/api/opportunity/http"
	oppdom "signalfarm/internal/services/opportunity/domain"
)

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Analyzer  oppdom.AnalyzerPort
	Snapshots oppdom.SnapshotPort

	// Auth guards the full-sweep endpoint; nil leaves it open
	Auth middleware.AuthPort
}

// Module implements the opportunity API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the opportunity API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("opportunity-api"),
		modkit.WithPrefix("/opportunity"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Analyzer == nil || ports.Snapshots == nil {
		panic("opportunity api module: expected WithPorts(opportunity/module.Ports) with Analyzer and Snapshots")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		ports:     ports,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ohttp.Register(r, ports.Analyzer, ports.Snapshots, ports.Auth)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
