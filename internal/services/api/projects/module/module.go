// Package module wires the project registry into the API using modkit
package module

import (
	"net/http"

	modkit "signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/platform/net/middleware"
	str "signalfarm/internal/platform/strings"

	phttp "signalfarm/internal/services/api/projects/http"
	projdom "signalfarm/internal/services/projects/domain"
)

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Registry projdom.RegistryPort
	Admin    projdom.AdminPort

	// Auth guards the registry-mutating endpoints; nil leaves them open
	Auth middleware.AuthPort
}

// Module implements the projects API module
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

// New constructs the projects API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("projects-api"),
		modkit.WithPrefix("/projects"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Registry == nil || ports.Admin == nil {
		panic("projects api module: expected WithPorts(projects/module.Ports) with Registry and Admin")
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
		phttp.Register(r, ports.Registry, ports.Admin, ports.Auth)
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
