// Package module wires ingest into the API using modkit
package module

import (
	"net/http"

	modkit "signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	str "signalfarm/internal/platform/strings"

	ihttp "signalfarm/internal/services/api/ingest/http"
	msgdom "signalfarm/internal/services/messages/domain"
)

// Ports declares the required injected worker port(s) for this API module
type Ports struct {
	Writer msgdom.WriterPort
}

// Module implements the ingest API module
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

// New constructs the ingest module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest"),
		modkit.WithPrefix("/messages"),
	}, opts...)...)

	ports, ok := b.Ports.(Ports)
	if !ok || ports.Writer == nil {
		panic("ingest module: expected WithPorts(ingest/module.Ports) with Writer")
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
		ihttp.Register(r, ports.Writer)
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
