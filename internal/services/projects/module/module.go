// Package module implements the projects registry module
package module

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"signalfarm/internal/core/lexicon"
	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/modkit/repokit"
	"signalfarm/internal/platform/logger"
	"signalfarm/internal/services/projects/domain"
	"signalfarm/internal/services/projects/repo"
	"signalfarm/internal/services/projects/service"
)

// Ports exposed by the projects module
type Ports struct {
	Registry domain.RegistryPort
	Admin    domain.AdminPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new projects module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	lex, err := lexicon.Load()
	if err != nil {
		panic(err)
	}

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, lex, service.Config{
		CandidateLimit: opts.CandidateLimit,
	})

	if opts.SeedFile != "" {
		seedFromFile(svc, opts.SeedFile)
	}

	m := &Module{deps: deps}
	m.ports = Ports{Registry: svc, Admin: svc}
	return m
}

// seedFromFile bootstraps the registry from a JSON file of seed projects.
// A bad seed file is a startup configuration error, same as a bad lexicon
func seedFromFile(svc *service.Service, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var seeds []domain.SeedProject
	if err := json.Unmarshal(raw, &seeds); err != nil {
		panic(err)
	}
	if err := svc.Seed(context.Background(), seeds); err != nil {
		panic(err)
	}
	logger.Named("projects").Info().Str("file", path).Int("projects", len(seeds)).Msg("registry seeded")
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "projects" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
