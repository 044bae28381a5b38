// Package api provides the HTTP API for the application
package api

import (
	"crypto/subtle"

	"signalfarm/internal/platform/config"
	"signalfarm/internal/platform/errors"
	"signalfarm/internal/platform/logger"
	phttp "signalfarm/internal/platform/net/http"
	"signalfarm/internal/platform/net/middleware"
	"signalfarm/internal/platform/store"

	"signalfarm/internal/modkit"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/modkit/module"
	"signalfarm/internal/modkit/swaggerkit"

	apialerts "signalfarm/internal/services/api/alerts/module"
	apiclassify "signalfarm/internal/services/api/classify/module"
	apiingest "signalfarm/internal/services/api/ingest/module"
	metamod "signalfarm/internal/services/api/meta/module"
	apiopportunity "signalfarm/internal/services/api/opportunity/module"
	apiprojects "signalfarm/internal/services/api/projects/module"

	alertsmod "signalfarm/internal/services/alerts/module"
	classifydom "signalfarm/internal/services/classify/domain"
	classifymod "signalfarm/internal/services/classify/module"
	messagesmod "signalfarm/internal/services/messages/module"
	oppdom "signalfarm/internal/services/opportunity/domain"
	oppmod "signalfarm/internal/services/opportunity/module"
	projectsmod "signalfarm/internal/services/projects/module"
	signalsmod "signalfarm/internal/services/signals/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Worker modules first; the API modules borrow their ports
	messages := messagesmod.New(deps)
	signals := signalsmod.New(deps)
	projects := projectsmod.New(deps)
	alerts := alertsmod.New(deps)

	msgPorts := messages.Ports().(messagesmod.Ports)
	sigPorts := signals.Ports().(signalsmod.Ports)
	projPorts := projects.Ports().(projectsmod.Ports)
	alertPorts := alerts.Ports().(alertsmod.Ports)

	authPort := adminAuth(opt.Config)

	classify := classifymod.New(deps, classifymod.Options{}, modkit.WithPorts(classifydom.Ports{
		Messages: msgPorts.Reader,
		Signals:  sigPorts.Writer,
		Registry: projPorts.Registry,
		Admin:    projPorts.Admin,
		Alerts:   alertPorts.Writer,
	}))

	opportunity := oppmod.New(deps, modkit.WithPorts(oppdom.Ports{
		Signals:  sigPorts.Query,
		Registry: projPorts.Registry,
		Admin:    projPorts.Admin,
		Alerts:   alertPorts.Writer,
	}))

	mods := []module.Module{
		metamod.New(deps),
		apiingest.New(deps, modkit.WithPorts(apiingest.Ports{
			Writer: msgPorts.Writer,
		})),
		apiclassify.New(deps, modkit.WithPorts(apiclassify.Ports{
			Preview: module.MustPortsOf[classifymod.Ports](classify).Preview,
			Runner:  module.MustPortsOf[classifymod.Ports](classify).Runner,
			Auth:    authPort,
		})),
		apiprojects.New(deps, modkit.WithPorts(apiprojects.Ports{
			Registry: projPorts.Registry,
			Admin:    projPorts.Admin,
			Auth:     authPort,
		})),
		apiopportunity.New(deps, modkit.WithPorts(apiopportunity.Ports{
			Analyzer:  module.MustPortsOf[oppmod.Ports](opportunity).Analyzer,
			Snapshots: module.MustPortsOf[oppmod.Ports](opportunity).Snapshots,
			Auth:      authPort,
		})),
		apialerts.New(deps, modkit.WithPorts(apialerts.Ports{
			Query: alertPorts.Query,
		})),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// worker modules register their ports for cross-module lookups
		for _, w := range []module.Module{messages, signals, projects, alerts, classify, opportunity} {
			module.Register(w.Name(), w.Ports())
		}

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}

// adminAuth builds the bearer-token port guarding mutating endpoints.
// Returns nil when no token is configured, which leaves those routes open
func adminAuth(cfg config.Conf) middleware.AuthPort {
	token := cfg.Prefix("CORE_API_").MayString("ADMIN_TOKEN", "")
	if token == "" {
		return nil
	}
	return httpkit.NewPortFunc(func(raw string) (string, string, error) {
		if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
			return "", "", errors.Unauthorizedf("invalid bearer token")
		}
		return "admin", "", nil
	})
}
