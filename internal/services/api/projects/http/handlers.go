// Package http provides http transport for the project registry
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/platform/errors"
	"signalfarm/internal/platform/net/middleware"
	"signalfarm/internal/services/api/projects/domain"
	projdom "signalfarm/internal/services/projects/domain"
)

// Register mounts project registry endpoints on the given router.
// Reads stay open; registry mutations are admin actions behind auth
func Register(r httpkit.Router, reg projdom.RegistryPort, admin projdom.AdminPort, auth middleware.AuthPort) {
	h := &handlers{reg: reg, admin: admin}

	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/{name}", h.get)
	httpkit.PostJSON[domain.CandidatesInput](r, "/candidates", h.candidates)
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.SeedInput](pr, "/seed", h.seed)
		httpkit.PostJSON[domain.PromoteInput](pr, "/promote", h.promote)
	})
}

type handlers struct {
	reg   projdom.RegistryPort
	admin projdom.AdminPort
}

// swagger:route GET /projects Projects projectsList
// @Summary List active tracked projects
// @Tags Projects
// @Produce json
// @Success 200 {array} projdom.Project "ok"
// @Router /projects [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.reg.ListActive(r.Context())
}

// swagger:route GET /projects/{name} Projects projectsGet
// @Summary Fetch one tracked project by name
// @Tags Projects
// @Produce json
// @Param name path string true "Project name (case-insensitive)"
// @Success 200 {object} projdom.Project "ok"
// @Failure 404 {object} map[string]any "not tracked"
// @Router /projects/{name} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	name := chi.URLParam(r, "name")
	p, ok, err := h.reg.Get(r.Context(), name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NotFoundf("project %q is not tracked", name)
	}
	return p, nil
}

// swagger:route POST /projects/seed Projects projectsSeed
// @Summary Upsert tracked projects and their channels
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body domain.SeedInput true "Projects"
// @Success 200 {array} projdom.Project "ok"
// @Router /projects/seed [post]
func (h *handlers) seed(r *stdhttp.Request, in domain.SeedInput) (any, error) {
	if err := h.admin.Seed(r.Context(), in.Projects); err != nil {
		return nil, err
	}
	return h.reg.ListActive(r.Context())
}

// swagger:route POST /projects/candidates Projects projectsCandidates
// @Summary List unpromoted discovery candidates
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body domain.CandidatesInput true "Query"
// @Success 200 {array} projdom.Candidate "ok"
// @Router /projects/candidates [post]
func (h *handlers) candidates(r *stdhttp.Request, in domain.CandidatesInput) (any, error) {
	return h.admin.Candidates(r.Context(), in.Limit)
}

// swagger:route POST /projects/promote Projects projectsPromote
// @Summary Promote eligible candidates into tracked projects
// @Tags Projects
// @Accept json
// @Produce json
// @Param payload body domain.PromoteInput true "Threshold"
// @Success 200 {object} domain.PromoteResult "ok"
// @Router /projects/promote [post]
func (h *handlers) promote(r *stdhttp.Request, in domain.PromoteInput) (any, error) {
	threshold := in.MinConfidence
	if threshold == 0 {
		threshold = 0.7
	}
	names, err := h.admin.PromoteEligible(r.Context(), threshold)
	if err != nil {
		return nil, err
	}
	return domain.PromoteResult{Promoted: names}, nil
}
