// Package http provides http transport for opportunity analysis
package http

import (
	stdhttp "net/http"

	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/platform/net/middleware"
	"signalfarm/internal/services/api/opportunity/domain"
	oppdom "signalfarm/internal/services/opportunity/domain"
)

// Register mounts opportunity endpoints on the given router.
// Single-project scoring stays open; the full sweep is admin-only
func Register(r httpkit.Router, an oppdom.AnalyzerPort, snaps oppdom.SnapshotPort, auth middleware.AuthPort) {
	h := &handlers{an: an, snaps: snaps}

	httpkit.PostJSON[domain.ScoreInput](r, "/score", h.score)
	httpkit.PostJSON[domain.TopInput](r, "/top", h.top)
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Post(pr, "/analyze", h.analyze)
	})
}

type handlers struct {
	an    oppdom.AnalyzerPort
	snaps oppdom.SnapshotPort
}

// swagger:route POST /opportunity/score Opportunity opportunityScore
// @Summary Assess one tracked project
// @Tags Opportunity
// @Accept json
// @Produce json
// @Param payload body domain.ScoreInput true "Project"
// @Success 200 {object} oppdom.Assessment "ok"
// @Failure 404 {object} httpkit.Envelope "not tracked"
// @Router /opportunity/score [post]
func (h *handlers) score(r *stdhttp.Request, in domain.ScoreInput) (any, error) {
	return h.an.ScoreProject(r.Context(), in.Project)
}

// swagger:route POST /opportunity/analyze Opportunity opportunityAnalyze
// @Summary Sweep every active project
// @Tags Opportunity
// @Produce json
// @Success 200 {object} oppdom.Report "ok"
// @Router /opportunity/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request) (any, error) {
	return h.an.AnalyzeAll(r.Context())
}

// swagger:route POST /opportunity/top Opportunity opportunityTop
// @Summary Highest-scoring stored snapshots
// @Tags Opportunity
// @Accept json
// @Produce json
// @Param payload body domain.TopInput true "Query"
// @Success 200 {array} oppdom.Assessment "ok"
// @Router /opportunity/top [post]
func (h *handlers) top(r *stdhttp.Request, in domain.TopInput) (any, error) {
	return h.snaps.Top(r.Context(), in.Limit)
}
