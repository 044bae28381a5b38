// Package http provides http transport for classify
package http

import (
	stdhttp "net/http"

	"signalfarm/internal/core/classifier"
	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/platform/logger"
	"signalfarm/internal/platform/net/middleware"
	"signalfarm/internal/services/api/classify/domain"
	clsdom "signalfarm/internal/services/classify/domain"
)

// Register mounts classify endpoints on the given router.
// Preview stays open; the pipeline run is an admin action behind auth
func Register(r httpkit.Router, preview clsdom.PreviewPort, runner clsdom.RunnerPort, auth middleware.AuthPort) {
	h := &handlers{preview: preview, runner: runner}

	httpkit.PostJSON[domain.PreviewInput](r, "/", h.classify)
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.PostJSON[domain.RunInput](pr, "/run", h.run)
	})
}

type handlers struct {
	preview clsdom.PreviewPort
	runner  clsdom.RunnerPort
}

// swagger:route POST /classify Classify classifyPreview
// @Summary Classify one message without persisting
// @Tags Classify
// @Accept json
// @Produce json
// @Param payload body domain.PreviewInput true "Message"
// @Success 200 {object} clsdom.Preview "ok"
// @Router /classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.PreviewInput) (any, error) {
	return h.preview.Preview(r.Context(), in.Text, classifier.Source{
		Channel: in.Channel,
		Type:    in.SourceType,
	})
}

// swagger:route POST /classify/run Classify classifyRun
// @Summary Run the classification pipeline over unprocessed messages
// @Tags Classify
// @Accept json
// @Produce json
// @Param payload body domain.RunInput true "Window"
// @Success 200 {object} clsdom.Stats "ok"
// @Router /classify/run [post]
func (h *handlers) run(r *stdhttp.Request, in domain.RunInput) (any, error) {
	if uid, err := httpkit.User(r); err == nil {
		logger.C(r.Context()).Info().Str("user", uid).Msg("pipeline run requested")
	}
	return h.runner.RunRange(r.Context(), in.Since, in.Until)
}
