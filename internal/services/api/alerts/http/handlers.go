// Package http provides http transport for the alert feed
package http

import (
	stdhttp "net/http"

	"signalfarm/internal/modkit/httpkit"
	alertdom "signalfarm/internal/services/alerts/domain"
	"signalfarm/internal/services/api/alerts/domain"
)

// Register mounts alert endpoints on the given router
func Register(r httpkit.Router, q alertdom.QueryPort) {
	h := &handlers{q: q}

	httpkit.PostJSON[domain.RecentInput](r, "/recent", h.recent)
	httpkit.PostJSON[domain.AckInput](r, "/ack", h.ack)
}

type handlers struct{ q alertdom.QueryPort }

// swagger:route POST /alerts/recent Alerts alertsRecent
// @Summary Recent alerts, newest first
// @Tags Alerts
// @Accept json
// @Produce json
// @Param payload body domain.RecentInput true "Filter"
// @Success 200 {array} alertdom.Alert "ok"
// @Router /alerts/recent [post]
func (h *handlers) recent(r *stdhttp.Request, in domain.RecentInput) (any, error) {
	return h.q.Recent(r.Context(), alertdom.ListInput{
		Project: in.Project,
		Kind:    in.Kind,
		Limit:   in.Limit,
	})
}

// swagger:route POST /alerts/ack Alerts alertsAck
// @Summary Acknowledge one alert
// @Tags Alerts
// @Accept json
// @Produce json
// @Param payload body domain.AckInput true "Alert id"
// @Success 200 {object} httpkit.Envelope "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /alerts/ack [post]
func (h *handlers) ack(r *stdhttp.Request, in domain.AckInput) (any, error) {
	if err := h.q.Acknowledge(r.Context(), in.ID); err != nil {
		return nil, err
	}
	return map[string]bool{"acknowledged": true}, nil
}
