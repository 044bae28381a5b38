// Package http provides http transport for message ingest
package http

import (
	stdhttp "net/http"

	"signalfarm/internal/modkit/httpkit"
	"signalfarm/internal/services/api/ingest/domain"
	msgdom "signalfarm/internal/services/messages/domain"
)

// Register mounts ingest endpoints on the given router
func Register(r httpkit.Router, w msgdom.WriterPort) {
	h := &handlers{writer: w}

	httpkit.PostJSON[domain.MessageInput](r, "/", h.one)
	httpkit.PostJSON[domain.BatchInput](r, "/batch", h.batch)
}

type handlers struct{ writer msgdom.WriterPort }

// swagger:route POST /messages Messages messagesIngest
// @Summary Ingest one raw message
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body domain.MessageInput true "Message"
// @Success 200 {object} msgdom.Message "ok"
// @Router /messages [post]
func (h *handlers) one(r *stdhttp.Request, in domain.MessageInput) (any, error) {
	return h.writer.Ingest(r.Context(), msgdom.IngestInput{
		Channel:    in.Channel,
		SourceType: in.SourceType,
		PostedAt:   in.PostedAt,
		Content:    in.Content,
	})
}

// swagger:route POST /messages/batch Messages messagesIngestBatch
// @Summary Ingest a batch of raw messages
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Batch"
// @Success 200 {object} domain.BatchResult "ok"
// @Router /messages/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	out := domain.BatchResult{IDs: make([]string, 0, len(in.Messages))}
	for _, mi := range in.Messages {
		m, err := h.writer.Ingest(r.Context(), msgdom.IngestInput{
			Channel:    mi.Channel,
			SourceType: mi.SourceType,
			PostedAt:   mi.PostedAt,
			Content:    mi.Content,
		})
		if err != nil {
			out.Rejected++
			out.Errors = append(out.Errors, err.Error())
			continue
		}
		out.Accepted++
		out.IDs = append(out.IDs, m.ID)
	}
	return out, nil
}
