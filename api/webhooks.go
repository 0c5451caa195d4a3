package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobboard/internal/identity"
)

const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	verifier identity.Verifier
	syncer   *identity.Syncer
}

// NewWebhookHandler builds the identity webhook endpoint. A nil verifier
// means no signing secret is configured and every delivery is refused.
func NewWebhookHandler(v identity.Verifier, s *identity.Syncer) *WebhookHandler {
	return &WebhookHandler{verifier: v, syncer: s}
}

// Identity must see the body exactly as sent; the signature covers raw bytes.
func (h *WebhookHandler) Identity(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		logger.Error("identity webhook: secret not configured")
		writeJSON(w, envelope{"success": false, "message": "Webhook secret not configured"}, http.StatusInternalServerError)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, envelope{"success": false, "message": "Invalid webhook payload"}, http.StatusBadRequest)
		return
	}

	if err := h.verifier.Verify(payload, r.Header); err != nil {
		logger.Warn("identity webhook: verification failed", slog.Any("err", err))
		writeJSON(w, envelope{"success": false, "message": "Invalid webhook signature"}, http.StatusBadRequest)
		return
	}

	ev, err := identity.ParseEvent(r.Context(), payload)
	if err != nil {
		logger.Warn("identity webhook: bad payload", slog.Any("err", err))
		writeJSON(w, envelope{"success": false, "message": "Invalid webhook payload"}, http.StatusBadRequest)
		return
	}

	if _, err := h.syncer.Apply(r.Context(), ev); err != nil {
		body := envelope{"success": false, "message": "Webhook processing failed"}
		if exposeErrors {
			body["error"] = err.Error()
		}
		logger.Error("identity webhook: sync failed", slog.String("event", ev.Type), slog.Any("err", err))
		reportError(r, err)
		writeJSON(w, body, http.StatusInternalServerError)
		return
	}

	writeJSON(w, envelope{"success": true, "received": true}, http.StatusOK)
}
