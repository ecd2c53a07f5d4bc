package handlers

import (
	"errors"
	"io"
	"net/http"

	"aihelper/internal/domain"
)

const maxWebhookBody = 1 << 20

// PaymentWebhook applies one gateway notification. The response code drives
// the gateway's retry behavior: 2xx acknowledges, 4xx/5xx makes it retry.
func (a *App) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.Metrics.RecordWebhook("read_error")
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable body")
		return
	}
	signature := r.Header.Get("X-Webhook-Signature")

	err = a.Billing.HandleWebhook(r.Context(), body, signature)
	switch {
	case err == nil:
		a.Metrics.RecordWebhook("ok")
		a.json(w, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, domain.ErrUnauthorized):
		a.Metrics.RecordWebhook("bad_signature")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid signature")
	case errors.Is(err, domain.ErrValidation):
		a.Metrics.RecordWebhook("malformed")
		a.error(w, http.StatusBadRequest, "bad_request", trimCause(err))
	case errors.Is(err, domain.ErrNotFound):
		a.Metrics.RecordWebhook("unknown_payment")
		a.error(w, http.StatusNotFound, "not_found", "unknown payment")
	default:
		a.Metrics.RecordWebhook("error")
		a.Logger.Error().Err(err).Msg("webhook processing failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
