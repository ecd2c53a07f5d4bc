package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"aihelper/internal/billing"
	"aihelper/internal/domain"
	"aihelper/internal/identity"
	"aihelper/internal/ledger"
	"aihelper/internal/metrics"
	"aihelper/internal/providers/chat"
	"aihelper/internal/reporting"
)

// App bundles the service layer for the HTTP handlers.
type App struct {
	Ledger    *ledger.Service
	Billing   *billing.Service
	Identity  *identity.Resolver
	Reporting *reporting.Service
	Generator chat.Generator
	Messages  domain.MessageRepository
	Metrics   metrics.Recorder
	Logger    zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// domainError maps service-layer errors onto HTTP responses.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", trimCause(err))
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", trimCause(err))
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrGateway):
		a.error(w, http.StatusBadGateway, "gateway_error", "payment gateway unavailable")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func trimCause(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}

// currentUserID returns the client-held identifier presented on the request.
func (a *App) currentUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}
