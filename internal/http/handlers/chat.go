package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"aihelper/internal/domain"
	"aihelper/internal/middleware"
	"aihelper/internal/providers/chat"
)

const maxChatMessageLen = 4000

type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

type chatResponse struct {
	Reply  string       `json:"reply"`
	Source string       `json:"source"`
	Usage  domain.Usage `json:"usage"`
}

// Chat runs one assistant turn: admit against the ledger, generate, persist.
// Admission happens before any model call, so a denied turn costs nothing.
func (a *App) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-User-ID header is required")
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message is required")
		return
	}
	if len(req.Message) > maxChatMessageLen {
		a.error(w, http.StatusBadRequest, "bad_request", "message is too long")
		return
	}
	if len(req.History) > 50 {
		req.History = req.History[len(req.History)-50:]
	}

	// Makes sure a user row exists before the ledger account references it.
	userID, err := a.Identity.Resolve(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	admission, err := a.Ledger.Admit(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.Metrics.RecordAdmission(admission.Allowed, string(admission.Source))
	if !admission.Allowed {
		locale := middleware.LocaleFromContext(r.Context())
		a.json(w, http.StatusTooManyRequests, map[string]any{
			"error":   "quota_exhausted",
			"message": quotaExhaustedMessage(locale),
			"usage":   usagePayload(admission),
		})
		return
	}

	reply, err := a.Generator.Generate(r.Context(), req.Message, req.History)
	if err != nil {
		// The turn was already charged; surfacing a localized failure beats
		// silently swallowing the model error.
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("generation failed")
		locale := middleware.LocaleFromContext(r.Context())
		a.error(w, http.StatusBadGateway, "generation_failed", chatUnavailableMessage(locale))
		return
	}

	if err := a.Messages.AppendTurn(r.Context(), userID, req.Message, reply); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("failed to persist chat turn")
	}
	a.Metrics.RecordChatLatency(time.Since(start))

	a.json(w, http.StatusOK, chatResponse{
		Reply:  reply,
		Source: string(admission.Source),
		Usage:  usagePayload(admission),
	})
}

func usagePayload(adm domain.Admission) domain.Usage {
	remaining := domain.FreeDailyLimit - adm.FreeUsed
	if remaining < 0 {
		remaining = 0
	}
	return domain.Usage{
		FreeRequestsUsed:      adm.FreeUsed,
		FreeRequestsRemaining: remaining,
		PaidRequestsAvailable: adm.PaidRemaining,
		ResetAt:               adm.ResetAt,
	}
}
