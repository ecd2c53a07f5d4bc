package handlers

import (
	"encoding/json"
	"net/http"
)

type identityRequest struct {
	UserID string `json:"user_id"`
}

// IdentityResolve returns a usable user identifier for the client to keep.
// An omitted or empty user_id mints a fresh one.
func (a *App) IdentityResolve(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
	}
	id, err := a.Identity.Resolve(r.Context(), req.UserID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"user_id": id})
}

type bindProfileRequest struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Email  string `json:"email"`
}

// IdentityBind attaches registration details to the calling user.
func (a *App) IdentityBind(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-User-ID header is required")
		return
	}
	var req bindProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Identity.BindProfile(r.Context(), userID, req.Name, req.Handle, req.Email); err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
