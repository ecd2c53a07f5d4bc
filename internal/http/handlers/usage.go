package handlers

import "net/http"

// UsageGet returns the caller's entitlement snapshot without consuming
// anything.
func (a *App) UsageGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-User-ID header is required")
		return
	}
	userID, err := a.Identity.Resolve(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	usage, err := a.Ledger.Usage(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, usage)
}
