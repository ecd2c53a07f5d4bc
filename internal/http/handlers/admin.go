package handlers

import "net/http"

// AdminStats serves the dashboard aggregate. Admin authentication is
// enforced by the router middleware.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Reporting.AdminStats(r.Context())
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}
