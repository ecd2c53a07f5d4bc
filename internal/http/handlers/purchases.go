package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"aihelper/internal/billing"
	"aihelper/internal/domain"
	"aihelper/internal/middleware"
)

// PackagesList returns the sellable credit packages.
func (a *App) PackagesList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": billing.Catalog()})
}

type purchaseRequest struct {
	PackageType   string `json:"package_type"`
	Amount        int64  `json:"amount"`
	RequestsCount int    `json:"requests_count"`
}

type purchaseResponse struct {
	ID         string `json:"id"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
}

// PurchasesCreate records a purchase intent and returns the hosted checkout
// URL. The catalog is authoritative for price and grant.
func (a *App) PurchasesCreate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-User-ID header is required")
		return
	}
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	p, err := a.Billing.CreatePurchase(r.Context(), billing.PurchaseIntent{
		UserID:          userID,
		PackageType:     domain.PackageType(req.PackageType),
		AmountMinor:     req.Amount,
		RequestsGranted: req.RequestsCount,
		ClientIP:        middleware.ClientIP(r),
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.Metrics.RecordPurchaseCreated(string(p.PackageType))
	a.json(w, http.StatusCreated, purchaseResponse{
		ID:         p.ID,
		PaymentURL: p.PaymentURL,
		Status:     string(p.Status),
		Amount:     p.AmountMinor,
	})
}

type purchaseItem struct {
	ID            string     `json:"id"`
	PackageType   string     `json:"package_type"`
	Amount        int64      `json:"amount"`
	RequestsCount int        `json:"requests_count"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// PurchasesList returns the caller's purchase history, newest first.
func (a *App) PurchasesList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "X-User-ID header is required")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	purchases, err := a.Billing.ListPurchases(r.Context(), userID, limit)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	items := make([]purchaseItem, 0, len(purchases))
	for _, p := range purchases {
		items = append(items, purchaseItem{
			ID:            p.ID,
			PackageType:   string(p.PackageType),
			Amount:        p.AmountMinor,
			RequestsCount: p.RequestsGranted,
			Status:        string(p.Status),
			CreatedAt:     p.CreatedAt,
			PaidAt:        p.PaidAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
