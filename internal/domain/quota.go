package domain

import "time"

// FreeDailyLimit is the number of free chat turns granted per rolling 24h window.
const FreeDailyLimit = 15

// FreeResetWindow is the rolling window after which free usage resets.
const FreeResetWindow = 24 * time.Hour

// QuotaAccount is the per-user entitlement record. It is created lazily on the
// first admission check and mutated only through the ledger service.
type QuotaAccount struct {
	UserID           string
	FreeRequestsUsed int
	PaidBalance      int
	LastResetAt      time.Time
	UpdatedAt        time.Time
}

// AdmitSource says which bucket an admitted turn was charged against.
type AdmitSource string

const (
	AdmitSourceFree AdmitSource = "free"
	AdmitSourcePaid AdmitSource = "paid"
)

// Admission is the outcome of a single admit-and-consume step.
type Admission struct {
	Allowed       bool
	Source        AdmitSource
	FreeUsed      int
	PaidRemaining int
	ResetAt       time.Time
}

// Usage is the read-only entitlement snapshot returned to callers.
type Usage struct {
	FreeRequestsUsed      int       `json:"free_requests_used"`
	FreeRequestsRemaining int       `json:"free_requests_remaining"`
	PaidRequestsAvailable int       `json:"paid_requests_available"`
	ResetAt               time.Time `json:"reset_at"`
}

// UsageFromAccount derives the caller-facing snapshot from a ledger account.
func UsageFromAccount(acct *QuotaAccount) Usage {
	remaining := FreeDailyLimit - acct.FreeRequestsUsed
	if remaining < 0 {
		remaining = 0
	}
	return Usage{
		FreeRequestsUsed:      acct.FreeRequestsUsed,
		FreeRequestsRemaining: remaining,
		PaidRequestsAvailable: acct.PaidBalance,
		ResetAt:               acct.LastResetAt.Add(FreeResetWindow),
	}
}
