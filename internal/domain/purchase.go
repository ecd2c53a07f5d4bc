package domain

import "time"

// PackageType enumerates purchasable credit packages.
type PackageType string

const (
	PackageStandard PackageType = "standard"
	PackagePro      PackageType = "pro"
)

// PurchaseStatus enumerates the purchase lifecycle.
type PurchaseStatus string

const (
	PurchaseStatusPending PurchaseStatus = "pending"
	PurchaseStatusPaid    PurchaseStatus = "paid"
	PurchaseStatusFailed  PurchaseStatus = "failed"
)

// Purchase is one purchase intent and its settlement state. GatewayPaymentID
// is the correlation identifier assigned by the payment gateway; the
// pending-to-paid transition is keyed on it and happens at most once.
type Purchase struct {
	ID               string
	UserID           string
	PackageType      PackageType
	AmountMinor      int64
	RequestsGranted  int
	Status           PurchaseStatus
	GatewayPaymentID string
	PaymentURL       string
	BuyerCountry     string
	CreatedAt        time.Time
	PaidAt           *time.Time
}

// ChatRole enumerates stored chat message authors.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one persisted side of a chat turn.
type ChatMessage struct {
	ID        string
	UserID    string
	Role      ChatRole
	Content   string
	CreatedAt time.Time
}
