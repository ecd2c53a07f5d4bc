// Package payment talks to the hosted payment gateway. The gateway is an
// external collaborator: this package only creates hosted-checkout payments
// and authenticates inbound webhook deliveries.
package payment

import "context"

// CreatePaymentRequest describes one hosted-checkout payment to create.
type CreatePaymentRequest struct {
	AmountMinor int64
	Currency    string
	Description string
	ReturnURL   string
	Metadata    map[string]string
}

// Payment is the gateway's view of a created payment. ID is the correlation
// identifier later echoed by webhook deliveries.
type Payment struct {
	ID              string
	Status          string
	ConfirmationURL string
}

// Gateway is the payment collaborator contract.
type Gateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	VerifySignature(body []byte, signature string) error
}
