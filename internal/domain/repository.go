package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for users.
type UserRepository interface {
	EnsureExists(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*User, error)
	Bind(ctx context.Context, user *User) error
}

// QuotaAccountRepository persists per-user entitlement state. The consume
// methods are conditional writes: ok reports whether the guarded update
// actually fired, so balances can never go negative even outside the
// per-user lock.
type QuotaAccountRepository interface {
	GetOrCreate(ctx context.Context, userID string) (*QuotaAccount, error)
	ResetFree(ctx context.Context, userID string, at time.Time) error
	ConsumeFree(ctx context.Context, userID string, limit int) (used int, ok bool, err error)
	ConsumePaid(ctx context.Context, userID string) (remaining int, ok bool, err error)
	AddPaid(ctx context.Context, userID string, n int) (balance int, err error)
}

// PurchaseRepository persists purchase intents and their settlement.
type PurchaseRepository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByGatewayID(ctx context.Context, gatewayID string) (*Purchase, error)
	// MarkPaid transitions pending to paid, keyed by the gateway correlation
	// identifier. transitioned is false when the record was already settled.
	MarkPaid(ctx context.Context, gatewayID string, at time.Time) (p *Purchase, transitioned bool, err error)
	MarkFailed(ctx context.Context, gatewayID string) (transitioned bool, err error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Purchase, error)
}

// MessageRepository stores both sides of completed chat turns.
type MessageRepository interface {
	AppendTurn(ctx context.Context, userID, userMessage, reply string) error
}

// StatsRepository serves the read-only admin aggregation.
type StatsRepository interface {
	Collect(ctx context.Context) (*AdminStats, error)
}
