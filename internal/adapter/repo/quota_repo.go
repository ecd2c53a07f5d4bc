package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"aihelper/internal/domain"
	"aihelper/internal/infra"
	"aihelper/internal/sqlinline"
)

// QuotaAccountRepositoryPG implements domain.QuotaAccountRepository backed by
// PostgreSQL. All writes are guarded single statements so the database keeps
// the non-negative invariants on its own.
type QuotaAccountRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewQuotaAccountRepository creates a new QuotaAccountRepositoryPG.
func NewQuotaAccountRepository(sql infra.SQLExecutor) *QuotaAccountRepositoryPG {
	return &QuotaAccountRepositoryPG{sql: sql}
}

// GetOrCreate loads the account, creating it with defaults on first use.
func (r *QuotaAccountRepositoryPG) GetOrCreate(ctx context.Context, userID string) (*domain.QuotaAccount, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetOrCreateQuotaAccount, userID)
	var acct domain.QuotaAccount
	if err := row.Scan(&acct.UserID, &acct.FreeRequestsUsed, &acct.PaidBalance, &acct.LastResetAt, &acct.UpdatedAt); err != nil {
		return nil, err
	}
	return &acct, nil
}

// ResetFree zeroes the free counter and stamps the new window start.
func (r *QuotaAccountRepositoryPG) ResetFree(ctx context.Context, userID string, at time.Time) error {
	_, err := r.sql.Exec(ctx, sqlinline.QResetFreeUsage, userID, at)
	return err
}

// ConsumeFree increments free usage when still below the limit.
func (r *QuotaAccountRepositoryPG) ConsumeFree(ctx context.Context, userID string, limit int) (int, bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QConsumeFree, userID, limit)
	var used int
	if err := row.Scan(&used); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return used, true, nil
}

// ConsumePaid decrements the paid balance when positive.
func (r *QuotaAccountRepositoryPG) ConsumePaid(ctx context.Context, userID string) (int, bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QConsumePaid, userID)
	var remaining int
	if err := row.Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return remaining, true, nil
}

// AddPaid credits purchased requests onto the balance.
func (r *QuotaAccountRepositoryPG) AddPaid(ctx context.Context, userID string, n int) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QAddPaidBalance, userID, n)
	var balance int
	if err := row.Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

var _ domain.QuotaAccountRepository = (*QuotaAccountRepositoryPG)(nil)
