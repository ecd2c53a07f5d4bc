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

// PurchaseRepositoryPG implements domain.PurchaseRepository backed by PostgreSQL.
type PurchaseRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPurchaseRepository creates a new PurchaseRepositoryPG.
func NewPurchaseRepository(sql infra.SQLExecutor) *PurchaseRepositoryPG {
	return &PurchaseRepositoryPG{sql: sql}
}

// Create inserts a new purchase record.
func (r *PurchaseRepositoryPG) Create(ctx context.Context, p *domain.Purchase) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertPurchase,
		p.ID, p.UserID, string(p.PackageType), p.AmountMinor, p.RequestsGranted,
		string(p.Status), p.GatewayPaymentID, p.PaymentURL, p.BuyerCountry)
	return err
}

// GetByGatewayID fetches a purchase by the gateway correlation identifier.
func (r *PurchaseRepositoryPG) GetByGatewayID(ctx context.Context, gatewayID string) (*domain.Purchase, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectPurchaseByGatewayID, gatewayID)
	return scanPurchase(row)
}

// MarkPaid transitions pending to paid. The status guard in the UPDATE makes
// redelivered confirmations a no-op.
func (r *PurchaseRepositoryPG) MarkPaid(ctx context.Context, gatewayID string, at time.Time) (*domain.Purchase, bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QMarkPurchasePaid, gatewayID, at)
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

// MarkFailed transitions pending to failed.
func (r *PurchaseRepositoryPG) MarkFailed(ctx context.Context, gatewayID string) (bool, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QMarkPurchaseFailed, gatewayID)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByUser returns the user's purchase history, newest first.
func (r *PurchaseRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Purchase, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListPurchasesByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	var pkg, status string
	if err := row.Scan(&p.ID, &p.UserID, &pkg, &p.AmountMinor, &p.RequestsGranted, &status,
		&p.GatewayPaymentID, &p.PaymentURL, &p.BuyerCountry, &p.CreatedAt, &p.PaidAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.PackageType = domain.PackageType(pkg)
	p.Status = domain.PurchaseStatus(status)
	return &p, nil
}

var _ domain.PurchaseRepository = (*PurchaseRepositoryPG)(nil)
