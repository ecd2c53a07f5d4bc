package repo

import (
	"context"

	"aihelper/internal/domain"
	"aihelper/internal/infra"
	"aihelper/internal/sqlinline"
)

// StatsRepositoryPG implements domain.StatsRepository backed by PostgreSQL.
// Every query coalesces to zero, so an empty database yields an all-zero
// aggregate instead of an error.
type StatsRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewStatsRepository creates a new StatsRepositoryPG.
func NewStatsRepository(sql infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{sql: sql}
}

// Collect gathers the admin aggregate in four read-only queries.
func (r *StatsRepositoryPG) Collect(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{
		RevenueByPackage: []domain.PackageRevenue{},
		RevenueByCountry: []domain.CountryRevenue{},
		NewUsersByDay:    []domain.DailyCount{},
	}

	row := r.sql.QueryRow(ctx, sqlinline.QStatsTotals)
	if err := row.Scan(&stats.TotalUsers, &stats.TotalChatTurns, &stats.TotalRevenue,
		&stats.PendingRevenue, &stats.TotalPurchases, &stats.TotalFreeUsed, &stats.TotalPaidRemaining); err != nil {
		return nil, err
	}

	rows, err := r.sql.Query(ctx, sqlinline.QStatsRevenueByPackage)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item domain.PackageRevenue
		if err := rows.Scan(&item.Package, &item.Count, &item.Revenue); err != nil {
			rows.Close()
			return nil, err
		}
		stats.RevenueByPackage = append(stats.RevenueByPackage, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.sql.Query(ctx, sqlinline.QStatsRevenueByCountry)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item domain.CountryRevenue
		if err := rows.Scan(&item.Country, &item.Count, &item.Revenue); err != nil {
			rows.Close()
			return nil, err
		}
		stats.RevenueByCountry = append(stats.RevenueByCountry, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.sql.Query(ctx, sqlinline.QStatsNewUsersByDay)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var item domain.DailyCount
		if err := rows.Scan(&item.Date, &item.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.NewUsersByDay = append(stats.NewUsersByDay, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

var _ domain.StatsRepository = (*StatsRepositoryPG)(nil)
