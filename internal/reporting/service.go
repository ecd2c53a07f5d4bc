// Package reporting serves the read-only admin aggregates. It never writes
// and never touches per-user entitlement state.
package reporting

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"aihelper/internal/domain"
)

type Service struct {
	stats  domain.StatsRepository
	logger zerolog.Logger
}

func NewService(stats domain.StatsRepository, logger zerolog.Logger) *Service {
	return &Service{stats: stats, logger: logger}
}

// AdminStats collects the dashboard aggregate. Slice fields are always
// non-nil so the JSON encoding stays stable on an empty database.
func (s *Service) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.stats.Collect(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("stats collection failed")
		return nil, fmt.Errorf("collect stats: %w", err)
	}
	if stats.RevenueByPackage == nil {
		stats.RevenueByPackage = []domain.PackageRevenue{}
	}
	if stats.RevenueByCountry == nil {
		stats.RevenueByCountry = []domain.CountryRevenue{}
	}
	if stats.NewUsersByDay == nil {
		stats.NewUsersByDay = []domain.DailyCount{}
	}
	return stats, nil
}
