package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"aihelper/internal/adapter/repo"
	"aihelper/internal/domain"
)

func TestAdminStatsEmptyDatabase(t *testing.T) {
	svc := NewService(repo.NewMemory(), zerolog.Nop())

	stats, err := svc.AdminStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 0 || stats.TotalRevenue != 0 || stats.TotalChatTurns != 0 {
		t.Fatalf("expected zero totals, got %+v", stats)
	}
	if stats.RevenueByPackage == nil || stats.RevenueByCountry == nil || stats.NewUsersByDay == nil {
		t.Fatal("aggregate slices must be non-nil")
	}
}

func TestAdminStatsAggregatesSettledPurchases(t *testing.T) {
	store := repo.NewMemory()
	ctx := context.Background()

	for _, id := range []string{"11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"} {
		if err := store.EnsureExists(ctx, id); err != nil {
			t.Fatalf("ensure: %v", err)
		}
	}
	paid := &domain.Purchase{
		ID: "p1", UserID: "11111111-1111-1111-1111-111111111111",
		PackageType: domain.PackageStandard, AmountMinor: 399, RequestsGranted: 40,
		Status: domain.PurchaseStatusPending, GatewayPaymentID: "pay-1", BuyerCountry: "RU",
		CreatedAt: time.Now(),
	}
	if err := store.Create(ctx, paid); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := store.MarkPaid(ctx, "pay-1", time.Now()); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	pending := &domain.Purchase{
		ID: "p2", UserID: "22222222-2222-2222-2222-222222222222",
		PackageType: domain.PackagePro, AmountMinor: 749, RequestsGranted: 80,
		Status: domain.PurchaseStatusPending, GatewayPaymentID: "pay-2",
		CreatedAt: time.Now(),
	}
	if err := store.Create(ctx, pending); err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := NewService(store, zerolog.Nop())
	stats, err := svc.AdminStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 || stats.TotalPurchases != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.TotalRevenue != 399 || stats.PendingRevenue != 749 {
		t.Fatalf("unexpected revenue: total=%d pending=%d", stats.TotalRevenue, stats.PendingRevenue)
	}
	if len(stats.RevenueByPackage) != 1 || stats.RevenueByPackage[0].Package != string(domain.PackageStandard) {
		t.Fatalf("unexpected package revenue: %+v", stats.RevenueByPackage)
	}
}

func TestAdminStatsNewUsersWindowExcludesOldSignups(t *testing.T) {
	store := repo.NewMemory()
	ctx := context.Background()

	store.Now = func() time.Time { return time.Now().AddDate(0, 0, -40) }
	if err := store.EnsureExists(ctx, "33333333-3333-3333-3333-333333333333"); err != nil {
		t.Fatalf("ensure old user: %v", err)
	}
	store.Now = time.Now
	if err := store.EnsureExists(ctx, "44444444-4444-4444-4444-444444444444"); err != nil {
		t.Fatalf("ensure recent user: %v", err)
	}

	svc := NewService(store, zerolog.Nop())
	stats, err := svc.AdminStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalUsers != 2 {
		t.Fatalf("expected both users counted in totals, got %d", stats.TotalUsers)
	}
	var windowed int64
	for _, d := range stats.NewUsersByDay {
		windowed += d.Count
	}
	if windowed != 1 {
		t.Fatalf("expected only the recent signup in the 30-day window, got %d", windowed)
	}
}

func TestAdminStatsPropagatesStorageError(t *testing.T) {
	store := repo.NewMemory()
	store.FailWith = errors.New("db down")
	svc := NewService(store, zerolog.Nop())

	if _, err := svc.AdminStats(context.Background()); err == nil {
		t.Fatal("expected error when collection fails")
	}
}
