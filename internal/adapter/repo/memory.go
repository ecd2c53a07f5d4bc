package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"aihelper/internal/domain"
)

// Memory is an in-memory implementation of all repository interfaces. It backs
// unit tests across packages and mirrors the guarded-update semantics of the
// PostgreSQL repositories, including per-call atomicity.
type Memory struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	accounts  map[string]*domain.QuotaAccount
	purchases map[string]*domain.Purchase
	turns     []domain.ChatMessage

	// Now supplies the timestamps used for lazily created rows. Tests can
	// inject a fixed clock.
	Now func() time.Time

	// FailWith, when set, makes every operation return the given error to
	// exercise fail-closed paths.
	FailWith error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]*domain.User),
		accounts:  make(map[string]*domain.QuotaAccount),
		purchases: make(map[string]*domain.Purchase),
		Now:       time.Now,
	}
}

func (m *Memory) EnsureExists(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.users[id]; !ok {
		m.users[id] = &domain.User{ID: id, CreatedAt: m.Now()}
	}
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) Bind(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	u, ok := m.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Name = user.Name
	u.Handle = user.Handle
	u.Email = user.Email
	u.IsRegistered = true
	return nil
}

func (m *Memory) GetOrCreate(_ context.Context, userID string) (*domain.QuotaAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	acct, ok := m.accounts[userID]
	if !ok {
		now := m.Now()
		acct = &domain.QuotaAccount{UserID: userID, LastResetAt: now, UpdatedAt: now}
		m.accounts[userID] = acct
	}
	cp := *acct
	return &cp, nil
}

func (m *Memory) ResetFree(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if acct, ok := m.accounts[userID]; ok {
		acct.FreeRequestsUsed = 0
		acct.LastResetAt = at
		acct.UpdatedAt = m.Now()
	}
	return nil
}

func (m *Memory) ConsumeFree(_ context.Context, userID string, limit int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, false, m.FailWith
	}
	acct, ok := m.accounts[userID]
	if !ok || acct.FreeRequestsUsed >= limit {
		return 0, false, nil
	}
	acct.FreeRequestsUsed++
	acct.UpdatedAt = m.Now()
	return acct.FreeRequestsUsed, true, nil
}

func (m *Memory) ConsumePaid(_ context.Context, userID string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, false, m.FailWith
	}
	acct, ok := m.accounts[userID]
	if !ok || acct.PaidBalance <= 0 {
		return 0, false, nil
	}
	acct.PaidBalance--
	acct.UpdatedAt = m.Now()
	return acct.PaidBalance, true, nil
}

func (m *Memory) AddPaid(_ context.Context, userID string, n int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	acct, ok := m.accounts[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	acct.PaidBalance += n
	acct.UpdatedAt = m.Now()
	return acct.PaidBalance, nil
}

func (m *Memory) Create(_ context.Context, p *domain.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	cp := *p
	m.purchases[p.ID] = &cp
	return nil
}

func (m *Memory) GetByGatewayID(_ context.Context, gatewayID string) (*domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, p := range m.purchases {
		if p.GatewayPaymentID == gatewayID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) MarkPaid(_ context.Context, gatewayID string, at time.Time) (*domain.Purchase, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, false, m.FailWith
	}
	for _, p := range m.purchases {
		if p.GatewayPaymentID == gatewayID && p.Status == domain.PurchaseStatusPending {
			p.Status = domain.PurchaseStatusPaid
			paidAt := at
			p.PaidAt = &paidAt
			cp := *p
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (m *Memory) MarkFailed(_ context.Context, gatewayID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	for _, p := range m.purchases {
		if p.GatewayPaymentID == gatewayID && p.Status == domain.PurchaseStatusPending {
			p.Status = domain.PurchaseStatusFailed
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) ListByUser(_ context.Context, userID string, limit int) ([]domain.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var items []domain.Purchase
	for _, p := range m.purchases {
		if p.UserID == userID {
			items = append(items, *p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *Memory) AppendTurn(_ context.Context, userID, userMessage, reply string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	now := m.Now()
	m.turns = append(m.turns,
		domain.ChatMessage{UserID: userID, Role: domain.ChatRoleUser, Content: userMessage, CreatedAt: now},
		domain.ChatMessage{UserID: userID, Role: domain.ChatRoleAssistant, Content: reply, CreatedAt: now},
	)
	return nil
}

// Collect aggregates over the in-memory data the same way the SQL queries do.
func (m *Memory) Collect(_ context.Context) (*domain.AdminStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	stats := &domain.AdminStats{
		TotalUsers:       int64(len(m.users)),
		RevenueByPackage: []domain.PackageRevenue{},
		RevenueByCountry: []domain.CountryRevenue{},
		NewUsersByDay:    []domain.DailyCount{},
	}
	for _, msg := range m.turns {
		if msg.Role == domain.ChatRoleUser {
			stats.TotalChatTurns++
		}
	}
	byPackage := map[string]*domain.PackageRevenue{}
	byCountry := map[string]*domain.CountryRevenue{}
	for _, p := range m.purchases {
		stats.TotalPurchases++
		switch p.Status {
		case domain.PurchaseStatusPaid:
			stats.TotalRevenue += p.AmountMinor
			pk, ok := byPackage[string(p.PackageType)]
			if !ok {
				pk = &domain.PackageRevenue{Package: string(p.PackageType)}
				byPackage[string(p.PackageType)] = pk
			}
			pk.Count++
			pk.Revenue += p.AmountMinor
			ck, ok := byCountry[p.BuyerCountry]
			if !ok {
				ck = &domain.CountryRevenue{Country: p.BuyerCountry}
				byCountry[p.BuyerCountry] = ck
			}
			ck.Count++
			ck.Revenue += p.AmountMinor
		case domain.PurchaseStatusPending:
			stats.PendingRevenue += p.AmountMinor
		}
	}
	for _, v := range byPackage {
		stats.RevenueByPackage = append(stats.RevenueByPackage, *v)
	}
	sort.Slice(stats.RevenueByPackage, func(i, j int) bool {
		return stats.RevenueByPackage[i].Package < stats.RevenueByPackage[j].Package
	})
	for _, v := range byCountry {
		stats.RevenueByCountry = append(stats.RevenueByCountry, *v)
	}
	sort.Slice(stats.RevenueByCountry, func(i, j int) bool {
		return stats.RevenueByCountry[i].Revenue > stats.RevenueByCountry[j].Revenue
	})
	// Trailing 30 days only, matching the SQL aggregation window.
	cutoff := m.Now().AddDate(0, 0, -30)
	byDay := map[string]int64{}
	for _, u := range m.users {
		if u.CreatedAt.Before(cutoff) {
			continue
		}
		byDay[u.CreatedAt.Format("2006-01-02")]++
	}
	for day, count := range byDay {
		stats.NewUsersByDay = append(stats.NewUsersByDay, domain.DailyCount{Date: day, Count: count})
	}
	sort.Slice(stats.NewUsersByDay, func(i, j int) bool {
		return stats.NewUsersByDay[i].Date > stats.NewUsersByDay[j].Date
	})
	for _, acct := range m.accounts {
		stats.TotalFreeUsed += int64(acct.FreeRequestsUsed)
		stats.TotalPaidRemaining += int64(acct.PaidBalance)
	}
	return stats, nil
}

// Account returns a copy of a user's quota account for assertions in tests.
func (m *Memory) Account(userID string) (domain.QuotaAccount, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[userID]
	if !ok {
		return domain.QuotaAccount{}, false
	}
	return *acct, true
}

// Purchase returns a copy of a purchase by record ID for assertions in tests.
func (m *Memory) Purchase(id string) (domain.Purchase, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.purchases[id]
	if !ok {
		return domain.Purchase{}, false
	}
	return *p, true
}

var (
	_ domain.UserRepository         = (*Memory)(nil)
	_ domain.QuotaAccountRepository = (*Memory)(nil)
	_ domain.PurchaseRepository     = (*Memory)(nil)
	_ domain.MessageRepository      = (*Memory)(nil)
	_ domain.StatsRepository        = (*Memory)(nil)
)
