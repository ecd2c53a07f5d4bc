// Package ledger holds the usage entitlement ledger and the admission
// controller gating every chat turn. All mutations for one user run inside a
// per-user lock, so concurrent admits and credits for the same account are
// linearizable while different accounts proceed fully in parallel.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aihelper/internal/domain"
)

// Service is the single owner of quota account state.
type Service struct {
	accounts domain.QuotaAccountRepository
	locks    *KeyedLock
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates the ledger service on top of an account repository.
func NewService(accounts domain.QuotaAccountRepository, logger zerolog.Logger) *Service {
	return &Service{
		accounts: accounts,
		locks:    NewKeyedLock(),
		logger:   logger,
		now:      time.Now,
	}
}

// Admit runs the atomic check-and-consume step for one chat turn. Exhausted
// quota is a first-class outcome (Allowed=false, nil error); a non-nil error
// means the ledger could not decide and the caller must fail closed.
func (s *Service) Admit(ctx context.Context, userID string) (domain.Admission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Admission{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	acct, err := s.refreshLocked(ctx, userID)
	if err != nil {
		return domain.Admission{}, err
	}
	resetAt := acct.LastResetAt.Add(domain.FreeResetWindow)

	if acct.FreeRequestsUsed < domain.FreeDailyLimit {
		used, ok, err := s.accounts.ConsumeFree(ctx, userID, domain.FreeDailyLimit)
		if err != nil {
			return domain.Admission{}, fmt.Errorf("consume free: %w", err)
		}
		if ok {
			return domain.Admission{
				Allowed:       true,
				Source:        domain.AdmitSourceFree,
				FreeUsed:      used,
				PaidRemaining: acct.PaidBalance,
				ResetAt:       resetAt,
			}, nil
		}
	}

	remaining, ok, err := s.accounts.ConsumePaid(ctx, userID)
	if err != nil {
		return domain.Admission{}, fmt.Errorf("consume paid: %w", err)
	}
	if ok {
		return domain.Admission{
			Allowed:       true,
			Source:        domain.AdmitSourcePaid,
			FreeUsed:      acct.FreeRequestsUsed,
			PaidRemaining: remaining,
			ResetAt:       resetAt,
		}, nil
	}

	s.logger.Debug().Str("user_id", userID).Msg("admission denied: quota exhausted")
	return domain.Admission{
		Allowed:       false,
		FreeUsed:      acct.FreeRequestsUsed,
		PaidRemaining: acct.PaidBalance,
		ResetAt:       resetAt,
	}, nil
}

// Credit adds purchased requests onto a user's paid balance. It shares the
// admission lock domain so crediting never races a concurrent admit.
func (s *Service) Credit(ctx context.Context, userID string, n int) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: credit amount must be positive", domain.ErrValidation)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	// Lazily create the account; a purchase can settle before the first admit.
	if _, err := s.accounts.GetOrCreate(ctx, userID); err != nil {
		return 0, fmt.Errorf("load account: %w", err)
	}
	balance, err := s.accounts.AddPaid(ctx, userID, n)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Int("credits", n).Int("balance", balance).Msg("ledger credited")
	return balance, nil
}

// Usage returns the current entitlement snapshot, applying the rolling reset
// so a stale account reads as replenished after 24 hours.
func (s *Service) Usage(ctx context.Context, userID string) (domain.Usage, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.Usage{}, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	acct, err := s.refreshLocked(ctx, userID)
	if err != nil {
		return domain.Usage{}, err
	}
	return domain.UsageFromAccount(acct), nil
}

// refreshLocked loads the account and applies the rolling 24h reset. The
// caller must hold the user's key lock.
func (s *Service) refreshLocked(ctx context.Context, userID string) (*domain.QuotaAccount, error) {
	acct, err := s.accounts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	now := s.now()
	if now.Sub(acct.LastResetAt) >= domain.FreeResetWindow {
		if err := s.accounts.ResetFree(ctx, userID, now); err != nil {
			return nil, fmt.Errorf("reset free usage: %w", err)
		}
		acct.FreeRequestsUsed = 0
		acct.LastResetAt = now
	}
	return acct, nil
}
