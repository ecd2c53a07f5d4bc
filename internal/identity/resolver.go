// Package identity resolves client-held anonymous identifiers into user
// records. Clients keep the identifier locally and present it on every call;
// the server only guarantees a row exists for it.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aihelper/internal/domain"
)

type Resolver struct {
	users  domain.UserRepository
	logger zerolog.Logger
}

func NewResolver(users domain.UserRepository, logger zerolog.Logger) *Resolver {
	return &Resolver{users: users, logger: logger}
}

// Resolve returns a usable user identifier. An empty client identifier mints
// a fresh one; a supplied identifier must be a UUID and gets a user row on
// first sight.
func (r *Resolver) Resolve(ctx context.Context, clientID string) (string, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		clientID = uuid.NewString()
		r.logger.Debug().Str("user_id", clientID).Msg("minted user identifier")
	} else if _, err := uuid.Parse(clientID); err != nil {
		return "", fmt.Errorf("%w: user id must be a uuid", domain.ErrValidation)
	}
	if err := r.users.EnsureExists(ctx, clientID); err != nil {
		return "", fmt.Errorf("ensure user: %w", err)
	}
	return clientID, nil
}

// BindProfile attaches registration details to an existing user.
func (r *Resolver) BindProfile(ctx context.Context, userID, name, handle, email string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("%w: user id must be a uuid", domain.ErrValidation)
	}
	user := &domain.User{
		ID:           userID,
		Name:         strings.TrimSpace(name),
		Handle:       strings.TrimSpace(handle),
		Email:        strings.TrimSpace(email),
		IsRegistered: true,
	}
	if user.Name == "" && user.Handle == "" && user.Email == "" {
		return fmt.Errorf("%w: nothing to bind", domain.ErrValidation)
	}
	if err := r.users.EnsureExists(ctx, userID); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	if err := r.users.Bind(ctx, user); err != nil {
		return fmt.Errorf("bind profile: %w", err)
	}
	return nil
}
