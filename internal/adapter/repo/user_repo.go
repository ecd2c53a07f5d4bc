package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"aihelper/internal/domain"
	"aihelper/internal/infra"
	"aihelper/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// EnsureExists inserts the user row if it is not present. Idempotent.
func (r *UserRepositoryPG) EnsureExists(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QEnsureUser, id)
	return err
}

// Get fetches a user by its opaque identifier.
func (r *UserRepositoryPG) Get(ctx context.Context, id string) (*domain.User, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserByID, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Handle, &u.Email, &u.IsRegistered, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Bind attaches profile fields to an existing user and marks it registered.
func (r *UserRepositoryPG) Bind(ctx context.Context, user *domain.User) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QBindUserProfile, user.ID, user.Name, user.Handle, user.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
