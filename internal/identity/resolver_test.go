package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aihelper/internal/adapter/repo"
	"aihelper/internal/domain"
)

func TestResolveMintsIdentifierWhenEmpty(t *testing.T) {
	store := repo.NewMemory()
	r := NewResolver(store, zerolog.Nop())

	id, err := r.Resolve(context.Background(), "  ")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("minted id is not a uuid: %q", id)
	}
	if _, err := store.Get(context.Background(), id); err != nil {
		t.Fatalf("user row not created: %v", err)
	}
}

func TestResolveKeepsSuppliedIdentifier(t *testing.T) {
	store := repo.NewMemory()
	r := NewResolver(store, zerolog.Nop())
	supplied := uuid.NewString()

	id, err := r.Resolve(context.Background(), supplied)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != supplied {
		t.Fatalf("expected %q back, got %q", supplied, id)
	}
	again, err := r.Resolve(context.Background(), supplied)
	if err != nil || again != supplied {
		t.Fatalf("repeat resolve changed identity: %q %v", again, err)
	}
}

func TestResolveRejectsMalformedIdentifier(t *testing.T) {
	r := NewResolver(repo.NewMemory(), zerolog.Nop())

	if _, err := r.Resolve(context.Background(), "not-a-uuid"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBindProfile(t *testing.T) {
	store := repo.NewMemory()
	r := NewResolver(store, zerolog.Nop())
	id := uuid.NewString()

	if err := r.BindProfile(context.Background(), id, "Анна", "@anna", "anna@example.com"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	u, err := store.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !u.IsRegistered || u.Name != "Анна" || u.Email != "anna@example.com" {
		t.Fatalf("profile not bound: %+v", u)
	}

	if err := r.BindProfile(context.Background(), id, "", "", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty profile, got %v", err)
	}
}
