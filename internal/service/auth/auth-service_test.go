package auth

import (
	"StorePing/entity"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeRepo struct {
	tenants map[string]*entity.Tenant
	err     error
}

func (f *fakeRepo) GetTenantBySlug(slug string) (*entity.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tenants[slug], nil
}

func newAuth(repo Repository) *AuthService {
	a := NewAuthService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.SetRepository(repo)
	return a
}

func TestAuthenticateTenant(t *testing.T) {
	repo := &fakeRepo{tenants: map[string]*entity.Tenant{
		"turtle-island": {Slug: "turtle-island", Name: "Turtle Island Jewelry", ApiSecret: "s3cr3t"},
	}}
	a := newAuth(repo)

	tenant, err := a.AuthenticateTenant("turtle-island", "s3cr3t")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if tenant.Name != "Turtle Island Jewelry" {
		t.Fatalf("unexpected tenant: %+v", tenant)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	repo := &fakeRepo{tenants: map[string]*entity.Tenant{
		"turtle-island": {Slug: "turtle-island", ApiSecret: "s3cr3t"},
	}}
	a := newAuth(repo)

	if _, err := a.AuthenticateTenant("turtle-island", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthenticateUnknownSlug(t *testing.T) {
	a := newAuth(&fakeRepo{tenants: map[string]*entity.Tenant{}})

	// Unknown slug and wrong secret must be indistinguishable.
	if _, err := a.AuthenticateTenant("no-such-store", "anything"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthenticateEmptySecretDoesNotMatchEmpty(t *testing.T) {
	repo := &fakeRepo{tenants: map[string]*entity.Tenant{
		"turtle-island": {Slug: "turtle-island", ApiSecret: "s3cr3t"},
	}}
	a := newAuth(repo)

	if _, err := a.AuthenticateTenant("turtle-island", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty secret, got %v", err)
	}
}

func TestAuthenticateRepoError(t *testing.T) {
	a := newAuth(&fakeRepo{err: errors.New("connection refused")})

	_, err := a.AuthenticateTenant("turtle-island", "s3cr3t")
	if err == nil || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("repo errors must not masquerade as unauthorized, got %v", err)
	}
}
