package auth

import (
	"StorePing/entity"
	"StorePing/internal/lib/sl"
	"crypto/subtle"
	"errors"
	"log/slog"
)

// ErrUnauthorized is returned for an unknown slug and for a wrong secret
// alike, so a caller cannot probe which half of the pair was wrong.
var ErrUnauthorized = errors.New("unauthorized")

type Repository interface {
	GetTenantBySlug(slug string) (*entity.Tenant, error)
}

type AuthService struct {
	repo Repository
	log  *slog.Logger
}

func NewAuthService(log *slog.Logger) *AuthService {
	return &AuthService{
		log: log.With(sl.Module("auth service")),
	}
}

func (a *AuthService) SetRepository(repo Repository) {
	a.repo = repo
}

// AuthenticateTenant resolves slug → tenant and verifies the shared secret
// in constant time. Fails closed: every failure mode surfaces as
// ErrUnauthorized after a comparison has run, keeping timing flat.
func (a *AuthService) AuthenticateTenant(slug, secret string) (*entity.Tenant, error) {
	if a.repo == nil {
		return nil, errors.New("auth repository not initialized")
	}

	tenant, err := a.repo.GetTenantBySlug(slug)
	if err != nil {
		return nil, err
	}

	expected := ""
	if tenant != nil {
		expected = tenant.ApiSecret
	}
	match := subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) == 1

	if tenant == nil || !match {
		a.log.With(
			slog.String("slug", slug),
		).Warn("tenant authentication failed")
		return nil, ErrUnauthorized
	}
	return tenant, nil
}
