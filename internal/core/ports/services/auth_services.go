package services

import (
	"context"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
)

// TokenSvcFacade defines the interface for token issuance and verification.
type TokenSvcFacade interface {
	// GenerateTokenPair mints a signed access/refresh token pair carrying the
	// user's identity claim. Pure of side effects; persistence of the refresh
	// token is the session manager's job.
	GenerateTokenPair(ctx context.Context, user *domain.User) (domain.TokenPair, error)

	// ValidateAccessToken verifies signature and expiry with the access
	// secret. The returned error wraps apperrors.ErrUnauthorized and keeps
	// the underlying cause (expired vs invalid) in its message.
	ValidateAccessToken(ctx context.Context, tokenString string) (*domain.TokenClaims, error)

	// ValidateRefreshToken is ValidateAccessToken for the refresh secret.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*domain.TokenClaims, error)
}

// AuthSvcFacade orchestrates the session lifecycle against the credential store.
type AuthSvcFacade interface {
	// Login verifies credentials, issues a token pair, persists the refresh
	// token and returns the sanitized user with the pair.
	Login(ctx context.Context, userName, email, password string) (*domain.User, domain.TokenPair, error)

	// Logout clears the stored refresh token for the user. Idempotent.
	Logout(ctx context.Context, userID string) error

	// RefreshSession validates a presented refresh token against both its
	// signature and the persisted value, then rotates to a fresh pair.
	RefreshSession(ctx context.Context, presentedToken string) (domain.TokenPair, error)
}
