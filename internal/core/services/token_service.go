package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
	"github.com/vidverse/vidverse_backend/internal/utils"
)

// tokenService implements TokenSvcFacade on HS256 JWTs. Access and refresh
// tokens are signed with independent secrets and expiry durations from
// config.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// GenerateTokenPair mints both tokens from the same identity. The access
// token carries the denormalized profile claims; the refresh token only the
// subject.
func (s *tokenService) GenerateTokenPair(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	accessClaims := utils.NewIdentityClaims(user.ID.Hex(), s.cfg.JWTIssuer, s.cfg.AccessTokenExpiryDuration)
	accessClaims.Email = user.Email
	accessClaims.UserName = user.UserName
	accessClaims.FullName = user.FullName

	accessToken, err := utils.SignClaims(accessClaims, s.cfg.AccessTokenSecret)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := utils.NewIdentityClaims(user.ID.Hex(), s.cfg.JWTIssuer, s.cfg.RefreshTokenExpiryDuration)

	refreshToken, err := utils.SignClaims(refreshClaims, s.cfg.RefreshTokenSecret)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessClaims.ExpiresAt.Time,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, nil
}

// ValidateAccessToken verifies signature and expiry with the access secret.
func (s *tokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.TokenClaims, error) {
	return validateToken(tokenString, s.cfg.AccessTokenSecret, "invalid access token")
}

// ValidateRefreshToken verifies signature and expiry with the refresh secret.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, tokenString string) (*domain.TokenClaims, error) {
	return validateToken(tokenString, s.cfg.RefreshTokenSecret, "invalid refresh token")
}

// validateToken re-maps any jwt library error to ErrUnauthorized while
// keeping the underlying cause (expired vs tampered) in the chain, so
// callers and logs can tell the two apart without seeing a raw system error.
func validateToken(tokenString, secret, label string) (*domain.TokenClaims, error) {
	claims, err := utils.ParseAndValidateJWT(tokenString, secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", label, err, apperrors.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%s: subject claim missing: %w", label, apperrors.ErrUnauthorized)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &domain.TokenClaims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		UserName:  claims.UserName,
		FullName:  claims.FullName,
		ExpiresAt: expiresAt,
	}, nil
}
