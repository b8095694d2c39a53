package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portsrepo "github.com/vidverse/vidverse_backend/internal/core/ports/repositories"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/utils"
)

// authService is the session manager. The single currently-valid refresh
// token lives on the persisted user record, so any number of stateless
// instances can serve login/logout/refresh consistently.
type authService struct {
	userRepo portsrepo.UserRepository
	tokenSvc portssvc.TokenSvcFacade
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo portsrepo.UserRepository, tokenSvc portssvc.TokenSvcFacade) portssvc.AuthSvcFacade {
	return &authService{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

// Login resolves the user by username or email, verifies the password, and
// binds a fresh token pair to the account. Any failure after the credential
// check is a server fault (ErrSessionCreation), never silently swallowed.
func (s *authService) Login(ctx context.Context, userName, email, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.userRepo.FindUserByIdentifier(ctx, strings.ToLower(userName), email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.TokenPair{}, fmt.Errorf("user does not exist: %w", apperrors.ErrNotFound)
		}
		return nil, domain.TokenPair{}, fmt.Errorf("failed to resolve user for login: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, domain.TokenPair{}, fmt.Errorf("password incorrect: %w", apperrors.ErrInvalidCredentials)
	}

	pair, err := s.tokenSvc.GenerateTokenPair(ctx, user)
	if err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("token generation failed: %w: %w", err, apperrors.ErrSessionCreation)
	}

	// Only the session field changes here; no full-record validation.
	if err := s.userRepo.SetRefreshToken(ctx, user.ID.Hex(), pair.RefreshToken); err != nil {
		return nil, domain.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w: %w", err, apperrors.ErrSessionCreation)
	}

	sanitized := user.Sanitized()
	return &sanitized, pair, nil
}

// Logout unconditionally clears the stored refresh token. Logging out twice
// is not an error.
func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// RefreshSession rotates a valid refresh token to a new pair. The presented
// token must both verify cryptographically and equal the persisted current
// value; the final compare-and-swap in the store closes the race where two
// concurrent refreshes hold the same still-current token.
func (s *authService) RefreshSession(ctx context.Context, presentedToken string) (domain.TokenPair, error) {
	if presentedToken == "" {
		return domain.TokenPair{}, fmt.Errorf("unauthorized request: %w", apperrors.ErrUnauthorized)
	}

	claims, err := s.tokenSvc.ValidateRefreshToken(ctx, presentedToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.TokenPair{}, fmt.Errorf("invalid refresh token: %w", apperrors.ErrUnauthorized)
		}
		return domain.TokenPair{}, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	if user.RefreshToken != presentedToken {
		return domain.TokenPair{}, fmt.Errorf("refresh token is expired or already used: %w", apperrors.ErrUnauthorized)
	}

	pair, err := s.tokenSvc.GenerateTokenPair(ctx, user)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("token generation failed: %w: %w", err, apperrors.ErrSessionCreation)
	}

	// Conditional write: only succeeds while the stored value still equals
	// the presented token. A concurrent refresh that won the race leaves
	// this one unauthorized instead of double-issuing.
	if err := s.userRepo.RotateRefreshToken(ctx, user.ID.Hex(), presentedToken, pair.RefreshToken); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return domain.TokenPair{}, fmt.Errorf("refresh token is expired or already used: %w", apperrors.ErrUnauthorized)
		}
		return domain.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w: %w", err, apperrors.ErrSessionCreation)
	}

	return pair, nil
}
