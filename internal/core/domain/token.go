package domain

import "time"

// TokenPair groups the bearer credentials issued to an authenticated user.
// The access token is stateless; the refresh token's current value is also
// persisted on the user record so it can be rotated and revoked server-side.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenClaims is the identity claim recovered from a verified token.
type TokenClaims struct {
	UserID    string
	Email     string
	UserName  string
	FullName  string
	ExpiresAt time.Time
}
