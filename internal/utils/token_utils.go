package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the claim set embedded in both token kinds. The access
// token carries the denormalized profile fields; the refresh token carries
// only the registered claims (subject = user ID).
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	UserName string `json:"userName,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// NewIdentityClaims builds a claim set for the given subject with the
// standard issued-at/not-before/expiry fields populated.
func NewIdentityClaims(subject, issuer string, expiryDuration time.Duration) IdentityClaims {
	now := time.Now()
	return IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

// SignClaims signs the claims with HS256 and the given secret.
func SignClaims(claims IdentityClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string and validates its signature and
// standard claims. Errors from the jwt library are returned as-is so callers
// can distinguish expiry (jwt.ErrTokenExpired) from tampering.
func ParseAndValidateJWT(tokenString string, secretKey string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
