package dto

// LoginResponse represents the response for a successful login. The tokens
// are also set as HTTP-only cookies; the body copy serves non-browser
// clients.
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// RefreshTokenResponse represents the response for a successful token
// refresh (rotation).
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
