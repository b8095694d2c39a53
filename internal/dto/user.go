package dto

// RegisterUserRequest carries the multipart form fields of the registration
// endpoint. The avatar and cover image arrive as file parts, handled
// separately by the handler.
type RegisterUserRequest struct {
	FullName string `form:"fullName" binding:"required,notblank"`
	UserName string `form:"userName" binding:"required,notblank"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

// LoginRequest requires a password and at least one identifier.
type LoginRequest struct {
	UserName string `json:"userName" binding:"required_without=Email"`
	Email    string `json:"email" binding:"required_without=UserName"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the body fallback for the refresh endpoint; the
// cookie value takes precedence when both are present.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest carries a password change for the current user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UpdateAccountRequest updates the mutable profile fields.
type UpdateAccountRequest struct {
	FullName string `json:"fullName" binding:"required,notblank"`
	Email    string `json:"email" binding:"required,email"`
}
