package dto

import (
	"time"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
)

// UserResponse is the transport view of a user. Password hash and refresh
// token never appear here.
type UserResponse struct {
	ID         string    `json:"id"`
	UserName   string    `json:"userName"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain user to its transport view.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID.Hex(),
		UserName:   user.UserName,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
