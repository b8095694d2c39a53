package services

import (
	"context"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
	"github.com/vidverse/vidverse_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByIdentifier retrieves a user by username or email.
	GetUserByIdentifier(ctx context.Context, userName, email string) (*domain.User, error)

	// GetChannelProfile resolves a channel's public profile as seen by viewerID.
	GetChannelProfile(ctx context.Context, userName, viewerID string) (*domain.ChannelProfile, error)

	// GetWatchHistory returns the user's watch history with joined video data.
	GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryVideo, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates a new account. avatarPath is the local path of the
	// uploaded avatar file (required); coverImagePath is optional and may be
	// empty. The duplicate-identifier check runs before any media upload.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest, avatarPath, coverImagePath string) (*domain.User, error)

	// UpdateAccountDetails updates fullName and email.
	UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error)

	// UpdateAvatar uploads a replacement avatar and stores its URL.
	UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error)

	// UpdateCoverImage uploads a replacement cover image and stores its URL.
	UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error)

	// ChangePassword verifies the old password and stores a new hash.
	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error

	// AddVideoToWatchHistory appends a watched video to the user's history.
	AddVideoToWatchHistory(ctx context.Context, userID, videoID string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
