package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portsrepo "github.com/vidverse/vidverse_backend/internal/core/ports/repositories"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/dto"
	"github.com/vidverse/vidverse_backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepository
	media    portssvc.MediaUploaderSvc
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo portsrepo.UserRepository, media portssvc.MediaUploaderSvc) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		media:    media,
	}
}

// RegisterUser creates a new account. The duplicate-identifier check runs
// before any upload so a doomed registration never touches the media host.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest, avatarPath, coverImagePath string) (*domain.User, error) {
	userName := strings.ToLower(req.UserName)

	_, err := s.userRepo.FindUserByIdentifier(ctx, userName, req.Email)
	if err == nil {
		return nil, fmt.Errorf("user with email or username already exists: %w", apperrors.ErrDuplicate)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if avatarPath == "" {
		return nil, fmt.Errorf("avatar file is required: %w", apperrors.ErrValidation)
	}

	avatar, err := s.media.Upload(ctx, avatarPath)
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", err)
	}

	var coverImageURL string
	if coverImagePath != "" {
		coverImage, err := s.media.Upload(ctx, coverImagePath)
		if err != nil {
			return nil, fmt.Errorf("cover image upload failed: %w", err)
		}
		coverImageURL = coverImage.URL
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserName:     userName,
		Email:        req.Email,
		FullName:     req.FullName,
		Avatar:       avatar.URL,
		CoverImage:   coverImageURL,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("user with email or username already exists: %w", apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	sanitized := created.Sanitized()
	return &sanitized, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByIdentifier(ctx context.Context, userName, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByIdentifier(ctx, strings.ToLower(userName), email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateAccountDetails(ctx context.Context, userID string, req dto.UpdateAccountRequest) (*domain.User, error) {
	updated, err := s.userRepo.UpdateAccountDetails(ctx, userID, req.FullName, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to update account details: %w", err)
	}
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("avatar file is required: %w", apperrors.ErrValidation)
	}
	avatar, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("avatar upload failed: %w", err)
	}
	updated, err := s.userRepo.UpdateAvatar(ctx, userID, avatar.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

func (s *userService) UpdateCoverImage(ctx context.Context, userID, localPath string) (*domain.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("cover image file is required: %w", apperrors.ErrValidation)
	}
	coverImage, err := s.media.Upload(ctx, localPath)
	if err != nil {
		return nil, fmt.Errorf("cover image upload failed: %w", err)
	}
	updated, err := s.userRepo.UpdateCoverImage(ctx, userID, coverImage.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to update cover image: %w", err)
	}
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *userService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user for password change: %w", err)
	}

	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return fmt.Errorf("old password incorrect: %w", apperrors.ErrInvalidCredentials)
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) AddVideoToWatchHistory(ctx context.Context, userID, videoID string) error {
	if err := s.userRepo.AddVideoToWatchHistory(ctx, userID, videoID); err != nil {
		return fmt.Errorf("failed to record watch history: %w", err)
	}
	return nil
}

func (s *userService) GetChannelProfile(ctx context.Context, userName, viewerID string) (*domain.ChannelProfile, error) {
	if strings.TrimSpace(userName) == "" {
		return nil, fmt.Errorf("username is missing: %w", apperrors.ErrValidation)
	}
	profile, err := s.userRepo.GetChannelProfile(ctx, strings.ToLower(userName), viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel profile: %w", err)
	}
	return profile, nil
}

func (s *userService) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryVideo, error) {
	history, err := s.userRepo.GetWatchHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	return history, nil
}
