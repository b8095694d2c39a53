package repositories

import (
	"context"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
)

// UserRepository defines persistence operations for the user document.
// User IDs cross this boundary as hex strings; implementations own the
// conversion to their native ID type.
type UserRepository interface {
	// CreateUser inserts a new user. Returns apperrors.ErrDuplicate when
	// the username or email is already registered.
	CreateUser(ctx context.Context, user domain.User) (*domain.User, error)

	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByIdentifier retrieves a user by username (case-insensitive)
	// or email. At least one must be non-empty.
	FindUserByIdentifier(ctx context.Context, userName, email string) (*domain.User, error)

	// UpdateAccountDetails sets fullName and email, returning the updated record.
	UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error)

	// UpdateAvatar sets the avatar URL, returning the updated record.
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (*domain.User, error)

	// UpdateCoverImage sets the cover image URL, returning the updated record.
	UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (*domain.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// SetRefreshToken binds a refresh token value to the user (login).
	// Touches only the session field; no full-record validation.
	SetRefreshToken(ctx context.Context, userID, refreshToken string) error

	// ClearRefreshToken removes any bound refresh token (logout). Idempotent.
	ClearRefreshToken(ctx context.Context, userID string) error

	// RotateRefreshToken atomically replaces the stored refresh token with
	// nextToken, but only if the stored value still equals presentedToken.
	// Returns apperrors.ErrUnauthorized when the compare fails, which is how
	// a concurrent rotation or a replayed token is detected.
	RotateRefreshToken(ctx context.Context, userID, presentedToken, nextToken string) error

	// AddVideoToWatchHistory appends a video reference to the user's history.
	AddVideoToWatchHistory(ctx context.Context, userID, videoID string) error

	// GetChannelProfile resolves the public channel view of userName,
	// including subscriber counts and whether viewerID subscribes to it.
	GetChannelProfile(ctx context.Context, userName, viewerID string) (*domain.ChannelProfile, error)

	// GetWatchHistory returns the user's watch history joined with the
	// referenced videos and their owners.
	GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryVideo, error)
}
