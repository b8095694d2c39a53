package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/core/services"
	"github.com/vidverse/vidverse_backend/internal/dto"
	"github.com/vidverse/vidverse_backend/internal/utils"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByIdentifier(ctx context.Context, userName, email string) (*domain.User, error) {
	args := m.Called(ctx, userName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAccountDetails(ctx context.Context, userID, fullName, email string) (*domain.User, error) {
	args := m.Called(ctx, userID, fullName, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (*domain.User, error) {
	args := m.Called(ctx, userID, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (*domain.User, error) {
	args := m.Called(ctx, userID, coverImageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	args := m.Called(ctx, userID, refreshToken)
	return args.Error(0)
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, userID, presentedToken, nextToken string) error {
	args := m.Called(ctx, userID, presentedToken, nextToken)
	return args.Error(0)
}

func (m *MockUserRepository) AddVideoToWatchHistory(ctx context.Context, userID, videoID string) error {
	args := m.Called(ctx, userID, videoID)
	return args.Error(0)
}

func (m *MockUserRepository) GetChannelProfile(ctx context.Context, userName, viewerID string) (*domain.ChannelProfile, error) {
	args := m.Called(ctx, userName, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelProfile), args.Error(1)
}

func (m *MockUserRepository) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryVideo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WatchHistoryVideo), args.Error(1)
}

// --- Mock MediaUploader ---
type MockMediaUploader struct {
	mock.Mock
}

func (m *MockMediaUploader) Upload(ctx context.Context, localPath string) (domain.MediaAsset, error) {
	args := m.Called(ctx, localPath)
	return args.Get(0).(domain.MediaAsset), args.Error(1)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockMedia    *MockMediaUploader
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockMedia = new(MockMediaUploader)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockMedia)
}

// --- RegisterUser Tests ---

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName: "New User",
		UserName: "NewUser",
		Email:    "new@example.com",
		Password: "password123",
	}

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "newuser", req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMedia.On("Upload", ctx, "/tmp/avatar.png").Return(domain.MediaAsset{URL: "https://cdn.example.com/avatar.png"}, nil).Once()
	suite.mockMedia.On("Upload", ctx, "/tmp/cover.png").Return(domain.MediaAsset{URL: "https://cdn.example.com/cover.png"}, nil).Once()
	suite.mockUserRepo.On("CreateUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.UserName == "newuser" &&
			user.Avatar == "https://cdn.example.com/avatar.png" &&
			user.CoverImage == "https://cdn.example.com/cover.png" &&
			user.PasswordHash != "" && user.PasswordHash != req.Password
	})).Return(&domain.User{
		ID:           bson.NewObjectID(),
		UserName:     "newuser",
		Email:        req.Email,
		FullName:     req.FullName,
		Avatar:       "https://cdn.example.com/avatar.png",
		CoverImage:   "https://cdn.example.com/cover.png",
		PasswordHash: "hashed",
	}, nil).Once()

	created, err := suite.service.RegisterUser(ctx, req, "/tmp/avatar.png", "/tmp/cover.png")

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal("newuser", created.UserName)
	suite.Empty(created.PasswordHash) // sanitized before leaving the service
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockMedia.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_Duplicate_NoUpload() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName: "Existing User",
		UserName: "existing",
		Email:    "existing@example.com",
		Password: "password123",
	}
	existing := &domain.User{ID: bson.NewObjectID(), UserName: "existing"}

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "existing", req.Email).Return(existing, nil).Once()

	created, err := suite.service.RegisterUser(ctx, req, "/tmp/avatar.png", "")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	// Doomed registration must never touch the media host.
	suite.mockMedia.AssertNotCalled(suite.T(), "Upload")
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_MissingAvatar() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName: "No Avatar",
		UserName: "noavatar",
		Email:    "noavatar@example.com",
		Password: "password123",
	}

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "noavatar", req.Email).Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.RegisterUser(ctx, req, "", "")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMedia.AssertNotCalled(suite.T(), "Upload")
}

func (suite *UserServiceTestSuite) TestRegisterUser_UploadError() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName: "Upload Fail",
		UserName: "uploadfail",
		Email:    "uploadfail@example.com",
		Password: "password123",
	}
	expectedErr := assert.AnError

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "uploadfail", req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockMedia.On("Upload", ctx, "/tmp/avatar.png").Return(domain.MediaAsset{}, expectedErr).Once()

	created, err := suite.service.RegisterUser(ctx, req, "/tmp/avatar.png", "")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, expectedErr)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "CreateUser")
}

// --- ChangePassword Tests ---

func (suite *UserServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	userID := bson.NewObjectID().Hex()
	oldHash, err := utils.HashPassword("oldpassword")
	suite.Require().NoError(err)
	user := &domain.User{PasswordHash: oldHash}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockUserRepo.On("UpdatePassword", ctx, userID, mock.MatchedBy(func(hash string) bool {
		return hash != "" && hash != "newpassword"
	})).Return(nil).Once()

	err = suite.service.ChangePassword(ctx, userID, dto.ChangePasswordRequest{
		OldPassword: "oldpassword",
		NewPassword: "newpassword",
	})

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestChangePassword_WrongOldPassword() {
	ctx := context.Background()
	userID := bson.NewObjectID().Hex()
	oldHash, err := utils.HashPassword("oldpassword")
	suite.Require().NoError(err)
	user := &domain.User{PasswordHash: oldHash}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	err = suite.service.ChangePassword(ctx, userID, dto.ChangePasswordRequest{
		OldPassword: "wrongpassword",
		NewPassword: "newpassword",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidCredentials)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePassword")
}

// --- Media Update Tests ---

func (suite *UserServiceTestSuite) TestUpdateAvatar_Success() {
	ctx := context.Background()
	userID := bson.NewObjectID().Hex()

	suite.mockMedia.On("Upload", ctx, "/tmp/newavatar.png").Return(domain.MediaAsset{URL: "https://cdn.example.com/newavatar.png"}, nil).Once()
	suite.mockUserRepo.On("UpdateAvatar", ctx, userID, "https://cdn.example.com/newavatar.png").Return(&domain.User{
		Avatar:       "https://cdn.example.com/newavatar.png",
		PasswordHash: "hashed",
	}, nil).Once()

	updated, err := suite.service.UpdateAvatar(ctx, userID, "/tmp/newavatar.png")

	suite.Require().NoError(err)
	suite.Equal("https://cdn.example.com/newavatar.png", updated.Avatar)
	suite.Empty(updated.PasswordHash)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockMedia.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestUpdateCoverImage_MissingFile() {
	ctx := context.Background()

	updated, err := suite.service.UpdateCoverImage(ctx, bson.NewObjectID().Hex(), "")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMedia.AssertNotCalled(suite.T(), "Upload")
}

// --- Channel / Watch History Tests ---

func (suite *UserServiceTestSuite) TestGetChannelProfile_LowercasesUsername() {
	ctx := context.Background()
	viewerID := bson.NewObjectID().Hex()
	profile := &domain.ChannelProfile{UserName: "somechannel", SubscriberCount: 42}

	suite.mockUserRepo.On("GetChannelProfile", ctx, "somechannel", viewerID).Return(profile, nil).Once()

	got, err := suite.service.GetChannelProfile(ctx, "SomeChannel", viewerID)

	suite.Require().NoError(err)
	suite.Equal(profile, got)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetChannelProfile_BlankUsername() {
	ctx := context.Background()

	got, err := suite.service.GetChannelProfile(ctx, "   ", "")

	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "GetChannelProfile")
}

func (suite *UserServiceTestSuite) TestAddVideoToWatchHistory_RepoError() {
	ctx := context.Background()
	userID := bson.NewObjectID().Hex()
	videoID := bson.NewObjectID().Hex()
	expectedErr := assert.AnError

	suite.mockUserRepo.On("AddVideoToWatchHistory", ctx, userID, videoID).Return(expectedErr).Once()

	err := suite.service.AddVideoToWatchHistory(ctx, userID, videoID)

	suite.Require().Error(err)
	suite.ErrorIs(err, expectedErr)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
