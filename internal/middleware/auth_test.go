package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/core/services"
	"github.com/vidverse/vidverse_backend/internal/middleware"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
)

// stubUserReader serves a single canned user for the auth gate's lookup.
type stubUserReader struct {
	user *domain.User
	err  error
}

func (s *stubUserReader) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserReader) GetUserByIdentifier(ctx context.Context, userName, email string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserReader) GetChannelProfile(ctx context.Context, userName, viewerID string) (*domain.ChannelProfile, error) {
	return nil, s.err
}

func (s *stubUserReader) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchHistoryVideo, error) {
	return nil, s.err
}

var _ portssvc.UserReaderSvc = (*stubUserReader)(nil)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	cfg      *config.Config
	tokenSvc portssvc.TokenSvcFacade
	user     *domain.User
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTIssuer:                  "vidverse-test",
		AccessTokenSecret:          "test-access-secret",
		AccessTokenExpiryDuration:  15 * time.Minute,
		RefreshTokenSecret:         "test-refresh-secret",
		RefreshTokenExpiryDuration: 240 * time.Hour,
	}
	suite.tokenSvc = services.NewTokenService(suite.cfg)
	suite.user = &domain.User{
		ID:           bson.NewObjectID(),
		UserName:     "chaiaurcode",
		Email:        "chai@example.com",
		FullName:     "Chai Aur Code",
		PasswordHash: "hashed",
		RefreshToken: "stored-refresh",
	}
}

// newRouter builds a router whose protected route captures what the gate
// attached to the request context.
func (suite *AuthMiddlewareTestSuite) newRouter(reader portssvc.UserReaderSvc, gotUserID *string, gotUser **domain.User) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.AuthMiddleware(suite.tokenSvc, reader), func(c *gin.Context) {
		if userID, ok := middleware.GetUserIDFromContext(c); ok {
			*gotUserID = userID
		}
		if user, ok := middleware.GetCurrentUserFromCtx(c.Request.Context()); ok {
			*gotUser = user
		}
		c.Status(http.StatusOK)
	})
	return r
}

func (suite *AuthMiddlewareTestSuite) mintAccessToken() string {
	pair, err := suite.tokenSvc.GenerateTokenPair(context.Background(), suite.user)
	suite.Require().NoError(err)
	return pair.AccessToken
}

func (suite *AuthMiddlewareTestSuite) TestBearerHeader_Allows() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+suite.mintAccessToken())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(suite.user.ID.Hex(), gotUserID)
	suite.Require().NotNil(gotUser)
	// Credential fields never survive the gate.
	suite.Empty(gotUser.PasswordHash)
	suite.Empty(gotUser.RefreshToken)
}

func (suite *AuthMiddlewareTestSuite) TestCookie_Allows() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookieName, Value: suite.mintAccessToken()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(suite.user.ID.Hex(), gotUserID)
}

func (suite *AuthMiddlewareTestSuite) TestCookie_TakesPrecedenceOverHeader() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	// Valid cookie, garbage header: the cookie must win.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookieName, Value: suite.mintAccessToken()})
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(suite.user.ID.Hex(), gotUserID)
}

func (suite *AuthMiddlewareTestSuite) TestMissingToken_Rejects() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Unauthorized request")
	suite.Empty(gotUserID)
}

func (suite *AuthMiddlewareTestSuite) TestExpiredToken_RejectsWithExpiryMessage() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	expiredCfg := *suite.cfg
	expiredCfg.AccessTokenExpiryDuration = -time.Minute
	pair, err := services.NewTokenService(&expiredCfg).GenerateTokenPair(context.Background(), suite.user)
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Access token has expired")
}

func (suite *AuthMiddlewareTestSuite) TestTamperedToken_Rejects() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+suite.mintAccessToken()+"tampered")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid access token")
}

func (suite *AuthMiddlewareTestSuite) TestMalformedAuthorizationHeader_Rejects() {
	var gotUserID string
	var gotUser *domain.User
	r := suite.newRouter(&stubUserReader{user: suite.user}, &gotUserID, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", suite.mintAccessToken()) // no Bearer prefix
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Unauthorized request")
}

func (suite *AuthMiddlewareTestSuite) TestDeletedUser_Rejects() {
	var gotUserID string
	var gotUser *domain.User

	reader := &stubUserReader{err: apperrors.ErrNotFound}
	r := suite.newRouter(reader, &gotUserID, &gotUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+suite.mintAccessToken())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Invalid access token")
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
