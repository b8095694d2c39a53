package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/dto"
	"github.com/vidverse/vidverse_backend/internal/middleware"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
	"github.com/vidverse/vidverse_backend/internal/utils"
)

// RefreshTokenCookieName is the cookie carrying the refresh token.
const RefreshTokenCookieName = "refreshToken"

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	userService portssvc.UserSvcFacade
	tempDir     string
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(as portssvc.AuthSvcFacade, us portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: as,
		userService: us,
		tempDir:     cfg.TempUploadDir,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Auth, services.User, cfg)

	// 5 login attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(services.Token, services.User), h.Logout)
	}
}

// setAuthCookies binds both tokens as HTTP-only, secure, session-scoped
// cookies.
func setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(middleware.AccessTokenCookieName, accessToken, 0, "/", "", true, true)
	c.SetCookie(RefreshTokenCookieName, refreshToken, 0, "/", "", true, true)
}

// clearAuthCookies expires both token cookies.
func clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookieName, "", -1, "/", "", true, true)
	c.SetCookie(RefreshTokenCookieName, "", -1, "/", "", true, true)
}

// saveUploadedFile stores a multipart file into the scratch dir under a
// random name, returning the local path for the media uploader.
func saveUploadedFile(c *gin.Context, file *multipart.FileHeader, tempDir string) (string, error) {
	name, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", err
	}
	localPath := filepath.Join(tempDir, name+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, localPath); err != nil {
		return "", err
	}
	return localPath, nil
}

// removeStagedFiles deletes staged upload files still on disk. The media
// uploader removes the files it is handed, so anything left here was never
// consumed.
func removeStagedFiles(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new account from a multipart form with a required avatar and optional cover image.
// @Tags auth
// @Accept mpfd
// @Produce json
// @Param fullName formData string true "Full name"
// @Param userName formData string true "Username (stored lowercased)"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /auth/register [post]
func (h *authHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "All fields are required: "+err.Error()))
		return
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Avatar file is required"))
		return
	}

	var avatarPath, coverImagePath string
	defer func() { removeStagedFiles(avatarPath, coverImagePath) }()

	avatarPath, err = saveUploadedFile(c, avatarFile, h.tempDir)
	if err != nil {
		logger.Error("Failed to save avatar upload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to store uploaded file"))
		return
	}

	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverImagePath, err = saveUploadedFile(c, coverFile, h.tempDir)
		if err != nil {
			logger.Error("Failed to save cover image upload", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to store uploaded file"))
			return
		}
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req, avatarPath, coverImagePath)
	if err != nil {
		logger.Warn("Registration failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	logger.Info("User registered", slog.String("user_id", user.ID.Hex()))
	c.JSON(http.StatusCreated, dto.NewResponse(http.StatusCreated, dto.ToUserResponse(user), "User registered successfully"))
}

// Login godoc
// @Summary User login
// @Description Verifies credentials and issues an access/refresh token pair, also set as HTTP-only cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /auth/login [post]
func (h *authHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Username or email is required"))
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.UserName, req.Email, req.Password)
	if err != nil {
		logger.Warn("Login failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	setAuthCookies(c, pair.AccessToken, pair.RefreshToken)

	logger.Info("User logged in", slog.String("user_id", user.ID.Hex()))
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.LoginResponse{
		User:         dto.ToUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully"))
}

// Refresh godoc
// @Summary Refresh the session
// @Description Rotates a valid refresh token to a new token pair. The token is read from the cookie, falling back to the request body.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest false "Refresh token (body fallback)"
// @Success 200 {object} dto.APIResponse{data=dto.RefreshTokenResponse}
// @Failure 401 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /auth/refresh [post]
func (h *authHandler) Refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Cookie value first, then request-body field.
	presented, _ := c.Cookie(RefreshTokenCookieName)
	if presented == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.authService.RefreshSession(c.Request.Context(), presented)
	if err != nil {
		logger.Warn("Refresh failed", slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, err.Error()))
			return
		}
		respondError(c, err)
		return
	}

	setAuthCookies(c, pair.AccessToken, pair.RefreshToken)

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed"))
}

// Logout godoc
// @Summary User logout
// @Description Clears the stored refresh token and expires both cookies. Idempotent.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) Logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		logger.Error("Logout failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	clearAuthCookies(c)

	logger.Info("User logged out")
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, nil, "User logged out"))
}
