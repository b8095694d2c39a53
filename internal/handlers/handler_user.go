package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidverse/vidverse_backend/internal/core/domain"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/dto"
	"github.com/vidverse/vidverse_backend/internal/middleware"
	"github.com/vidverse/vidverse_backend/internal/platform/config"
)

// userHandler handles HTTP requests related to users.
type userHandler struct {
	userService portssvc.UserSvcFacade
	tempDir     string
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade, cfg *config.Config) *userHandler {
	return &userHandler{
		userService: us,
		tempDir:     cfg.TempUploadDir,
	}
}

// registerUserRoutes registers all user-related routes. The group is already
// behind the auth gate.
func registerUserRoutes(rg *gin.RouterGroup, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService, cfg)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getCurrentUser)
		users.PATCH("/me", h.updateAccountDetails)
		users.PATCH("/me/avatar", h.updateAvatar)
		users.PATCH("/me/cover-image", h.updateCoverImage)
		users.POST("/change-password", h.changePassword)
		users.GET("/c/:username", h.getChannelProfile)
		users.GET("/history", h.getWatchHistory)
		users.POST("/history/:videoID", h.addToWatchHistory)
	}
}

// getCurrentUser godoc
// @Summary Get the current user
// @Description Returns the account resolved by the auth gate.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	user, ok := middleware.GetCurrentUserFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(user), "Current user fetched successfully"))
}

// updateAccountDetails godoc
// @Summary Update account details
// @Description Updates fullName and email of the current user.
// @Tags users
// @Accept json
// @Produce json
// @Param details body dto.UpdateAccountRequest true "New account details"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/me [patch]
func (h *userHandler) updateAccountDetails(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Rejected before any store access; the record stays untouched.
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "All fields are required: "+err.Error()))
		return
	}

	updated, err := h.userService.UpdateAccountDetails(c.Request.Context(), userID, req)
	if err != nil {
		logger.Warn("Account update failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(updated), "Account details updated successfully"))
}

// updateAvatar godoc
// @Summary Update avatar
// @Description Uploads a new avatar to the media host and stores its URL.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/me/avatar [patch]
func (h *userHandler) updateAvatar(c *gin.Context) {
	h.updateMediaField(c, "avatar", h.userService.UpdateAvatar)
}

// updateCoverImage godoc
// @Summary Update cover image
// @Description Uploads a new cover image to the media host and stores its URL.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/me/cover-image [patch]
func (h *userHandler) updateCoverImage(c *gin.Context) {
	h.updateMediaField(c, "coverImage", h.userService.UpdateCoverImage)
}

// updateMediaField is the shared flow of the avatar/cover-image endpoints:
// receive the multipart file, stage it locally, hand it to the service.
func (h *userHandler) updateMediaField(c *gin.Context, field string, update func(ctx context.Context, userID, localPath string) (*domain.User, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, field+" file is required"))
		return
	}

	localPath, err := saveUploadedFile(c, file, h.tempDir)
	if err != nil {
		logger.Error("Failed to save uploaded file", slog.String("field", field), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to store uploaded file"))
		return
	}

	updated, err := update(c.Request.Context(), userID, localPath)
	if err != nil {
		logger.Warn("Media update failed", slog.String("field", field), slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(updated), "Image updated successfully"))
}

// changePassword godoc
// @Summary Change password
// @Description Verifies the old password and replaces it with the new one.
// @Tags users
// @Accept json
// @Produce json
// @Param passwords body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/change-password [post]
func (h *userHandler) changePassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "All fields are required: "+err.Error()))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		logger.Warn("Password change failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, nil, "Password changed successfully"))
}

// getChannelProfile godoc
// @Summary Get a channel profile
// @Description Returns the public channel view with subscriber counts and the viewer's subscription state.
// @Tags users
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} dto.APIResponse{data=domain.ChannelProfile}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/c/{username} [get]
func (h *userHandler) getChannelProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	viewerID, _ := middleware.GetUserIDFromContext(c)

	profile, err := h.userService.GetChannelProfile(c.Request.Context(), c.Param("username"), viewerID)
	if err != nil {
		logger.Warn("Channel profile lookup failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, profile, "Channel profile fetched successfully"))
}

// getWatchHistory godoc
// @Summary Get watch history
// @Description Returns the current user's watch history with joined video and owner data.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]domain.WatchHistoryVideo}
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/history [get]
func (h *userHandler) getWatchHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	history, err := h.userService.GetWatchHistory(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("Watch history lookup failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, history, "Watch history fetched successfully"))
}

// addToWatchHistory godoc
// @Summary Record a watched video
// @Description Appends a video reference to the current user's watch history.
// @Tags users
// @Produce json
// @Param videoID path string true "Video ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Security BearerAuth
// @Router /users/history/{videoID} [post]
func (h *userHandler) addToWatchHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
		return
	}

	if err := h.userService.AddVideoToWatchHistory(c.Request.Context(), userID, c.Param("videoID")); err != nil {
		logger.Warn("Failed to record watch history", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, nil, "Watch history updated"))
}
