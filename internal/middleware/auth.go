package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	portssvc "github.com/vidverse/vidverse_backend/internal/core/ports/services"
	"github.com/vidverse/vidverse_backend/internal/dto"
)

// AccessTokenCookieName is the cookie carrying the access token.
const AccessTokenCookieName = "accessToken"

// AuthMiddleware is the auth gate: it extracts the access token from the
// cookie or the Authorization header (cookie wins), verifies it, loads the
// user, and attaches the resolved identity to the request context.
//
// Access tokens are stateless by design: logout or rotation does not revoke
// an already-issued unexpired access token. That staleness window is bounded
// by the short access-token lifetime.
func AuthMiddleware(tokenSvc portssvc.TokenSvcFacade, userSvc portssvc.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString := extractAccessToken(c)
		if tokenString == "" {
			logger.Warn("No access token in cookie or Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized request"))
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(c.Request.Context(), tokenString)
		if err != nil {
			msg := "Invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Access token has expired"
			}
			logger.Warn("Access token rejected", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, msg))
			return
		}

		user, err := userSvc.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("User from access token no longer exists", slog.String("user_id", claims.UserID))
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Invalid access token"))
				return
			}
			logger.Error("Failed to load user for access token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to resolve user"))
			return
		}

		sanitized := user.Sanitized()

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, currentUserKey, &sanitized)
		ctx = context.WithValue(ctx, loggerCtxKey, logger.With(slog.String("user_id", claims.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractAccessToken returns the candidate token, cookie taking precedence
// over a Bearer header.
func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
