package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/vidverse/vidverse_backend/internal/dto"
)

// RateLimit creates a Gin middleware for rate limiting requests per client IP.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		context, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Internal server error during rate limit check"))
			return
		}

		if context.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", context.Limit), slog.Int64("remaining_requests", context.Remaining))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again later."))
			return
		}

		c.Next()
	}
}
