package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// contextKey is a private type for request-context keys.
// Using a custom type prevents collisions.
type contextKey string

const loggerCtxKey = contextKey("logger")

// StructuredLoggingMiddleware creates a Gin middleware handler that injects
// a request-scoped logger into the request context.
func StructuredLoggingMiddleware(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		requestLogger := baseLogger.With(
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)

		c.Header("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), loggerCtxKey, requestLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		latency := time.Since(start)
		requestLogger.Info("Request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", latency),
		)
	}
}

// GetLoggerFromCtx retrieves the request-scoped logger from the context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}
