package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidverse/vidverse_backend/internal/apperrors"
	"github.com/vidverse/vidverse_backend/internal/dto"
)

// statusFromError maps the apperrors taxonomy to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the uniform failure envelope for a service error.
// Client errors carry the error's message; server faults get a generic one
// so internals are never leaked.
func respondError(c *gin.Context, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	c.JSON(status, dto.NewErrorResponse(status, message))
}
