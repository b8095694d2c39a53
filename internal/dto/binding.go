package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators adds the binding rules the request DTOs rely on
// beyond the built-in tags. Called once at startup against gin's validator
// engine.
func RegisterCustomValidators(v *validator.Validate) error {
	// "notblank": non-empty after trimming whitespace
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}
