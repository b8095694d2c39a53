package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidCredentials indicates a password mismatch for an existing user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthorized indicates a missing, malformed, expired, or already-used token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrSessionCreation indicates a storage failure after credentials were
// already verified. Surfaced as a server fault, never as a client error.
var ErrSessionCreation = errors.New("failed to create session")
