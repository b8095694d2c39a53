package dto

import "net/http"

// APIResponse is the uniform response envelope. Failures use the same shape
// with an error status and no data.
type APIResponse struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// NewResponse builds a success envelope.
func NewResponse(status int, data interface{}, message string) APIResponse {
	return APIResponse{Status: status, Data: data, Message: message}
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(status int, message string) APIResponse {
	if message == "" {
		message = http.StatusText(status)
	}
	return APIResponse{Status: status, Message: message}
}
