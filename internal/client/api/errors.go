package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrNilConfig indicates that the client was created without a configuration.
	ErrNilConfig = errors.New("config is nil")
	// ErrNilHTTPClient indicates that the client was created without an HTTP client.
	ErrNilHTTPClient = errors.New("http client is nil")
	// ErrEmptyMethod indicates that Do was called without an HTTP method.
	ErrEmptyMethod = errors.New("method is empty")
)

// AuthError is returned when the backend answers with a non-2xx status.
type AuthError struct {
	// Endpoint is the path the request was sent to, relative to the base URL.
	Endpoint string
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Message is the server's explanation, if the body carried one.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s returned %d", ErrUnexpectedHTTPStatus, e.Endpoint, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s returned %d: %s", ErrUnexpectedHTTPStatus, e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrUnexpectedHTTPStatus.
func (e *AuthError) Unwrap() error {
	return ErrUnexpectedHTTPStatus
}

// IsStatus reports whether err is an *AuthError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var authErr *AuthError

	return errors.As(err, &authErr) && authErr.StatusCode == statusCode
}

func newAuthError(endpoint string, statusCode int, body []byte) *AuthError {
	var payload struct {
		Message string `json:"message"`
	}

	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Message
	}

	return &AuthError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    strings.TrimSpace(message),
	}
}
