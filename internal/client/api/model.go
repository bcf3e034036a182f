package api

import (
	"net/http"

	"github.com/oshokin/authkeeper/internal/session"
)

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a successful login.
// The backend capitalizes the user field.
type LoginResponse struct {
	Message      string        `json:"message"`
	User         *session.User `json:"User"`
	Token        string        `json:"token"`
	RefreshToken string        `json:"refreshToken"`
}

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"gmail"`
	Password string `json:"password"`
	Birthday string `json:"birthday,omitempty"`
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Message string        `json:"message"`
	User    *session.User `json:"user"`
}

// RefreshRequest is the body of an access token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

// RefreshResponse is the body of a successful refresh.
type RefreshResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Response is the raw result of Do.
type Response struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Header holds the response headers.
	Header http.Header
	// Body is the full response body.
	Body []byte
}
