package http

//go:generate $MOCKGEN -source=auth_injector.go -destination=mocks/auth_injector_mock.go

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/oshokin/authkeeper/internal/effects"
)

// TokenProvider supplies the current access token.
type TokenProvider interface {
	// Token returns the access token, or an empty string when logged out.
	Token() string
}

// AuthInjector is a custom http.RoundTripper that decorates every request with
// JSON and bearer credential headers and reacts to error statuses.
// The bearer header is only attached for the API host, so redirects to other
// hosts never receive the token.
// Responses and transport errors are returned to the caller unchanged.
type AuthInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// apiHost is the host (with port) that may receive credentials.
	apiHost string
	// tokens provides the access token to inject.
	tokens TokenProvider
	// effects runs the plan computed for an error status.
	effects effects.Handler
}

// NewAuthInjector creates and returns a new instance of AuthInjector.
// A nil apiRoot disables credential injection entirely.
func NewAuthInjector(
	next http.RoundTripper,
	apiRoot *url.URL,
	tokens TokenProvider,
	handler effects.Handler,
) http.RoundTripper {
	var apiHost string
	if apiRoot != nil {
		apiHost = strings.ToLower(apiRoot.Host)
	}

	return &AuthInjector{
		next:    next,
		apiHost: apiHost,
		tokens:  tokens,
		effects: handler,
	}
}

// RoundTrip executes a single HTTP transaction.
// It implements the http.RoundTripper interface.
func (t *AuthInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// A RoundTripper must not modify the caller's request.
	decorated := req.Clone(req.Context())
	decorated.Header.Set(HeaderContentType, ContentTypeJSON)

	if t.isAPIHost(req.URL) {
		if token := t.tokens.Token(); token != "" {
			decorated.Header.Set(HeaderAuthorization, BearerPrefix+token)
		}
	}

	resp, err := t.next.RoundTrip(decorated)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		plan := effects.PlanFor(resp.StatusCode, req.Method+" "+req.URL.Path)
		if !plan.IsEmpty() {
			t.effects.Execute(req.Context(), plan)
		}
	}

	return resp, nil
}

// isAPIHost reports whether u points at the configured API host.
func (t *AuthInjector) isAPIHost(u *url.URL) bool {
	return t.apiHost != "" && u != nil && strings.EqualFold(u.Host, t.apiHost)
}
