package api

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oshokin/authkeeper/internal/config"
)

// Client defines the interface for the backend's authentication endpoints.
type Client interface {
	// Login exchanges credentials for a user and a token pair.
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	// Register creates an account. No tokens are issued.
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	// Refresh trades a refresh token for a new access token.
	Refresh(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error)
	// CreateAdmin asks the backend to create its development admin account.
	CreateAdmin(ctx context.Context) (json.RawMessage, error)
	// Do sends an arbitrary request relative to the base URL and returns the raw answer.
	Do(ctx context.Context, method, path string, body []byte) (*Response, error)
	// GetBaseURL returns the API root.
	GetBaseURL() string
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	// baseURL is the API root all endpoints are resolved against.
	baseURL *url.URL
	// httpClient sends the requests; its transport attaches credentials.
	httpClient *http.Client
}

const (
	// authLoginURI is the URI path for the login endpoint.
	authLoginURI = "user/auth/login"
	// authRegisterURI is the URI path for the registration endpoint.
	authRegisterURI = "user/auth/register"
	// authRefreshURI is the URI path for the access token refresh endpoint.
	authRefreshURI = "user/auth/refresh"
	// authCreateAdminURI is the URI path for the development admin endpoint.
	authCreateAdminURI = "user/auth/create-admin"
)

// NewClient creates and returns a new instance of ClientImpl.
// The config must have passed config.ValidateConfig.
func NewClient(cfg *config.Config, httpClient *http.Client) (Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if httpClient == nil {
		return nil, ErrNilHTTPClient
	}

	baseURL := cfg.ParsedBaseURL
	if baseURL == nil {
		parsed, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		baseURL = parsed
	}

	return &ClientImpl{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Login exchanges credentials for a user and a token pair.
func (c *ClientImpl) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return postJSON[LoginResponse](c, ctx, authLoginURI, req)
}

// Register creates an account.
func (c *ClientImpl) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return postJSON[RegisterResponse](c, ctx, authRegisterURI, req)
}

// Refresh trades a refresh token for a new access token.
func (c *ClientImpl) Refresh(ctx context.Context, req *RefreshRequest) (*RefreshResponse, error) {
	return postJSON[RefreshResponse](c, ctx, authRefreshURI, req)
}

// CreateAdmin posts an empty object to the create-admin endpoint and returns the raw answer.
func (c *ClientImpl) CreateAdmin(ctx context.Context) (json.RawMessage, error) {
	result, err := postJSON[json.RawMessage](c, ctx, authCreateAdminURI, struct{}{})
	if err != nil {
		return nil, err
	}

	return *result, nil
}

// Do sends an arbitrary request relative to the base URL.
// Any status is returned as a Response; only transport failures are errors.
func (c *ClientImpl) Do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, ErrEmptyMethod
	}

	route, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	var payload io.Reader = http.NoBody
	if len(body) > 0 {
		payload = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, route, payload)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       responseBody,
	}, nil
}

// GetBaseURL returns the API root.
func (c *ClientImpl) GetBaseURL() string {
	return c.baseURL.String()
}

// resolve joins path onto the base URL, keeping its query string.
// Paths are relative to the API root; a leading copy of the root's own path
// is dropped, so "/api/events" and "events" reach the same route.
func (c *ClientImpl) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	route := c.baseURL.JoinPath(c.trimBasePath(ref.Path))
	route.RawQuery = ref.RawQuery

	return route.String(), nil
}

// trimBasePath removes the base URL path from the front of p when p is absolute and starts with it.
func (c *ClientImpl) trimBasePath(p string) string {
	basePath := strings.TrimSuffix(c.baseURL.Path, "/")
	if basePath == "" || !strings.HasPrefix(p, "/") {
		return p
	}

	if p == basePath {
		return ""
	}

	if rest, found := strings.CutPrefix(p, basePath+"/"); found {
		return rest
	}

	return p
}
