package auth

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/oshokin/authkeeper/internal/client/api"
	"github.com/oshokin/authkeeper/internal/logger"
	"github.com/oshokin/authkeeper/internal/session"
)

var (
	// ErrNoSession is returned by RefreshAccessToken when there is no refresh token or user to refresh with.
	ErrNoSession = errors.New("no session to refresh")
	// ErrIncompleteLoginResponse is returned when a successful login lacks the user or the access token.
	ErrIncompleteLoginResponse = errors.New("login response has no user or tokens")
	// ErrIncompleteRegisterResponse is returned when a successful registration lacks the user.
	ErrIncompleteRegisterResponse = errors.New("register response has no user")
	// ErrIncompleteRefreshResponse is returned when a successful refresh lacks the access token.
	ErrIncompleteRefreshResponse = errors.New("refresh response has no access token")
)

// Service manages the authenticated session.
type Service interface {
	// Login authenticates and stores the user with both tokens.
	Login(ctx context.Context, username, password string) (*session.Session, error)
	// Register creates an account and stores the returned user without tokens.
	Register(ctx context.Context, username, email, password, birthday string) (*session.User, error)
	// RefreshAccessToken replaces the access token using the stored refresh token.
	RefreshAccessToken(ctx context.Context) (string, error)
	// Logout clears the session. It never fails.
	Logout(ctx context.Context)
	// CreateAdminUser asks the backend to create its development admin account.
	CreateAdminUser(ctx context.Context) (json.RawMessage, error)
	// CurrentUser returns a copy of the current user, or nil.
	CurrentUser() *session.User
	// Token returns the access token, or an empty string.
	Token() string
	// RefreshToken returns the refresh token, or an empty string.
	RefreshToken() string
	// IsLoggedIn reports whether a user and an access token are present.
	IsLoggedIn() bool
	// IsAdmin reports whether the current user has the admin role.
	IsAdmin() bool
	// Subscribe returns a replay-one channel of user changes and a cancel function.
	Subscribe() (<-chan *session.User, func())
}

// ServiceImpl implements Service over an API client and a session store.
type ServiceImpl struct {
	client api.Client
	store  *session.Store
}

// NewService creates and returns a new instance of ServiceImpl.
func NewService(client api.Client, store *session.Store) *ServiceImpl {
	return &ServiceImpl{
		client: client,
		store:  store,
	}
}

// Login authenticates and stores the user with both tokens.
// Backend errors are returned unchanged and leave the session untouched.
func (s *ServiceImpl) Login(ctx context.Context, username, password string) (*session.Session, error) {
	response, err := s.client.Login(ctx, &api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if response.User == nil || response.Token == "" || response.RefreshToken == "" {
		return nil, ErrIncompleteLoginResponse
	}

	s.store.SetSession(ctx, response.User, response.Token, response.RefreshToken)

	logger.InfoKV(ctx, "Logged in", "username", response.User.Username)

	return s.store.Snapshot(), nil
}

// Register creates an account and stores the returned user.
// Tokens already held are kept; the backend issues none on registration.
func (s *ServiceImpl) Register(
	ctx context.Context,
	username, email, password, birthday string,
) (*session.User, error) {
	response, err := s.client.Register(ctx, &api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Birthday: birthday,
	})
	if err != nil {
		return nil, err
	}

	if response.User == nil {
		return nil, ErrIncompleteRegisterResponse
	}

	s.store.SetUser(ctx, response.User)

	logger.InfoKV(ctx, "Registered", "username", response.User.Username)

	return response.User.Clone(), nil
}

// RefreshAccessToken replaces the access token using the stored refresh token.
// It fails with ErrNoSession before any network call when there is nothing to refresh.
func (s *ServiceImpl) RefreshAccessToken(ctx context.Context) (string, error) {
	snapshot := s.store.Snapshot()
	if snapshot.RefreshToken == "" || snapshot.User == nil || snapshot.User.ID == "" {
		return "", ErrNoSession
	}

	response, err := s.client.Refresh(ctx, &api.RefreshRequest{
		RefreshToken: snapshot.RefreshToken,
		UserID:       snapshot.User.ID,
	})
	if err != nil {
		return "", err
	}

	if response.Token == "" {
		return "", ErrIncompleteRefreshResponse
	}

	s.store.SetAccessToken(ctx, response.Token)

	logger.Debug(ctx, "Access token refreshed")

	return response.Token, nil
}

// Logout clears the session.
func (s *ServiceImpl) Logout(ctx context.Context) {
	s.store.Clear(ctx)

	logger.Info(ctx, "Logged out")
}

// CreateAdminUser asks the backend to create its development admin account.
func (s *ServiceImpl) CreateAdminUser(ctx context.Context) (json.RawMessage, error) {
	return s.client.CreateAdmin(ctx)
}

// CurrentUser returns a copy of the current user, or nil.
func (s *ServiceImpl) CurrentUser() *session.User {
	return s.store.CurrentUser()
}

// Token returns the access token, or an empty string.
func (s *ServiceImpl) Token() string {
	return s.store.Token()
}

// RefreshToken returns the refresh token, or an empty string.
func (s *ServiceImpl) RefreshToken() string {
	return s.store.RefreshToken()
}

// IsLoggedIn reports whether a user and an access token are present.
func (s *ServiceImpl) IsLoggedIn() bool {
	return s.store.IsLoggedIn()
}

// IsAdmin reports whether the current user has the admin role.
func (s *ServiceImpl) IsAdmin() bool {
	return s.store.IsAdmin()
}

// Subscribe returns a replay-one channel of user changes and a cancel function.
func (s *ServiceImpl) Subscribe() (<-chan *session.User, func()) {
	return s.store.Subscribe()
}
