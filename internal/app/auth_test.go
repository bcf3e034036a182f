package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/authkeeper/internal/service/auth"
	mock_auth "github.com/oshokin/authkeeper/internal/service/auth/mocks"
	"github.com/oshokin/authkeeper/internal/session"
)

//nolint:gochecknoglobals // Fixed reference time shared by the tests.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": expiresAt.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

func testUser() *session.User {
	return &session.User{
		ID:       "u1",
		Username: "ana",
		Email:    "ana@example.com",
		Events:   []string{"e1", "e2"},
		Role:     session.RoleAdmin,
	}
}

// TestRunLogin tests the login output.
func TestRunLogin(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_auth.NewMockService(ctrl)

	service.EXPECT().
		Login(gomock.Any(), "ana", "secret").
		Return(&session.Session{User: testUser(), AccessToken: "a", RefreshToken: "r"}, nil)

	var out bytes.Buffer
	require.NoError(t, runLogin(context.Background(), service, &out, "ana", "secret"))

	assert.Equal(t, "Logged in as ana.\nThis account has administrator rights.\n", out.String())

	expectedErr := errors.New("bad credentials")
	service.EXPECT().Login(gomock.Any(), "ana", "wrong").Return(nil, expectedErr)

	out.Reset()
	require.ErrorIs(t, runLogin(context.Background(), service, &out, "ana", "wrong"), expectedErr)
	assert.Empty(t, out.String())
}

// TestRunRegister tests the registration output.
func TestRunRegister(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_auth.NewMockService(ctrl)

	service.EXPECT().
		Register(gomock.Any(), "ana", "ana@example.com", "secret", "1995-04-12").
		Return(testUser(), nil)

	var out bytes.Buffer

	err := runRegister(context.Background(), service, &out, RegisterParams{
		Username: "ana",
		Email:    "ana@example.com",
		Password: "secret",
		Birthday: "1995-04-12",
	}, "authkeeper auth login")
	require.NoError(t, err)

	assert.Equal(t, "Registered ana <ana@example.com>.\nLog in with: authkeeper auth login\n", out.String())
}

// TestRunRefresh tests the refresh output.
func TestRunRefresh(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_auth.NewMockService(ctrl)

	token := signedToken(t, testNow.Add(15*time.Minute))
	service.EXPECT().RefreshAccessToken(gomock.Any()).Return(token, nil)

	var out bytes.Buffer
	require.NoError(t, runRefresh(context.Background(), service, &out, testNow))

	assert.Contains(t, out.String(), "Access token refreshed: ")
	assert.Contains(t, out.String(), "(expires 15 minutes from now)")
	assert.NotContains(t, out.String(), token)

	service.EXPECT().RefreshAccessToken(gomock.Any()).Return("", auth.ErrNoSession)
	require.ErrorIs(t, runRefresh(context.Background(), service, &out, testNow), auth.ErrNoSession)
}

// TestRunLogout tests the logout output.
func TestRunLogout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_auth.NewMockService(ctrl)
	service.EXPECT().Logout(gomock.Any()).Times(1)

	var out bytes.Buffer
	require.NoError(t, runLogout(context.Background(), service, &out))
	assert.Equal(t, "Logged out.\n", out.String())
}

// TestRunStatus tests the status output for each session state.
func TestRunStatus(t *testing.T) {
	t.Parallel()

	t.Run("logged in", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_auth.NewMockService(ctrl)

		token := signedToken(t, testNow.Add(-2*time.Hour))

		service.EXPECT().CurrentUser().Return(testUser())
		service.EXPECT().Token().Return(token)
		service.EXPECT().IsLoggedIn().Return(true)
		service.EXPECT().RefreshToken().Return("refresh-token-value")

		var out bytes.Buffer
		require.NoError(t, runStatus(service, &out, "hint", testNow))

		assert.Contains(t, out.String(), "Logged in as ana <ana@example.com>\n")
		assert.Contains(t, out.String(), "User ID:       u1\n")
		assert.Contains(t, out.String(), "Role:          admin\n")
		assert.Contains(t, out.String(), "Events:        2\n")
		assert.Contains(t, out.String(), "(expired 2 hours ago)")
		assert.Contains(t, out.String(), "Refresh token: refr")
		assert.NotContains(t, out.String(), "refresh-token-value")
		assert.NotContains(t, out.String(), token)
	})

	t.Run("opaque token without refresh token", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_auth.NewMockService(ctrl)

		user := testUser()
		user.Role = ""

		service.EXPECT().CurrentUser().Return(user)
		service.EXPECT().Token().Return("opaque-access-token")
		service.EXPECT().IsLoggedIn().Return(true)
		service.EXPECT().RefreshToken().Return("")

		var out bytes.Buffer
		require.NoError(t, runStatus(service, &out, "hint", testNow))

		assert.Contains(t, out.String(), "Role:          -\n")
		assert.Contains(t, out.String(), "Refresh token: -\n")
		assert.NotContains(t, out.String(), "expire")
	})

	t.Run("registered only", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_auth.NewMockService(ctrl)

		service.EXPECT().CurrentUser().Return(testUser())
		service.EXPECT().Token().Return("")
		service.EXPECT().IsLoggedIn().Return(false)

		var out bytes.Buffer
		require.NoError(t, runStatus(service, &out, "authkeeper auth login", testNow))

		assert.Equal(t,
			"Not logged in.\nRegistered as ana, but there is no access token.\nLog in with: authkeeper auth login\n",
			out.String())
	})

	t.Run("logged out", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		service := mock_auth.NewMockService(ctrl)

		service.EXPECT().CurrentUser().Return(nil)
		service.EXPECT().Token().Return("")
		service.EXPECT().IsLoggedIn().Return(false)

		var out bytes.Buffer
		require.NoError(t, runStatus(service, &out, "authkeeper auth login", testNow))

		assert.Equal(t, "Not logged in.\nLog in with: authkeeper auth login\n", out.String())
	})
}

// TestRunCreateAdmin tests that the backend answer is printed indented.
func TestRunCreateAdmin(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	service := mock_auth.NewMockService(ctrl)

	service.EXPECT().CreateAdminUser(gomock.Any()).Return(json.RawMessage(`{"message":"created"}`), nil)

	var out bytes.Buffer
	require.NoError(t, runCreateAdmin(context.Background(), service, &out))
	assert.Equal(t, "{\n  \"message\": \"created\"\n}\n", out.String())
}

// TestDescribeExpiry tests relative expiry rendering.
func TestDescribeExpiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{name: "future", token: signedToken(t, testNow.Add(3*24*time.Hour)), expected: " (expires 3 days from now)"},
		{name: "past", token: signedToken(t, testNow.Add(-10*time.Minute)), expected: " (expired 10 minutes ago)"},
		{name: "opaque", token: "not-a-jwt", expected: ""},
		{name: "empty", token: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, describeExpiry(tt.token, testNow))
		})
	}
}

// TestWriteBody tests body printing.
func TestWriteBody(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	writeBody(&out, []byte(`[1,2]`))
	writeBody(&out, []byte("plain text\n"))
	writeBody(&out, []byte("  "))

	assert.Equal(t, "[\n  1,\n  2\n]\nplain text\n", out.String())
}
