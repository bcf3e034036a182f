package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/authkeeper/internal/config"
	"github.com/oshokin/authkeeper/internal/logger"
)

// TestNewLogTransport tests the NewLogTransport function.
func TestNewLogTransport(t *testing.T) {
	t.Parallel()

	transport, ok := NewLogTransport(http.DefaultTransport, 0).(*LogTransport)
	require.True(t, ok)
	assert.Equal(t, uint64(config.DefaultMaxLogLength), transport.maxLogLength)

	transport, ok = NewLogTransport(http.DefaultTransport, 64).(*LogTransport)
	require.True(t, ok)
	assert.Equal(t, uint64(64), transport.maxLogLength)
}

// TestRedact tests that credentials never reach the debug log.
func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:        "authorization header",
			input:       "GET /api/events HTTP/1.1\r\nAuthorization: Bearer secret-access\r\nContent-Type: application/json\r\n\r\n",
			contains:    []string{"Authorization: [REDACTED]\r\n", "Content-Type: application/json"},
			notContains: []string{"secret-access"},
		},
		{
			name:        "login body",
			input:       `{"username":"ana","password":"hunter2"}`,
			contains:    []string{`"username":"ana"`, `"password":"[REDACTED]"`},
			notContains: []string{"hunter2"},
		},
		{
			name:        "token response with escaped quote",
			input:       `{"message":"ok","token":"a\"b","refreshToken": "r-1"}`,
			contains:    []string{`"message":"ok"`, `"token":"[REDACTED]"`, `"refreshToken": "[REDACTED]"`},
			notContains: []string{`a\"b`, "r-1"},
		},
		{
			name:     "nothing to redact",
			input:    `{"message":"not found"}`,
			contains: []string{`{"message":"not found"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := string(redact([]byte(tt.input)))

			for _, s := range tt.contains {
				assert.Contains(t, result, s)
			}

			for _, s := range tt.notContains {
				assert.NotContains(t, result, s)
			}
		})
	}
}

// TestLogTransport_Truncate tests dump truncation.
func TestLogTransport_Truncate(t *testing.T) {
	t.Parallel()

	transport := &LogTransport{maxLogLength: 5}

	assert.Equal(t, "abc", transport.truncate([]byte("abc")))
	assert.Equal(t, "abcde... [truncated]", transport.truncate([]byte("abcdefgh")))
}

// TestLogTransport_RoundTrip_PreservesBody tests that dumping at debug level leaves the body intact.
func TestLogTransport_RoundTrip_PreservesBody(t *testing.T) {
	// Don't run in parallel: the test changes the global log level.
	originalLevel := logger.Level()
	defer logger.SetLevel(originalLevel)

	logger.SetLevel(zapcore.DebugLevel)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"username":"ana","password":"hunter2"}`, string(body))

		w.Header().Set(HeaderContentType, ContentTypeJSON)
		_, _ = io.WriteString(w, `{"token":"t"}`)
	}))
	defer server.Close()

	transport := NewLogTransport(http.DefaultTransport, 0)

	req, err := http.NewRequest(http.MethodPost, server.URL, //nolint:noctx // Test code, context not needed.
		strings.NewReader(`{"username":"ana","password":"hunter2"}`))
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // Test cleanup, error is not critical.

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"t"}`, string(body))
}

// TestLogTransport_RoundTrip_Error tests that transport errors are returned.
func TestLogTransport_RoundTrip_Error(t *testing.T) {
	t.Parallel()

	transport := NewLogTransport(http.DefaultTransport, 0)

	req, err := http.NewRequest(http.MethodGet, "http://[::1]:0", nil) //nolint:noctx // Test code.
	require.NoError(t, err)

	resp, err := transport.RoundTrip(req) //nolint:bodyclose // Body is empty on error.
	require.Error(t, err)
	assert.Nil(t, resp)

	resp, err = transport.RoundTrip(nil) //nolint:bodyclose // Body is empty on error.
	require.ErrorIs(t, err, ErrNilRequest)
	assert.Nil(t, resp)
}
