package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/authkeeper/internal/client/api"
	mock_api "github.com/oshokin/authkeeper/internal/client/api/mocks"
)

// TestRunRequest tests printing of arbitrary responses.
func TestRunRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		response    *api.Response
		expectedOut string
		expectError bool
	}{
		{
			name:        "success",
			response:    &api.Response{StatusCode: http.StatusOK, Body: []byte(`{"id":"e1"}`)},
			expectedOut: "HTTP 200 OK\n{\n  \"id\": \"e1\"\n}\n",
		},
		{
			name:        "no content",
			response:    &api.Response{StatusCode: http.StatusNoContent},
			expectedOut: "HTTP 204 No Content\n",
		},
		{
			name:        "forbidden fails the command",
			response:    &api.Response{StatusCode: http.StatusForbidden, Body: []byte(`{"message":"admins only"}`)},
			expectedOut: "HTTP 403 Forbidden\n{\n  \"message\": \"admins only\"\n}\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			client := mock_api.NewMockClient(ctrl)

			client.EXPECT().
				Do(gomock.Any(), http.MethodPost, "events", []byte(`{"name":"x"}`)).
				Return(tt.response, nil)

			var out bytes.Buffer

			err := runRequest(context.Background(), client, &out, http.MethodPost, "events", []byte(`{"name":"x"}`))
			if tt.expectError {
				require.ErrorIs(t, err, api.ErrUnexpectedHTTPStatus)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.expectedOut, out.String())
		})
	}
}

// TestRunRequest_TransportError tests that transport errors are returned without output.
func TestRunRequest_TransportError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_api.NewMockClient(ctrl)

	expectedErr := errors.New("connection refused")
	client.EXPECT().Do(gomock.Any(), http.MethodGet, "events", nil).Return(nil, expectedErr)

	var out bytes.Buffer

	require.ErrorIs(t, runRequest(context.Background(), client, &out, http.MethodGet, "events", nil), expectedErr)
	assert.Empty(t, out.String())
}
