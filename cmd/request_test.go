package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/authkeeper/internal/constants"
)

// TestReadRequestBody tests every form of the --data flag.
func TestReadRequestBody(t *testing.T) {
	t.Parallel()

	bodyFile := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(bodyFile, []byte(`{"from":"file"}`), constants.DefaultFilePermissions))

	tests := []struct {
		name        string
		data        string
		stdin       string
		expected    []byte
		expectError bool
	}{
		{name: "empty", data: "", expected: nil},
		{name: "inline", data: `{"name":"x"}`, expected: []byte(`{"name":"x"}`)},
		{name: "stdin", data: "@-", stdin: `{"from":"stdin"}`, expected: []byte(`{"from":"stdin"}`)},
		{name: "file", data: "@" + bodyFile, expected: []byte(`{"from":"file"}`)},
		{name: "missing file", data: "@" + filepath.Join(t.TempDir(), "missing.json"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body, err := readRequestBody(tt.data, strings.NewReader(tt.stdin))
			if tt.expectError {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, body)
		})
	}
}
