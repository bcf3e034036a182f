package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/authkeeper/internal/constants"
)

func validConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:3000/api",
		LogLevel:       "info",
		RequestTimeout: "30s",
		StorageBackend: StorageBackendFile,
		StoragePath:    "/tmp/authkeeper/session.yaml",
	}
}

// TestConstants tests the constants.
func TestConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1024*1024, DefaultMaxLogLength)
	assert.Equal(t, ".authkeeper.yaml", DefaultConfigFilename)
	assert.Equal(t, "http://localhost:3000/api", DefaultBaseURL)
}

// TestLoadConfig tests the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		configFilename string
		configContent  string
		expectError    bool
		expectedError  string
		check          func(*testing.T, *Config)
	}{
		{
			name:           "valid config file",
			configFilename: "valid_config.yaml",
			configContent: `
base_url: "https://events.example.com/api"
log_level: "debug"
request_timeout: "15s"
storage_backend: "redis"
redis_addr: "localhost:6379"
redis_db: 2
redis_key_prefix: "events:"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://events.example.com/api", cfg.BaseURL)
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "15s", cfg.RequestTimeout)
				assert.Equal(t, StorageBackendRedis, cfg.StorageBackend)
				assert.Equal(t, "localhost:6379", cfg.RedisAddr)
				assert.Equal(t, 2, cfg.RedisDB)
				assert.Equal(t, "events:", cfg.RedisKeyPrefix)
				// Keys absent from the file keep their defaults.
				assert.Equal(t, uint64(DefaultMaxLogLength), cfg.MaxLogLength)
				assert.Equal(t, DefaultLoginHint, cfg.LoginHint)
			},
		},
		{
			name:           "partial config file uses defaults",
			configFilename: "partial.yaml",
			configContent: `
log_level: "warn"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
				assert.Equal(t, "warn", cfg.LogLevel)
				assert.Equal(t, StorageBackendFile, cfg.StorageBackend)
				assert.Equal(t, DefaultStoragePath(), cfg.StoragePath)
			},
		},
		{
			name:           "non-existent explicit file",
			configFilename: "non_existent.yaml",
			expectError:    true,
			expectedError:  "failed to read config from file",
		},
		{
			name:           "invalid yaml",
			configFilename: "invalid.yaml",
			configContent: `
invalid: yaml: content: [unclosed
`,
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), tt.configFilename)

			if tt.configContent != "" {
				err := os.WriteFile(configPath, []byte(tt.configContent), constants.DefaultFilePermissions)
				require.NoError(t, err)
			}

			cfg, err := LoadConfig(configPath)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.check(t, cfg)
		})
	}
}

// TestLoadConfigEnvOverride tests that environment variables override file values.
func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("AUTHKEEPER_BASE_URL", "https://env.example.com/api")
	t.Setenv("AUTHKEEPER_STORAGE_BACKEND", "memory")

	configPath := filepath.Join(t.TempDir(), "env.yaml")
	err := os.WriteFile(configPath, []byte(`base_url: "https://file.example.com/api"`), constants.DefaultFilePermissions)
	require.NoError(t, err)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.BaseURL)
	assert.Equal(t, StorageBackendMemory, cfg.StorageBackend)
}

// TestValidateConfig tests the ValidateConfig function.
//
//nolint:funlen // Table-driven test with many cases.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		modify      func(*Config)
		expectedErr error
		errContains string
	}{
		{
			name:   "valid file config",
			modify: func(*Config) {},
		},
		{
			name: "valid memory config",
			modify: func(cfg *Config) {
				cfg.StorageBackend = "Memory"
				cfg.StoragePath = ""
			},
		},
		{
			name: "valid redis config",
			modify: func(cfg *Config) {
				cfg.StorageBackend = StorageBackendRedis
				cfg.RedisAddr = "localhost:6379"
			},
		},
		{
			name: "empty base URL",
			modify: func(cfg *Config) {
				cfg.BaseURL = "   "
			},
			expectedErr: ErrEmptyBaseURL,
		},
		{
			name: "relative base URL",
			modify: func(cfg *Config) {
				cfg.BaseURL = "/api"
			},
			expectedErr: ErrInvalidBaseURL,
		},
		{
			name: "unsupported scheme",
			modify: func(cfg *Config) {
				cfg.BaseURL = "ftp://localhost/api"
			},
			expectedErr: ErrInvalidBaseURL,
		},
		{
			name: "unknown log level",
			modify: func(cfg *Config) {
				cfg.LogLevel = "verbose"
			},
			expectedErr: ErrUnknownLogLevel,
		},
		{
			name: "unparsable timeout",
			modify: func(cfg *Config) {
				cfg.RequestTimeout = "soon"
			},
			errContains: "failed to parse request timeout",
		},
		{
			name: "non-positive timeout",
			modify: func(cfg *Config) {
				cfg.RequestTimeout = "0s"
			},
			expectedErr: ErrInvalidRequestTimeout,
		},
		{
			name: "unknown storage backend",
			modify: func(cfg *Config) {
				cfg.StorageBackend = "sqlite"
			},
			expectedErr: ErrUnknownStorageBackend,
		},
		{
			name: "file backend without path",
			modify: func(cfg *Config) {
				cfg.StoragePath = ""
			},
			expectedErr: ErrEmptyStoragePath,
		},
		{
			name: "redis backend without address",
			modify: func(cfg *Config) {
				cfg.StorageBackend = StorageBackendRedis
			},
			expectedErr: ErrEmptyRedisAddr,
		},
		{
			name: "redis backend with negative db",
			modify: func(cfg *Config) {
				cfg.StorageBackend = StorageBackendRedis
				cfg.RedisAddr = "localhost:6379"
				cfg.RedisDB = -1
			},
			expectedErr: ErrInvalidRedisDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)

			switch {
			case tt.expectedErr != nil:
				require.ErrorIs(t, err, tt.expectedErr)
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				require.NoError(t, err)
			}
		})
	}
}

// TestValidateConfigDerivedFields tests that parsed fields are populated.
func TestValidateConfigDerivedFields(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.LogLevel = "DEBUG"

	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "localhost:3000", cfg.ParsedBaseURL.Host)
	assert.Equal(t, 30*time.Second, cfg.ParsedRequestTimeout)
	assert.Equal(t, zapcore.DebugLevel, cfg.ParsedLogLevel)
	assert.Equal(t, uint64(DefaultMaxLogLength), cfg.MaxLogLength)
	assert.Equal(t, DefaultLoginHint, cfg.LoginHint)
}

// TestDefaultStoragePath tests that the default session file lives in an authkeeper folder.
func TestDefaultStoragePath(t *testing.T) {
	t.Parallel()

	path := DefaultStoragePath()
	assert.Contains(t, path, "authkeeper")
	assert.Equal(t, ".yaml", filepath.Ext(path))
}
