package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/authkeeper/internal/logger"
	"github.com/oshokin/authkeeper/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api.
	BaseURL string `mapstructure:"base_url"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// RequestTimeout is the overall timeout of a single HTTP exchange (e.g. "30s").
	RequestTimeout string `mapstructure:"request_timeout"`
	// MaxLogLength is the maximum length of a dumped request or response in debug logs.
	MaxLogLength uint64 `mapstructure:"max_log_length"`
	// StorageBackend selects where the session is persisted: file, redis or memory.
	StorageBackend string `mapstructure:"storage_backend"`
	// StoragePath is the session file used by the file backend.
	StoragePath string `mapstructure:"storage_path"`
	// RedisAddr is the host:port of the Redis server used by the redis backend.
	RedisAddr string `mapstructure:"redis_addr"`
	// RedisPassword is the optional Redis password.
	RedisPassword string `mapstructure:"redis_password"`
	// RedisDB is the Redis logical database number.
	RedisDB int `mapstructure:"redis_db"`
	// RedisKeyPrefix is prepended to every session slot key in Redis.
	RedisKeyPrefix string `mapstructure:"redis_key_prefix"`
	// LoginHint is shown when the session is torn down and the user has to log in again.
	LoginHint string `mapstructure:"login_hint"`
	// ParsedBaseURL is the parsed API root.
	ParsedBaseURL *url.URL
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".authkeeper.yaml"

	// DefaultBaseURL is the API root of a locally running backend.
	DefaultBaseURL = "http://localhost:3000/api"

	// DefaultRequestTimeout is the default timeout of a single HTTP exchange.
	DefaultRequestTimeout = "60s"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a dumped request or response.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// DefaultRedisKeyPrefix is the default prefix of session keys in Redis.
	DefaultRedisKeyPrefix = "authkeeper:"

	// DefaultLoginHint is printed when a 401 sends the user back to the login view.
	DefaultLoginHint = "authkeeper auth login"

	// envPrefix is the prefix of environment variables overriding config keys.
	envPrefix = "AUTHKEEPER"

	// appFolderName is the folder created under the user config directory.
	appFolderName = "authkeeper"

	// sessionFilename is the default name of the session file.
	sessionFilename = "session.yaml"
)

// Storage backends.
const (
	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyBaseURL indicates that the API base URL is missing.
	ErrEmptyBaseURL = errors.New("base URL cannot be empty")
	// ErrInvalidBaseURL indicates that the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("base URL must be an absolute http or https URL")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidRequestTimeout indicates that the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrUnknownStorageBackend indicates that the storage backend is not supported.
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
	// ErrEmptyStoragePath indicates that the file backend has no path.
	ErrEmptyStoragePath = errors.New("storage_path cannot be empty for the file backend")
	// ErrEmptyRedisAddr indicates that the redis backend has no address.
	ErrEmptyRedisAddr = errors.New("redis_addr cannot be empty for the redis backend")
	// ErrInvalidRedisDB indicates that the Redis database number is negative.
	ErrInvalidRedisDB = errors.New("redis_db cannot be negative")
)

// LoadConfig loads configuration settings from a YAML file, defaults and environment.
// A missing file is only tolerated when the default filename is used.
func LoadConfig(configFilename string) (*Config, error) {
	isDefaultFile := configFilename == ""
	if isDefaultFile {
		configFilename = DefaultConfigFilename
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	exists, err := utils.IsFileExist(configFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	if exists || !isDefaultFile {
		v.SetConfigFile(configFilename)

		if err = v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return ErrEmptyBaseURL
	}

	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}

	if (parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https") || parsedBaseURL.Host == "" {
		return fmt.Errorf("%w: '%s'", ErrInvalidBaseURL, baseURL)
	}

	cfg.ParsedBaseURL = parsedBaseURL

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse request timeout: %w", err)
	}

	if cfg.ParsedRequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	if cfg.MaxLogLength == 0 {
		cfg.MaxLogLength = DefaultMaxLogLength
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	switch cfg.StorageBackend {
	case StorageBackendFile:
		if strings.TrimSpace(cfg.StoragePath) == "" {
			return ErrEmptyStoragePath
		}
	case StorageBackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return ErrEmptyRedisAddr
		}

		if cfg.RedisDB < 0 {
			return ErrInvalidRedisDB
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownStorageBackend, cfg.StorageBackend)
	}

	if strings.TrimSpace(cfg.LoginHint) == "" {
		cfg.LoginHint = DefaultLoginHint
	}

	return nil
}

// DefaultStoragePath returns the session file location under the user config directory.
// It falls back to the working directory when the config directory is unknown.
func DefaultStoragePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "." + appFolderName + "-" + sessionFilename
	}

	return filepath.Join(configDir, appFolderName, sessionFilename)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("max_log_length", DefaultMaxLogLength)
	v.SetDefault("storage_backend", StorageBackendFile)
	v.SetDefault("storage_path", DefaultStoragePath())
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_key_prefix", DefaultRedisKeyPrefix)
	v.SetDefault("login_hint", DefaultLoginHint)
}
