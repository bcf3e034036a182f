package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/oshokin/authkeeper/internal/client/api"
	"github.com/oshokin/authkeeper/internal/config"
	"github.com/oshokin/authkeeper/internal/effects"
	"github.com/oshokin/authkeeper/internal/logger"
	"github.com/oshokin/authkeeper/internal/service/auth"
	"github.com/oshokin/authkeeper/internal/session"
	"github.com/oshokin/authkeeper/internal/storage"
	http_transport "github.com/oshokin/authkeeper/internal/transport/http"
)

// Runtime holds the components shared by every command.
type Runtime struct {
	// Client sends requests through the augmented transport.
	Client api.Client
	// Service owns the session.
	Service auth.Service

	closers []func() error
}

// NewRuntime builds the runtime described by cfg.
// Effects print to stderr. The config must have passed config.ValidateConfig.
func NewRuntime(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	return newRuntime(ctx, cfg, http.DefaultTransport, os.Stderr)
}

func newRuntime(
	ctx context.Context,
	cfg *config.Config,
	baseTransport http.RoundTripper,
	effectsOut io.Writer,
) (*Runtime, error) {
	st, closeStorage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	if closeStorage != nil {
		rt.closers = append(rt.closers, closeStorage)
	}

	store, err := session.NewStore(ctx, st)
	if err != nil {
		rt.Close(ctx)

		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	executor := effects.NewExecutor(
		store,
		effects.NewConsoleNavigator(effectsOut, cfg.LoginHint),
		effects.NewConsoleAlerter(effectsOut))

	apiRoot, err := apiRootURL(cfg)
	if err != nil {
		rt.Close(ctx)

		return nil, err
	}

	httpClient := &http.Client{
		Transport: http_transport.NewAuthInjector(
			http_transport.NewLogTransport(baseTransport, cfg.MaxLogLength),
			apiRoot,
			store,
			executor),
		Timeout: cfg.ParsedRequestTimeout,
	}

	client, err := api.NewClient(cfg, httpClient)
	if err != nil {
		rt.Close(ctx)

		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}

	rt.Client = client
	rt.Service = auth.NewService(client, store)
	rt.closers = append(rt.closers, watchSession(ctx, rt.Service))

	return rt, nil
}

// Close releases the storage connection and stops the session watcher.
func (r *Runtime) Close(ctx context.Context) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			logger.Warnf(ctx, "Failed to release resource: %v", err)
		}
	}

	r.closers = nil
}

// newStorage opens the configured backend. The returned close function may be nil.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func() error, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendFile:
		logger.Debugf(ctx, "Using session file %s", cfg.StoragePath)

		return storage.NewFileStorage(cfg.StoragePath), nil, nil
	case config.StorageBackendRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		logger.Debugf(ctx, "Using redis session storage at %s", cfg.RedisAddr)

		return redisStorage, redisStorage.Close, nil
	case config.StorageBackendMemory:
		return storage.NewMemoryStorage(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: '%s'", config.ErrUnknownStorageBackend, cfg.StorageBackend)
	}
}

// watchSession logs every user change at debug level until the returned function is called.
func watchSession(ctx context.Context, service auth.Service) func() error {
	updates, cancel := service.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)

		for user := range updates {
			if user == nil {
				logger.Debug(ctx, "Session user: none")

				continue
			}

			logger.DebugKV(ctx, "Session user changed", "username", user.Username, "role", user.Role)
		}
	}()

	return func() error {
		cancel()
		<-done

		return nil
	}
}

// apiRootURL returns the parsed API root, parsing BaseURL when the config was not validated.
func apiRootURL(cfg *config.Config) (*url.URL, error) {
	if cfg.ParsedBaseURL != nil {
		return cfg.ParsedBaseURL, nil
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	return parsed, nil
}
