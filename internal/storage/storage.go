package storage

//go:generate $MOCKGEN -source=storage.go -destination=mocks/storage_mock.go

import (
	"context"
	"errors"
)

// ErrEmptyKey indicates that an operation was called with an empty key.
var ErrEmptyKey = errors.New("storage key cannot be empty")

// Storage is a key-value store of string slots.
type Storage interface {
	// Get returns the value of key and whether it is present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
