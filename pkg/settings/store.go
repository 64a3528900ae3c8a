package settings

import (
	"context"
	"errors"
)

// Fixed keys under which settings are persisted.
const (
	KeyProviderConfig   = "textStudioAPIConfig"
	KeyFormatterPrompts = "textFormatterPrompts"
	KeyGeneratorPrompts = "textGeneratorPrompts"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("settings store is closed")

// Store is a key/value store for settings documents.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
