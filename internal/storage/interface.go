package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Provider is a string key-value store with prefix listing.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Values
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error

	// Utils
	GetConfigPath() string
}

// IsPostgres reports whether target is a PostgreSQL connection string rather
// than a file path.
func IsPostgres(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}

// IsJSON reports whether target names a JSON file store.
func IsJSON(target string) bool {
	return len(target) > len(".json") && strings.HasSuffix(target, ".json")
}
