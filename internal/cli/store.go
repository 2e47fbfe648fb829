package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/steplog/internal/config"
	"github.com/julianstephens/steplog/internal/keyring"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/storage/postgres"
	"github.com/julianstephens/steplog/internal/storage/sqlite"
)

// ErrEmbeddedCredentials is returned for a PostgreSQL target that carries a
// password outside the keyring.
var ErrEmbeddedCredentials = errors.New("PostgreSQL connection strings with embedded credentials are not allowed; store it with 'steplog keyring set' and use --store=keyring, or use .pgpass")

// OpenStore picks a backend for target: "keyring" reads a PostgreSQL
// connection string from the OS keyring, postgres:// URLs go to PostgreSQL,
// *.json paths to the JSON file store, and anything else is a SQLite path.
// The store is returned unopened.
func OpenStore(target string) (storage.Provider, error) {
	fromKeyring := false
	if target == keyring.StoreRef {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no connection string found in keyring. Use 'steplog keyring set' to store one")
			}
			return nil, err
		}
		target = connStr
		fromKeyring = true
	}

	switch {
	case storage.IsPostgres(target) || fromKeyring:
		if _, err := postgres.ValidateConnString(target); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
			if !fromKeyring {
				return nil, ErrEmbeddedCredentials
			}
		}
		return postgres.New(target), nil
	case storage.IsJSON(target):
		return storage.NewJSONStore(config.ExpandHome(target)), nil
	default:
		path := config.ExpandHome(target)
		if path == "" {
			return nil, fmt.Errorf("store path cannot be empty")
		}
		return sqlite.NewStore(path), nil
	}
}

// CopyKeys copies every key from src into dst and returns how many were
// written.
func CopyKeys(ctx *Context, src, dst storage.Provider) (int, error) {
	keys, err := src.Keys(ctx.Ctx(), "")
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	copied := 0
	for _, key := range keys {
		value, err := src.Get(ctx.Ctx(), key)
		if err != nil {
			return copied, fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := dst.Set(ctx.Ctx(), key, value); err != nil {
			return copied, fmt.Errorf("failed to write %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}
