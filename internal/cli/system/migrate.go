package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/steplog/internal/cli"
)

// versionedStore is implemented by the SQL backends.
type versionedStore interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(versionedStore)
	if !ok {
		return fmt.Errorf("migrate command only supports SQLite and PostgreSQL storage")
	}

	w := ctx.Stdout()
	count, err := store.Migrate(ctx.Ctx(), func(msg string) {
		fmt.Fprintln(w, msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(w, "No migrations to apply. Database is up to date.")
	} else {
		fmt.Fprintf(w, "\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
