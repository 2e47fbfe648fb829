// Package clitest builds command contexts backed by a throwaway SQLite store.
package clitest

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/config"
	"github.com/julianstephens/steplog/internal/storage/sqlite"
	"github.com/julianstephens/steplog/internal/utils"
)

// New returns a context whose clock is pinned to day (YYYY-MM-DD) and whose
// output is captured in the returned buffer.
func New(t *testing.T, day string) (*cli.Context, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "steplog.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Default()
	cfg.Store = store.GetConfigPath()
	cfg.Timezone = "UTC"
	cfg.NotificationsEnabled = false

	ctx := cli.NewContext(store, cfg, dir, utils.FixedDay(day))
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}
