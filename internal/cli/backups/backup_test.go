package backups

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/cli/clitest"
	"github.com/julianstephens/steplog/internal/config"
	"github.com/julianstephens/steplog/internal/daydata"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/storage/sqlite"
	"github.com/julianstephens/steplog/internal/utils"
)

const day = "2024-03-10"

func TestBackupCreateAndList(t *testing.T) {
	ctx, out := clitest.New(t, day)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("expected empty list, got %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: steplog-") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupListCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("unexpected list output: %q", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out := clitest.New(t, day)
	dbPath := ctx.Store.GetConfigPath()

	if err := ctx.Days.SaveDayData(ctx.Ctx(), day, 4000, 10000); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("BackupCreateCmd.Run() error = %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))

	if err := ctx.Days.SaveDayData(ctx.Ctx(), day, 9000, 10000); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Database restored successfully") {
		t.Errorf("unexpected output: %q", out.String())
	}

	reopened := sqlite.NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("failed to reopen restored database: %v", err)
	}
	defer reopened.Close()

	record, ok, err := daydata.New(reopened, utils.FixedDay(day)).GetDayData(context.Background(), day)
	if err != nil || !ok {
		t.Fatalf("GetDayData() = %v, %v", ok, err)
	}
	if record.Steps != 4000 {
		t.Errorf("restored steps = %d, want 4000", record.Steps)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out := clitest.New(t, day)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))

	ctx.In = strings.NewReader("n\n")
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("BackupRestoreCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := clitest.New(t, day)
	err := (&BackupRestoreCmd{BackupFile: "steplog-20000101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "steplog.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := cli.NewContext(store, config.Default(), t.TempDir(), utils.FixedDay(day))

	cmds := []interface{ Run(*cli.Context) error }{
		&BackupCreateCmd{},
		&BackupListCmd{},
		&BackupRestoreCmd{BackupFile: "x.db", Yes: true},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(ctx); !errors.Is(err, errNotSQLite) {
			t.Errorf("%T.Run() error = %v, want errNotSQLite", cmd, err)
		}
	}
}
