package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/config"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source store (path or connection string) to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	w := ctx.Stdout()
	sqliteStore, isSQLite := ctx.SQLite()

	if c.Force {
		if !isSQLite {
			return errors.New("--force is only supported for SQLite storage")
		}
		dbPath := sqliteStore.GetConfigPath()
		if c.Source != "" {
			absDB, _ := filepath.Abs(dbPath)
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == absDB {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Fprintf(w, "Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Initialized steplog storage at: %s\n", ctx.Store.GetConfigPath())

	if err := c.writeConfig(ctx); err != nil {
		return err
	}

	if c.Source != "" {
		fmt.Fprintf(w, "Copying data from: %s\n", c.Source)
		if err := c.copyFrom(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// writeConfig creates config.yaml from the effective settings unless one
// already exists.
func (c *InitCmd) writeConfig(ctx *cli.Context) error {
	if ctx.ConfigDir == "" {
		return nil
	}
	path := config.Path(ctx.ConfigDir)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := config.Write(path, ctx.Config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(ctx.Stdout(), "Wrote config file: %s\n", path)
	return nil
}

func (c *InitCmd) copyFrom(ctx *cli.Context) error {
	source, err := cli.OpenStore(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	n, err := cli.CopyKeys(ctx, source, ctx.Store)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout(), "✓ Copied %d key(s)\n", n)
	return nil
}
