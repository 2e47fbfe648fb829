package cli

import (
	"context"
	"io"
	"os"

	"github.com/julianstephens/steplog/internal/backup"
	"github.com/julianstephens/steplog/internal/config"
	"github.com/julianstephens/steplog/internal/daydata"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/goal"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/notifier"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/storage/sqlite"
	"github.com/julianstephens/steplog/internal/tracker"
	"github.com/julianstephens/steplog/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store     storage.Provider
	Config    config.Config
	ConfigDir string
	Clock     utils.Clock

	Days     *daydata.Store
	Garden   *garden.Engine
	Goals    *goal.Settings
	Notifier notifier.Sender

	// Base is the process context; nil means context.Background().
	Base context.Context
	Out  io.Writer
	In   io.Reader
}

// NewContext wires the domain services on top of store.
func NewContext(store storage.Provider, cfg config.Config, configDir string, clock utils.Clock) *Context {
	days := daydata.New(store, clock)
	return &Context{
		Store:     store,
		Config:    cfg,
		ConfigDir: configDir,
		Clock:     clock,
		Days:      days,
		Garden:    garden.New(store, days, clock),
		Goals:     goal.New(store, cfg.DefaultGoal),
		Notifier:  notifier.New(cfg.NotificationsEnabled),
	}
}

// Ctx returns the context commands should pass to blocking calls.
func (c *Context) Ctx() context.Context {
	if c.Base == nil {
		return context.Background()
	}
	return c.Base
}

// Stdout returns the command output writer.
func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Stdin returns the command input reader.
func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// Today returns the current day key in the configured timezone.
func (c *Context) Today() string {
	return utils.Today(c.Clock)
}

// NewTracker returns a step tracker over this context's day store, streak
// engine and goal settings.
func (c *Context) NewTracker() *tracker.Tracker {
	loc, err := utils.LoadLocation(c.Config.Timezone)
	if err != nil {
		logger.Warn("Falling back to local time for rollover", "timezone", c.Config.Timezone, "error", err)
		loc = nil
	}
	return tracker.New(tracker.Options{
		Days:         c.Days,
		Streaks:      c.Garden,
		Goals:        c.Goals,
		Notifier:     c.Notifier,
		Clock:        c.Clock,
		Location:     loc,
		SaveInterval: c.Config.SaveInterval,
	})
}

// SQLite returns the store as a SQLite store when that is the backend in use.
func (c *Context) SQLite() (*sqlite.Store, bool) {
	s, ok := c.Store.(*sqlite.Store)
	return s, ok
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.SQLite(); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
