// Package tracker holds today's running step count, persists it, and reacts
// when the daily goal is crossed.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/garden"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/notifier"
	"github.com/julianstephens/steplog/internal/utils"
)

type DayStore interface {
	SaveDayData(ctx context.Context, date string, steps, goal int) error
	GetDayData(ctx context.Context, date string) (models.DayRecord, bool, error)
}

type StreakUpdater interface {
	UpdateStreak(ctx context.Context) (models.StreakData, error)
}

type GoalSource interface {
	Get(ctx context.Context) (int, error)
}

const (
	GoalReachedMessage = "Goal reached! Your garden grows."
	BloomMessage       = "Your flower bloomed! It has been added to your collection."
)

type Options struct {
	Days     DayStore
	Streaks  StreakUpdater
	Goals    GoalSource
	Notifier notifier.Sender
	Clock    utils.Clock
	// Location is used for the midnight rollover schedule.
	Location     *time.Location
	SaveInterval time.Duration
}

// State is a point-in-time view of the tracker.
type State struct {
	Date        string
	Steps       int
	Goal        int
	GoalReached bool
}

type Tracker struct {
	opts Options

	mu      sync.Mutex
	date    string
	steps   int
	goal    int
	reached bool
}

func New(opts Options) *Tracker {
	if opts.SaveInterval <= 0 {
		opts.SaveInterval = constants.DefaultSaveInterval
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Tracker{opts: opts}
}

// Start loads today's record so counting resumes where it left off. A goal
// already met today does not fire again.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resetLocked(ctx, utils.Today(t.opts.Clock))
}

// resetLocked switches the tracker to date. Callers hold mu.
func (t *Tracker) resetLocked(ctx context.Context, date string) error {
	goal, err := t.opts.Goals.Get(ctx)
	if err != nil {
		logger.Warn("Using default goal", "goal", goal, "error", err)
	}

	t.date = date
	t.goal = goal
	t.steps = 0
	t.reached = false

	record, ok, err := t.opts.Days.GetDayData(ctx, date)
	if ok {
		t.steps = record.Steps
		t.reached = record.Steps >= goal
	}
	return err
}

// State returns the current counters.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Date: t.date, Steps: t.steps, Goal: t.goal, GoalReached: t.steps >= t.goal}
}

// SetTotal sets today's cumulative count, as reported by a sensor counting
// from midnight. Negative totals are treated as zero.
func (t *Tracker) SetTotal(ctx context.Context, total int) error {
	if total < 0 {
		total = 0
	}
	return t.apply(ctx, func(int) int { return total })
}

// Add increases today's count by delta. Non-positive deltas are ignored.
func (t *Tracker) Add(ctx context.Context, delta int) error {
	if delta <= 0 {
		return nil
	}
	return t.apply(ctx, func(cur int) int { return cur + delta })
}

func (t *Tracker) apply(ctx context.Context, next func(int) int) error {
	if err := t.Rollover(ctx); err != nil {
		logger.Debug("Rollover before update failed", "error", err)
	}

	t.mu.Lock()
	t.steps = next(t.steps)
	crossed := !t.reached && t.steps >= t.goal
	if crossed {
		t.reached = true
	}
	date, steps, goal := t.date, t.steps, t.goal
	t.mu.Unlock()

	err := t.opts.Days.SaveDayData(ctx, date, steps, goal)
	if crossed {
		t.onGoalReached(ctx)
	}
	return err
}

func (t *Tracker) onGoalReached(ctx context.Context) {
	data, err := t.opts.Streaks.UpdateStreak(ctx)
	if garden.IsIncomplete(err) {
		logger.Warn("Streak counted with unreadable days", "error", err)
		err = nil
	}
	if err != nil {
		logger.Error("Failed to update streak after goal", "error", err)
	}
	logger.Info("Daily goal reached", "streak", data.CurrentStreak)

	t.notify(ctx, GoalReachedMessage)
	if err == nil && data.CurrentStreak == constants.BloomStreak {
		t.notify(ctx, BloomMessage)
	}
}

func (t *Tracker) notify(ctx context.Context, text string) {
	if t.opts.Notifier == nil {
		return
	}
	if err := t.opts.Notifier.Notify(ctx, text); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			logger.Debug("Notification skipped", "reason", err)
			return
		}
		logger.Warn("Failed to send notification", "error", err)
	}
}

// Save persists the current count.
func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	date, steps, goal := t.date, t.steps, t.goal
	t.mu.Unlock()
	return t.opts.Days.SaveDayData(ctx, date, steps, goal)
}

// Rollover starts a fresh day when the clock has moved past the tracked date,
// saving the finished day first.
func (t *Tracker) Rollover(ctx context.Context) error {
	today := utils.Today(t.opts.Clock)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.date == today {
		return nil
	}

	if t.date != "" {
		if err := t.opts.Days.SaveDayData(ctx, t.date, t.steps, t.goal); err != nil {
			logger.Error("Failed to save finished day", "date", t.date, "error", err)
		}
		logger.Info("Day rolled over", "from", t.date, "to", today)
	}
	return t.resetLocked(ctx, today)
}

// Run consumes step deltas until ctx is done or deltas is closed, saving
// every SaveInterval and rolling over at midnight. A tracker that was not
// started yet is started first.
func (t *Tracker) Run(ctx context.Context, deltas <-chan int) error {
	t.mu.Lock()
	started := t.date != ""
	t.mu.Unlock()
	if !started {
		if err := t.Start(ctx); err != nil {
			logger.Warn("Starting with an unreadable day record", "error", err)
		}
	}

	c := cron.New(cron.WithLocation(t.opts.Location))
	if _, err := c.AddFunc("@every "+t.opts.SaveInterval.String(), func() {
		if err := t.Save(ctx); err != nil {
			logger.Error("Periodic save failed", "error", err)
		}
	}); err != nil {
		return err
	}
	if _, err := c.AddFunc(constants.RolloverSchedule, func() {
		if err := t.Rollover(ctx); err != nil {
			logger.Error("Midnight rollover failed", "error", err)
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer func() {
		<-c.Stop().Done()
	}()

	for {
		select {
		case <-ctx.Done():
			return t.Save(context.WithoutCancel(ctx))
		case delta, ok := <-deltas:
			if !ok {
				return t.Save(ctx)
			}
			if err := t.Add(ctx, delta); err != nil {
				logger.Error("Failed to record steps", "delta", delta, "error", err)
			}
		}
	}
}
