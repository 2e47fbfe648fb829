// Package goal stores the user's daily step goal.
package goal

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/errors"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/validation"
)

type Settings struct {
	kv       storage.Provider
	fallback int
}

// New returns goal settings that fall back to defaultGoal when nothing is
// stored. A defaultGoal outside the valid range uses the built-in default.
func New(kv storage.Provider, defaultGoal int) *Settings {
	if validation.ValidateGoal(defaultGoal) != nil {
		defaultGoal = constants.DefaultGoal
	}
	return &Settings{kv: kv, fallback: defaultGoal}
}

// Get returns the stored goal, or the default when it is missing or
// unreadable.
func (s *Settings) Get(ctx context.Context) (int, error) {
	const op = "GetGoal"
	key := constants.DailyGoalKey

	raw, err := s.kv.Get(ctx, key)
	if stderrors.Is(err, storage.ErrNotFound) {
		return s.fallback, nil
	}
	if err != nil {
		logger.Error("Failed to read daily goal", "op", op, "key", key, "error", err)
		return s.fallback, errors.New(errors.KindStoreRead, op, key, err)
	}

	goal, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil {
		err = validation.ValidateGoal(goal)
	}
	if err != nil {
		logger.Warn("Ignoring stored daily goal", "key", key, "value", raw, "error", err)
		return s.fallback, errors.New(errors.KindDecode, op, key, err)
	}
	return goal, nil
}

// Set validates and stores the goal.
func (s *Settings) Set(ctx context.Context, goal int) error {
	const op = "SetGoal"
	key := constants.DailyGoalKey

	if err := validation.ValidateGoal(goal); err != nil {
		return errors.New(errors.KindInvalid, op, key, err)
	}
	if err := s.kv.Set(ctx, key, strconv.Itoa(goal)); err != nil {
		logger.Error("Failed to save daily goal", "op", op, "key", key, "error", err)
		return errors.New(errors.KindStoreWrite, op, key, err)
	}
	return nil
}
