// Package daydata persists one DayRecord per calendar day and reads history
// back out of the key-value store.
package daydata

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/errors"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/metrics"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/utils"
	"github.com/julianstephens/steplog/internal/validation"
)

type Store struct {
	kv    storage.Provider
	clock utils.Clock
}

func New(kv storage.Provider, clock utils.Clock) *Store {
	return &Store{kv: kv, clock: clock}
}

// Key returns the store key for a day.
func Key(date string) string {
	return constants.DayKeyPrefix + date
}

// Today returns the date key for the store's clock.
func (s *Store) Today() string {
	return utils.Today(s.clock)
}

// SaveDayData derives distance, calories and goalReached from steps and goal
// and overwrites the record for date. Negative steps are stored as 0.
func (s *Store) SaveDayData(ctx context.Context, date string, steps, goal int) error {
	const op = "SaveDayData"
	key := Key(date)

	if err := validation.ValidateDateKey(date); err != nil {
		return errors.New(errors.KindInvalid, op, key, err)
	}
	if goal <= 0 {
		return errors.New(errors.KindInvalid, op, key, fmt.Errorf("goal must be positive, got %d", goal))
	}
	if steps < 0 {
		steps = 0
	}

	record := models.DayRecord{
		Date:        date,
		Steps:       steps,
		Goal:        goal,
		Distance:    metrics.CalculateDistance(steps),
		Calories:    metrics.CalculateCalories(steps),
		GoalReached: steps >= goal,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.New(errors.KindStoreWrite, op, key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		logger.Error("Failed to save day data", "op", op, "key", key, "error", err)
		return errors.New(errors.KindStoreWrite, op, key, err)
	}
	return nil
}

// GetDayData returns the stored record for date. A missing record is reported
// with ok=false and no error; read and decode failures also report ok=false
// along with the cause.
func (s *Store) GetDayData(ctx context.Context, date string) (models.DayRecord, bool, error) {
	const op = "GetDayData"
	key := Key(date)

	raw, err := s.kv.Get(ctx, key)
	if stderrors.Is(err, storage.ErrNotFound) {
		return models.DayRecord{}, false, nil
	}
	if err != nil {
		logger.Error("Failed to read day data", "op", op, "key", key, "error", err)
		return models.DayRecord{}, false, errors.New(errors.KindStoreRead, op, key, err)
	}

	record, err := decode(raw, date)
	if err != nil {
		logger.Error("Failed to decode day data", "op", op, "key", key, "error", err)
		return models.DayRecord{}, false, errors.New(errors.KindDecode, op, key, err)
	}
	return record, true, nil
}

func decode(raw, date string) (models.DayRecord, error) {
	var record models.DayRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return models.DayRecord{}, err
	}
	if record.Date == "" {
		record.Date = date
	}
	return record, nil
}
