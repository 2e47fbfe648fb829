// Package garden derives the goal streak from day history and tracks the plant
// that grows with it.
package garden

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/daydata"
	"github.com/julianstephens/steplog/internal/errors"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/utils"
)

// ErrIncompleteHistory marks a streak counted while some day records in the
// lookback window could not be read. Those days count as missed, so the
// returned streak is still usable and has been cached.
var ErrIncompleteHistory = stderrors.New("streak history incomplete")

// IsIncomplete reports whether err only says that some history was unreadable.
func IsIncomplete(err error) bool {
	return stderrors.Is(err, ErrIncompleteHistory)
}

// Engine serializes read-modify-write cycles on the garden keys within a
// process.
type Engine struct {
	kv    storage.Provider
	days  *daydata.Store
	clock utils.Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	group singleflight.Group
}

func New(kv storage.Provider, days *daydata.Store, clock utils.Clock) *Engine {
	return &Engine{
		kv:    kv,
		days:  days,
		clock: clock,
		locks: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) lock(key string) func() {
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (e *Engine) today() string {
	return utils.Today(e.clock)
}

// CalculateCurrentStreak counts consecutive goal days ending today within the
// lookback window. A history read failure is returned with the streak counted
// from whatever could be read.
func (e *Engine) CalculateCurrentStreak(ctx context.Context) (int, error) {
	days, err := e.days.GetLastNDays(ctx, constants.StreakLookbackDays)
	today := e.today()

	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.Date > today {
			continue
		}
		if !d.GoalReached {
			break
		}
		streak++
	}
	return streak, err
}

// GetStreakData returns the cached streak when it was computed today and
// otherwise recomputes and caches it. A cache read failure yields a zero
// streak for today that is not persisted. Unreadable day records count as
// missed days and are reported with ErrIncompleteHistory.
func (e *Engine) GetStreakData(ctx context.Context) (models.StreakData, error) {
	today := e.today()

	cached, found, err := e.readStreak(ctx)
	if err != nil {
		return models.StreakData{LastCheckedDate: today}, err
	}
	if found && cached.LastCheckedDate == today {
		return cached, nil
	}

	// Collapsed callers share this recompute, so one caller's cancellation
	// must not fail the others.
	shared := context.WithoutCancel(ctx)
	v, err, _ := e.group.Do(today, func() (interface{}, error) {
		unlock := e.lock(constants.StreakKey)
		defer unlock()

		cached, found, err := e.readStreak(shared)
		if err != nil {
			return models.StreakData{LastCheckedDate: today}, err
		}
		if found && cached.LastCheckedDate == today {
			return cached, nil
		}
		return e.recompute(shared, today)
	})
	return v.(models.StreakData), err
}

// UpdateStreak recomputes and persists the streak unconditionally, recording a
// bloomed plant on the day the streak reaches the bloom length.
func (e *Engine) UpdateStreak(ctx context.Context) (models.StreakData, error) {
	today := e.today()

	unlock := e.lock(constants.StreakKey)
	data, err := e.recompute(ctx, today)
	unlock()
	if err != nil && !IsIncomplete(err) {
		return data, err
	}

	if data.CurrentStreak == constants.BloomStreak {
		if _, berr := e.SaveBloomedPlant(ctx, data.CurrentStreak); berr != nil {
			return data, berr
		}
	}
	return data, err
}

// recompute must be called with the streak key locked. The streak is cached
// even when some day records were unreadable.
func (e *Engine) recompute(ctx context.Context, today string) (models.StreakData, error) {
	const op = "UpdateStreak"

	streak, histErr := e.CalculateCurrentStreak(ctx)
	if histErr != nil {
		logger.Warn("Counting unreadable days as missed", "op", op, "error", histErr)
		histErr = fmt.Errorf("%w: %w", ErrIncompleteHistory, histErr)
	}

	data := models.StreakData{CurrentStreak: streak, LastCheckedDate: today}
	raw, err := json.Marshal(data)
	if err != nil {
		return data, errors.New(errors.KindStoreWrite, op, constants.StreakKey, err)
	}
	if err := e.kv.Set(ctx, constants.StreakKey, string(raw)); err != nil {
		logger.Error("Failed to save streak", "op", op, "key", constants.StreakKey, "error", err)
		return data, errors.New(errors.KindStoreWrite, op, constants.StreakKey, err)
	}
	return data, histErr
}

func (e *Engine) readStreak(ctx context.Context) (models.StreakData, bool, error) {
	const op = "GetStreakData"

	raw, err := e.kv.Get(ctx, constants.StreakKey)
	if stderrors.Is(err, storage.ErrNotFound) {
		return models.StreakData{}, false, nil
	}
	if err != nil {
		logger.Error("Failed to read streak", "op", op, "key", constants.StreakKey, "error", err)
		return models.StreakData{}, false, errors.New(errors.KindStoreRead, op, constants.StreakKey, err)
	}

	var data models.StreakData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		logger.Error("Failed to decode streak", "op", op, "key", constants.StreakKey, "error", err)
		return models.StreakData{}, false, errors.New(errors.KindDecode, op, constants.StreakKey, err)
	}
	return data, true, nil
}

// GetBloomedPlants returns the collection, or an empty slice when it is absent
// or unreadable.
func (e *Engine) GetBloomedPlants(ctx context.Context) ([]models.BloomedPlant, error) {
	plants, _, err := e.readBloomed(ctx)
	if err != nil {
		return []models.BloomedPlant{}, err
	}
	return plants, nil
}

func (e *Engine) readBloomed(ctx context.Context) ([]models.BloomedPlant, bool, error) {
	const op = "GetBloomedPlants"

	raw, err := e.kv.Get(ctx, constants.BloomedPlantsKey)
	if stderrors.Is(err, storage.ErrNotFound) {
		return []models.BloomedPlant{}, false, nil
	}
	if err != nil {
		logger.Error("Failed to read bloomed plants", "op", op, "key", constants.BloomedPlantsKey, "error", err)
		return nil, false, errors.New(errors.KindStoreRead, op, constants.BloomedPlantsKey, err)
	}

	var plants []models.BloomedPlant
	if err := json.Unmarshal([]byte(raw), &plants); err != nil {
		logger.Error("Failed to decode bloomed plants", "op", op, "key", constants.BloomedPlantsKey, "error", err)
		return nil, false, errors.New(errors.KindDecode, op, constants.BloomedPlantsKey, err)
	}
	if plants == nil {
		plants = []models.BloomedPlant{}
	}
	return plants, true, nil
}

// SaveBloomedPlant appends a plant for today unless one already exists and
// reports whether it added one. An unreadable collection is left untouched.
func (e *Engine) SaveBloomedPlant(ctx context.Context, streakAchieved int) (bool, error) {
	const op = "SaveBloomedPlant"
	today := e.today()

	unlock := e.lock(constants.BloomedPlantsKey)
	defer unlock()

	plants, _, err := e.readBloomed(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range plants {
		if p.BloomedDate == today {
			return false, nil
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return false, errors.New(errors.KindStoreWrite, op, constants.BloomedPlantsKey, err)
	}
	plants = append(plants, models.BloomedPlant{
		ID:             constants.BloomedPlantIDPrefix + id.String(),
		BloomedDate:    today,
		StreakAchieved: streakAchieved,
	})

	raw, err := json.Marshal(plants)
	if err != nil {
		return false, errors.New(errors.KindStoreWrite, op, constants.BloomedPlantsKey, err)
	}
	if err := e.kv.Set(ctx, constants.BloomedPlantsKey, string(raw)); err != nil {
		logger.Error("Failed to save bloomed plant", "op", op, "key", constants.BloomedPlantsKey, "error", err)
		return false, errors.New(errors.KindStoreWrite, op, constants.BloomedPlantsKey, err)
	}

	logger.Info("Plant bloomed", "date", today, "streak", streakAchieved)
	return true, nil
}

// CheckForGrowthAnimation compares the current stage with the last stage it
// observed. It returns a transition exactly once per change and nil otherwise,
// including on the first call ever.
func (e *Engine) CheckForGrowthAnimation(ctx context.Context) (*models.GrowthTransition, error) {
	const op = "CheckForGrowthAnimation"
	key := constants.LastPlantStageKey

	streak, err := e.GetStreakData(ctx)
	if err != nil && !IsIncomplete(err) {
		return nil, err
	}
	current := PlantStage(streak.CurrentStreak)

	unlock := e.lock(key)
	defer unlock()

	raw, err := e.kv.Get(ctx, key)
	if err != nil && !stderrors.Is(err, storage.ErrNotFound) {
		logger.Error("Failed to read last stage", "op", op, "key", key, "error", err)
		return nil, errors.New(errors.KindStoreRead, op, key, err)
	}
	previous := models.PlantStage(raw)

	if previous == current {
		return nil, nil
	}

	if err := e.kv.Set(ctx, key, string(current)); err != nil {
		logger.Error("Failed to save last stage", "op", op, "key", key, "error", err)
		return nil, errors.New(errors.KindStoreWrite, op, key, err)
	}

	if !previous.Valid() {
		return nil, nil
	}
	return &models.GrowthTransition{
		ShouldAnimate: true,
		PreviousStage: previous,
		CurrentStage:  current,
	}, nil
}

// Snapshot gathers the garden view in one call. The first error encountered
// is returned with whatever could be computed.
func (e *Engine) Snapshot(ctx context.Context) (models.GardenSnapshot, error) {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	streak, err := e.GetStreakData(ctx)
	keep(err)
	transition, err := e.CheckForGrowthAnimation(ctx)
	keep(err)
	bloomed, err := e.GetBloomedPlants(ctx)
	keep(err)

	return models.GardenSnapshot{
		Streak:         streak,
		Stage:          PlantStage(streak.CurrentStreak),
		Message:        MotivationalMessage(streak.CurrentStreak),
		DaysUntilBloom: DaysUntilBloom(streak.CurrentStreak),
		Bloomed:        bloomed,
		Transition:     transition,
	}, firstErr
}
