package daydata

import (
	"context"
	"sort"
	"strings"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/errors"
	"github.com/julianstephens/steplog/internal/logger"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/utils"
)

// GetLastNDays returns exactly n records ending today, oldest first. Days with
// no record, or whose record cannot be read, are zero-filled; the first such
// failure is returned alongside the full slice.
func (s *Store) GetLastNDays(ctx context.Context, n int) ([]models.DayRecord, error) {
	if n <= 0 {
		return []models.DayRecord{}, nil
	}

	keys, err := utils.LastNDayKeys(s.Today(), n)
	if err != nil {
		return []models.DayRecord{}, errors.New(errors.KindInvalid, "GetLastNDays", "", err)
	}

	var firstErr error
	days := make([]models.DayRecord, 0, n)
	for _, date := range keys {
		record, ok, err := s.GetDayData(ctx, date)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if !ok {
			record = models.EmptyDay(date, constants.DefaultGoal)
		}
		days = append(days, record)
	}
	return days, firstErr
}

// GetHistoricalData returns stored records newest first, at most limit of
// them. Records that fail to parse are skipped.
func (s *Store) GetHistoricalData(ctx context.Context, limit int) ([]models.DayRecord, error) {
	const op = "GetHistoricalData"
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	keys, err := s.kv.Keys(ctx, constants.DayKeyPrefix)
	if err != nil {
		logger.Error("Failed to list day keys", "op", op, "error", err)
		return []models.DayRecord{}, errors.New(errors.KindStoreRead, op, constants.DayKeyPrefix, err)
	}

	days := make([]models.DayRecord, 0, len(keys))
	for _, key := range keys {
		date := strings.TrimPrefix(key, constants.DayKeyPrefix)
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			logger.Debug("Skipping unreadable day record", "key", key, "error", err)
			continue
		}
		record, err := decode(raw, date)
		if err != nil {
			logger.Debug("Skipping malformed day record", "key", key, "error", err)
			continue
		}
		days = append(days, record)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})
	if len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

// AllDays returns every parseable stored record, oldest first.
func (s *Store) AllDays(ctx context.Context) ([]models.DayRecord, error) {
	keys, err := s.kv.Keys(ctx, constants.DayKeyPrefix)
	if err != nil {
		return nil, errors.New(errors.KindStoreRead, "AllDays", constants.DayKeyPrefix, err)
	}
	days, err := s.GetHistoricalData(ctx, len(keys)+1)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days, nil
}

// Prune deletes day records older than the last keepDays days and returns how
// many were removed. keepDays <= 0 keeps everything. Only day keys are touched.
func (s *Store) Prune(ctx context.Context, keepDays int) (int, error) {
	const op = "Prune"
	if keepDays <= 0 {
		return 0, nil
	}

	cutoff, err := utils.AddDays(s.Today(), -(keepDays - 1))
	if err != nil {
		return 0, errors.New(errors.KindInvalid, op, "", err)
	}

	keys, err := s.kv.Keys(ctx, constants.DayKeyPrefix)
	if err != nil {
		return 0, errors.New(errors.KindStoreRead, op, constants.DayKeyPrefix, err)
	}

	removed := 0
	for _, key := range keys {
		date := strings.TrimPrefix(key, constants.DayKeyPrefix)
		if _, err := utils.ParseDateKey(date); err != nil {
			logger.Debug("Prune skipping unrecognised key", "key", key)
			continue
		}
		if date >= cutoff {
			continue
		}
		if err := s.kv.Delete(ctx, key); err != nil {
			logger.Error("Failed to prune day record", "op", op, "key", key, "error", err)
			return removed, errors.New(errors.KindStoreWrite, op, key, err)
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Pruned day records", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}
