package system

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/julianstephens/steplog/internal/backup"
	"github.com/julianstephens/steplog/internal/cli"
	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/storage"
	"github.com/julianstephens/steplog/internal/utils"
	"github.com/julianstephens/steplog/internal/validation"
)

// errSkipped marks a check that does not apply to the current store.
var errSkipped = stderrors.New("skipped")

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the command.
	warnOnly bool
	// needsStore checks are skipped when the store is unreachable.
	needsStore bool
}

var checks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsStore: true},
	{name: "Day records", run: checkDayRecords, needsStore: true},
	{name: "Streak cache", run: checkStreakCache, needsStore: true},
	{name: "Bloomed collection", run: checkBloomedCollection, needsStore: true},
	{name: "Daily goal", run: checkDailyGoal, needsStore: true},
	{name: "Timezone", run: checkTimezone},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	w := ctx.Stdout()
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	hasError := false
	reachable := true
	if err := checkStoreReachable(ctx); err != nil {
		report(w, "Store reachable", err, false)
		hasError = true
		reachable = false
	} else {
		fmt.Fprintln(w, "✓ Store reachable: OK")
	}

	for _, c := range checks {
		if c.needsStore && !reachable {
			fmt.Fprintf(w, "⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		if stderrors.Is(err, errSkipped) {
			fmt.Fprintf(w, "⊘ %s: SKIPPED (%s)\n", c.name, strings.TrimPrefix(err.Error(), errSkipped.Error()+": "))
			continue
		}
		report(w, c.name, err, c.warnOnly)
		if err != nil && !c.warnOnly {
			hasError = true
		}
	}

	fmt.Fprintln(w)
	if hasError {
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Fprintln(w, "All diagnostics passed!")
	return nil
}

func report(w io.Writer, name string, err error, warnOnly bool) {
	switch {
	case err == nil:
		fmt.Fprintf(w, "✓ %s: OK\n", name)
	case warnOnly:
		fmt.Fprintf(w, "⚠ %s: WARNING\n", name)
		fmt.Fprintf(w, "   %v\n", err)
	default:
		fmt.Fprintf(w, "❌ %s: FAIL\n", name)
		fmt.Fprintf(w, "   Error: %v\n", err)
	}
}

func checkStoreReachable(ctx *cli.Context) error {
	if ctx.Store == nil {
		return fmt.Errorf("no store configured")
	}
	if _, err := ctx.Store.Keys(ctx.Ctx(), constants.DayKeyPrefix); err != nil {
		return fmt.Errorf("failed to query store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, ok := ctx.Store.(versionedStore)
	if !ok {
		return fmt.Errorf("%w: store has no schema", errSkipped)
	}
	current, latest, err := store.SchemaVersion(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("schema version %d is behind %d, run 'steplog migrate'", current, latest)
	}
	return nil
}

// checkDayRecords reads every day key individually so unparseable records
// are reported instead of skipped, then validates the parsed ones.
func checkDayRecords(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys(ctx.Ctx(), constants.DayKeyPrefix)
	if err != nil {
		return err
	}

	var problems []string
	days := make([]models.DayRecord, 0, len(keys))
	for _, key := range keys {
		date := strings.TrimPrefix(key, constants.DayKeyPrefix)
		record, ok, err := ctx.Days.GetDayData(ctx.Ctx(), date)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", key, err))
			continue
		}
		if ok {
			days = append(days, record)
		}
	}

	result := validation.ValidateDays(days, ctx.Today())
	for _, c := range result.Conflicts {
		problems = append(problems, c.Description)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d problem(s):\n   - %s", len(problems), strings.Join(problems, "\n   - "))
	}
	return nil
}

func checkStreakCache(ctx *cli.Context) error {
	raw, err := ctx.Store.Get(ctx.Ctx(), constants.StreakKey)
	if stderrors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var data models.StreakData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fmt.Errorf("streak cache is not valid JSON: %w", err)
	}
	if data.CurrentStreak < 0 || data.CurrentStreak > constants.StreakLookbackDays {
		return fmt.Errorf("streak cache holds out-of-range streak %d", data.CurrentStreak)
	}
	if err := validation.ValidateDateKey(data.LastCheckedDate); err != nil {
		return fmt.Errorf("streak cache: %w", err)
	}
	return nil
}

func checkBloomedCollection(ctx *cli.Context) error {
	plants, err := ctx.Garden.GetBloomedPlants(ctx.Ctx())
	if err != nil {
		return err
	}
	result := validation.ValidateBloomed(plants)
	if result.HasConflicts() {
		return fmt.Errorf("%s", strings.TrimSpace(result.FormatReport()))
	}
	return nil
}

func checkDailyGoal(ctx *cli.Context) error {
	_, err := ctx.Goals.Get(ctx.Ctx())
	return err
}

func checkTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Timezone)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.SQLite(); !ok {
		return fmt.Errorf("%w: backups only apply to SQLite", errSkipped)
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run 'steplog backup create'")
	}
	return nil
}
