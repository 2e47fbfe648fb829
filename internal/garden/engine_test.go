package garden

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/daydata"
	"github.com/julianstephens/steplog/internal/errors"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/storage/storagetest"
	"github.com/julianstephens/steplog/internal/utils"
)

const today = "2024-03-10"

type fixture struct {
	kv     *storagetest.Store
	days   *daydata.Store
	engine *Engine
}

func newFixture(t *testing.T, day string) *fixture {
	t.Helper()
	kv := storagetest.New()
	return newFixtureWithStore(t, kv, day)
}

func newFixtureWithStore(t *testing.T, kv *storagetest.Store, day string) *fixture {
	t.Helper()
	clock := utils.FixedDay(day)
	days := daydata.New(kv, clock)
	return &fixture{kv: kv, days: days, engine: New(kv, days, clock)}
}

// seed records the goal as met (true) or missed (false) for consecutive days
// ending on last.
func (f *fixture) seed(t *testing.T, last string, met ...bool) {
	t.Helper()
	for i := range met {
		date, err := utils.AddDays(last, -(len(met) - 1 - i))
		if err != nil {
			t.Fatal(err)
		}
		steps := 100
		if met[i] {
			steps = 10000
		}
		if err := f.days.SaveDayData(context.Background(), date, steps, 10000); err != nil {
			t.Fatal(err)
		}
	}
}

func repeat(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestCalculateCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		met  []bool
		want int
	}{
		{"no data", nil, 0},
		{"today missed", []bool{true, true, false}, 0},
		{"three ending today", []bool{false, true, true, true}, 3},
		{"gap breaks streak", []bool{true, true, false, true, true}, 2},
		{"capped by lookback", repeat(true, 45), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, today)
			f.seed(t, today, tt.met...)
			got, err := f.engine.CalculateCurrentStreak(context.Background())
			if err != nil {
				t.Fatalf("CalculateCurrentStreak failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("streak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakRequiresToday(t *testing.T) {
	f := newFixture(t, today)
	yesterday, _ := utils.AddDays(today, -1)
	f.seed(t, yesterday, repeat(true, 5)...)

	got, _ := f.engine.CalculateCurrentStreak(context.Background())
	if got != 0 {
		t.Errorf("streak without today = %d, want 0", got)
	}
}

func TestGetStreakDataMemoized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, true, true)

	first, err := f.engine.GetStreakData(ctx)
	if err != nil {
		t.Fatalf("GetStreakData failed: %v", err)
	}
	if first != (models.StreakData{CurrentStreak: 2, LastCheckedDate: today}) {
		t.Errorf("first = %+v", first)
	}

	// A new goal day without UpdateStreak does not change the cached value.
	f.seed(t, "2024-03-08", true)
	sets := f.kv.Sets
	second, err := f.engine.GetStreakData(ctx)
	if err != nil {
		t.Fatalf("GetStreakData failed: %v", err)
	}
	if second != first {
		t.Errorf("second = %+v, want %+v", second, first)
	}
	if f.kv.Sets != sets {
		t.Error("memoized read should not write")
	}
}

func TestGetStreakDataRecomputesOnNewDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.kv.Put(constants.StreakKey, `{"currentStreak":9,"lastCheckedDate":"2024-03-09"}`)
	f.seed(t, today, true)

	got, err := f.engine.GetStreakData(ctx)
	if err != nil {
		t.Fatalf("GetStreakData failed: %v", err)
	}
	if got.CurrentStreak != 1 || got.LastCheckedDate != today {
		t.Errorf("got %+v", got)
	}

	raw, _ := f.kv.Raw(constants.StreakKey)
	if !strings.Contains(raw, `"lastCheckedDate":"2024-03-10"`) {
		t.Errorf("cache not persisted: %s", raw)
	}
}

func TestGetStreakDataFailSafe(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed cache", func(t *testing.T) {
		f := newFixture(t, today)
		f.kv.Put(constants.StreakKey, "{{{")
		got, err := f.engine.GetStreakData(ctx)
		if !errors.Is(err, errors.KindDecode) {
			t.Errorf("error = %v, want KindDecode", err)
		}
		if got != (models.StreakData{LastCheckedDate: today}) {
			t.Errorf("got %+v", got)
		}
		if raw, _ := f.kv.Raw(constants.StreakKey); raw != "{{{" {
			t.Error("fail-safe result must not be persisted")
		}
	})

	t.Run("cache read failure", func(t *testing.T) {
		f := newFixture(t, today)
		f.seed(t, today, true, true)
		f.kv.FailGet = []string{constants.StreakKey}
		got, err := f.engine.GetStreakData(ctx)
		if !errors.Is(err, errors.KindStoreRead) || IsIncomplete(err) {
			t.Errorf("error = %v, want a KindStoreRead cache failure", err)
		}
		if got != (models.StreakData{LastCheckedDate: today}) {
			t.Errorf("got %+v", got)
		}
		if _, ok := f.kv.Raw(constants.StreakKey); ok {
			t.Error("fail-safe result must not be persisted")
		}
	})

	t.Run("history read failure", func(t *testing.T) {
		f := newFixture(t, today)
		f.seed(t, today, true, true)
		f.kv.FailGet = []string{constants.DayKeyPrefix}
		got, err := f.engine.GetStreakData(ctx)
		if !IsIncomplete(err) || !errors.Is(err, errors.KindStoreRead) {
			t.Errorf("error = %v, want incomplete history from a store read", err)
		}
		if got != (models.StreakData{LastCheckedDate: today}) {
			t.Errorf("got %+v", got)
		}
		if _, ok := f.kv.Raw(constants.StreakKey); !ok {
			t.Error("streak counted from partial history should be cached")
		}
	})
}

func TestStreakSkipsCorruptDayOutsideRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, false, true, true, true, true, true)
	f.kv.Put(daydata.Key("2024-02-20"), "{not json")

	n, err := f.engine.CalculateCurrentStreak(ctx)
	if n != 5 || !errors.Is(err, errors.KindDecode) {
		t.Errorf("CalculateCurrentStreak = %d, %v; want 5 with a decode error", n, err)
	}

	got, err := f.engine.GetStreakData(ctx)
	if !IsIncomplete(err) {
		t.Errorf("GetStreakData error = %v, want ErrIncompleteHistory", err)
	}
	if got.CurrentStreak != 5 || got.LastCheckedDate != today {
		t.Errorf("GetStreakData = %+v, want 5", got)
	}
	raw, ok := f.kv.Raw(constants.StreakKey)
	if !ok || !strings.Contains(raw, `"currentStreak":5`) {
		t.Errorf("cache = %q, want streak 5 persisted", raw)
	}

	// The cached value is served without touching history again.
	again, err := f.engine.GetStreakData(ctx)
	if err != nil || again != got {
		t.Errorf("second GetStreakData = %+v, %v", again, err)
	}
}

func TestUpdateStreakBloomsDespiteCorruptDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, repeat(true, 7)...)
	f.kv.Put(daydata.Key("2024-02-20"), "{not json")

	data, err := f.engine.UpdateStreak(ctx)
	if !IsIncomplete(err) {
		t.Errorf("UpdateStreak error = %v, want ErrIncompleteHistory", err)
	}
	if data.CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", data.CurrentStreak)
	}
	if raw, _ := f.kv.Raw(constants.StreakKey); !strings.Contains(raw, `"currentStreak":7`) {
		t.Errorf("cache = %q, want streak 7 persisted", raw)
	}
	plants, err := f.engine.GetBloomedPlants(ctx)
	if err != nil || len(plants) != 1 {
		t.Errorf("plants = %+v, %v; want one bloom", plants, err)
	}
}

func TestGetStreakDataRecomputeOutlivesCaller(t *testing.T) {
	f := newFixture(t, today)
	f.seed(t, today, true, true)

	// Cancel the caller once the shared recompute starts reading history.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var once sync.Once
	f.kv.BeforeGet = func(key string) {
		if strings.HasPrefix(key, constants.DayKeyPrefix) {
			once.Do(cancel)
		}
	}

	got, err := f.engine.GetStreakData(ctx)
	if err != nil || got.CurrentStreak != 2 {
		t.Errorf("GetStreakData = %+v, %v; want 2", got, err)
	}
	if raw, _ := f.kv.Raw(constants.StreakKey); !strings.Contains(raw, `"currentStreak":2`) {
		t.Errorf("cache = %q, want streak 2 persisted", raw)
	}
}

func TestGetStreakDataConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, true, true, true)

	var wg sync.WaitGroup
	results := make([]models.StreakData, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = f.engine.GetStreakData(ctx)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.CurrentStreak != 3 || r.LastCheckedDate != today {
			t.Errorf("results[%d] = %+v", i, r)
		}
	}
}

func TestUpdateStreakBloomsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, repeat(true, 7)...)

	data, err := f.engine.UpdateStreak(ctx)
	if err != nil {
		t.Fatalf("UpdateStreak failed: %v", err)
	}
	if data.CurrentStreak != 7 {
		t.Fatalf("streak = %d, want 7", data.CurrentStreak)
	}
	if _, err := f.engine.UpdateStreak(ctx); err != nil {
		t.Fatalf("UpdateStreak (2nd) failed: %v", err)
	}

	plants, err := f.engine.GetBloomedPlants(ctx)
	if err != nil {
		t.Fatalf("GetBloomedPlants failed: %v", err)
	}
	if len(plants) != 1 {
		t.Fatalf("got %d plants, want 1", len(plants))
	}
	p := plants[0]
	if p.BloomedDate != today || p.StreakAchieved != 7 || !strings.HasPrefix(p.ID, "plant_") {
		t.Errorf("plant = %+v", p)
	}
}

func TestUpdateStreakNoBloomPastSeven(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, repeat(true, 8)...)

	if _, err := f.engine.UpdateStreak(ctx); err != nil {
		t.Fatal(err)
	}
	plants, _ := f.engine.GetBloomedPlants(ctx)
	if len(plants) != 0 {
		t.Errorf("streak of 8 should not record a bloom, got %+v", plants)
	}
}

func TestUpdateStreakWriteFailure(t *testing.T) {
	f := newFixture(t, today)
	f.seed(t, today, true)
	f.kv.FailSet = []string{constants.StreakKey}

	data, err := f.engine.UpdateStreak(context.Background())
	if !errors.Is(err, errors.KindStoreWrite) {
		t.Errorf("error = %v, want KindStoreWrite", err)
	}
	if data.CurrentStreak != 1 {
		t.Errorf("computed streak should still be returned, got %+v", data)
	}
}

func TestSaveBloomedPlantIdempotentPerDay(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New()

	day1 := newFixtureWithStore(t, kv, "2024-03-01")
	added, err := day1.engine.SaveBloomedPlant(ctx, 7)
	if err != nil || !added {
		t.Fatalf("first save = %v, %v", added, err)
	}
	added, err = day1.engine.SaveBloomedPlant(ctx, 7)
	if err != nil || added {
		t.Fatalf("second save same day = %v, %v", added, err)
	}

	day2 := newFixtureWithStore(t, kv, "2024-03-08")
	added, err = day2.engine.SaveBloomedPlant(ctx, 7)
	if err != nil || !added {
		t.Fatalf("save on later day = %v, %v", added, err)
	}

	plants, _ := day2.engine.GetBloomedPlants(ctx)
	if len(plants) != 2 {
		t.Fatalf("got %d plants, want 2", len(plants))
	}
	if plants[0].ID == plants[1].ID {
		t.Error("plant ids should be unique")
	}
}

func TestSaveBloomedPlantConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.engine.SaveBloomedPlant(ctx, 7)
		}()
	}
	wg.Wait()

	plants, _ := f.engine.GetBloomedPlants(ctx)
	if len(plants) != 1 {
		t.Errorf("got %d plants after concurrent saves, want 1", len(plants))
	}
}

func TestBloomedPlantsUnreadable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.kv.Put(constants.BloomedPlantsKey, "not a list")

	plants, err := f.engine.GetBloomedPlants(ctx)
	if len(plants) != 0 || !errors.Is(err, errors.KindDecode) {
		t.Errorf("GetBloomedPlants = %v, %v", plants, err)
	}

	added, err := f.engine.SaveBloomedPlant(ctx, 7)
	if added || err == nil {
		t.Errorf("SaveBloomedPlant over unreadable collection = %v, %v", added, err)
	}
	if raw, _ := f.kv.Raw(constants.BloomedPlantsKey); raw != "not a list" {
		t.Error("unreadable collection was overwritten")
	}
}

func TestBloomedPlantJSONShape(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	if _, err := f.engine.SaveBloomedPlant(ctx, 7); err != nil {
		t.Fatal(err)
	}

	raw, _ := f.kv.Raw(constants.BloomedPlantsKey)
	var stored []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"id", "bloomedDate", "streakAchieved"} {
		if _, ok := stored[0][field]; !ok {
			t.Errorf("stored plant missing %q: %s", field, raw)
		}
	}
}

func TestCheckForGrowthAnimation(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.New()

	f := newFixtureWithStore(t, kv, today)
	tr, err := f.engine.CheckForGrowthAnimation(ctx)
	if err != nil || tr != nil {
		t.Fatalf("first observation = %+v, %v; want nil", tr, err)
	}
	if raw, _ := kv.Raw(constants.LastPlantStageKey); raw != string(models.StageEmpty) {
		t.Errorf("marker = %q, want empty", raw)
	}

	tr, err = f.engine.CheckForGrowthAnimation(ctx)
	if err != nil || tr != nil {
		t.Fatalf("unchanged stage = %+v, %v; want nil", tr, err)
	}

	// Next day with a goal met: the cache is stale so the streak recomputes.
	next := newFixtureWithStore(t, kv, "2024-03-11")
	next.seed(t, "2024-03-11", true)

	tr, err = next.engine.CheckForGrowthAnimation(ctx)
	if err != nil {
		t.Fatalf("CheckForGrowthAnimation failed: %v", err)
	}
	want := &models.GrowthTransition{ShouldAnimate: true, PreviousStage: models.StageEmpty, CurrentStage: models.StageSprout}
	if tr == nil || *tr != *want {
		t.Fatalf("transition = %+v, want %+v", tr, want)
	}

	tr, err = next.engine.CheckForGrowthAnimation(ctx)
	if err != nil || tr != nil {
		t.Errorf("repeat check = %+v, %v; want nil", tr, err)
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, today)
	f.seed(t, today, true, true, true)

	snap, err := f.engine.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Streak.CurrentStreak != 3 || snap.Stage != models.StageFuller || snap.DaysUntilBloom != 4 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Message != MotivationalMessage(3) {
		t.Errorf("message = %q", snap.Message)
	}
	if snap.Bloomed == nil {
		t.Error("Bloomed should be an empty slice, not nil")
	}
}
