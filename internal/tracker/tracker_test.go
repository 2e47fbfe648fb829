package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/steplog/internal/daydata"
	"github.com/julianstephens/steplog/internal/models"
	"github.com/julianstephens/steplog/internal/notifier"
	"github.com/julianstephens/steplog/internal/storage/storagetest"
	"github.com/julianstephens/steplog/internal/utils"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) set(day string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = utils.FixedDay(day).T
}

type countingStreaks struct {
	mu     sync.Mutex
	calls  int
	streak int
}

func (s *countingStreaks) UpdateStreak(ctx context.Context) (models.StreakData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return models.StreakData{CurrentStreak: s.streak}, nil
}

type fixedGoal int

func (g fixedGoal) Get(ctx context.Context) (int, error) { return int(g), nil }

type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) Notify(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
	return n.err
}

type fixture struct {
	clock   *testClock
	kv      *storagetest.Store
	days    *daydata.Store
	streaks *countingStreaks
	notes   *recordingNotifier
	tracker *Tracker
}

func newFixture(t *testing.T, day string, goal int) *fixture {
	t.Helper()
	clock := &testClock{}
	clock.set(day)
	kv := storagetest.New()
	days := daydata.New(kv, clock)
	f := &fixture{
		clock:   clock,
		kv:      kv,
		days:    days,
		streaks: &countingStreaks{streak: 1},
		notes:   &recordingNotifier{},
	}
	f.tracker = New(Options{
		Days:     days,
		Streaks:  f.streaks,
		Goals:    fixedGoal(goal),
		Notifier: f.notes,
		Clock:    clock,
		Location: time.UTC,
	})
	return f
}

func TestAddPersistsEveryChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2024-03-10", 1000)

	if err := f.tracker.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for _, d := range []int{100, -50, 0, 250} {
		if err := f.tracker.Add(ctx, d); err != nil {
			t.Fatalf("Add(%d) failed: %v", d, err)
		}
	}

	rec, ok, err := f.days.GetDayData(ctx, "2024-03-10")
	if err != nil || !ok {
		t.Fatalf("GetDayData = %v, %v", ok, err)
	}
	if rec.Steps != 350 || rec.Goal != 1000 || rec.GoalReached {
		t.Errorf("stored record = %+v", rec)
	}
	if st := f.tracker.State(); st.Steps != 350 || st.GoalReached {
		t.Errorf("State() = %+v", st)
	}
}

func TestGoalCrossingFiresOncePerDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2024-03-10", 1000)
	if err := f.tracker.Start(ctx); err != nil {
		t.Fatal(err)
	}

	_ = f.tracker.SetTotal(ctx, 900)
	_ = f.tracker.SetTotal(ctx, 1000)
	_ = f.tracker.Add(ctx, 10)
	_ = f.tracker.SetTotal(ctx, 5000)

	if f.streaks.calls != 1 {
		t.Errorf("UpdateStreak called %d times, want 1", f.streaks.calls)
	}
	if len(f.notes.sent) != 1 || f.notes.sent[0] != GoalReachedMessage {
		t.Errorf("notifications = %v", f.notes.sent)
	}

	// The next day re-arms the edge.
	f.clock.set("2024-03-11")
	_ = f.tracker.Add(ctx, 1200)
	if f.streaks.calls != 2 {
		t.Errorf("UpdateStreak called %d times after rollover, want 2", f.streaks.calls)
	}

	prev, _, _ := f.days.GetDayData(ctx, "2024-03-10")
	if prev.Steps != 5000 || !prev.GoalReached {
		t.Errorf("finished day = %+v", prev)
	}
	cur, _, _ := f.days.GetDayData(ctx, "2024-03-11")
	if cur.Steps != 1200 {
		t.Errorf("new day = %+v", cur)
	}
}

func TestBloomNotification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2024-03-10", 100)
	f.streaks.streak = 7

	_ = f.tracker.SetTotal(ctx, 150)
	if len(f.notes.sent) != 2 || f.notes.sent[1] != BloomMessage {
		t.Errorf("notifications = %v", f.notes.sent)
	}
}

func TestStartResumesWithoutRefiring(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2024-03-10", 1000)
	if err := f.days.SaveDayData(ctx, "2024-03-10", 1500, 1000); err != nil {
		t.Fatal(err)
	}

	if err := f.tracker.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if st := f.tracker.State(); st.Steps != 1500 {
		t.Errorf("State() after Start = %+v", st)
	}
	_ = f.tracker.Add(ctx, 10)
	if f.streaks.calls != 0 {
		t.Errorf("goal already met today should not fire, got %d calls", f.streaks.calls)
	}
}

func TestMissingTrayIsNotAnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2024-03-10", 10)
	f.notes.err = notifier.ErrTrayNotRunning

	if err := f.tracker.SetTotal(ctx, 20); err != nil {
		t.Errorf("SetTotal() = %v", err)
	}
}

func TestSaveFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "2024-03-10", 1000)
	f.kv.FailSet = []string{""}

	if err := f.tracker.Add(ctx, 5); err == nil {
		t.Error("expected write failure from Add")
	}
	if st := f.tracker.State(); st.Steps != 5 {
		t.Errorf("in-memory count should still advance, got %+v", st)
	}
}

func TestRunConsumesDeltas(t *testing.T) {
	f := newFixture(t, "2024-03-10", 1000)
	f.tracker.opts.SaveInterval = time.Hour

	deltas := make(chan int)
	done := make(chan error, 1)
	go func() { done <- f.tracker.Run(context.Background(), deltas) }()

	deltas <- 400
	deltas <- 700
	close(deltas)

	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}
	rec, _, _ := f.days.GetDayData(context.Background(), "2024-03-10")
	if rec.Steps != 1100 || !rec.GoalReached {
		t.Errorf("stored record = %+v", rec)
	}
	if f.streaks.calls != 1 {
		t.Errorf("UpdateStreak calls = %d", f.streaks.calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, "2024-03-10", 1000)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.tracker.Run(ctx, make(chan int)) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
