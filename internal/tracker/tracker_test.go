package tracker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ricmgf/on-track/internal/google"
	"github.com/ricmgf/on-track/internal/habit"
)

type fakeLogStore struct {
	records []habit.DayRecord
	upserts int
	err     error
}

func (f *fakeLogStore) FetchAllRecords(ctx context.Context) ([]habit.DayRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeLogStore) UpsertRecord(ctx context.Context, rec habit.DayRecord) error {
	if f.err != nil {
		return f.err
	}
	f.upserts++
	for i, existing := range f.records {
		if existing.Date == rec.Date {
			f.records[i] = rec
			return nil
		}
	}
	f.records = append(f.records, rec)
	return nil
}

type fakeGoalStore struct {
	goals   habit.Goals
	upserts int
	err     error
}

func (f *fakeGoalStore) FetchAllGoals(ctx context.Context) (habit.Goals, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.goals.Clone(), nil
}

func (f *fakeGoalStore) UpsertGoal(ctx context.Context, activityID string, value int) error {
	if f.err != nil {
		return f.err
	}
	f.upserts++
	f.goals[activityID] = value
	return nil
}

type fakeCache struct {
	records  []habit.DayRecord
	goals    habit.Goals
	syncedAt time.Time
}

func (f *fakeCache) ReplaceRecords(records []habit.DayRecord) error {
	f.records = records
	f.syncedAt = time.Now()
	return nil
}

func (f *fakeCache) ReplaceGoals(goals habit.Goals) error {
	f.goals = goals.Clone()
	return nil
}

func (f *fakeCache) UpsertRecord(rec habit.DayRecord) error {
	for i, existing := range f.records {
		if existing.Date == rec.Date {
			f.records[i] = rec
			return nil
		}
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeCache) UpsertGoal(activityID string, target int) error {
	if f.goals == nil {
		f.goals = habit.DefaultGoals()
	}
	f.goals[activityID] = target
	return nil
}

func (f *fakeCache) AllRecords() ([]habit.DayRecord, error) { return f.records, nil }

func (f *fakeCache) AllGoals() (habit.Goals, error) {
	if f.goals == nil {
		return habit.DefaultGoals(), nil
	}
	return f.goals.Clone(), nil
}

func (f *fakeCache) LastSync() (time.Time, error) { return f.syncedAt, nil }

func dayWith(date string, ids ...string) habit.DayRecord {
	rec := habit.NewDayRecord(date)
	for _, id := range ids {
		rec.Flags[id] = true
	}
	return rec
}

func newTestApp(t *testing.T, log *fakeLogStore, goals *fakeGoalStore, cache *fakeCache) *App {
	t.Helper()
	if goals.goals == nil {
		goals.goals = habit.DefaultGoals()
	}
	var app *App
	if cache == nil {
		app = New(log, goals, nil)
	} else {
		app = New(log, goals, cache)
	}
	// Pin the clock and re-derive the initial selections from it so the
	// suite does not depend on the month it happens to run in.
	app.Now = func() time.Time { return time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) }
	now := app.Now()
	app.State.SelectedDate = now
	app.State.MonthYear = now.Year()
	app.State.Month = now.Month()
	return app
}

func TestLoadAllRefreshesStateAndCache(t *testing.T) {
	log := &fakeLogStore{records: []habit.DayRecord{dayWith("2024-03-01", "Walk")}}
	goals := &fakeGoalStore{goals: habit.DefaultGoals()}
	goals.goals["Walk"] = 3
	cache := &fakeCache{}
	app := newTestApp(t, log, goals, cache)

	require.NoError(t, app.LoadAll(context.Background()))
	require.False(t, app.State.Offline)
	require.Len(t, app.State.Records, 1)
	require.Equal(t, 3, app.State.Goals.Target("Walk"))
	require.Len(t, cache.records, 1)
	require.Equal(t, 3, cache.goals.Target("Walk"))
}

func TestLoadAllFallsBackToCacheWhenRemoteFails(t *testing.T) {
	cache := &fakeCache{
		records:  []habit.DayRecord{dayWith("2024-03-01", "Sauna")},
		goals:    habit.DefaultGoals(),
		syncedAt: time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC),
	}
	log := &fakeLogStore{err: errors.New("network down")}
	app := newTestApp(t, log, &fakeGoalStore{}, cache)

	require.NoError(t, app.LoadAll(context.Background()))
	require.True(t, app.State.Offline)
	require.Len(t, app.State.Records, 1)
	require.Equal(t, cache.syncedAt, app.State.SyncedAt)
	require.NotEmpty(t, app.FormatOfflineNotice())

	// mutations are rejected while offline
	_, err := app.ToggleActivity(context.Background(), "2024-03-01", "Walk")
	require.ErrorIs(t, err, ErrOffline)
	require.ErrorIs(t, app.SetGoal(context.Background(), "Walk", 2), ErrOffline)
}

func TestLoadAllAuthFailureBypassesCache(t *testing.T) {
	cache := &fakeCache{
		records: []habit.DayRecord{dayWith("2024-03-01", "Sauna")},
		goals:   habit.DefaultGoals(),
	}
	log := &fakeLogStore{err: fmt.Errorf("reading log: %w", google.ErrAuthExpired)}
	app := newTestApp(t, log, &fakeGoalStore{}, cache)

	// Expired credentials must surface for the re-auth prompt, never
	// degrade into a cached offline session.
	err := app.LoadAll(context.Background())
	require.ErrorIs(t, err, google.ErrAuthExpired)
	require.False(t, app.State.Offline)
	require.Empty(t, app.State.Records)
}

func TestLoadAllWithoutCachePropagatesError(t *testing.T) {
	cause := errors.New("network down")
	app := newTestApp(t, &fakeLogStore{err: cause}, &fakeGoalStore{}, nil)
	require.ErrorIs(t, app.LoadAll(context.Background()), cause)
}

func TestToggleActivityPersistsAndUpdatesState(t *testing.T) {
	log := &fakeLogStore{}
	cache := &fakeCache{}
	app := newTestApp(t, log, &fakeGoalStore{}, cache)
	require.NoError(t, app.LoadAll(context.Background()))

	rec, err := app.ToggleActivity(context.Background(), "2024-03-13", "Walk")
	require.NoError(t, err)
	require.True(t, rec.Flags["Walk"])
	require.Equal(t, 1, log.upserts)
	require.Len(t, cache.records, 1)
	require.True(t, app.Record("2024-03-13").Flags["Walk"])

	// toggling rest displaces the walk
	rec, err = app.ToggleActivity(context.Background(), "2024-03-13", "RestDay")
	require.NoError(t, err)
	require.True(t, rec.Flags["RestDay"])
	require.False(t, rec.Flags["Walk"])
	require.False(t, log.records[0].Flags["Walk"])
}

func TestToggleUnknownActivityPersistsNothing(t *testing.T) {
	log := &fakeLogStore{}
	app := newTestApp(t, log, &fakeGoalStore{}, nil)
	require.NoError(t, app.LoadAll(context.Background()))

	_, err := app.ToggleActivity(context.Background(), "2024-03-13", "Yoga")
	require.ErrorIs(t, err, habit.ErrUnknownActivity)
	require.Zero(t, log.upserts)
}

func TestGoalMutations(t *testing.T) {
	goals := &fakeGoalStore{goals: habit.DefaultGoals()}
	cache := &fakeCache{}
	app := newTestApp(t, &fakeLogStore{}, goals, cache)
	require.NoError(t, app.LoadAll(context.Background()))

	require.NoError(t, app.SetGoal(context.Background(), "Sauna", 4))
	require.Equal(t, 4, goals.goals.Target("Sauna"))
	require.Equal(t, 4, cache.goals.Target("Sauna"))

	require.NoError(t, app.IncrementGoal(context.Background(), "Sauna"))
	require.Equal(t, 5, app.State.Goals.Target("Sauna"))

	require.NoError(t, app.DecrementGoal(context.Background(), "Sauna"))
	require.Equal(t, 4, app.State.Goals.Target("Sauna"))

	// decrement at zero floors silently, but still round-trips
	require.NoError(t, app.DecrementGoal(context.Background(), "Walk"))
	require.Zero(t, app.State.Goals.Target("Walk"))

	require.ErrorIs(t, app.SetGoal(context.Background(), "Sauna", -1), habit.ErrNegativeTarget)
	require.Equal(t, 4, app.State.Goals.Target("Sauna"), "failed set must not change state")
}

func TestDayViewDisablesForRestExclusivity(t *testing.T) {
	log := &fakeLogStore{records: []habit.DayRecord{dayWith("2024-03-13", "Walk")}}
	app := newTestApp(t, log, &fakeGoalStore{}, nil)
	require.NoError(t, app.LoadAll(context.Background()))

	view := app.DayView("2024-03-13")
	for _, e := range view.Entries {
		switch e.Activity.ID {
		case "Walk":
			require.True(t, e.Done)
			require.False(t, e.Disabled)
		case "RestDay":
			require.True(t, e.Disabled, "rest must be disabled while an activity is set")
		}
	}
}

func TestWeekViewCounts(t *testing.T) {
	log := &fakeLogStore{records: []habit.DayRecord{
		dayWith("2024-03-11", "Walk"),
		dayWith("2024-03-13", "Walk", "Sauna"),
	}}
	app := newTestApp(t, log, &fakeGoalStore{}, nil)
	require.NoError(t, app.LoadAll(context.Background()))

	view := app.WeekView(app.Now())
	require.Equal(t, "2024-03-11", view.From)
	require.Equal(t, "2024-03-17", view.To)
	require.Equal(t, 2, view.Counts["Walk"])
	require.Equal(t, 1, view.Counts["Sauna"])
	require.Len(t, view.Days, 7)
	require.Equal(t, "Monday", view.Days[0].Name)
}

func TestMonthViewScorecard(t *testing.T) {
	log := &fakeLogStore{records: []habit.DayRecord{
		dayWith("2024-03-01", "Walk"),
		dayWith("2024-03-02", "Walk"),
		dayWith("2024-02-28", "Walk"), // other month, ignored
	}}
	goals := &fakeGoalStore{goals: habit.DefaultGoals()}
	goals.goals["Walk"] = 7 // monthly target for March 2024: round(7*31/7) = 31
	app := newTestApp(t, log, goals, nil)
	require.NoError(t, app.LoadAll(context.Background()))

	view := app.MonthView()
	require.Equal(t, time.March, view.Month)

	var walk, sauna ScoreLine
	for _, line := range view.Lines {
		switch line.Activity.ID {
		case "Walk":
			walk = line
		case "Sauna":
			sauna = line
		}
	}
	require.Equal(t, 2, walk.Done)
	require.Equal(t, 31, walk.Target)
	require.True(t, walk.Status.HasTarget)
	require.False(t, walk.Status.OnTrack)

	require.Zero(t, sauna.Target)
	require.False(t, sauna.Status.HasTarget, "no target set means no status")
}

func TestFormatViewsRenderLongNames(t *testing.T) {
	app := newTestApp(t, &fakeLogStore{}, &fakeGoalStore{}, nil)
	require.NoError(t, app.LoadAll(context.Background()))

	month := app.FormatMonthView(app.MonthView())
	require.Contains(t, month, "  Cold Plunge: 0 / 0")

	goals := app.FormatGoals(app.GoalsView())
	require.Contains(t, goals, "  Cold Plunge: 0 per week")
}

func TestGoalsViewDerivesCurrentMonth(t *testing.T) {
	goals := &fakeGoalStore{goals: habit.DefaultGoals()}
	goals.goals["Zone2"] = 3
	app := newTestApp(t, &fakeLogStore{}, goals, nil)
	require.NoError(t, app.LoadAll(context.Background()))

	for _, line := range app.GoalsView() {
		if line.Activity.ID == "Zone2" {
			require.Equal(t, 3, line.WeeklyTarget)
			// March 2024: round(3*31/7) = 13
			require.Equal(t, 13, line.MonthlyDerived)
		}
	}
}
