package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ricmgf/on-track/internal/google"
	"github.com/ricmgf/on-track/internal/habit"
)

// LogStore is the durable table of day records keyed by date.
type LogStore interface {
	FetchAllRecords(ctx context.Context) ([]habit.DayRecord, error)
	UpsertRecord(ctx context.Context, rec habit.DayRecord) error
}

// GoalStore is the durable table of weekly targets keyed by activity id.
type GoalStore interface {
	FetchAllGoals(ctx context.Context) (habit.Goals, error)
	UpsertGoal(ctx context.Context, activityID string, value int) error
}

// Cache is the local fallback copy of both tables. database.DB implements
// it; it may be nil, in which case offline fallback is disabled.
type Cache interface {
	ReplaceRecords(records []habit.DayRecord) error
	ReplaceGoals(goals habit.Goals) error
	UpsertRecord(rec habit.DayRecord) error
	UpsertGoal(activityID string, target int) error
	AllRecords() ([]habit.DayRecord, error)
	AllGoals() (habit.Goals, error)
	LastSync() (time.Time, error)
}

// ErrOffline is returned for mutations attempted while running from the
// cached copy. Reads keep working; writes need the remote store.
var ErrOffline = errors.New("offline: changes cannot be saved, reconnect and reload")

// State is the application session state: current selections plus the
// working copies of the log and goals. It replaces what the browser app
// kept in module-level globals.
type State struct {
	SelectedDate time.Time
	WeekPolicy   habit.WeekPolicy
	MonthYear    int
	Month        time.Month
	Records      []habit.DayRecord
	Goals        habit.Goals
	Offline      bool
	SyncedAt     time.Time
}

// App wires the core to the stores and owns the session state.
type App struct {
	log   LogStore
	goals GoalStore
	cache Cache
	Now   func() time.Time

	State State
}

func New(log LogStore, goals GoalStore, cache Cache) *App {
	app := &App{
		log:   log,
		goals: goals,
		cache: cache,
		Now:   time.Now,
	}
	now := app.Now()
	app.State = State{
		SelectedDate: now,
		WeekPolicy:   habit.CalendarWeek,
		MonthYear:    now.Year(),
		Month:        now.Month(),
		Goals:        habit.DefaultGoals(),
	}
	return app
}

// LoadAll pulls both tables from the remote store and refreshes the
// cache. If the remote is unreachable it falls back to the cached copy
// and marks the session offline; auth failures are not masked.
func (a *App) LoadAll(ctx context.Context) error {
	records, err := a.log.FetchAllRecords(ctx)
	if err != nil {
		return a.loadFromCache(err)
	}
	goals, err := a.goals.FetchAllGoals(ctx)
	if err != nil {
		return a.loadFromCache(err)
	}

	a.State.Records = records
	a.State.Goals = goals
	a.State.Offline = false
	a.State.SyncedAt = a.Now()

	if a.cache != nil {
		if err := a.cache.ReplaceRecords(records); err != nil {
			return fmt.Errorf("failed to refresh record cache: %w", err)
		}
		if err := a.cache.ReplaceGoals(goals); err != nil {
			return fmt.Errorf("failed to refresh goal cache: %w", err)
		}
	}
	return nil
}

func (a *App) loadFromCache(cause error) error {
	// Rejected credentials need the re-auth prompt, not a stale view.
	if errors.Is(cause, google.ErrAuthExpired) {
		return cause
	}
	if a.cache == nil {
		return cause
	}
	records, err := a.cache.AllRecords()
	if err != nil {
		return cause
	}
	goals, err := a.cache.AllGoals()
	if err != nil {
		return cause
	}
	syncedAt, _ := a.cache.LastSync()

	a.State.Records = records
	a.State.Goals = goals
	a.State.Offline = true
	a.State.SyncedAt = syncedAt
	return nil
}

// Record returns the working copy for date, all-false when the date has
// no record yet.
func (a *App) Record(date string) habit.DayRecord {
	for _, rec := range a.State.Records {
		if rec.Date == date {
			return rec.Clone()
		}
	}
	return habit.NewDayRecord(date)
}

// ToggleActivity applies one toggle to date's record, persists it, and
// updates the working copy. Writes for a given date run one at a time:
// apply, persist, then return.
func (a *App) ToggleActivity(ctx context.Context, date, activityID string) (habit.DayRecord, error) {
	if a.State.Offline {
		return habit.DayRecord{}, ErrOffline
	}

	next, err := habit.ApplyToggle(a.Record(date), activityID)
	if err != nil {
		return habit.DayRecord{}, err
	}

	if err := a.log.UpsertRecord(ctx, next); err != nil {
		return habit.DayRecord{}, err
	}
	if a.cache != nil {
		if err := a.cache.UpsertRecord(next); err != nil {
			return habit.DayRecord{}, fmt.Errorf("saved remotely but failed to update cache: %w", err)
		}
	}

	a.putRecord(next)
	return next, nil
}

func (a *App) putRecord(rec habit.DayRecord) {
	for i, existing := range a.State.Records {
		if existing.Date == rec.Date {
			a.State.Records[i] = rec
			return
		}
	}
	a.State.Records = append(a.State.Records, rec)
}

// SetGoal replaces one weekly target and persists it.
func (a *App) SetGoal(ctx context.Context, activityID string, value int) error {
	next, err := habit.SetWeeklyTarget(a.State.Goals, activityID, value)
	if err != nil {
		return err
	}
	return a.persistGoal(ctx, activityID, next)
}

// IncrementGoal raises one weekly target by one and persists it.
func (a *App) IncrementGoal(ctx context.Context, activityID string) error {
	next, err := habit.IncrementWeeklyTarget(a.State.Goals, activityID)
	if err != nil {
		return err
	}
	return a.persistGoal(ctx, activityID, next)
}

// DecrementGoal lowers one weekly target by one, flooring at zero, and
// persists it.
func (a *App) DecrementGoal(ctx context.Context, activityID string) error {
	next, err := habit.DecrementWeeklyTarget(a.State.Goals, activityID)
	if err != nil {
		return err
	}
	return a.persistGoal(ctx, activityID, next)
}

func (a *App) persistGoal(ctx context.Context, activityID string, next habit.Goals) error {
	if a.State.Offline {
		return ErrOffline
	}
	if err := a.goals.UpsertGoal(ctx, activityID, next[activityID]); err != nil {
		return err
	}
	if a.cache != nil {
		if err := a.cache.UpsertGoal(activityID, next[activityID]); err != nil {
			return fmt.Errorf("saved remotely but failed to update cache: %w", err)
		}
	}
	a.State.Goals = next
	return nil
}
