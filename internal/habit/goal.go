package habit

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNegativeTarget is returned when a weekly target is explicitly set
// below zero. Decrement floors at zero instead.
var ErrNegativeTarget = errors.New("weekly target must not be negative")

// Goals maps activity id to a non-negative weekly target count.
type Goals map[string]int

// DefaultGoals returns a zero target for every catalog activity.
func DefaultGoals() Goals {
	g := make(Goals, len(activities))
	for _, a := range activities {
		g[a.ID] = 0
	}
	return g
}

// Clone returns an independent copy of the goals.
func (g Goals) Clone() Goals {
	out := make(Goals, len(g))
	for id, v := range g {
		out[id] = v
	}
	return out
}

// Target returns the weekly target for activityID, zero if unset.
func (g Goals) Target(activityID string) int {
	return g[activityID]
}

// SetWeeklyTarget replaces activityID's weekly target verbatim. There is
// no upper clamp. The input goals are not modified.
func SetWeeklyTarget(g Goals, activityID string, value int) (Goals, error) {
	if !KnownActivity(activityID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, activityID)
	}
	if value < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTarget, value)
	}
	out := g.Clone()
	out[activityID] = value
	return out, nil
}

// IncrementWeeklyTarget raises activityID's weekly target by one.
func IncrementWeeklyTarget(g Goals, activityID string) (Goals, error) {
	return SetWeeklyTarget(g, activityID, g[activityID]+1)
}

// DecrementWeeklyTarget lowers activityID's weekly target by one,
// flooring silently at zero.
func DecrementWeeklyTarget(g Goals, activityID string) (Goals, error) {
	next := g[activityID] - 1
	if next < 0 {
		next = 0
	}
	return SetWeeklyTarget(g, activityID, next)
}

// DaysInMonth returns the day count of year/month in the proleptic
// Gregorian calendar.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthlyDerivedTarget scales a weekly target to a specific month:
// round(weekly * daysInMonth / 7).
func MonthlyDerivedTarget(weeklyTarget int, year int, month time.Month) int {
	days := DaysInMonth(year, month)
	return int(math.Round(float64(weeklyTarget) * float64(days) / 7.0))
}
