package habit

import "time"

// DateLayout is the canonical date form used as the join key everywhere:
// zero-padded YYYY-MM-DD, built from local calendar fields.
const DateLayout = "2006-01-02"

// FormatDate renders t's calendar date in canonical form. The fields come
// from t's own location, never from a UTC-normalized instant, so the date
// does not shift near midnight.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a canonical YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// WeekPolicy selects how a 7-day window is anchored to a reference date.
type WeekPolicy int

const (
	// CalendarWeek is Monday through Sunday containing the reference date.
	CalendarWeek WeekPolicy = iota
	// TrailingWindow is the reference date and the preceding six days.
	TrailingWindow
)

// WeekStart returns the first day of the 7-day window for ref under the
// given policy. The window always spans WeekStart..WeekStart+6.
func WeekStart(ref time.Time, policy WeekPolicy) time.Time {
	if policy == TrailingWindow {
		return ref.AddDate(0, 0, -6)
	}
	// Monday is day 0; a Sunday reference belongs to the week that
	// started six days earlier.
	offset := int(ref.Weekday()) - 1
	if ref.Weekday() == time.Sunday {
		offset = 6
	}
	return ref.AddDate(0, 0, -offset)
}

// WeekDates returns the seven canonical date strings of ref's window.
func WeekDates(ref time.Time, policy WeekPolicy) []string {
	start := WeekStart(ref, policy)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = FormatDate(start.AddDate(0, 0, i))
	}
	return dates
}

// CountActivityOverRange counts the records between from and to
// (canonical date strings, both endpoints inclusive) whose activityID
// flag is set. Dates without a record contribute zero.
func CountActivityOverRange(records []DayRecord, activityID, from, to string) int {
	n := 0
	for _, rec := range records {
		if rec.Date >= from && rec.Date <= to && rec.Flags[activityID] {
			n++
		}
	}
	return n
}

// WeeklyCounts tallies every activity over ref's 7-day window.
func WeeklyCounts(records []DayRecord, ref time.Time, policy WeekPolicy) map[string]int {
	start := WeekStart(ref, policy)
	from := FormatDate(start)
	to := FormatDate(start.AddDate(0, 0, 6))

	counts := make(map[string]int, len(activities))
	for _, a := range activities {
		counts[a.ID] = CountActivityOverRange(records, a.ID, from, to)
	}
	return counts
}

// MonthlyCounts tallies every activity over the records whose date falls
// in year/month.
func MonthlyCounts(records []DayRecord, year int, month time.Month) map[string]int {
	counts := make(map[string]int, len(activities))
	for _, a := range activities {
		counts[a.ID] = 0
	}
	for _, rec := range records {
		d, err := ParseDate(rec.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		for _, a := range activities {
			if rec.Flags[a.ID] {
				counts[a.ID]++
			}
		}
	}
	return counts
}

// Status is the goal-tracking verdict for one activity in one month.
// HasTarget distinguishes "no goal set" from "behind goal"; when it is
// false no status should be rendered.
type Status struct {
	OnTrack   bool
	HasTarget bool
}

// TrackingStatus compares completed count against a monthly target.
func TrackingStatus(done, monthlyTarget int) Status {
	hasTarget := monthlyTarget > 0
	return Status{
		OnTrack:   hasTarget && done >= monthlyTarget,
		HasTarget: hasTarget,
	}
}
