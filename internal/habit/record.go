package habit

import (
	"errors"
	"fmt"
)

// ErrUnknownActivity is returned when an operation names an activity id
// that is not in the catalog.
var ErrUnknownActivity = errors.New("unknown activity id")

// DayRecord holds the boolean activity flags for one calendar date.
// Date is the canonical YYYY-MM-DD form. A date with no record is
// equivalent to an all-false record.
type DayRecord struct {
	Date  string
	Flags map[string]bool
}

// NewDayRecord returns an all-false record for date.
func NewDayRecord(date string) DayRecord {
	flags := make(map[string]bool, len(activities))
	for _, a := range activities {
		flags[a.ID] = false
	}
	return DayRecord{Date: date, Flags: flags}
}

// Clone returns an independent copy of the record.
func (r DayRecord) Clone() DayRecord {
	out := DayRecord{Date: r.Date, Flags: make(map[string]bool, len(r.Flags))}
	for id, v := range r.Flags {
		out.Flags[id] = v
	}
	return out
}

// HasNonRestActivity reports whether any non-rest flag is set.
func (r DayRecord) HasNonRestActivity() bool {
	rest := RestActivityID()
	for id, v := range r.Flags {
		if v && id != rest {
			return true
		}
	}
	return false
}

// ApplyToggle inverts activityID's flag and re-normalizes the record so
// that a rest day excludes all other activities:
//
//   - rest toggled on: every other flag is forced off
//   - non-rest toggled on while rest is set: rest is displaced
//   - anything toggled off: just cleared, nothing is restored
//
// The input record is not modified. Persistence is the caller's job.
func ApplyToggle(rec DayRecord, activityID string) (DayRecord, error) {
	if !KnownActivity(activityID) {
		return DayRecord{}, fmt.Errorf("%w: %q", ErrUnknownActivity, activityID)
	}

	out := rec.Clone()
	rest := RestActivityID()
	newValue := !out.Flags[activityID]

	switch {
	case activityID == rest && newValue:
		for id := range out.Flags {
			out.Flags[id] = id == rest
		}
	case activityID != rest && newValue && out.Flags[rest]:
		out.Flags[rest] = false
		out.Flags[activityID] = true
	default:
		out.Flags[activityID] = newValue
	}

	return out, nil
}
