package habit

// Activity describes one trackable daily activity. The catalog is static;
// ordering matters for display.
type Activity struct {
	ID         string
	Name       string
	ShortLabel string
	Icon       string // empty = no icon
	Color      string // empty = default color
	RestRole   bool   // exactly one catalog entry has this set
}

var activities = []Activity{
	{ID: "UpperBody", Name: "Upper Body", ShortLabel: "Upper"},
	{ID: "LowerBody", Name: "Lower Body", ShortLabel: "Lower"},
	{ID: "Zone2", Name: "Zone 2", ShortLabel: "Z2"},
	{ID: "VO2Max", Name: "VO₂ Max", ShortLabel: "VO₂"},
	{ID: "Walk", Name: "Walk", ShortLabel: "Walk"},
	{ID: "SportDay", Name: "Sport Day", ShortLabel: "Sport"},
	{ID: "Sauna", Name: "Sauna", ShortLabel: "Sauna", Icon: "🔥"},
	{ID: "ColdPlunge", Name: "Cold Plunge", ShortLabel: "Plunge", Icon: "❄️"},
	{ID: "RestDay", Name: "Rest Day", ShortLabel: "Rest", RestRole: true},
}

// Activities returns the catalog in display order. The returned slice is
// shared; callers must not modify it.
func Activities() []Activity {
	return activities
}

// RestActivityID returns the id of the single rest-role activity.
func RestActivityID() string {
	for _, a := range activities {
		if a.RestRole {
			return a.ID
		}
	}
	panic("habit: catalog has no rest-role activity")
}

// ActivityByID looks up a catalog entry.
func ActivityByID(id string) (Activity, bool) {
	for _, a := range activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// KnownActivity reports whether id names a catalog entry.
func KnownActivity(id string) bool {
	_, ok := ActivityByID(id)
	return ok
}
