package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/ricmgf/on-track/internal/habit"
)

type DayEntry struct {
	Activity habit.Activity
	Done     bool
	// Disabled mirrors the exclusivity rule for rendering: a rest day
	// greys out every other activity and vice versa.
	Disabled bool
}

type DayView struct {
	Date    string
	Entries []DayEntry
}

type WeekDay struct {
	Date   string
	Name   string
	Active []habit.Activity
}

type WeekView struct {
	From   string
	To     string
	Days   []WeekDay
	Counts map[string]int
}

type ScoreLine struct {
	Activity habit.Activity
	Done     int
	Target   int
	Status   habit.Status
}

type MonthView struct {
	Year  int
	Month time.Month
	Lines []ScoreLine
}

type GoalLine struct {
	Activity       habit.Activity
	WeeklyTarget   int
	MonthlyDerived int
}

// DayView assembles the daily toggle grid for one date.
func (a *App) DayView(date string) DayView {
	rec := a.Record(date)
	rest := habit.RestActivityID()
	restSet := rec.Flags[rest]
	anyActivity := rec.HasNonRestActivity()

	view := DayView{Date: date}
	for _, act := range habit.Activities() {
		disabled := false
		if restSet && act.ID != rest {
			disabled = true
		}
		if act.ID == rest && anyActivity {
			disabled = true
		}
		view.Entries = append(view.Entries, DayEntry{
			Activity: act,
			Done:     rec.Flags[act.ID],
			Disabled: disabled,
		})
	}
	return view
}

// WeekView assembles the 7-day timeline and totals for the reference
// date under the session's window policy.
func (a *App) WeekView(ref time.Time) WeekView {
	dates := habit.WeekDates(ref, a.State.WeekPolicy)

	view := WeekView{
		From:   dates[0],
		To:     dates[6],
		Counts: habit.WeeklyCounts(a.State.Records, ref, a.State.WeekPolicy),
	}
	for _, date := range dates {
		rec := a.Record(date)
		day, _ := habit.ParseDate(date)
		wd := WeekDay{Date: date, Name: day.Weekday().String()}
		for _, act := range habit.Activities() {
			if rec.Flags[act.ID] {
				wd.Active = append(wd.Active, act)
			}
		}
		view.Days = append(view.Days, wd)
	}
	return view
}

// MonthView assembles the scorecard for the session's selected month.
func (a *App) MonthView() MonthView {
	year, month := a.State.MonthYear, a.State.Month
	counts := habit.MonthlyCounts(a.State.Records, year, month)

	view := MonthView{Year: year, Month: month}
	for _, act := range habit.Activities() {
		target := habit.MonthlyDerivedTarget(a.State.Goals.Target(act.ID), year, month)
		done := counts[act.ID]
		view.Lines = append(view.Lines, ScoreLine{
			Activity: act,
			Done:     done,
			Target:   target,
			Status:   habit.TrackingStatus(done, target),
		})
	}
	return view
}

// GoalsView lists every weekly target with its derivation for the month
// containing now.
func (a *App) GoalsView() []GoalLine {
	now := a.Now()
	lines := make([]GoalLine, 0, len(habit.Activities()))
	for _, act := range habit.Activities() {
		weekly := a.State.Goals.Target(act.ID)
		lines = append(lines, GoalLine{
			Activity:       act,
			WeeklyTarget:   weekly,
			MonthlyDerived: habit.MonthlyDerivedTarget(weekly, now.Year(), now.Month()),
		})
	}
	return lines
}

func (a *App) FormatDayView(view DayView) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== %s ===\n\n", view.Date))
	for _, e := range view.Entries {
		mark := " "
		if e.Done {
			mark = "✓"
		}
		label := e.Activity.Name
		if e.Activity.Icon != "" {
			label = e.Activity.Icon + " " + label
		}
		suffix := ""
		if e.Disabled {
			suffix = " (unavailable)"
		}
		output.WriteString(fmt.Sprintf("  [%s] %s%s\n", mark, label, suffix))
	}

	return output.String()
}

func (a *App) FormatWeekView(view WeekView) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== Week %s to %s ===\n\n", view.From, view.To))
	for _, day := range view.Days {
		output.WriteString(fmt.Sprintf("  %-9s %s: ", day.Name, day.Date))
		if len(day.Active) == 0 {
			output.WriteString("no activity\n")
			continue
		}
		labels := make([]string, 0, len(day.Active))
		for _, act := range day.Active {
			labels = append(labels, act.ShortLabel)
		}
		output.WriteString(strings.Join(labels, ", ") + "\n")
	}

	output.WriteString("\n📊 Weekly Total:\n")
	for _, act := range habit.Activities() {
		if n := view.Counts[act.ID]; n > 0 {
			output.WriteString(fmt.Sprintf("  %d× %s\n", n, act.Name))
		}
	}

	return output.String()
}

func (a *App) FormatMonthView(view MonthView) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("=== %s %d ===\n\n", view.Month, view.Year))
	for _, line := range view.Lines {
		status := ""
		if line.Status.HasTarget {
			if line.Status.OnTrack {
				status = " 🟢"
			} else {
				status = " 🔴"
			}
		}
		output.WriteString(fmt.Sprintf("  %s: %d / %d%s\n",
			line.Activity.Name, line.Done, line.Target, status))
	}

	return output.String()
}

func (a *App) FormatGoals(lines []GoalLine) string {
	var output strings.Builder

	output.WriteString("=== Weekly Goals ===\n\n")
	for _, line := range lines {
		output.WriteString(fmt.Sprintf("  %s: %d per week (≈ %d per month)\n",
			line.Activity.Name, line.WeeklyTarget, line.MonthlyDerived))
	}

	return output.String()
}

// FormatOfflineNotice renders the offline banner when the session is
// running from the cache.
func (a *App) FormatOfflineNotice() string {
	if !a.State.Offline {
		return ""
	}
	if a.State.SyncedAt.IsZero() {
		return "⚠️  Offline: showing cached data, changes cannot be saved.\n"
	}
	return fmt.Sprintf("⚠️  Offline: showing data cached %s, changes cannot be saved.\n",
		a.State.SyncedAt.Local().Format("2006-01-02 15:04"))
}
