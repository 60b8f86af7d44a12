package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ricmgf/on-track/internal/config"
	"github.com/ricmgf/on-track/internal/database"
	"github.com/ricmgf/on-track/internal/google"
	"github.com/ricmgf/on-track/internal/habit"
	"github.com/ricmgf/on-track/internal/tracker"
)

func main() {
	var (
		day       = flag.Bool("day", false, "Show the daily activity grid")
		toggle    = flag.String("toggle", "", "Toggle an activity (by id, e.g. Sauna)")
		date      = flag.String("date", "", "Date to show or toggle (YYYY-MM-DD, default today)")
		week      = flag.Bool("week", false, "Show the weekly timeline")
		last7     = flag.Bool("last7", false, "Use the trailing 7-day window instead of the calendar week")
		month     = flag.Bool("month", false, "Show the monthly scorecard")
		ym        = flag.String("ym", "", "Month to show (YYYY-MM, default current)")
		goalsView = flag.Bool("goals", false, "Show weekly goals")
		set       = flag.String("set", "", "Set a weekly goal (format: Activity=N)")
		inc       = flag.String("inc", "", "Raise an activity's weekly goal by one")
		dec       = flag.String("dec", "", "Lower an activity's weekly goal by one")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	auth, err := google.NewAuth(cfg.CredentialsPath, cfg.TokenPath, cfg.OAuthRedirectURL)
	if err != nil {
		log.Fatalf("Failed to create auth client: %v", err)
	}

	service, err := auth.GetSheetsService(ctx)
	if err != nil {
		log.Fatalf("Failed to get Sheets service: %v", err)
	}

	store := google.NewStore(service, cfg.SpreadsheetID)

	var cache tracker.Cache
	db, err := database.New(cfg.DataDir)
	if err != nil {
		log.Printf("Warning: local cache unavailable: %v", err)
	} else {
		cache = db
		defer db.Close()
	}

	app := tracker.New(store, store, cache)
	if err := app.LoadAll(ctx); err != nil {
		fatal(err)
	}
	if notice := app.FormatOfflineNotice(); notice != "" {
		fmt.Print(notice)
	}

	selected := app.State.SelectedDate
	if *date != "" {
		d, err := habit.ParseDate(*date)
		if err != nil {
			log.Fatalf("Invalid -date %q, want YYYY-MM-DD", *date)
		}
		selected = d
		app.State.SelectedDate = d
	}
	if *last7 {
		app.State.WeekPolicy = habit.TrailingWindow
	}
	if *ym != "" {
		m, err := time.Parse("2006-01", *ym)
		if err != nil {
			log.Fatalf("Invalid -ym %q, want YYYY-MM", *ym)
		}
		app.State.MonthYear = m.Year()
		app.State.Month = m.Month()
	}
	dateStr := habit.FormatDate(selected)

	switch {
	case *toggle != "":
		if _, err := app.ToggleActivity(ctx, dateStr, *toggle); err != nil {
			fatal(err)
		}
		fmt.Print(app.FormatDayView(app.DayView(dateStr)))
	case *set != "":
		id, value := parseGoalArg(*set)
		if err := app.SetGoal(ctx, id, value); err != nil {
			fatal(err)
		}
		fmt.Print(app.FormatGoals(app.GoalsView()))
	case *inc != "":
		if err := app.IncrementGoal(ctx, *inc); err != nil {
			fatal(err)
		}
		fmt.Print(app.FormatGoals(app.GoalsView()))
	case *dec != "":
		if err := app.DecrementGoal(ctx, *dec); err != nil {
			fatal(err)
		}
		fmt.Print(app.FormatGoals(app.GoalsView()))
	case *week:
		fmt.Print(app.FormatWeekView(app.WeekView(selected)))
	case *month:
		fmt.Print(app.FormatMonthView(app.MonthView()))
	case *goalsView:
		fmt.Print(app.FormatGoals(app.GoalsView()))
	case *day:
		fmt.Print(app.FormatDayView(app.DayView(dateStr)))
	default:
		fmt.Print(app.FormatDayView(app.DayView(dateStr)))
	}
}

func parseGoalArg(arg string) (string, int) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		log.Fatalf("Invalid -set %q, want Activity=N", arg)
	}
	value, err := strconv.Atoi(parts[1])
	if err != nil {
		log.Fatalf("Invalid goal value %q, want an integer", parts[1])
	}
	return parts[0], value
}

func fatal(err error) {
	switch {
	case errors.Is(err, google.ErrAuthExpired):
		log.Fatalf("Session expired. Run the auth command to sign in again.")
	case errors.Is(err, tracker.ErrOffline):
		log.Fatalf("%v", err)
	case errors.Is(err, habit.ErrUnknownActivity):
		ids := make([]string, 0, len(habit.Activities()))
		for _, a := range habit.Activities() {
			ids = append(ids, a.ID)
		}
		log.Fatalf("%v. Known activities: %s", err, strings.Join(ids, ", "))
	default:
		log.Fatalf("%v", err)
	}
}
