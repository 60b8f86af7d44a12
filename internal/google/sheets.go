package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"

	"github.com/ricmgf/on-track/internal/habit"
)

const (
	logSheet   = "Log"
	goalsSheet = "WeeklyGoals"
)

// ErrAuthExpired signals that the cached token was rejected and the user
// needs to re-run the auth flow.
var ErrAuthExpired = errors.New("google authorization expired, run the auth command again")

// Store reads and writes day records and weekly goals in one spreadsheet.
// It owns the durable copy of both tables; callers must serialize writes
// to a given date's row to avoid lost updates.
type Store struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewStore(service *sheets.Service, spreadsheetID string) *Store {
	return &Store{
		service:       service,
		spreadsheetID: spreadsheetID,
	}
}

// EnsureSheets creates the Log and WeeklyGoals sheets if they are missing
// and writes their header rows. The goals sheet is seeded with a zero
// target per activity.
func (s *Store) EnsureSheets(ctx context.Context) error {
	var spreadsheet *sheets.Spreadsheet
	err := s.call(ctx, func() error {
		var err error
		spreadsheet, err = s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("unable to read spreadsheet: %w", err)
	}

	existing := make(map[string]bool)
	for _, sh := range spreadsheet.Sheets {
		existing[sh.Properties.Title] = true
	}

	if !existing[logSheet] {
		if err := s.createLogSheet(ctx); err != nil {
			return err
		}
	}
	if !existing[goalsSheet] {
		if err := s.createGoalsSheet(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) createLogSheet(ctx context.Context) error {
	if err := s.addSheet(ctx, logSheet); err != nil {
		return err
	}

	header := make([]interface{}, 0, len(logColumns()))
	for _, col := range logColumns() {
		header = append(header, col)
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{header}}
	rng := fmt.Sprintf("%s!A1:%s1", logSheet, lastLogColumn())
	return s.call(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
}

func (s *Store) createGoalsSheet(ctx context.Context) error {
	if err := s.addSheet(ctx, goalsSheet); err != nil {
		return err
	}

	values := [][]interface{}{{"Activity", "WeeklyTarget"}}
	for _, a := range habit.Activities() {
		values = append(values, []interface{}{a.ID, 0})
	}

	vr := &sheets.ValueRange{Values: values}
	rng := fmt.Sprintf("%s!A1:B%d", goalsSheet, len(values))
	return s.call(ctx, func() error {
		_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
}

func (s *Store) addSheet(ctx context.Context, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	err := s.call(ctx, func() error {
		_, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("unable to create sheet %s: %w", title, err)
	}
	return nil
}

// FetchAllRecords reads every day record from the Log sheet. The header
// row is validated against the catalog before any data row is trusted.
func (s *Store) FetchAllRecords(ctx context.Context) ([]habit.DayRecord, error) {
	rng := fmt.Sprintf("%s!A1:%s", logSheet, lastLogColumn())
	var resp *sheets.ValueRange
	err := s.call(ctx, func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read log sheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("log sheet is empty, run the auth command to initialize it")
	}
	if err := validateLogHeader(resp.Values[0]); err != nil {
		return nil, err
	}

	var records []habit.DayRecord
	for _, row := range resp.Values[1:] {
		rec, ok := parseLogRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// UpsertRecord writes rec to the Log sheet, updating the existing row for
// its date or appending a new one.
func (s *Store) UpsertRecord(ctx context.Context, rec habit.DayRecord) error {
	dates, err := s.logDates(ctx)
	if err != nil {
		return err
	}

	rowIndex := -1
	for i, d := range dates {
		if d == rec.Date {
			rowIndex = i
			break
		}
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{logRowValues(rec)}}

	if rowIndex >= 0 {
		// Data rows start at sheet row 2.
		rng := fmt.Sprintf("%s!A%d:%s%d", logSheet, rowIndex+2, lastLogColumn(), rowIndex+2)
		err = s.call(ctx, func() error {
			_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
				ValueInputOption("RAW").Context(ctx).Do()
			return err
		})
	} else {
		rng := fmt.Sprintf("%s!A:%s", logSheet, lastLogColumn())
		err = s.call(ctx, func() error {
			_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
				ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
			return err
		})
	}
	if err != nil {
		return fmt.Errorf("unable to save record for %s: %w", rec.Date, err)
	}
	return nil
}

// FetchAllGoals reads the weekly targets. Missing or unparseable target
// cells read as zero.
func (s *Store) FetchAllGoals(ctx context.Context) (habit.Goals, error) {
	rng := fmt.Sprintf("%s!A1:B", goalsSheet)
	var resp *sheets.ValueRange
	err := s.call(ctx, func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read goals sheet: %w", err)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("goals sheet is empty, run the auth command to initialize it")
	}
	if err := validateGoalsHeader(resp.Values[0]); err != nil {
		return nil, err
	}

	goals := habit.DefaultGoals()
	for _, row := range resp.Values[1:] {
		id := cellString(row, 0)
		if !habit.KnownActivity(id) {
			continue
		}
		goals[id] = cellInt(row, 1)
	}
	return goals, nil
}

// UpsertGoal writes one weekly target, updating the activity's row or
// appending it if the row is missing.
func (s *Store) UpsertGoal(ctx context.Context, activityID string, value int) error {
	rng := fmt.Sprintf("%s!A2:A", goalsSheet)
	var resp *sheets.ValueRange
	err := s.call(ctx, func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("unable to read goals sheet: %w", err)
	}

	rowIndex := -1
	for i, row := range resp.Values {
		if cellString(row, 0) == activityID {
			rowIndex = i
			break
		}
	}

	if rowIndex >= 0 {
		vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
		cell := fmt.Sprintf("%s!B%d", goalsSheet, rowIndex+2)
		err = s.call(ctx, func() error {
			_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, cell, vr).
				ValueInputOption("RAW").Context(ctx).Do()
			return err
		})
	} else {
		vr := &sheets.ValueRange{Values: [][]interface{}{{activityID, value}}}
		err = s.call(ctx, func() error {
			_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, goalsSheet+"!A:B", vr).
				ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
			return err
		})
	}
	if err != nil {
		return fmt.Errorf("unable to save goal for %s: %w", activityID, err)
	}
	return nil
}

func (s *Store) logDates(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A2:A", logSheet)
	var resp *sheets.ValueRange
	err := s.call(ctx, func() error {
		var err error
		resp, err = s.service.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read log dates: %w", err)
	}

	dates := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		dates[i] = cellString(row, 0)
	}
	return dates, nil
}

// call runs one Sheets API request, retrying transient failures with
// fibonacci backoff. Rejected credentials are not retried.
func (s *Store) call(ctx context.Context, fn func() error) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn()
		if err == nil {
			return nil
		}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch {
			case apiErr.Code == 401 || apiErr.Code == 403:
				return fmt.Errorf("%w: %v", ErrAuthExpired, err)
			case apiErr.Code == 429 || apiErr.Code >= 500:
				return retry.RetryableError(err)
			}
		}
		return err
	})
}
