package google

import (
	"fmt"
	"strconv"

	"github.com/ricmgf/on-track/internal/habit"
)

// The Log sheet schema is Date followed by one TRUE/FALSE column per
// catalog activity, in catalog order. The header row is the contract
// between this code and the spreadsheet; a mismatch fails fast rather
// than mis-mapping columns.

func logColumns() []string {
	cols := make([]string, 0, len(habit.Activities())+1)
	cols = append(cols, "Date")
	for _, a := range habit.Activities() {
		cols = append(cols, a.ID)
	}
	return cols
}

// lastLogColumn returns the A1-notation letter of the final log column.
func lastLogColumn() string {
	return columnLetter(len(logColumns()) - 1)
}

// columnLetter converts a zero-based column index to A1 notation.
func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}

func validateLogHeader(row []interface{}) error {
	want := logColumns()
	for i, col := range want {
		if got := cellString(row, i); got != col {
			return fmt.Errorf("log sheet header mismatch: column %s is %q, want %q", columnLetter(i), got, col)
		}
	}
	return nil
}

func validateGoalsHeader(row []interface{}) error {
	want := []string{"Activity", "WeeklyTarget"}
	for i, col := range want {
		if got := cellString(row, i); got != col {
			return fmt.Errorf("goals sheet header mismatch: column %s is %q, want %q", columnLetter(i), got, col)
		}
	}
	return nil
}

// parseLogRow decodes one data row into a DayRecord. Rows with an empty
// date cell are skipped.
func parseLogRow(row []interface{}) (habit.DayRecord, bool) {
	date := cellString(row, 0)
	if date == "" {
		return habit.DayRecord{}, false
	}

	rec := habit.NewDayRecord(date)
	for i, a := range habit.Activities() {
		rec.Flags[a.ID] = cellString(row, i+1) == "TRUE"
	}
	return rec, true
}

// logRowValues encodes a DayRecord as one sheet row.
func logRowValues(rec habit.DayRecord) []interface{} {
	values := make([]interface{}, 0, len(habit.Activities())+1)
	values = append(values, rec.Date)
	for _, a := range habit.Activities() {
		if rec.Flags[a.ID] {
			values = append(values, "TRUE")
		} else {
			values = append(values, "FALSE")
		}
	}
	return values
}

func cellString(row []interface{}, index int) string {
	if len(row) > index {
		if val, ok := row[index].(string); ok {
			return val
		}
	}
	return ""
}

func cellInt(row []interface{}, index int) int {
	if len(row) > index {
		switch val := row[index].(type) {
		case string:
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				return n
			}
		case float64:
			if val > 0 {
				return int(val)
			}
		}
	}
	return 0
}
