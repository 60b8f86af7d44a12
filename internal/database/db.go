package database

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/ricmgf/on-track/internal/habit"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB is the local offline cache of the spreadsheet tables. It is replaced
// wholesale after every successful remote load and written through on
// every successful upsert, so views keep working without a network.
type DB struct {
	conn *sql.DB
}

func New(dataDir string) (*DB, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "ontrack.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	db := &DB{conn: conn}

	// Run migrations
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	// Set up goose with embedded migrations
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %v", err)
	}

	if err := goose.Up(db.conn, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// ReplaceRecords swaps the cached log for the given records.
func (db *DB) ReplaceRecords(records []habit.DayRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM day_flags`); err != nil {
		return err
	}
	for _, rec := range records {
		if err := upsertRecordTx(tx, rec); err != nil {
			return err
		}
	}
	if err := setSyncedTx(tx, time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceGoals swaps the cached weekly targets.
func (db *DB) ReplaceGoals(goals habit.Goals) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM weekly_goals`); err != nil {
		return err
	}
	for id, target := range goals {
		if _, err := tx.Exec(`
			INSERT INTO weekly_goals (activity_id, target) VALUES (?, ?)
		`, id, target); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpsertRecord writes through one day record.
func (db *DB) UpsertRecord(rec habit.DayRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := upsertRecordTx(tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertRecordTx(tx *sql.Tx, rec habit.DayRecord) error {
	for id, done := range rec.Flags {
		doneInt := 0
		if done {
			doneInt = 1
		}
		if _, err := tx.Exec(`
			INSERT INTO day_flags (date, activity_id, done) VALUES (?, ?, ?)
			ON CONFLICT (date, activity_id) DO UPDATE SET done = excluded.done
		`, rec.Date, id, doneInt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertGoal writes through one weekly target.
func (db *DB) UpsertGoal(activityID string, target int) error {
	_, err := db.conn.Exec(`
		INSERT INTO weekly_goals (activity_id, target) VALUES (?, ?)
		ON CONFLICT (activity_id) DO UPDATE SET target = excluded.target
	`, activityID, target)
	return err
}

// AllRecords returns the cached log ordered by date.
func (db *DB) AllRecords() ([]habit.DayRecord, error) {
	rows, err := db.conn.Query(`
		SELECT date, activity_id, done FROM day_flags ORDER BY date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[string]habit.DayRecord)
	var order []string
	for rows.Next() {
		var date, activityID string
		var done int
		if err := rows.Scan(&date, &activityID, &done); err != nil {
			return nil, err
		}
		rec, ok := byDate[date]
		if !ok {
			rec = habit.NewDayRecord(date)
			byDate[date] = rec
			order = append(order, date)
		}
		rec.Flags[activityID] = done != 0
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]habit.DayRecord, 0, len(order))
	for _, date := range order {
		records = append(records, byDate[date])
	}
	return records, nil
}

// AllGoals returns the cached weekly targets, zero for activities the
// cache has no row for.
func (db *DB) AllGoals() (habit.Goals, error) {
	rows, err := db.conn.Query(`SELECT activity_id, target FROM weekly_goals`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := habit.DefaultGoals()
	for rows.Next() {
		var id string
		var target int
		if err := rows.Scan(&id, &target); err != nil {
			return nil, err
		}
		goals[id] = target
	}
	return goals, rows.Err()
}

// LastSync returns when the cache was last replaced from the remote
// store, or the zero time if it never was.
func (db *DB) LastSync() (time.Time, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT synced_at FROM sync_state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}

func setSyncedTx(tx *sql.Tx, t time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO sync_state (id, synced_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET synced_at = excluded.synced_at
	`, t.UTC().Format(time.RFC3339))
	return err
}
