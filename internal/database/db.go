package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/ecohome/pkg/models"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a household does not exist
var ErrNotFound = errors.New("not found")

// timeLayout is fixed width so stored timestamps sort chronologically as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", withPragmas(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite allows a single writer
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS households (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		postcode TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS usage_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		household_id INTEGER NOT NULL REFERENCES households(id),
		entry_type TEXT NOT NULL CHECK(entry_type IN ('water', 'energy')),
		value REAL NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_usage_household ON usage_entries(household_id);
	CREATE INDEX IF NOT EXISTS idx_usage_recorded_at ON usage_entries(recorded_at);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateHousehold inserts a new household
func (db *DB) CreateHousehold(ctx context.Context, name, postcode string) (*models.Household, error) {
	createdAt := time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO households (name, postcode, created_at) VALUES (?, ?, ?)`,
		name, postcode, createdAt.Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("inserting household: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading household id: %w", err)
	}

	return &models.Household{ID: id, Name: name, Postcode: postcode, CreatedAt: createdAt}, nil
}

// GetHousehold retrieves a household by id, returning ErrNotFound if missing
func (db *DB) GetHousehold(ctx context.Context, id int64) (*models.Household, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, postcode, created_at FROM households WHERE id = ?`, id)

	hh, err := scanHousehold(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("household %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying household: %w", err)
	}
	return hh, nil
}

// ListHouseholds retrieves all households, newest first
func (db *DB) ListHouseholds(ctx context.Context) ([]models.Household, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, postcode, created_at FROM households ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying households: %w", err)
	}
	defer rows.Close()

	var results []models.Household
	for rows.Next() {
		hh, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *hh)
	}

	return results, rows.Err()
}

// CreateUsageEntry inserts a usage entry; a zero recordedAt means now
func (db *DB) CreateUsageEntry(ctx context.Context, householdID int64, entryType models.EntryType, value float64, recordedAt time.Time) (*models.UsageEntry, error) {
	entry := models.UsageEntry{
		HouseholdID: householdID,
		Type:        entryType,
		Value:       value,
		RecordedAt:  recordedAt,
	}
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	id, err := insertEntry(ctx, db.conn, &entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	return &entry, nil
}

// Order controls the sort direction of ListEntries
type Order int

const (
	Ascending Order = iota
	Descending
)

// ListOptions narrows a ListEntries query
type ListOptions struct {
	Order Order
	Limit int       // 0 = no limit
	Since time.Time // zero = no lower bound
}

// ListEntries retrieves a household's usage entries ordered by recorded time
func (db *DB) ListEntries(ctx context.Context, householdID int64, opts ListOptions) ([]models.UsageEntry, error) {
	query := `
	SELECT id, household_id, entry_type, value, recorded_at
	FROM usage_entries
	WHERE household_id = ?`
	args := []any{householdID}

	if !opts.Since.IsZero() {
		query += ` AND recorded_at >= ?`
		args = append(args, opts.Since.UTC().Format(timeLayout))
	}

	if opts.Order == Descending {
		query += ` ORDER BY recorded_at DESC, id DESC`
	} else {
		query += ` ORDER BY recorded_at ASC, id ASC`
	}

	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying usage entries: %w", err)
	}
	defer rows.Close()

	var results []models.UsageEntry
	for rows.Next() {
		var e models.UsageEntry
		var entryType, recordedAt string

		if err := rows.Scan(&e.ID, &e.HouseholdID, &entryType, &e.Value, &recordedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Type = models.EntryType(entryType)

		e.RecordedAt, err = time.Parse(timeLayout, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at: %w", err)
		}

		results = append(results, e)
	}

	return results, rows.Err()
}

// ImportEntries inserts a batch of entries for a household in one transaction.
// Either every entry is stored or none are.
func (db *DB) ImportEntries(ctx context.Context, householdID int64, entries []models.UsageEntry) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range entries {
		e := entries[i]
		e.HouseholdID = householdID
		if err := validateEntry(&e); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if _, err := insertEntry(ctx, tx, &e); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}
	return len(entries), nil
}

// Totals sums all recorded values per entry type for a household
func (db *DB) Totals(ctx context.Context, householdID int64) (map[models.EntryType]float64, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT entry_type, SUM(value)
	FROM usage_entries
	WHERE household_id = ?
	GROUP BY entry_type
	`, householdID)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.EntryType]float64)
	for rows.Next() {
		var entryType string
		var total float64
		if err := rows.Scan(&entryType, &total); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		totals[models.EntryType(entryType)] = total
	}

	return totals, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func validateEntry(e *models.UsageEntry) error {
	if _, err := models.ParseEntryType(string(e.Type)); err != nil {
		return err
	}
	if err := models.ValidateValue(e.Value); err != nil {
		return err
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	e.RecordedAt = e.RecordedAt.UTC()
	return nil
}

func insertEntry(ctx context.Context, ex execer, e *models.UsageEntry) (int64, error) {
	res, err := ex.ExecContext(ctx, `
	INSERT INTO usage_entries (household_id, entry_type, value, recorded_at)
	VALUES (?, ?, ?, ?)
	`, e.HouseholdID, string(e.Type), e.Value, e.RecordedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("inserting usage entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading usage entry id: %w", err)
	}
	return id, nil
}

func withPragmas(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func scanHousehold(row scanner) (*models.Household, error) {
	var hh models.Household
	var createdAt string

	if err := row.Scan(&hh.ID, &hh.Name, &hh.Postcode, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	hh.CreatedAt = t
	return &hh, nil
}
