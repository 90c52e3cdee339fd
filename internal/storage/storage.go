// Package storage provides SQLite-backed persistence for transit readings
// and transmutation windows.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alchm-dev/alchm-core/internal/models"
)

// Storage wraps a SQLite database for all persistence operations.
type Storage struct {
	db          *sql.DB
	maxReadings int
}

// New opens or creates the SQLite database at dbPath.
// An empty dbPath defaults to $TMPDIR/alchm/data.db.
func New(maxReadings int, dbPath string) (*Storage, error) {
	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "alchm", "data.db")
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db, maxReadings: maxReadings}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transit_history (
			id             TEXT PRIMARY KEY,
			spirit         REAL NOT NULL,
			essence        REAL NOT NULL,
			matter         REAL NOT NULL,
			substance      REAL NOT NULL,
			kinetic        REAL NOT NULL,
			thermal        REAL NOT NULL,
			hour_ruler     TEXT NOT NULL,
			season_element TEXT NOT NULL,
			source         TEXT,
			recorded_at    INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS windows (
			id         TEXT PRIMARY KEY,
			date       TEXT NOT NULL,
			start_time INTEGER NOT NULL,
			end_time   INTEGER NOT NULL,
			ruler      TEXT NOT NULL,
			imbalance  TEXT NOT NULL,
			potency    REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_recorded_at ON transit_history(recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_windows_start ON windows(start_time)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AddReading inserts a transit reading and trims the history to the
// configured cap, oldest rows first.
func (s *Storage) AddReading(r *models.TransitReading) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid reading: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO transit_history
			(id, spirit, essence, matter, substance, kinetic, thermal,
			 hour_ruler, season_element, source, recorded_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.Quantities.Spirit, r.Quantities.Essence, r.Quantities.Matter,
		r.Quantities.Substance, r.Quantities.Kinetic, r.Quantities.Thermal,
		string(r.HourRuler), string(r.SeasonElement), r.Source,
		r.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	if _, err = tx.Exec(`
		DELETE FROM transit_history WHERE id NOT IN (
			SELECT id FROM transit_history ORDER BY recorded_at DESC LIMIT ?
		)`, s.maxReadings); err != nil {
		return fmt.Errorf("failed to enforce history cap: %w", err)
	}

	return tx.Commit()
}

// RecentReadings returns readings recorded after the cutoff, newest first.
func (s *Storage) RecentReadings(since time.Time) ([]models.TransitReading, error) {
	rows, err := s.db.Query(`
		SELECT id, spirit, essence, matter, substance, kinetic, thermal,
		       hour_ruler, season_element, source, recorded_at
		FROM transit_history
		WHERE recorded_at >= ?
		ORDER BY recorded_at DESC`, since.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings := []models.TransitReading{}
	for rows.Next() {
		var r models.TransitReading
		var ruler, element string
		var recordedAtNano int64

		err := rows.Scan(
			&r.ID, &r.Quantities.Spirit, &r.Quantities.Essence, &r.Quantities.Matter,
			&r.Quantities.Substance, &r.Quantities.Kinetic, &r.Quantities.Thermal,
			&ruler, &element, &r.Source, &recordedAtNano,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		r.HourRuler = models.Planet(ruler)
		r.SeasonElement = models.Element(element)
		r.RecordedAt = time.Unix(0, recordedAtNano)
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// ReplaceWindows swaps the cached forecast for an imbalance category in one
// transaction: old windows for that category go, the new set comes in.
func (s *Storage) ReplaceWindows(imbalance models.ImbalanceCategory, windows []models.TransmutationWindow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM windows WHERE imbalance = ?`, string(imbalance)); err != nil {
		return fmt.Errorf("failed to clear windows: %w", err)
	}
	for _, w := range windows {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("invalid window: %w", err)
		}
		_, err := tx.Exec(`
			INSERT INTO windows (id, date, start_time, end_time, ruler, imbalance, potency)
			VALUES (?,?,?,?,?,?,?)`,
			w.ID, w.Date, w.Start.UnixNano(), w.End.UnixNano(),
			string(w.Ruler), string(w.Imbalance), w.Potency,
		)
		if err != nil {
			return fmt.Errorf("failed to insert window: %w", err)
		}
	}
	return tx.Commit()
}

// WindowsFor returns the cached windows for an imbalance category whose end
// time is after the cutoff, in chronological order.
func (s *Storage) WindowsFor(imbalance models.ImbalanceCategory, after time.Time) ([]models.TransmutationWindow, error) {
	rows, err := s.db.Query(`
		SELECT id, date, start_time, end_time, ruler, imbalance, potency
		FROM windows
		WHERE imbalance = ? AND end_time > ?
		ORDER BY start_time ASC`, string(imbalance), after.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	defer rows.Close()

	windows := []models.TransmutationWindow{}
	for rows.Next() {
		var w models.TransmutationWindow
		var ruler, category string
		var startNano, endNano int64

		err := rows.Scan(&w.ID, &w.Date, &startNano, &endNano, &ruler, &category, &w.Potency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan window: %w", err)
		}
		w.Start = time.Unix(0, startNano)
		w.End = time.Unix(0, endNano)
		w.Ruler = models.Planet(ruler)
		w.Imbalance = models.ImbalanceCategory(category)
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// PurgeExpiredWindows drops windows that ended before the cutoff.
func (s *Storage) PurgeExpiredWindows(before time.Time) error {
	if _, err := s.db.Exec(`DELETE FROM windows WHERE end_time <= ?`, before.UnixNano()); err != nil {
		return fmt.Errorf("failed to purge windows: %w", err)
	}
	return nil
}
