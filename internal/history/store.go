// Package history keeps a SQLite record of manifest runs: when each ran,
// what it counted and which directories contributed POIs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
)

// ErrRunNotFound is returned when no run matches an id or id prefix
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRunID is returned when an id prefix matches more than one run
var ErrAmbiguousRunID = errors.New("run id prefix matches more than one run")

// Store manages the run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database and applies
// pending migrations
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// every pooled connection to :memory: would get its own empty database
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a run with its sections and dropped prefabs. A run
// without an ID gets a fresh UUID, written back to run.ID.
func (s *Store) RecordRun(ctx context.Context, run *models.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	st := run.Stats
	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, root_path, output_file, started_at, duration_ms, directories_visited, directories_skipped,
		 files_skipped, not_pois, dropped, parse_errors, city, wilderness, rwg_tiles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RootPath, run.OutputFile, run.StartedAt.UTC(), run.Duration.Milliseconds(),
		st.DirectoriesVisited, st.DirectoriesSkipped, st.FilesSkipped, st.NotPois, st.Dropped,
		st.ParseErrors, st.City, st.Wilderness, st.RwgTiles)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, section := range run.Sections {
		_, err := tx.ExecContext(ctx, `INSERT INTO sections
			(run_id, position, display_path, city, wilderness, rwg_tiles) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, section.DisplayPath, section.City, section.Wilderness, section.RwgTiles)
		if err != nil {
			return fmt.Errorf("insert section %s: %w", section.DisplayPath, err)
		}
	}

	for _, dropped := range run.Dropped {
		_, err := tx.ExecContext(ctx, `INSERT INTO dropped_pois (run_id, path, reason) VALUES (?, ?, ?)`,
			run.ID, dropped.Path, dropped.Reason)
		if err != nil {
			return fmt.Errorf("insert dropped prefab %s: %w", dropped.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, root_path, output_file, started_at, duration_ms, directories_visited,
	directories_skipped, files_skipped, not_pois, dropped, parse_errors, city, wilderness, rwg_tiles`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.RunRecord, error) {
	run := &models.RunRecord{}
	var durationMs int64
	st := &run.Stats
	err := row.Scan(&run.ID, &run.RootPath, &run.OutputFile, &run.StartedAt, &durationMs,
		&st.DirectoriesVisited, &st.DirectoriesSkipped, &st.FilesSkipped, &st.NotPois,
		&st.Dropped, &st.ParseErrors, &st.City, &st.Wilderness, &st.RwgTiles)
	if err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
// Sections and dropped prefabs are not loaded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*models.RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*models.RunRecord, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun loads one run with its sections and dropped prefabs. id may be a
// unique prefix of the full run id.
func (s *Store) GetRun(ctx context.Context, id string) (*models.RunRecord, error) {
	if id == "" {
		return nil, ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	var matches []*models.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRunID, id)
	}

	run := matches[0]
	if run.Sections, err = s.GetRunSections(ctx, run.ID); err != nil {
		return nil, err
	}
	if run.Dropped, err = s.getDropped(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRunSections returns the per-directory counts of a run in manifest order
func (s *Store) GetRunSections(ctx context.Context, runID string) ([]models.SectionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT display_path, city, wilderness, rwg_tiles
		FROM sections WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	sections := make([]models.SectionSummary, 0)
	for rows.Next() {
		var sec models.SectionSummary
		if err := rows.Scan(&sec.DisplayPath, &sec.City, &sec.Wilderness, &sec.RwgTiles); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sections: %w", err)
	}
	return sections, nil
}

func (s *Store) getDropped(ctx context.Context, runID string) ([]models.DroppedEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, reason FROM dropped_pois WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query dropped prefabs: %w", err)
	}
	defer rows.Close()

	dropped := make([]models.DroppedEntry, 0)
	for rows.Next() {
		var d models.DroppedEntry
		if err := rows.Scan(&d.Path, &d.Reason); err != nil {
			return nil, fmt.Errorf("scan dropped prefab: %w", err)
		}
		dropped = append(dropped, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dropped prefabs: %w", err)
	}
	return dropped, nil
}
