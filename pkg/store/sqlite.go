package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// migration is one ordered schema change.
type migration struct {
	version     int
	description string
	sql         string
}

var migrations = []migration{
	{
		version:     1,
		description: "diagrams table",
		sql: `CREATE TABLE IF NOT EXISTS diagrams (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			format     TEXT NOT NULL,
			spec       BLOB NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	},
	{
		version:     2,
		description: "index diagrams by creation time",
		sql:         `CREATE INDEX IF NOT EXISTS idx_diagrams_created_at ON diagrams (created_at DESC)`,
	},
}

// SQLiteStore is a [Store] in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database at path and applies any
// pending migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db %q: %w", path, err)
	}

	// One writer at a time; this also keeps ":memory:" on a single database.
	conn.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("store: set pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const createMigTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version     INTEGER PRIMARY KEY,
		applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		description TEXT
	)`
	if _, err := s.db.Exec(createMigTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration v%d: %w", m.version, err)
		}
		if exists > 0 {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration v%d (%s): %w", m.version, m.description, err)
		}
		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			m.version, m.description,
		); err != nil {
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *SQLiteStore) SchemaVersion() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// Put implements [Store].
func (s *SQLiteStore) Put(ctx context.Context, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r = prepare(r)
	const q = `INSERT OR REPLACE INTO diagrams (id, title, format, spec, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, r.ID, r.Title, r.Format, r.Spec, r.CreatedAt.UnixMilli()); err != nil {
		return Record{}, fmt.Errorf("store: put %q: %w", r.ID, err)
	}
	return r, nil
}

// Get implements [Store].
func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT id, title, format, spec, created_at FROM diagrams WHERE id = ?`, id)
	r, err := scanRecord(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("store: get %q: %w", id, err)
	}
	return r, nil
}

// List implements [Store].
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, format, spec, created_at FROM diagrams ORDER BY created_at DESC, id LIMIT ?`, limitOr(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Delete implements [Store].
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM diagrams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		r       Record
		created int64
	)
	if err := sc.Scan(&r.ID, &r.Title, &r.Format, &r.Spec, &created); err != nil {
		return Record{}, err
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	return r, nil
}

var _ Store = (*SQLiteStore)(nil)
