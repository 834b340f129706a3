// Package history keeps a SQLite log of document loads, saves and imports.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	action     TEXT NOT NULL,
	path       TEXT NOT NULL DEFAULT '',
	project    TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at);
CREATE INDEX IF NOT EXISTS idx_events_path ON events(path);
`

// Action names what happened to the document.
type Action string

const (
	ActionLoaded   Action = "loaded"
	ActionSaved    Action = "saved"
	ActionImported Action = "imported"
)

// Entry is one logged event.
type Entry struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Path      string    `json:"path"`
	Project   string    `json:"project"`
	Checksum  string    `json:"checksum"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is the interface consumers depend on.
type Log interface {
	Record(e Entry) (Entry, error)
	List(limit, offset int, path string) ([]Entry, int, error)
	Close() error
}

// Verify *DB satisfies Log at compile time.
var _ Log = (*DB)(nil)

// DB wraps a sql.DB with history operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record stores e, filling in its ID and timestamp when unset.
func (db *DB) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(`
		INSERT INTO events (id, action, path, project, checksum, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Action), e.Path, e.Project, e.Checksum, e.Detail, e.CreatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("history: insert: %w", err)
	}
	return e, nil
}

// List returns entries newest first, optionally restricted to one path,
// together with the total number of matching entries.
func (db *DB) List(limit, offset int, path string) ([]Entry, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where, args := "", []any{}
	if path != "" {
		where, args = "WHERE path = ?", append(args, path)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM events `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("history: count: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT id, action, path, project, checksum, detail, created_at
		FROM events `+where+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		var action string
		if err := rows.Scan(&e.ID, &action, &e.Path, &e.Project, &e.Checksum, &e.Detail, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.Action = Action(action)
		out = append(out, e)
	}
	return out, total, rows.Err()
}
