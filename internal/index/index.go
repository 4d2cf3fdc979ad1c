// Package index keeps a SQLite sidecar of session linkage so child lookups
// do not have to read every log. The logs stay the source of truth; the
// index can always be rebuilt from them.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iksnae/aiwr/internal"
	"github.com/iksnae/aiwr/internal/session"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	parent_id   TEXT NOT NULL DEFAULT '',
	path        TEXT NOT NULL,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_parent ON sessions(parent_id);
`

// Index is an open linkage database
type Index struct {
	db   *sql.DB
	path string
}

// Entry is one indexed session
type Entry struct {
	ID         string
	ParentID   string
	Path       string
	RecordedAt time.Time
}

// Open opens or creates the index database at path
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &internal.StorageError{Path: path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("index ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}

	return &Index{db: db, path: path}, nil
}

func (ix *Index) Path() string { return ix.path }

func (ix *Index) Close() error {
	return ix.db.Close()
}

// Record adds or replaces one session
func (ix *Index) Record(id, parentID, path string) error {
	_, err := ix.db.Exec(
		`INSERT INTO sessions (id, parent_id, path, recorded_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, path = excluded.path, recorded_at = excluded.recorded_at`,
		id, parentID, path, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record %s: %w", id, err)
	}
	return nil
}

// Children returns the ids recorded with parentID, sorted
func (ix *Index) Children(parentID string) ([]string, error) {
	rows, err := ix.db.Query("SELECT id FROM sessions WHERE parent_id = ? ORDER BY id", parentID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	children := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		children = append(children, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return children, nil
}

// Lookup returns one indexed session
func (ix *Index) Lookup(id string) (*Entry, error) {
	var e Entry
	var recorded int64
	err := ix.db.QueryRow("SELECT id, parent_id, path, recorded_at FROM sessions WHERE id = ?", id).
		Scan(&e.ID, &e.ParentID, &e.Path, &recorded)
	if err == sql.ErrNoRows {
		return nil, &internal.SessionNotFoundError{SessionID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	e.RecordedAt = time.Unix(recorded, 0)
	return &e, nil
}

// Count returns the number of indexed sessions
func (ix *Index) Count() (int, error) {
	var n int
	if err := ix.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

// Rebuild replaces the index contents with one scan of the log tree and
// returns the number of sessions indexed
func (ix *Index) Rebuild(d *session.Directory) (int, error) {
	paths, err := d.LogFiles()
	if err != nil {
		return 0, err
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO sessions (id, parent_id, path, recorded_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare rebuild: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, path := range paths {
		parentID, err := session.ParentID(path)
		if err != nil {
			return 0, err
		}
		id := strings.TrimSuffix(filepath.Base(path), session.LogExt)
		if _, err := stmt.Exec(id, parentID, path, now); err != nil {
			return 0, fmt.Errorf("index %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	internal.Logger("index").Debug("rebuilt index", "sessions", len(paths), "path", ix.path)
	return len(paths), nil
}
