// Package history tracks recently opened workspaces in a small SQLite
// database under the user's config directory. The canvas files themselves
// are the source of truth; this database is an index for the open-recent
// list and is safe to delete.
// See docs/ARCHITECTURE.md § Workspace History.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mosaicflow/mosaic/pkg/types"
)

// DBFileName is the database file created inside the config directory.
const DBFileName = "history.db"

// maxEntries bounds the recents list; older entries are pruned on Track.
const maxEntries = 50

const schemaSQL = `CREATE TABLE IF NOT EXISTS recents (
    path TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    last_opened_at TEXT NOT NULL,
    open_count INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_recents_last_opened ON recents(last_opened_at);`

// Entry is one recents record.
type Entry struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	LastOpenedAt string `json:"last_opened_at"`
	OpenCount    int    `json:"open_count"`
}

// Store is the recents database handle.
type Store struct {
	db *sql.DB
}

// Open creates or opens the recents database inside configDir.
func Open(configDir string) (*Store, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	dbPath := filepath.Join(configDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Track records that a workspace was opened, bumping its timestamp and
// open count, then prunes entries beyond the retention cap.
func (s *Store) Track(path, name string) error {
	_, err := s.db.Exec(`INSERT INTO recents (path, name, last_opened_at, open_count)
VALUES (?, ?, ?, 1)
ON CONFLICT(path) DO UPDATE SET
    name = excluded.name,
    last_opened_at = excluded.last_opened_at,
    open_count = open_count + 1`,
		path, name, types.NowISO())
	if err != nil {
		return fmt.Errorf("tracking workspace %s: %w", path, err)
	}

	_, err = s.db.Exec(`DELETE FROM recents WHERE path NOT IN (
    SELECT path FROM recents ORDER BY last_opened_at DESC LIMIT ?)`, maxEntries)
	if err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recently opened first.
// A non-positive limit returns the full retained list.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 || limit > maxEntries {
		limit = maxEntries
	}

	rows, err := s.db.Query(`SELECT path, name, last_opened_at, open_count
FROM recents ORDER BY last_opened_at DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Name, &e.LastOpenedAt, &e.OpenCount); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history rows: %w", err)
	}
	return entries, nil
}

// Remove drops one entry, typically after its workspace directory has
// disappeared. Removing an absent path is not an error.
func (s *Store) Remove(path string) error {
	if _, err := s.db.Exec(`DELETE FROM recents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("removing history entry %s: %w", path, err)
	}
	return nil
}

// Close releases the database handle. Idempotent.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
