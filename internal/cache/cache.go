// Package cache keeps a local snapshot of bookmarks the client has seen,
// so a reopened detail view can render the previous snapshot while the
// fresh fetch is in flight. The server stays authoritative; the cache is
// write-through and never consulted for list state.
package cache

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/skim/internal/api"
)

const currentSchemaVersion = 1

// Cache is a SQLite-backed bookmark snapshot store.
type Cache struct {
	db   *sql.DB
	path string
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	c := &Cache{db: db, path: path}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	var version int
	err := c.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		version = 0
	}

	if version < currentSchemaVersion {
		schema := `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS bookmarks (
				id TEXT PRIMARY KEY NOT NULL,
				title TEXT NOT NULL,
				url TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL DEFAULT '',
				summary TEXT NOT NULL DEFAULT '',
				source_name TEXT NOT NULL DEFAULT '',
				tags TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL,
				updated_at TEXT,
				read_count INTEGER NOT NULL DEFAULT 0,
				is_public INTEGER NOT NULL DEFAULT 0,
				cached_at TEXT NOT NULL
			);

			INSERT OR REPLACE INTO schema_version (version) VALUES (1);
		`
		if _, err := c.db.Exec(schema); err != nil {
			return err
		}
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Put upserts one bookmark snapshot.
func (c *Cache) Put(bm api.Bookmark) error {
	return put(c.db, bm)
}

func put(ex execer, bm api.Bookmark) error {
	tags := bm.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}

	var updatedAt any
	if bm.UpdatedAt != nil {
		updatedAt = bm.UpdatedAt.Format(time.RFC3339Nano)
	}

	_, err = ex.Exec(`
		INSERT OR REPLACE INTO bookmarks
			(id, title, url, content, summary, source_name, tags,
			 created_at, updated_at, read_count, is_public, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		bm.ID, bm.Title, bm.URL, bm.Content, bm.Summary, bm.SourceName,
		string(tagsJSON), bm.CreatedAt.Format(time.RFC3339Nano), updatedAt,
		bm.ReadCount, boolToInt(bm.IsPublic), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// PutAll upserts a page of snapshots in one transaction.
func (c *Cache) PutAll(bookmarks []api.Bookmark) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	for _, bm := range bookmarks {
		if err := put(tx, bm); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Get returns the snapshot for id, or nil when the cache has never seen it.
func (c *Cache) Get(id string) (*api.Bookmark, error) {
	row := c.db.QueryRow(`
		SELECT id, title, url, content, summary, source_name, tags,
		       created_at, updated_at, read_count, is_public
		FROM bookmarks WHERE id = ?
	`, id)

	var bm api.Bookmark
	var tagsJSON, createdAt string
	var updatedAt sql.NullString
	var isPublic int
	err := row.Scan(&bm.ID, &bm.Title, &bm.URL, &bm.Content, &bm.Summary,
		&bm.SourceName, &tagsJSON, &createdAt, &updatedAt, &bm.ReadCount, &isPublic)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &bm.Tags); err != nil {
		bm.Tags = []string{}
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		bm.CreatedAt = t
	}
	if updatedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, updatedAt.String); err == nil {
			bm.UpdatedAt = &t
		}
	}
	bm.IsPublic = isPublic != 0

	return &bm, nil
}

// Delete removes a snapshot, e.g. after the server-side bookmark is
// deleted.
func (c *Cache) Delete(id string) error {
	_, err := c.db.Exec("DELETE FROM bookmarks WHERE id = ?", id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
