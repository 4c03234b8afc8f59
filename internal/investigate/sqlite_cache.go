// Copyright 2026 MIRI Project. All rights reserved.

package investigate

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mun09/miri-back/pkg/types"
)

// SQLiteCache is a Cache backed by a SQLite database, for deployments that
// want analysis results reused across processes. It satisfies the same
// contract as MemoryCache: entries are write-once per key and lookups
// never trigger network work.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens or creates the cache database at path, creating
// parent directories and the schema as needed.
func OpenSQLiteCache(path string) (*SQLiteCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS analysis (
		action  TEXT NOT NULL,
		doc_id  TEXT NOT NULL,
		reviews TEXT NOT NULL,
		PRIMARY KEY (action, doc_id)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get loads the cached reviews for the key.
func (c *SQLiteCache) Get(action, docID string) ([]types.DocumentReview, bool) {
	var raw string
	err := c.db.QueryRow(
		`SELECT reviews FROM analysis WHERE action = ? AND doc_id = ?`,
		action, docID,
	).Scan(&raw)
	if err != nil {
		return nil, false
	}

	reviews := []types.DocumentReview{}
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		return nil, false
	}
	return reviews, true
}

// Put stores the reviews for the key. Existing entries are left in place:
// results for the same key are equivalent, so first writer wins here.
func (c *SQLiteCache) Put(action, docID string, reviews []types.DocumentReview) {
	raw, err := json.Marshal(reviews)
	if err != nil {
		return
	}
	c.db.Exec(
		`INSERT OR IGNORE INTO analysis (action, doc_id, reviews) VALUES (?, ?, ?)`,
		action, docID, string(raw),
	)
}
