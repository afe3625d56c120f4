// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seen tracks which papers earlier runs already surfaced, so that
// repeated topic searches can report only what is new.
package seen

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-mentat/pkg/types"
)

const dbFile = "seen.db"

// Store manages the seen-papers SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at dir/seen.db, creating the
// schema if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		key TEXT PRIMARY KEY,
		title TEXT,
		first_seen TEXT NOT NULL,
		downloaded INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// FilterNew returns the subset of results whose papers have not been seen
// before. Results without metadata pass through; there is nothing to key
// them on.
func (s *Store) FilterNew(ctx context.Context, results []types.ProcessingResult) ([]types.ProcessingResult, error) {
	var fresh []types.ProcessingResult
	for _, r := range results {
		if r.Metadata == nil {
			fresh = append(fresh, r)
			continue
		}

		var key string
		err := s.db.QueryRowContext(ctx,
			`SELECT key FROM papers WHERE key = ?`, r.Metadata.DedupKey(),
		).Scan(&key)
		switch {
		case err == sql.ErrNoRows:
			fresh = append(fresh, r)
		case err != nil:
			return nil, fmt.Errorf("querying seen papers: %w", err)
		}
	}
	return fresh, nil
}

// MarkSeen records the papers in results. With downloadedOnly set, only
// completed results are recorded; the rest may still turn up as new in a
// later run. Re-marking a known paper updates its downloaded flag but keeps
// the original first_seen timestamp.
func (s *Store) MarkSeen(ctx context.Context, results []types.ProcessingResult, downloadedOnly bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (key, title, first_seen, downloaded) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET downloaded=max(downloaded, excluded.downloaded)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if r.Metadata == nil {
			continue
		}
		completed := r.State == types.StateCompleted
		if downloadedOnly && !completed {
			continue
		}
		downloaded := 0
		if completed {
			downloaded = 1
		}
		if _, err := stmt.ExecContext(ctx, r.Metadata.DedupKey(), r.Metadata.Title, now, downloaded); err != nil {
			return fmt.Errorf("marking %q seen: %w", r.Metadata.Title, err)
		}
	}
	return tx.Commit()
}
