// Package sqlite provides SQLite implementations of the repository
// interfaces for single-node and development deployments. The SQL mirrors
// the postgres adapter with ? placeholders and SQLite-compatible functions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the SQLite database at path and applies the
// schema. The busy timeout keeps concurrent writers from failing fast on
// lock contention.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent use.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS voter_guides (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			we_vote_id TEXT UNIQUE,
			owner_type TEXT NOT NULL DEFAULT 'O',
			organization_we_vote_id TEXT,
			public_figure_we_vote_id TEXT,
			owner_we_vote_id TEXT,
			owner_voter_id INTEGER NOT NULL DEFAULT 0,
			google_civic_election_id INTEGER NOT NULL DEFAULT 0,
			vote_smart_time_span TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			twitter_handle TEXT NOT NULL DEFAULT '',
			twitter_description TEXT NOT NULL DEFAULT '',
			twitter_followers_count INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_election
			ON voter_guides (google_civic_election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_org
			ON voter_guides (organization_we_vote_id)`,
		`CREATE TABLE IF NOT EXISTS voter_guide_possibilities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			owner_type TEXT NOT NULL DEFAULT 'U',
			organization_we_vote_id TEXT,
			public_figure_we_vote_id TEXT,
			owner_we_vote_id TEXT,
			google_civic_election_id INTEGER NOT NULL DEFAULT 0,
			last_updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_possibilities_url
			ON voter_guide_possibilities (url)`,
		`CREATE TABLE IF NOT EXISTS organizations (
			we_vote_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			twitter_handle TEXT NOT NULL DEFAULT '',
			twitter_description TEXT NOT NULL DEFAULT '',
			twitter_followers_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS elections (
			google_civic_election_id INTEGER PRIMARY KEY,
			election_name TEXT NOT NULL DEFAULT '',
			election_day TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS site_sequences (
			name TEXT PRIMARY KEY,
			last_value INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT OR IGNORE INTO site_sequences (name, last_value) VALUES ('voter_guide', 0)`,
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate sqlite schema: %w", err)
		}
	}
	return nil
}
