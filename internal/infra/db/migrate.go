package db

import "database/sql"

// MigrateUp creates the voter guide schema. Statements are idempotent so the
// migration can run on every start.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS voter_guides (
    id                       BIGSERIAL PRIMARY KEY,
    we_vote_id               TEXT UNIQUE,
    owner_type               CHAR(1) NOT NULL DEFAULT 'O',
    organization_we_vote_id  TEXT,
    public_figure_we_vote_id TEXT,
    owner_we_vote_id         TEXT,
    owner_voter_id           BIGINT NOT NULL DEFAULT 0,
    google_civic_election_id BIGINT NOT NULL DEFAULT 0,
    vote_smart_time_span     TEXT NOT NULL DEFAULT '',
    display_name             TEXT NOT NULL DEFAULT '',
    image_url                TEXT NOT NULL DEFAULT '',
    twitter_handle           TEXT NOT NULL DEFAULT '',
    twitter_description      TEXT NOT NULL DEFAULT '',
    twitter_followers_count  BIGINT NOT NULL DEFAULT 0,
    last_updated             TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS voter_guide_possibilities (
    id                       BIGSERIAL PRIMARY KEY,
    url                      TEXT NOT NULL,
    owner_type               CHAR(1) NOT NULL DEFAULT 'O',
    organization_we_vote_id  TEXT,
    public_figure_we_vote_id TEXT,
    owner_we_vote_id         TEXT,
    google_civic_election_id BIGINT NOT NULL DEFAULT 0,
    last_updated             TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// Owner store and election catalog are populated by external sync jobs;
	// this core only reads them.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS organizations (
    we_vote_id              TEXT PRIMARY KEY,
    name                    TEXT NOT NULL DEFAULT '',
    photo_url               TEXT NOT NULL DEFAULT '',
    twitter_handle          TEXT NOT NULL DEFAULT '',
    twitter_description     TEXT NOT NULL DEFAULT '',
    twitter_followers_count BIGINT NOT NULL DEFAULT 0
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS elections (
    google_civic_election_id BIGINT PRIMARY KEY,
    election_name            TEXT NOT NULL DEFAULT '',
    election_day             DATE
)`); err != nil {
		return err
	}

	// Durable identity counter. A collision here would corrupt we_vote_id
	// uniqueness, so increments go through a single atomic UPDATE.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS site_sequences (
    name       TEXT PRIMARY KEY,
    last_value BIGINT NOT NULL DEFAULT 0
)`); err != nil {
		return err
	}
	if _, err := db.Exec(`
INSERT INTO site_sequences (name, last_value)
VALUES ('voter_guide', 0)
ON CONFLICT (name) DO NOTHING`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_election ON voter_guides(google_civic_election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_org ON voter_guides(organization_we_vote_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_time_span ON voter_guides(vote_smart_time_span)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_followers ON voter_guides(twitter_followers_count DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_possibilities_url ON voter_guide_possibilities(url)`,
		`CREATE INDEX IF NOT EXISTS idx_elections_day ON elections(election_day DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm speeds up the ILIKE search on display name / twitter handle.
	// Ignore failures: the extension may be unavailable without superuser.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_display_name_gin ON voter_guides USING gin(display_name gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_voter_guides_twitter_handle_gin ON voter_guides USING gin(twitter_handle gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	return nil
}
