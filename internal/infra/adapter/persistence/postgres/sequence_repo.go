package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"voter-guides/internal/repository"
)

// SequenceRepo backs the permanent id generator with a durable counter. The
// increment is a single UPDATE so concurrent callers never observe the same
// value; a collision would corrupt we_vote_id uniqueness.
type SequenceRepo struct{ db *sql.DB }

func NewSequenceRepo(db *sql.DB) repository.SequenceRepository {
	return &SequenceRepo{db: db}
}

func (repo *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	const query = `
UPDATE site_sequences
SET last_value = last_value + 1
WHERE name = $1
RETURNING last_value`
	var next int64
	err := repo.db.QueryRowContext(ctx, query, name).Scan(&next)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("Next: sequence %q not provisioned", name)
	}
	if err != nil {
		return 0, fmt.Errorf("Next: %w", err)
	}
	return next, nil
}
