package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"voter-guides/internal/repository"
)

// ElectionRepo reads the locally synced election catalog.
type ElectionRepo struct{ db *sql.DB }

func NewElectionRepo(db *sql.DB) repository.ElectionRepository {
	return &ElectionRepo{db: db}
}

func (repo *ElectionRepo) ListByDateDesc(ctx context.Context) ([]repository.Election, error) {
	const query = `
SELECT google_civic_election_id, election_name, COALESCE(election_day::text, '')
FROM elections
ORDER BY election_day DESC NULLS LAST`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListByDateDesc: %w", err)
	}
	defer func() { _ = rows.Close() }()

	elections := make([]repository.Election, 0, 20)
	for rows.Next() {
		var election repository.Election
		if err := rows.Scan(&election.GoogleCivicElectionID, &election.Name, &election.ElectionDay); err != nil {
			return nil, fmt.Errorf("ListByDateDesc: Scan: %w", err)
		}
		elections = append(elections, election)
	}
	return elections, rows.Err()
}
