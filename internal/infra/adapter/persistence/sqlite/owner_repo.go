package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"voter-guides/internal/repository"
)

type OrganizationRepo struct{ db *sql.DB }

func NewOrganizationRepo(db *sql.DB) repository.OrganizationRepository {
	return &OrganizationRepo{db: db}
}

func (repo *OrganizationRepo) GetByWeVoteID(ctx context.Context, weVoteID string) (*repository.Organization, error) {
	const query = `
SELECT we_vote_id, name, photo_url, twitter_handle, twitter_description,
       COALESCE(twitter_followers_count, 0)
FROM organizations
WHERE LOWER(we_vote_id) = LOWER(?)
LIMIT 1`
	var org repository.Organization
	err := repo.db.QueryRowContext(ctx, query, weVoteID).Scan(
		&org.WeVoteID, &org.Name, &org.PhotoURL,
		&org.TwitterHandle, &org.TwitterDescription, &org.TwitterFollowersCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByWeVoteID: %w", err)
	}
	return &org, nil
}

type ElectionRepo struct{ db *sql.DB }

func NewElectionRepo(db *sql.DB) repository.ElectionRepository {
	return &ElectionRepo{db: db}
}

func (repo *ElectionRepo) ListByDateDesc(ctx context.Context) ([]repository.Election, error) {
	const query = `
SELECT google_civic_election_id, election_name, COALESCE(election_day, '')
FROM elections
ORDER BY election_day DESC`
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
