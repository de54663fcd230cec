package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"voter-guides/internal/repository"
)

// OrganizationRepo reads the locally synced owner store. This core never
// writes organizations.
type OrganizationRepo struct{ db *sql.DB }

func NewOrganizationRepo(db *sql.DB) repository.OrganizationRepository {
	return &OrganizationRepo{db: db}
}

func (repo *OrganizationRepo) GetByWeVoteID(ctx context.Context, weVoteID string) (*repository.Organization, error) {
	const query = `
SELECT we_vote_id, name, photo_url, twitter_handle, twitter_description,
       COALESCE(twitter_followers_count, 0)
FROM organizations
WHERE LOWER(we_vote_id) = LOWER($1)
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
