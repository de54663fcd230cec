package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/repository"
)

const possibilityColumns = `
id, url, owner_type,
COALESCE(organization_we_vote_id, ''), COALESCE(public_figure_we_vote_id, ''),
COALESCE(owner_we_vote_id, ''), google_civic_election_id, last_updated`

type PossibilityRepo struct{ db *sql.DB }

func NewPossibilityRepo(db *sql.DB) repository.VoterGuidePossibilityRepository {
	return &PossibilityRepo{db: db}
}

func scanPossibility(row rowScanner) (*entity.VoterGuidePossibility, error) {
	var possibility entity.VoterGuidePossibility
	err := row.Scan(
		&possibility.ID, &possibility.URL, &possibility.OwnerType,
		&possibility.OrganizationWeVoteID, &possibility.PublicFigureWeVoteID,
		&possibility.OwnerWeVoteID, &possibility.GoogleCivicElectionID,
		&possibility.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &possibility, nil
}

func (repo *PossibilityRepo) getOne(ctx context.Context, condition string, args ...interface{}) (*entity.VoterGuidePossibility, error) {
	query := fmt.Sprintf(`SELECT %s FROM voter_guide_possibilities WHERE %s LIMIT 2`, possibilityColumns, condition)
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var possibilities []*entity.VoterGuidePossibility
	for rows.Next() {
		possibility, err := scanPossibility(rows)
		if err != nil {
			return nil, err
		}
		possibilities = append(possibilities, possibility)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(possibilities) {
	case 0:
		return nil, nil
	case 1:
		return possibilities[0], nil
	default:
		return possibilities[0], entity.ErrMultipleFound
	}
}

func (repo *PossibilityRepo) GetByID(ctx context.Context, id int64) (*entity.VoterGuidePossibility, error) {
	query := fmt.Sprintf(`SELECT %s FROM voter_guide_possibilities WHERE id = ? LIMIT 1`, possibilityColumns)
	possibility, err := scanPossibility(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return possibility, nil
}

func (repo *PossibilityRepo) GetByURL(ctx context.Context, url string) (*entity.VoterGuidePossibility, error) {
	possibility, err := repo.getOne(ctx, `url = ?`, url)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByURL: %w", err)
	}
	return possibility, err
}

func (repo *PossibilityRepo) GetByURLAndElection(ctx context.Context, url string, electionID int64) (*entity.VoterGuidePossibility, error) {
	possibility, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND LOWER(url) = LOWER(?)`, electionID, url)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByURLAndElection: %w", err)
	}
	return possibility, err
}

func (repo *PossibilityRepo) GetByOrganizationAndElection(ctx context.Context, organizationWeVoteID string, electionID int64) (*entity.VoterGuidePossibility, error) {
	possibility, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND LOWER(organization_we_vote_id) = LOWER(?)`,
		electionID, organizationWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOrganizationAndElection: %w", err)
	}
	return possibility, err
}

func (repo *PossibilityRepo) GetByPublicFigureAndElection(ctx context.Context, publicFigureWeVoteID string, electionID int64) (*entity.VoterGuidePossibility, error) {
	possibility, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND LOWER(public_figure_we_vote_id) = LOWER(?)`,
		electionID, publicFigureWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByPublicFigureAndElection: %w", err)
	}
	return possibility, err
}

func (repo *PossibilityRepo) GetByOwnerAndElection(ctx context.Context, ownerWeVoteID string, electionID int64) (*entity.VoterGuidePossibility, error) {
	possibility, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND LOWER(owner_we_vote_id) = LOWER(?)`,
		electionID, ownerWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOwnerAndElection: %w", err)
	}
	return possibility, err
}

func (repo *PossibilityRepo) Create(ctx context.Context, possibility *entity.VoterGuidePossibility) error {
	const query = `
INSERT INTO voter_guide_possibilities
       (url, owner_type, organization_we_vote_id, public_figure_we_vote_id,
        owner_we_vote_id, google_civic_election_id, last_updated)
VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, CURRENT_TIMESTAMP)
RETURNING id, last_updated`
	err := repo.db.QueryRowContext(ctx, query,
		possibility.URL, string(possibility.OwnerType),
		possibility.OrganizationWeVoteID, possibility.PublicFigureWeVoteID,
		possibility.OwnerWeVoteID, possibility.GoogleCivicElectionID,
	).Scan(&possibility.ID, &possibility.LastUpdated)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *PossibilityRepo) Update(ctx context.Context, possibility *entity.VoterGuidePossibility) error {
	const query = `
UPDATE voter_guide_possibilities SET
       url                      = ?,
       owner_type               = ?,
       organization_we_vote_id  = NULLIF(?, ''),
       public_figure_we_vote_id = NULLIF(?, ''),
       owner_we_vote_id         = NULLIF(?, ''),
       google_civic_election_id = ?,
       last_updated             = CURRENT_TIMESTAMP
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		possibility.URL, string(possibility.OwnerType),
		possibility.OrganizationWeVoteID, possibility.PublicFigureWeVoteID,
		possibility.OwnerWeVoteID, possibility.GoogleCivicElectionID,
		possibility.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *PossibilityRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM voter_guide_possibilities WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}
