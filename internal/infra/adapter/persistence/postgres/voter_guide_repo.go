package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/pkg/search"
	"voter-guides/internal/repository"

	"github.com/lib/pq"
)

// guideColumns is the shared SELECT column list for voter guides. Owner
// references and we_vote_id are nullable in storage; COALESCE keeps the scan
// targets plain strings.
const guideColumns = `
id, COALESCE(we_vote_id, ''), owner_type,
COALESCE(organization_we_vote_id, ''), COALESCE(public_figure_we_vote_id, ''),
COALESCE(owner_we_vote_id, ''), owner_voter_id,
google_civic_election_id, vote_smart_time_span,
display_name, image_url, twitter_handle, twitter_description,
twitter_followers_count, last_updated`

type VoterGuideRepo struct {
	db           *sql.DB
	queryBuilder *GuideQueryBuilder
}

func NewVoterGuideRepo(db *sql.DB) repository.VoterGuideRepository {
	return &VoterGuideRepo{
		db:           db,
		queryBuilder: NewGuideQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGuide(row rowScanner) (*entity.VoterGuide, error) {
	var guide entity.VoterGuide
	err := row.Scan(
		&guide.ID, &guide.WeVoteID, &guide.OwnerType,
		&guide.OrganizationWeVoteID, &guide.PublicFigureWeVoteID,
		&guide.OwnerWeVoteID, &guide.OwnerVoterID,
		&guide.GoogleCivicElectionID, &guide.VoteSmartTimeSpan,
		&guide.DisplayName, &guide.ImageURL, &guide.TwitterHandle,
		&guide.TwitterDescription, &guide.TwitterFollowersCount,
		&guide.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &guide, nil
}

// getOne runs a query expected to match at most one guide. It returns
// (nil, nil) for zero rows and (first row, entity.ErrMultipleFound) when the
// key is ambiguous, so callers can report ambiguity distinctly.
func (repo *VoterGuideRepo) getOne(ctx context.Context, condition string, args ...interface{}) (*entity.VoterGuide, error) {
	query := fmt.Sprintf(`SELECT %s FROM voter_guides WHERE %s LIMIT 2`, guideColumns, condition)
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var guides []*entity.VoterGuide
	for rows.Next() {
		guide, err := scanGuide(rows)
		if err != nil {
			return nil, err
		}
		guides = append(guides, guide)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(guides) {
	case 0:
		return nil, nil
	case 1:
		return guides[0], nil
	default:
		return guides[0], entity.ErrMultipleFound
	}
}

func (repo *VoterGuideRepo) listGuides(ctx context.Context, query string, args ...interface{}) ([]*entity.VoterGuide, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	guides := make([]*entity.VoterGuide, 0, 30)
	for rows.Next() {
		guide, err := scanGuide(rows)
		if err != nil {
			return nil, err
		}
		guides = append(guides, guide)
	}
	return guides, rows.Err()
}

func (repo *VoterGuideRepo) GetByID(ctx context.Context, id int64) (*entity.VoterGuide, error) {
	query := fmt.Sprintf(`SELECT %s FROM voter_guides WHERE id = $1 LIMIT 1`, guideColumns)
	guide, err := scanGuide(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return guide, nil
}

func (repo *VoterGuideRepo) GetByOrganizationAndElection(ctx context.Context, organizationWeVoteID string, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = $1 AND LOWER(organization_we_vote_id) = LOWER($2)`,
		electionID, organizationWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOrganizationAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByOrganizationAndTimeSpan(ctx context.Context, organizationWeVoteID, timeSpan string) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`vote_smart_time_span = $1 AND LOWER(organization_we_vote_id) = LOWER($2)`,
		timeSpan, organizationWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOrganizationAndTimeSpan: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByPublicFigureAndElection(ctx context.Context, publicFigureWeVoteID string, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = $1 AND LOWER(public_figure_we_vote_id) = LOWER($2)`,
		electionID, publicFigureWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByPublicFigureAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByOwnerAndElection(ctx context.Context, ownerWeVoteID string, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = $1 AND LOWER(owner_we_vote_id) = LOWER($2)`,
		electionID, ownerWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOwnerAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByVoterAndElection(ctx context.Context, ownerVoterID, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = $1 AND owner_voter_id = $2 AND owner_type = $3`,
		electionID, ownerVoterID, string(entity.OwnerVoter))
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByVoterAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) ExistsForOrganizationAndElection(ctx context.Context, organizationWeVoteID string, electionID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM voter_guides
    WHERE google_civic_election_id = $1 AND organization_we_vote_id = $2
)`
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, electionID, organizationWeVoteID).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsForOrganizationAndElection: %w", err)
	}
	return existsFlag, nil
}

func (repo *VoterGuideRepo) Create(ctx context.Context, guide *entity.VoterGuide) error {
	const query = `
INSERT INTO voter_guides
       (we_vote_id, owner_type, organization_we_vote_id, public_figure_we_vote_id,
        owner_we_vote_id, owner_voter_id, google_civic_election_id, vote_smart_time_span,
        display_name, image_url, twitter_handle, twitter_description, twitter_followers_count,
        last_updated)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13, now())
RETURNING id, last_updated`
	err := repo.db.QueryRowContext(ctx, query,
		guide.WeVoteID, string(guide.OwnerType),
		guide.OrganizationWeVoteID, guide.PublicFigureWeVoteID, guide.OwnerWeVoteID,
		guide.OwnerVoterID, guide.GoogleCivicElectionID, guide.VoteSmartTimeSpan,
		guide.DisplayName, guide.ImageURL, guide.TwitterHandle,
		guide.TwitterDescription, guide.TwitterFollowersCount,
	).Scan(&guide.ID, &guide.LastUpdated)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *VoterGuideRepo) Update(ctx context.Context, guide *entity.VoterGuide) error {
	const query = `
UPDATE voter_guides SET
       owner_type               = $1,
       organization_we_vote_id  = NULLIF($2, ''),
       public_figure_we_vote_id = NULLIF($3, ''),
       owner_we_vote_id         = NULLIF($4, ''),
       owner_voter_id           = $5,
       google_civic_election_id = $6,
       vote_smart_time_span     = $7,
       display_name             = $8,
       image_url                = $9,
       twitter_handle           = $10,
       twitter_description      = $11,
       twitter_followers_count  = $12,
       last_updated             = now()
WHERE id = $13`
	res, err := repo.db.ExecContext(ctx, query,
		string(guide.OwnerType),
		guide.OrganizationWeVoteID, guide.PublicFigureWeVoteID, guide.OwnerWeVoteID,
		guide.OwnerVoterID, guide.GoogleCivicElectionID, guide.VoteSmartTimeSpan,
		guide.DisplayName, guide.ImageURL, guide.TwitterHandle,
		guide.TwitterDescription, guide.TwitterFollowersCount,
		guide.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *VoterGuideRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM voter_guides WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *VoterGuideRepo) ListForElection(ctx context.Context, electionID int64) ([]*entity.VoterGuide, error) {
	query := fmt.Sprintf(`
SELECT %s FROM voter_guides
WHERE google_civic_election_id = $1
ORDER BY display_name ASC`, guideColumns)
	guides, err := repo.listGuides(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("ListForElection: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListByOrganizations(ctx context.Context, organizationWeVoteIDs []string) ([]*entity.VoterGuide, error) {
	query := fmt.Sprintf(`
SELECT %s FROM voter_guides
WHERE organization_we_vote_id = ANY($1)
ORDER BY twitter_followers_count DESC`, guideColumns)
	guides, err := repo.listGuides(ctx, query, pq.Array(organizationWeVoteIDs))
	if err != nil {
		return nil, fmt.Errorf("ListByOrganizations: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListToFollowByElection(ctx context.Context, electionID int64, organizationWeVoteIDs []string, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	conditions := "google_civic_election_id = $1 AND organization_we_vote_id = ANY($2)"
	args := []interface{}{electionID, pq.Array(organizationWeVoteIDs)}

	if cond, condArgs := repo.queryBuilder.SearchCondition(opts.SearchString, len(args)+1); cond != "" {
		conditions += " AND " + cond
		args = append(args, condArgs...)
	}

	tail, tailArgs := repo.queryBuilder.OrderAndLimit(opts, len(args)+1)
	args = append(args, tailArgs...)

	query := fmt.Sprintf(`SELECT %s FROM voter_guides WHERE %s %s`, guideColumns, conditions, tail)
	guides, err := repo.listGuides(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListToFollowByElection: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListToFollowByTimeSpans(ctx context.Context, pairs []repository.OrganizationTimeSpan, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	if len(pairs) == 0 {
		return []*entity.VoterGuide{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	// Any of the (time span, organization) pairs may match.
	var args []interface{}
	conditions := "("
	for i, pair := range pairs {
		if i > 0 {
			conditions += " OR "
		}
		conditions += fmt.Sprintf("(vote_smart_time_span = $%d AND organization_we_vote_id = $%d)",
			len(args)+1, len(args)+2)
		args = append(args, pair.VoteSmartTimeSpan, pair.OrganizationWeVoteID)
	}
	conditions += ")"

	if cond, condArgs := repo.queryBuilder.SearchCondition(opts.SearchString, len(args)+1); cond != "" {
		conditions += " AND " + cond
		args = append(args, condArgs...)
	}

	tail, tailArgs := repo.queryBuilder.OrderAndLimit(opts, len(args)+1)
	args = append(args, tailArgs...)

	query := fmt.Sprintf(`SELECT %s FROM voter_guides WHERE %s %s`, guideColumns, conditions, tail)
	guides, err := repo.listGuides(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListToFollowByTimeSpans: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListToFollowGeneric(ctx context.Context, excludedOrganizationWeVoteIDs []string, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	var conditions []string
	var args []interface{}

	if len(excludedOrganizationWeVoteIDs) > 0 {
		conditions = append(conditions,
			fmt.Sprintf("NOT (organization_we_vote_id = ANY($%d))", len(args)+1))
		args = append(args, pq.Array(excludedOrganizationWeVoteIDs))
	}
	if cond, condArgs := repo.queryBuilder.SearchCondition(opts.SearchString, len(args)+1); cond != "" {
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for _, cond := range conditions[1:] {
			whereClause += " AND " + cond
		}
	}

	tail, tailArgs := repo.queryBuilder.OrderAndLimit(opts, len(args)+1)
	args = append(args, tailArgs...)

	query := fmt.Sprintf(`SELECT %s FROM voter_guides %s %s`, guideColumns, whereClause, tail)
	guides, err := repo.listGuides(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListToFollowGeneric: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListAll(ctx context.Context, orderBy repository.GuideOrder) ([]*entity.VoterGuide, error) {
	orderClause := "ORDER BY twitter_followers_count DESC"
	if orderBy == repository.OrderByScopeDesc {
		orderClause = "ORDER BY vote_smart_time_span DESC, google_civic_election_id DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM voter_guides %s`, guideColumns, orderClause)
	guides, err := repo.listGuides(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListPossibleDuplicates(ctx context.Context, filters repository.DuplicateFilters) ([]*entity.VoterGuide, error) {
	whereClause, args := repo.queryBuilder.DuplicateWhereClause(filters)

	query := fmt.Sprintf(`SELECT %s FROM voter_guides %s`, guideColumns, whereClause)
	guides, err := repo.listGuides(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListPossibleDuplicates: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) CountGuides(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM voter_guides`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountGuides: %w", err)
	}
	return count, nil
}
