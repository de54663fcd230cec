package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/pkg/search"
	"voter-guides/internal/repository"
)

const defaultListLimit = 30

const guideColumns = `
id, COALESCE(we_vote_id, ''), owner_type,
COALESCE(organization_we_vote_id, ''), COALESCE(public_figure_we_vote_id, ''),
COALESCE(owner_we_vote_id, ''), owner_voter_id,
google_civic_election_id, vote_smart_time_span,
display_name, image_url, twitter_handle, twitter_description,
twitter_followers_count, last_updated`

type VoterGuideRepo struct{ db *sql.DB }

func NewVoterGuideRepo(db *sql.DB) repository.VoterGuideRepository {
	return &VoterGuideRepo{db: db}
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

// placeholders renders an IN list of n ? markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// sortColumn whitelists the sortable columns; sort fields are interpolated
// into the query text.
func sortColumn(sortBy string) string {
	if sortBy == "display_name" {
		return "display_name"
	}
	return "twitter_followers_count"
}

func orderAndLimit(opts repository.ListOptions) (clause string, args []interface{}) {
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return fmt.Sprintf("ORDER BY %s %s LIMIT ?", sortColumn(opts.SortBy), direction), []interface{}{limit}
}

func searchCondition(searchString string) (cond string, args []interface{}) {
	if searchString == "" {
		return "", nil
	}
	// SQLite LIKE is case-insensitive for ASCII; the ESCAPE clause makes the
	// backslash escaping from EscapeLike effective.
	cond = `(display_name LIKE ? ESCAPE '\' OR twitter_handle LIKE ? ESCAPE '\')`
	escaped := search.EscapeLike(searchString)
	return cond, []interface{}{escaped, escaped}
}

// getOne runs a query expected to match at most one guide: (nil, nil) for
// zero rows, (first row, entity.ErrMultipleFound) for an ambiguous key.
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
	query := fmt.Sprintf(`SELECT %s FROM voter_guides WHERE id = ? LIMIT 1`, guideColumns)
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
		`google_civic_election_id = ? AND LOWER(organization_we_vote_id) = LOWER(?)`,
		electionID, organizationWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOrganizationAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByOrganizationAndTimeSpan(ctx context.Context, organizationWeVoteID, timeSpan string) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`vote_smart_time_span = ? AND LOWER(organization_we_vote_id) = LOWER(?)`,
		timeSpan, organizationWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOrganizationAndTimeSpan: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByPublicFigureAndElection(ctx context.Context, publicFigureWeVoteID string, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND LOWER(public_figure_we_vote_id) = LOWER(?)`,
		electionID, publicFigureWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByPublicFigureAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByOwnerAndElection(ctx context.Context, ownerWeVoteID string, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND LOWER(owner_we_vote_id) = LOWER(?)`,
		electionID, ownerWeVoteID)
	if err != nil && err != entity.ErrMultipleFound {
		return nil, fmt.Errorf("GetByOwnerAndElection: %w", err)
	}
	return guide, err
}

func (repo *VoterGuideRepo) GetByVoterAndElection(ctx context.Context, ownerVoterID, electionID int64) (*entity.VoterGuide, error) {
	guide, err := repo.getOne(ctx,
		`google_civic_election_id = ? AND owner_voter_id = ? AND owner_type = ?`,
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
    WHERE google_civic_election_id = ? AND organization_we_vote_id = ?
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
VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
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
       owner_type               = ?,
       organization_we_vote_id  = NULLIF(?, ''),
       public_figure_we_vote_id = NULLIF(?, ''),
       owner_we_vote_id         = NULLIF(?, ''),
       owner_voter_id           = ?,
       google_civic_election_id = ?,
       vote_smart_time_span     = ?,
       display_name             = ?,
       image_url                = ?,
       twitter_handle           = ?,
       twitter_description      = ?,
       twitter_followers_count  = ?,
       last_updated             = CURRENT_TIMESTAMP
WHERE id = ?`
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
	const query = `DELETE FROM voter_guides WHERE id = ?`
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
WHERE google_civic_election_id = ?
ORDER BY display_name ASC`, guideColumns)
	guides, err := repo.listGuides(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("ListForElection: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListByOrganizations(ctx context.Context, organizationWeVoteIDs []string) ([]*entity.VoterGuide, error) {
	if len(organizationWeVoteIDs) == 0 {
		return []*entity.VoterGuide{}, nil
	}
	query := fmt.Sprintf(`
SELECT %s FROM voter_guides
WHERE organization_we_vote_id IN (%s)
ORDER BY twitter_followers_count DESC`, guideColumns, placeholders(len(organizationWeVoteIDs)))
	args := make([]interface{}, 0, len(organizationWeVoteIDs))
	for _, id := range organizationWeVoteIDs {
		args = append(args, id)
	}
	guides, err := repo.listGuides(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByOrganizations: %w", err)
	}
	return guides, nil
}

func (repo *VoterGuideRepo) ListToFollowByElection(ctx context.Context, electionID int64, organizationWeVoteIDs []string, opts repository.ListOptions) ([]*entity.VoterGuide, error) {
	if len(organizationWeVoteIDs) == 0 {
		return []*entity.VoterGuide{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	conditions := fmt.Sprintf("google_civic_election_id = ? AND organization_we_vote_id IN (%s)",
		placeholders(len(organizationWeVoteIDs)))
	args := []interface{}{electionID}
	for _, id := range organizationWeVoteIDs {
		args = append(args, id)
	}

	if cond, condArgs := searchCondition(opts.SearchString); cond != "" {
		conditions += " AND " + cond
		args = append(args, condArgs...)
	}

	tail, tailArgs := orderAndLimit(opts)
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

	var args []interface{}
	conditions := "("
	for i, pair := range pairs {
		if i > 0 {
			conditions += " OR "
		}
		conditions += "(vote_smart_time_span = ? AND organization_we_vote_id = ?)"
		args = append(args, pair.VoteSmartTimeSpan, pair.OrganizationWeVoteID)
	}
	conditions += ")"

	if cond, condArgs := searchCondition(opts.SearchString); cond != "" {
		conditions += " AND " + cond
		args = append(args, condArgs...)
	}

	tail, tailArgs := orderAndLimit(opts)
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
		conditions = append(conditions, fmt.Sprintf(
			"organization_we_vote_id NOT IN (%s)", placeholders(len(excludedOrganizationWeVoteIDs))))
		for _, id := range excludedOrganizationWeVoteIDs {
			args = append(args, id)
		}
	}
	if cond, condArgs := searchCondition(opts.SearchString); cond != "" {
		conditions = append(conditions, cond)
		args = append(args, condArgs...)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	tail, tailArgs := orderAndLimit(opts)
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
	var conditions []string
	var args []interface{}

	if filters.GoogleCivicElectionID > 0 {
		conditions = append(conditions, "google_civic_election_id = ?")
		args = append(args, filters.GoogleCivicElectionID)
	} else if filters.VoteSmartTimeSpan != "" {
		conditions = append(conditions, "LOWER(vote_smart_time_span) = LOWER(?)")
		args = append(args, filters.VoteSmartTimeSpan)
	}

	if filters.ExcludeWeVoteID != "" {
		conditions = append(conditions, "LOWER(COALESCE(we_vote_id, '')) <> LOWER(?)")
		args = append(args, filters.ExcludeWeVoteID)
	}

	var identifying []string
	if filters.OrganizationWeVoteID != "" {
		identifying = append(identifying, "LOWER(COALESCE(organization_we_vote_id, '')) = LOWER(?)")
		args = append(args, filters.OrganizationWeVoteID)
	}
	if filters.PublicFigureWeVoteID != "" {
		identifying = append(identifying, "LOWER(COALESCE(public_figure_we_vote_id, '')) = LOWER(?)")
		args = append(args, filters.PublicFigureWeVoteID)
	}
	if filters.TwitterHandle != "" {
		identifying = append(identifying, "LOWER(twitter_handle) = LOWER(?)")
		args = append(args, filters.TwitterHandle)
	}
	if len(identifying) > 0 {
		conditions = append(conditions, "("+strings.Join(identifying, " OR ")+")")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

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
