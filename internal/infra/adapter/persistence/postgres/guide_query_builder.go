// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"voter-guides/internal/pkg/search"
	"voter-guides/internal/repository"
)

// defaultListLimit caps to-follow queries when the caller does not supply a
// positive limit.
const defaultListLimit = 30

// GuideQueryBuilder builds the dynamic SQL fragments shared by the voter
// guide list queries: the search filter, possible-duplicate filters, and the
// sort/limit tail. It uses PostgreSQL-specific features like ILIKE and
// numbered placeholders.
type GuideQueryBuilder struct{}

// NewGuideQueryBuilder creates a new query builder instance.
func NewGuideQueryBuilder() *GuideQueryBuilder {
	return &GuideQueryBuilder{}
}

// sortColumn maps a requested sort field to a known column. Sort fields are
// interpolated into the query text, so anything outside the whitelist falls
// back to the follower count.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "display_name":
		return "display_name"
	case "twitter_followers_count", "":
		return "twitter_followers_count"
	default:
		return "twitter_followers_count"
	}
}

// SearchCondition returns an ILIKE condition on display name OR twitter
// handle for a non-empty search string, or an empty condition otherwise.
// paramIndex is the next free placeholder number.
func (qb *GuideQueryBuilder) SearchCondition(searchString string, paramIndex int) (cond string, args []interface{}) {
	if searchString == "" {
		return "", nil
	}
	cond = fmt.Sprintf("(display_name ILIKE $%d OR twitter_handle ILIKE $%d)", paramIndex, paramIndex)
	args = append(args, search.EscapeLike(searchString))
	return cond, args
}

// OrderAndLimit returns the ORDER BY / LIMIT tail for a to-follow query.
// paramIndex is the next free placeholder number.
func (qb *GuideQueryBuilder) OrderAndLimit(opts repository.ListOptions, paramIndex int) (clause string, args []interface{}) {
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	clause = fmt.Sprintf("ORDER BY %s %s LIMIT $%d", sortColumn(opts.SortBy), direction, paramIndex)
	args = append(args, limit)
	return clause, args
}

// DuplicateWhereClause builds the WHERE clause for a possible-duplicate scan.
// The scope condition (election id, else time span) is AND-ed with the
// exclusion and with an OR across whichever identifying fields are set.
// Returns an empty string when no condition applies.
func (qb *GuideQueryBuilder) DuplicateWhereClause(filters repository.DuplicateFilters) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	if filters.GoogleCivicElectionID > 0 {
		conditions = append(conditions, fmt.Sprintf("google_civic_election_id = $%d", paramIndex))
		args = append(args, filters.GoogleCivicElectionID)
		paramIndex++
	} else if filters.VoteSmartTimeSpan != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(vote_smart_time_span) = LOWER($%d)", paramIndex))
		args = append(args, filters.VoteSmartTimeSpan)
		paramIndex++
	}

	// Records synced from another deployment carry their own id; skip the
	// record being compared against.
	if filters.ExcludeWeVoteID != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(COALESCE(we_vote_id, '')) <> LOWER($%d)", paramIndex))
		args = append(args, filters.ExcludeWeVoteID)
		paramIndex++
	}

	var identifying []string
	if filters.OrganizationWeVoteID != "" {
		identifying = append(identifying, fmt.Sprintf("LOWER(COALESCE(organization_we_vote_id, '')) = LOWER($%d)", paramIndex))
		args = append(args, filters.OrganizationWeVoteID)
		paramIndex++
	}
	if filters.PublicFigureWeVoteID != "" {
		identifying = append(identifying, fmt.Sprintf("LOWER(COALESCE(public_figure_we_vote_id, '')) = LOWER($%d)", paramIndex))
		args = append(args, filters.PublicFigureWeVoteID)
		paramIndex++
	}
	if filters.TwitterHandle != "" {
		identifying = append(identifying, fmt.Sprintf("LOWER(twitter_handle) = LOWER($%d)", paramIndex))
		args = append(args, filters.TwitterHandle)
	}
	if len(identifying) > 0 {
		conditions = append(conditions, "("+strings.Join(identifying, " OR ")+")")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
