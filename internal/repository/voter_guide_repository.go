// Package repository defines the persistence interfaces consumed by the use
// case layer. Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"voter-guides/internal/domain/entity"
)

// Single-row lookups return (nil, nil) when no row matches, and
// (first candidate, entity.ErrMultipleFound) when the key unexpectedly
// matches more than one row. Callers decide how to treat ambiguity.

// VoterGuideRepository provides storage access for voter guides.
type VoterGuideRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.VoterGuide, error)
	GetByOrganizationAndElection(ctx context.Context, organizationWeVoteID string, electionID int64) (*entity.VoterGuide, error)
	GetByOrganizationAndTimeSpan(ctx context.Context, organizationWeVoteID, timeSpan string) (*entity.VoterGuide, error)
	GetByPublicFigureAndElection(ctx context.Context, publicFigureWeVoteID string, electionID int64) (*entity.VoterGuide, error)
	GetByOwnerAndElection(ctx context.Context, ownerWeVoteID string, electionID int64) (*entity.VoterGuide, error)
	GetByVoterAndElection(ctx context.Context, ownerVoterID, electionID int64) (*entity.VoterGuide, error)

	// ExistsForOrganizationAndElection is an existence probe; multiple
	// matches still count as existing.
	ExistsForOrganizationAndElection(ctx context.Context, organizationWeVoteID string, electionID int64) (bool, error)

	// Create inserts the guide and sets guide.ID from storage.
	Create(ctx context.Context, guide *entity.VoterGuide) error
	Update(ctx context.Context, guide *entity.VoterGuide) error
	Delete(ctx context.Context, id int64) error

	ListForElection(ctx context.Context, electionID int64) ([]*entity.VoterGuide, error)
	ListByOrganizations(ctx context.Context, organizationWeVoteIDs []string) ([]*entity.VoterGuide, error)
	// ListToFollowByElection scopes to the election AND the allowed
	// organization set, with optional search/sort/limit.
	ListToFollowByElection(ctx context.Context, electionID int64, organizationWeVoteIDs []string, opts ListOptions) ([]*entity.VoterGuide, error)
	// ListToFollowByTimeSpans matches any of the given (time span,
	// organization) pairs.
	ListToFollowByTimeSpans(ctx context.Context, pairs []OrganizationTimeSpan, opts ListOptions) ([]*entity.VoterGuide, error)
	// ListToFollowGeneric returns all guides except those owned by the
	// excluded organizations.
	ListToFollowGeneric(ctx context.Context, excludedOrganizationWeVoteIDs []string, opts ListOptions) ([]*entity.VoterGuide, error)
	ListAll(ctx context.Context, orderBy GuideOrder) ([]*entity.VoterGuide, error)
	ListPossibleDuplicates(ctx context.Context, filters DuplicateFilters) ([]*entity.VoterGuide, error)

	CountGuides(ctx context.Context) (int64, error)
}

// OrganizationTimeSpan is one (time span, organization) pair for the
// to-follow-by-time-span query.
type OrganizationTimeSpan struct {
	VoteSmartTimeSpan    string
	OrganizationWeVoteID string
}

// ListOptions carries the shared search/sort/limit shape of the to-follow
// queries. SortBy is restricted to known columns by the implementations.
type ListOptions struct {
	// SearchString filters on display name OR twitter handle, case
	// insensitive substring match. Empty means no filter.
	SearchString string
	SortBy       string
	SortDesc     bool
	// Limit truncates the result set; implementations apply a default when
	// it is not positive.
	Limit int
}

// GuideOrder selects the ordering of an unscoped listing.
type GuideOrder int

const (
	// OrderByFollowersDesc orders by twitter followers count descending.
	OrderByFollowersDesc GuideOrder = iota
	// OrderByScopeDesc orders by time span descending, then election id
	// descending.
	OrderByScopeDesc
)

// DuplicateFilters scopes a possible-duplicate search. ElectionID wins over
// TimeSpan when both are set. The identifying fields are OR-ed: a guide
// matching any non-empty one is a candidate. ExcludeWeVoteID drops the record
// whose own id matches, case insensitively.
type DuplicateFilters struct {
	GoogleCivicElectionID int64
	VoteSmartTimeSpan     string
	OrganizationWeVoteID  string
	PublicFigureWeVoteID  string
	TwitterHandle         string
	ExcludeWeVoteID       string
}
