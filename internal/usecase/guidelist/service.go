// Package guidelist implements the read-side listing queries over voter
// guides: per-election listings, follow suggestions, duplicate detection,
// and administrative listings. Like the write side, every operation returns
// a structured result; an empty listing is a successful outcome.
package guidelist

import (
	"context"
	"log/slog"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/repository"
)

// Status is the machine-readable outcome code for listing operations.
type Status string

const (
	StatusFoundForElection    Status = "VOTER_GUIDES_FOUND_FOR_ELECTION"
	StatusNotFoundForElection Status = "NO_VOTER_GUIDES_FOUND_FOR_ELECTION"

	StatusFoundByOrganizationList    Status = "VOTER_GUIDES_FOUND_BY_ORGANIZATION_LIST"
	StatusNotFoundByOrganizationList Status = "NO_VOTER_GUIDES_FOUND_BY_ORGANIZATION_LIST"
	StatusMissingOrganizationList    Status = "NO_VOTER_GUIDES_FOUND_MISSING_ORGANIZATION_LIST"

	StatusFoundToFollow    Status = "VOTER_GUIDES_TO_FOLLOW_FOUND"
	StatusNotFoundToFollow Status = "NO_VOTER_GUIDES_TO_FOLLOW_FOUND"

	StatusFoundAll    Status = "VOTER_GUIDES_FOUND"
	StatusNotFoundAll Status = "NO_VOTER_GUIDES_FOUND"

	StatusDuplicatesFound    Status = "POSSIBLE_DUPLICATE_VOTER_GUIDES_FOUND"
	StatusDuplicatesNotFound Status = "NO_POSSIBLE_DUPLICATE_VOTER_GUIDES_FOUND"

	StatusStorageFailure Status = "VOTER_GUIDE_LIST_STORAGE_FAILURE"
)

// ListResult carries the outcome of a listing operation. Found is true only
// when at least one guide is returned.
type ListResult struct {
	Success bool
	Status  Status
	Found   bool
	Guides  []*entity.VoterGuide
}

// Service runs listing queries against the guide store.
type Service struct {
	Guides repository.VoterGuideRepository
	Logger *slog.Logger
}

func NewService(guides repository.VoterGuideRepository, logger *slog.Logger) *Service {
	return &Service{Guides: guides, Logger: logger}
}

func (s *Service) storageFailure(ctx context.Context, operation string, err error) ListResult {
	s.Logger.ErrorContext(ctx, "voter guide list storage failure", "operation", operation, "error", err)
	return ListResult{Status: StatusStorageFailure}
}

func listResult(guides []*entity.VoterGuide, foundStatus, emptyStatus Status) ListResult {
	if len(guides) == 0 {
		return ListResult{Success: true, Status: emptyStatus, Guides: []*entity.VoterGuide{}}
	}
	return ListResult{Success: true, Status: foundStatus, Found: true, Guides: guides}
}

// ForElection lists every guide scoped to the given election.
func (s *Service) ForElection(ctx context.Context, googleCivicElectionID int64) ListResult {
	guides, err := s.Guides.ListForElection(ctx, googleCivicElectionID)
	if err != nil {
		return s.storageFailure(ctx, "ForElection", err)
	}
	return listResult(guides, StatusFoundForElection, StatusNotFoundForElection)
}

// ByOrganizations lists the guides owned by any of the given organizations,
// collapsed so only each organization's newest time-span guides remain. An
// empty organization list is a caller error, not an empty listing.
func (s *Service) ByOrganizations(ctx context.Context, organizationWeVoteIDs []string) ListResult {
	if len(organizationWeVoteIDs) == 0 {
		return ListResult{Status: StatusMissingOrganizationList}
	}
	guides, err := s.Guides.ListByOrganizations(ctx, organizationWeVoteIDs)
	if err != nil {
		return s.storageFailure(ctx, "ByOrganizations", err)
	}
	guides = CollapseOlderPerOrganization(guides)
	return listResult(guides, StatusFoundByOrganizationList, StatusNotFoundByOrganizationList)
}

// ToFollowByElection suggests guides to follow for one election, restricted
// to the given candidate organizations.
func (s *Service) ToFollowByElection(ctx context.Context, googleCivicElectionID int64, organizationWeVoteIDs []string, opts repository.ListOptions) ListResult {
	if len(organizationWeVoteIDs) == 0 {
		return ListResult{Success: true, Status: StatusNotFoundToFollow, Guides: []*entity.VoterGuide{}}
	}
	guides, err := s.Guides.ListToFollowByElection(ctx, googleCivicElectionID, organizationWeVoteIDs, opts)
	if err != nil {
		return s.storageFailure(ctx, "ToFollowByElection", err)
	}
	return listResult(guides, StatusFoundToFollow, StatusNotFoundToFollow)
}

// ToFollowByTimeSpans suggests guides matching any of the given
// (time span, organization) pairs. No pairs means nothing to suggest, which
// is a successful empty listing.
func (s *Service) ToFollowByTimeSpans(ctx context.Context, pairs []repository.OrganizationTimeSpan, opts repository.ListOptions) ListResult {
	if len(pairs) == 0 {
		return ListResult{Success: true, Status: StatusNotFoundToFollow, Guides: []*entity.VoterGuide{}}
	}
	guides, err := s.Guides.ListToFollowByTimeSpans(ctx, pairs, opts)
	if err != nil {
		return s.storageFailure(ctx, "ToFollowByTimeSpans", err)
	}
	return listResult(guides, StatusFoundToFollow, StatusNotFoundToFollow)
}

// ToFollowGeneric suggests guides from the whole store, excluding guides
// owned by organizations the caller already follows or has ignored, then
// collapses older time-span guides per organization.
func (s *Service) ToFollowGeneric(ctx context.Context, excludedOrganizationWeVoteIDs []string, opts repository.ListOptions) ListResult {
	guides, err := s.Guides.ListToFollowGeneric(ctx, excludedOrganizationWeVoteIDs, opts)
	if err != nil {
		return s.storageFailure(ctx, "ToFollowGeneric", err)
	}
	guides = CollapseOlderPerOrganization(guides)
	return listResult(guides, StatusFoundToFollow, StatusNotFoundToFollow)
}

// All lists every guide in the store in the requested order.
func (s *Service) All(ctx context.Context, orderBy repository.GuideOrder) ListResult {
	guides, err := s.Guides.ListAll(ctx, orderBy)
	if err != nil {
		return s.storageFailure(ctx, "All", err)
	}
	return listResult(guides, StatusFoundAll, StatusNotFoundAll)
}

// PossibleDuplicates lists guides sharing identifying fields with a
// candidate record, scoped to one election or time span.
func (s *Service) PossibleDuplicates(ctx context.Context, filters repository.DuplicateFilters) ListResult {
	guides, err := s.Guides.ListPossibleDuplicates(ctx, filters)
	if err != nil {
		return s.storageFailure(ctx, "PossibleDuplicates", err)
	}
	return listResult(guides, StatusDuplicatesFound, StatusDuplicatesNotFound)
}
