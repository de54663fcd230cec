// Package guide implements create, retrieve, and maintenance operations for
// voter guides. Every operation returns a structured result instead of an
// error: not-found is a normal outcome, ambiguity is reported distinctly, and
// storage faults are logged and downgraded to a failed result so callers can
// branch on flags rather than unwrap error chains.
package guide

import (
	"context"
	"errors"
	"log/slog"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/identity"
	"voter-guides/internal/repository"
	"voter-guides/internal/timespan"
)

// Service coordinates voter guide writes and alternate-key reads.
type Service struct {
	Guides    repository.VoterGuideRepository
	Orgs      repository.OrganizationRepository
	Elections repository.ElectionRepository
	Spans     *timespan.Catalog
	IDs       *identity.Generator
	Logger    *slog.Logger
}

func NewService(
	guides repository.VoterGuideRepository,
	orgs repository.OrganizationRepository,
	elections repository.ElectionRepository,
	spans *timespan.Catalog,
	ids *identity.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		Guides:    guides,
		Orgs:      orgs,
		Elections: elections,
		Spans:     spans,
		IDs:       ids,
		Logger:    logger,
	}
}

// RetrieveQuery carries the alternate keys accepted by Retrieve. Keys are
// tried in a fixed precedence order; the first usable combination wins and
// the rest are ignored.
type RetrieveQuery struct {
	ID                    int64
	GoogleCivicElectionID int64
	VoteSmartTimeSpan     string
	OrganizationWeVoteID  string
	PublicFigureWeVoteID  string
	OwnerWeVoteID         string
}

func (s *Service) storageFailure(ctx context.Context, operation string, err error, attrs ...any) {
	args := append([]any{"operation", operation, "error", err}, attrs...)
	s.Logger.ErrorContext(ctx, "voter guide storage failure", args...)
}

func (s *Service) ensureWeVoteID(ctx context.Context, guide *entity.VoterGuide) error {
	if guide.WeVoteID == "" {
		weVoteID, err := s.IDs.NextVoterGuideID(ctx)
		if err != nil {
			return err
		}
		guide.WeVoteID = weVoteID
	}
	guide.WeVoteID = entity.NormalizeWeVoteID(guide.WeVoteID)
	return nil
}

// applyOrganizationFields denormalizes display and twitter fields from the
// owning organization onto the guide. Applied on create and on update so the
// cache tracks the owner record.
func applyOrganizationFields(guide *entity.VoterGuide, org *repository.Organization) {
	if org.Name != "" {
		guide.DisplayName = org.Name
	}
	if org.PhotoURL != "" {
		guide.ImageURL = org.PhotoURL
	}
	guide.TwitterHandle = org.TwitterHandle
	guide.TwitterDescription = org.TwitterDescription
	guide.TwitterFollowersCount = org.TwitterFollowersCount
}

func (s *Service) save(ctx context.Context, guide *entity.VoterGuide, created bool) error {
	if err := s.ensureWeVoteID(ctx, guide); err != nil {
		return err
	}
	if created {
		return s.Guides.Create(ctx, guide)
	}
	return s.Guides.Update(ctx, guide)
}

// UpsertForOrganization creates or updates the guide identified by the
// (organization, election) pair. The organization must already be present in
// the local owner store; its display fields are copied onto the guide.
func (s *Service) UpsertForOrganization(ctx context.Context, organizationWeVoteID string, googleCivicElectionID int64) UpsertResult {
	if organizationWeVoteID == "" || googleCivicElectionID <= 0 {
		return UpsertResult{Status: StatusVariablesMissingForOrganization}
	}

	org, err := s.Orgs.GetByWeVoteID(ctx, organizationWeVoteID)
	if err != nil {
		s.storageFailure(ctx, "UpsertForOrganization", err, "organization_we_vote_id", organizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}
	if org == nil {
		return UpsertResult{Status: StatusOrganizationNotFoundLocally}
	}

	existing, err := s.Guides.GetByOrganizationAndElection(ctx, organizationWeVoteID, googleCivicElectionID)
	if errors.Is(err, entity.ErrMultipleFound) {
		return UpsertResult{Status: StatusMultipleFoundForOrganization, MultipleFound: true, Guide: existing}
	}
	if err != nil {
		s.storageFailure(ctx, "UpsertForOrganization", err, "organization_we_vote_id", organizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	created := existing == nil
	guide := existing
	if created {
		guide = &entity.VoterGuide{
			OwnerType:             entity.OwnerOrganization,
			OrganizationWeVoteID:  organizationWeVoteID,
			GoogleCivicElectionID: googleCivicElectionID,
		}
	}
	guide.OwnerType = entity.OwnerOrganization
	applyOrganizationFields(guide, org)

	if err := s.save(ctx, guide, created); err != nil {
		s.storageFailure(ctx, "UpsertForOrganization", err, "organization_we_vote_id", organizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	status := StatusUpdatedForOrganization
	if created {
		status = StatusCreatedForOrganization
	}
	return UpsertResult{Success: true, Status: status, Created: created, Guide: guide}
}

// UpsertForOrganizationByTimeSpan creates or updates the guide identified by
// the (organization, time span) pair.
func (s *Service) UpsertForOrganizationByTimeSpan(ctx context.Context, organizationWeVoteID, voteSmartTimeSpan string) UpsertResult {
	if organizationWeVoteID == "" || voteSmartTimeSpan == "" {
		return UpsertResult{Status: StatusVariablesMissingForOrganizationByTimeSpan}
	}

	org, err := s.Orgs.GetByWeVoteID(ctx, organizationWeVoteID)
	if err != nil {
		s.storageFailure(ctx, "UpsertForOrganizationByTimeSpan", err, "organization_we_vote_id", organizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}
	if org == nil {
		return UpsertResult{Status: StatusOrganizationNotFoundLocally}
	}

	existing, err := s.Guides.GetByOrganizationAndTimeSpan(ctx, organizationWeVoteID, voteSmartTimeSpan)
	if errors.Is(err, entity.ErrMultipleFound) {
		return UpsertResult{Status: StatusMultipleFoundForOrganizationByTimeSpan, MultipleFound: true, Guide: existing}
	}
	if err != nil {
		s.storageFailure(ctx, "UpsertForOrganizationByTimeSpan", err, "organization_we_vote_id", organizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	created := existing == nil
	guide := existing
	if created {
		guide = &entity.VoterGuide{
			OwnerType:            entity.OwnerOrganization,
			OrganizationWeVoteID: organizationWeVoteID,
			VoteSmartTimeSpan:    voteSmartTimeSpan,
		}
	}
	guide.OwnerType = entity.OwnerOrganization
	applyOrganizationFields(guide, org)

	if err := s.save(ctx, guide, created); err != nil {
		s.storageFailure(ctx, "UpsertForOrganizationByTimeSpan", err, "organization_we_vote_id", organizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	status := StatusUpdatedForOrganizationByTimeSpan
	if created {
		status = StatusCreatedForOrganizationByTimeSpan
	}
	return UpsertResult{Success: true, Status: status, Created: created, Guide: guide}
}

// UpsertForPublicFigure creates or updates the guide identified by the
// (public figure, election) pair. Public figure records are not mirrored in
// the local owner store, so no display fields are denormalized here.
func (s *Service) UpsertForPublicFigure(ctx context.Context, publicFigureWeVoteID string, googleCivicElectionID int64) UpsertResult {
	if publicFigureWeVoteID == "" || googleCivicElectionID <= 0 {
		return UpsertResult{Status: StatusVariablesMissingForPublicFigure}
	}

	existing, err := s.Guides.GetByPublicFigureAndElection(ctx, publicFigureWeVoteID, googleCivicElectionID)
	if errors.Is(err, entity.ErrMultipleFound) {
		return UpsertResult{Status: StatusMultipleFoundForPublicFigure, MultipleFound: true, Guide: existing}
	}
	if err != nil {
		s.storageFailure(ctx, "UpsertForPublicFigure", err, "public_figure_we_vote_id", publicFigureWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	created := existing == nil
	guide := existing
	if created {
		guide = &entity.VoterGuide{
			OwnerType:             entity.OwnerPublicFigure,
			PublicFigureWeVoteID:  publicFigureWeVoteID,
			GoogleCivicElectionID: googleCivicElectionID,
		}
	}
	guide.OwnerType = entity.OwnerPublicFigure

	if err := s.save(ctx, guide, created); err != nil {
		s.storageFailure(ctx, "UpsertForPublicFigure", err, "public_figure_we_vote_id", publicFigureWeVoteID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	status := StatusUpdatedForPublicFigure
	if created {
		status = StatusCreatedForPublicFigure
	}
	return UpsertResult{Success: true, Status: status, Created: created, Guide: guide}
}

// UpsertForVoter creates or updates the guide identified by the
// (voter, election) pair, keyed on the voter's integer row id.
func (s *Service) UpsertForVoter(ctx context.Context, ownerVoterID int64, googleCivicElectionID int64) UpsertResult {
	if ownerVoterID <= 0 || googleCivicElectionID <= 0 {
		return UpsertResult{Status: StatusVariablesMissingForVoter}
	}

	existing, err := s.Guides.GetByVoterAndElection(ctx, ownerVoterID, googleCivicElectionID)
	if errors.Is(err, entity.ErrMultipleFound) {
		return UpsertResult{Status: StatusMultipleFoundForVoter, MultipleFound: true, Guide: existing}
	}
	if err != nil {
		s.storageFailure(ctx, "UpsertForVoter", err, "owner_voter_id", ownerVoterID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	created := existing == nil
	guide := existing
	if created {
		guide = &entity.VoterGuide{
			OwnerType:             entity.OwnerVoter,
			OwnerVoterID:          ownerVoterID,
			GoogleCivicElectionID: googleCivicElectionID,
		}
	}
	guide.OwnerType = entity.OwnerVoter

	if err := s.save(ctx, guide, created); err != nil {
		s.storageFailure(ctx, "UpsertForVoter", err, "owner_voter_id", ownerVoterID)
		return UpsertResult{Status: StatusStorageFailure}
	}

	status := StatusUpdatedForVoter
	if created {
		status = StatusCreatedForVoter
	}
	return UpsertResult{Success: true, Status: status, Created: created, Guide: guide}
}

// Exists reports whether any guide exists for the (organization, election)
// pair. Storage faults are logged and reported as non-existence.
func (s *Service) Exists(ctx context.Context, organizationWeVoteID string, googleCivicElectionID int64) bool {
	if organizationWeVoteID == "" || googleCivicElectionID <= 0 {
		return false
	}
	exists, err := s.Guides.ExistsForOrganizationAndElection(ctx, organizationWeVoteID, googleCivicElectionID)
	if err != nil {
		s.storageFailure(ctx, "Exists", err, "organization_we_vote_id", organizationWeVoteID)
		return false
	}
	return exists
}

func (s *Service) retrieveResult(guide *entity.VoterGuide, err error, foundStatus Status) RetrieveResult {
	if errors.Is(err, entity.ErrMultipleFound) {
		return RetrieveResult{Status: StatusMoreThanOneFound, MultipleFound: true, Guide: guide}
	}
	if guide == nil {
		return RetrieveResult{Success: true, Status: StatusNotFound, NotFound: true}
	}
	return RetrieveResult{Success: true, Status: foundStatus, Found: true, Guide: guide}
}

// Retrieve looks up a single guide by the first usable key combination:
// internal id, then (organization, election), then (organization, time span),
// then (public figure, election), then (voter, election). A query that
// provides none of these fails with an insufficient-variables status.
func (s *Service) Retrieve(ctx context.Context, query RetrieveQuery) RetrieveResult {
	switch {
	case query.ID > 0:
		guide, err := s.Guides.GetByID(ctx, query.ID)
		if err != nil {
			s.storageFailure(ctx, "Retrieve", err, "voter_guide_id", query.ID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(guide, nil, StatusFoundWithID)

	case query.OrganizationWeVoteID != "" && query.GoogleCivicElectionID > 0:
		guide, err := s.Guides.GetByOrganizationAndElection(ctx, query.OrganizationWeVoteID, query.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err, "organization_we_vote_id", query.OrganizationWeVoteID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(guide, err, StatusFoundWithOrganization)

	case query.OrganizationWeVoteID != "" && query.VoteSmartTimeSpan != "":
		guide, err := s.Guides.GetByOrganizationAndTimeSpan(ctx, query.OrganizationWeVoteID, query.VoteSmartTimeSpan)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err, "organization_we_vote_id", query.OrganizationWeVoteID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(guide, err, StatusFoundWithOrganizationAndTimeSpan)

	case query.PublicFigureWeVoteID != "" && query.GoogleCivicElectionID > 0:
		guide, err := s.Guides.GetByPublicFigureAndElection(ctx, query.PublicFigureWeVoteID, query.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err, "public_figure_we_vote_id", query.PublicFigureWeVoteID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(guide, err, StatusFoundWithPublicFigure)

	case query.OwnerWeVoteID != "" && query.GoogleCivicElectionID > 0:
		guide, err := s.Guides.GetByOwnerAndElection(ctx, query.OwnerWeVoteID, query.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err, "owner_we_vote_id", query.OwnerWeVoteID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(guide, err, StatusFoundWithOwner)
	}
	return RetrieveResult{Status: StatusInsufficientVariables}
}

// MostRecentForOrganization finds the organization's newest guide by walking
// the time span catalog from most recent to oldest, then falling back to the
// election catalog ordered by election day descending. The first hit on
// either axis wins.
func (s *Service) MostRecentForOrganization(ctx context.Context, organizationWeVoteID string) RetrieveResult {
	if organizationWeVoteID == "" {
		return RetrieveResult{Status: StatusInsufficientVariables}
	}

	for _, span := range s.Spans.Spans() {
		guide, err := s.Guides.GetByOrganizationAndTimeSpan(ctx, organizationWeVoteID, span)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "MostRecentForOrganization", err, "organization_we_vote_id", organizationWeVoteID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		if guide != nil {
			return RetrieveResult{Success: true, Status: StatusMostRecentFoundByTimeSpan, Found: true, Guide: guide}
		}
	}

	elections, err := s.Elections.ListByDateDesc(ctx)
	if err != nil {
		s.storageFailure(ctx, "MostRecentForOrganization", err, "organization_we_vote_id", organizationWeVoteID)
		return RetrieveResult{Status: StatusStorageFailure}
	}
	for _, election := range elections {
		guide, err := s.Guides.GetByOrganizationAndElection(ctx, organizationWeVoteID, election.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "MostRecentForOrganization", err, "organization_we_vote_id", organizationWeVoteID)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		if guide != nil {
			return RetrieveResult{Success: true, Status: StatusMostRecentFoundByElection, Found: true, Guide: guide}
		}
	}
	return RetrieveResult{Success: true, Status: StatusMostRecentNotFoundForOrganization, NotFound: true}
}

// RefreshCachedFields fills empty display fields on an organization-owned
// guide from the owner store and persists the guide only when something was
// actually filled in. Populated fields are never overwritten here; that is
// the upsert path's job.
func (s *Service) RefreshCachedFields(ctx context.Context, guide *entity.VoterGuide) UpsertResult {
	if guide == nil || guide.OwnerType != entity.OwnerOrganization || guide.OrganizationWeVoteID == "" {
		return UpsertResult{Success: true, Status: StatusNoChangesSavedToTwitterDetails, Guide: guide}
	}

	org, err := s.Orgs.GetByWeVoteID(ctx, guide.OrganizationWeVoteID)
	if err != nil {
		s.storageFailure(ctx, "RefreshCachedFields", err, "organization_we_vote_id", guide.OrganizationWeVoteID)
		return UpsertResult{Status: StatusStorageFailure, Guide: guide}
	}
	if org == nil {
		return UpsertResult{Success: true, Status: StatusOrganizationNotFoundLocally, Guide: guide}
	}

	changed := false
	if guide.DisplayName == "" && org.Name != "" {
		guide.DisplayName = org.Name
		changed = true
	}
	if guide.ImageURL == "" && org.PhotoURL != "" {
		guide.ImageURL = org.PhotoURL
		changed = true
	}
	if guide.TwitterHandle == "" && org.TwitterHandle != "" {
		guide.TwitterHandle = org.TwitterHandle
		changed = true
	}
	if guide.TwitterDescription == "" && org.TwitterDescription != "" {
		guide.TwitterDescription = org.TwitterDescription
		changed = true
	}
	if !changed {
		return UpsertResult{Success: true, Status: StatusNoChangesSavedToTwitterDetails, Guide: guide}
	}

	if err := s.save(ctx, guide, false); err != nil {
		s.storageFailure(ctx, "RefreshCachedFields", err, "voter_guide_we_vote_id", guide.WeVoteID)
		return UpsertResult{Status: StatusStorageFailure, Guide: guide}
	}
	return UpsertResult{Success: true, Status: StatusSavedTwitterDetails, Guide: guide}
}

// UpdateSocialStatistics pushes an organization's current twitter follower
// count onto its most recent guide. Only the follower count moves; handle
// and description belong to the cached-field refresh. An organization with
// no followers on record, no guide, or an unchanged count is a successful
// no-op.
func (s *Service) UpdateSocialStatistics(ctx context.Context, organizationWeVoteID string) SocialStatisticsResult {
	if organizationWeVoteID == "" {
		return SocialStatisticsResult{Status: StatusMissingOrganizationForSocialUpdate}
	}

	org, err := s.Orgs.GetByWeVoteID(ctx, organizationWeVoteID)
	if err != nil {
		s.storageFailure(ctx, "UpdateSocialStatistics", err, "organization_we_vote_id", organizationWeVoteID)
		return SocialStatisticsResult{Status: StatusStorageFailure}
	}
	if org == nil {
		return SocialStatisticsResult{Status: StatusMissingOrganizationForSocialUpdate}
	}
	if org.TwitterFollowersCount <= 0 {
		return SocialStatisticsResult{Success: true, Status: StatusNoChangesSavedToTwitterDetails}
	}

	recent := s.MostRecentForOrganization(ctx, organizationWeVoteID)
	if recent.Status == StatusStorageFailure {
		return SocialStatisticsResult{Status: StatusStorageFailure}
	}
	if !recent.Found {
		return SocialStatisticsResult{Success: true, Status: StatusNoChangesSavedToTwitterDetails}
	}

	guide := recent.Guide
	if guide.TwitterFollowersCount == org.TwitterFollowersCount {
		return SocialStatisticsResult{Success: true, Status: StatusNoChangesSavedToTwitterDetails, Guide: guide}
	}
	guide.TwitterFollowersCount = org.TwitterFollowersCount

	if err := s.save(ctx, guide, false); err != nil {
		s.storageFailure(ctx, "UpdateSocialStatistics", err, "voter_guide_we_vote_id", guide.WeVoteID)
		return SocialStatisticsResult{Status: StatusStorageFailure, Guide: guide}
	}
	return SocialStatisticsResult{Success: true, Status: StatusSavedTwitterDetails, Guide: guide}
}

// Delete removes the guide with the given internal id. Deleting a guide that
// does not exist is a successful no-op.
func (s *Service) Delete(ctx context.Context, id int64) DeleteResult {
	guide, err := s.Guides.GetByID(ctx, id)
	if err != nil {
		s.storageFailure(ctx, "Delete", err, "voter_guide_id", id)
		return DeleteResult{ID: id}
	}
	if guide == nil {
		return DeleteResult{Success: true, ID: id}
	}
	if err := s.Guides.Delete(ctx, guide.ID); err != nil {
		s.storageFailure(ctx, "Delete", err, "voter_guide_id", id)
		return DeleteResult{ID: id}
	}
	return DeleteResult{Success: true, Deleted: true, ID: id}
}

// DisplayNameFor returns the guide's cached display name, falling back to
// the owner store for organization-owned guides with an empty cache.
func (s *Service) DisplayNameFor(ctx context.Context, guide *entity.VoterGuide) string {
	if guide == nil {
		return ""
	}
	if guide.DisplayName != "" {
		return guide.DisplayName
	}
	if guide.OwnerType == entity.OwnerOrganization && guide.OrganizationWeVoteID != "" {
		org, err := s.Orgs.GetByWeVoteID(ctx, guide.OrganizationWeVoteID)
		if err != nil {
			s.storageFailure(ctx, "DisplayNameFor", err, "organization_we_vote_id", guide.OrganizationWeVoteID)
			return ""
		}
		if org != nil {
			return org.Name
		}
	}
	return ""
}

// ImageURLFor returns the guide's cached image url with the same fallback as
// DisplayNameFor.
func (s *Service) ImageURLFor(ctx context.Context, guide *entity.VoterGuide) string {
	if guide == nil {
		return ""
	}
	if guide.ImageURL != "" {
		return guide.ImageURL
	}
	if guide.OwnerType == entity.OwnerOrganization && guide.OrganizationWeVoteID != "" {
		org, err := s.Orgs.GetByWeVoteID(ctx, guide.OrganizationWeVoteID)
		if err != nil {
			s.storageFailure(ctx, "ImageURLFor", err, "organization_we_vote_id", guide.OrganizationWeVoteID)
			return ""
		}
		if org != nil {
			return org.PhotoURL
		}
	}
	return ""
}
