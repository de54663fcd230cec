package guide

import "voter-guides/internal/domain/entity"

// Status is a machine-readable outcome code carried on every structured
// result. The vocabulary is shared with other deployments that sync guide
// data, so the strings are part of the contract.
type Status string

const (
	StatusVariablesMissingForOrganization           Status = "ERROR_VARIABLES_MISSING_FOR_ORGANIZATION_VOTER_GUIDE"
	StatusVariablesMissingForOrganizationByTimeSpan Status = "ERROR_VARIABLES_MISSING_FOR_ORGANIZATION_VOTER_GUIDE_BY_TIME_SPAN"
	StatusVariablesMissingForPublicFigure           Status = "ERROR_VARIABLES_MISSING_FOR_PUBLIC_FIGURE_VOTER_GUIDE"
	StatusVariablesMissingForVoter                  Status = "ERROR_VARIABLES_MISSING_FOR_VOTER_VOTER_GUIDE"

	StatusOrganizationNotFoundLocally Status = "VOTER_GUIDE_NOT_CREATED_BECAUSE_ORGANIZATION_NOT_FOUND_LOCALLY"

	StatusCreatedForOrganization           Status = "VOTER_GUIDE_CREATED_FOR_ORGANIZATION"
	StatusUpdatedForOrganization           Status = "VOTER_GUIDE_UPDATED_FOR_ORGANIZATION"
	StatusCreatedForOrganizationByTimeSpan Status = "VOTER_GUIDE_CREATED_FOR_ORGANIZATION_BY_TIME_SPAN"
	StatusUpdatedForOrganizationByTimeSpan Status = "VOTER_GUIDE_UPDATED_FOR_ORGANIZATION_BY_TIME_SPAN"
	StatusCreatedForPublicFigure           Status = "VOTER_GUIDE_CREATED_FOR_PUBLIC_FIGURE"
	StatusUpdatedForPublicFigure           Status = "VOTER_GUIDE_UPDATED_FOR_PUBLIC_FIGURE"
	StatusCreatedForVoter                  Status = "VOTER_GUIDE_CREATED_FOR_VOTER"
	StatusUpdatedForVoter                  Status = "VOTER_GUIDE_UPDATED_FOR_VOTER"

	StatusMultipleFoundForOrganization           Status = "MULTIPLE_MATCHING_VOTER_GUIDES_FOUND_FOR_ORGANIZATION"
	StatusMultipleFoundForOrganizationByTimeSpan Status = "MULTIPLE_MATCHING_VOTER_GUIDES_FOUND_FOR_ORGANIZATION_BY_TIME_SPAN"
	StatusMultipleFoundForPublicFigure           Status = "MULTIPLE_MATCHING_VOTER_GUIDES_FOUND_FOR_PUBLIC_FIGURE"
	StatusMultipleFoundForVoter                  Status = "MULTIPLE_MATCHING_VOTER_GUIDES_FOUND_FOR_VOTER"

	StatusFoundWithID                        Status = "VOTER_GUIDE_FOUND_WITH_ID"
	StatusFoundWithOrganization              Status = "VOTER_GUIDE_FOUND_WITH_ORGANIZATION_WE_VOTE_ID"
	StatusFoundWithOrganizationAndTimeSpan   Status = "VOTER_GUIDE_FOUND_WITH_ORGANIZATION_WE_VOTE_ID_AND_TIME_SPAN"
	StatusFoundWithPublicFigure              Status = "VOTER_GUIDE_FOUND_WITH_PUBLIC_FIGURE_WE_VOTE_ID"
	StatusFoundWithOwner                     Status = "VOTER_GUIDE_FOUND_WITH_VOTER_WE_VOTE_ID"
	StatusNotFound                           Status = "VOTER_GUIDE_NOT_FOUND"
	StatusMoreThanOneFound                   Status = "ERROR_MORE_THAN_ONE_VOTER_GUIDE_FOUND"
	StatusInsufficientVariables              Status = "VOTER_GUIDE_NOT_RETRIEVED_INSUFFICIENT_VARIABLES"
	StatusMostRecentFoundByTimeSpan          Status = "MOST_RECENT_VOTER_GUIDE_FOUND_FOR_ORG_BY_TIME_SPAN"
	StatusMostRecentFoundByElection          Status = "MOST_RECENT_VOTER_GUIDE_FOUND_FOR_ORG_BY_ELECTION_ID"
	StatusMostRecentNotFoundForOrganization  Status = "MOST_RECENT_VOTER_GUIDE_NOT_FOUND_FOR_ORG"
	StatusSavedTwitterDetails                Status = "SAVED_ORG_TWITTER_DETAILS"
	StatusNoChangesSavedToTwitterDetails     Status = "NO_CHANGES_SAVED_TO_ORG_TWITTER_DETAILS"
	StatusMissingOrganizationForSocialUpdate Status = "ERROR_MISSING_ORGANIZATION_FOR_SOCIAL_MEDIA_STATISTICS"

	StatusStorageFailure Status = "VOTER_GUIDE_STORAGE_FAILURE"
)

// UpsertResult reports the outcome of a create-or-update operation. When the
// natural key matches more than one row, nothing is written and
// MultipleFound is set.
type UpsertResult struct {
	Success       bool
	Status        Status
	Created       bool
	MultipleFound bool
	Guide         *entity.VoterGuide
}

// RetrieveResult reports the outcome of an alternate-key lookup. Not-found
// is a normal, non-fatal outcome; an ambiguous match is reported distinctly
// but still surfaces the first candidate for read callers.
type RetrieveResult struct {
	Success       bool
	Status        Status
	Found         bool
	NotFound      bool
	MultipleFound bool
	Guide         *entity.VoterGuide
}

// DeleteResult reports whether a deletion actually occurred.
type DeleteResult struct {
	Success bool
	Deleted bool
	ID      int64
}

// SocialStatisticsResult reports the outcome of a social statistics sweep
// for one organization. Success is reported even when nothing changed.
type SocialStatisticsResult struct {
	Success bool
	Status  Status
	Guide   *entity.VoterGuide
}
