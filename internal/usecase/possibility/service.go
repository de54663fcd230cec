// Package possibility manages voter guide possibilities, the lightweight
// records pointing at web pages that may hold a guide not yet in the system.
// A possibility is keyed by its URL, optionally qualified by an election.
package possibility

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"voter-guides/internal/domain/entity"
	"voter-guides/internal/repository"
)

// Status is the machine-readable outcome code for possibility operations.
type Status string

const (
	StatusVariablesMissing Status = "ERROR_VARIABLES_MISSING_FOR_VOTER_GUIDE_POSSIBILITY"

	StatusCreated Status = "VOTER_GUIDE_POSSIBILITY_CREATED"
	StatusUpdated Status = "VOTER_GUIDE_POSSIBILITY_UPDATED"

	StatusMultipleFound Status = "MULTIPLE_MATCHING_VOTER_GUIDE_POSSIBILITIES_FOUND"

	StatusFoundWithID           Status = "VOTER_GUIDE_POSSIBILITY_FOUND_WITH_ID"
	StatusFoundWithURL          Status = "VOTER_GUIDE_POSSIBILITY_FOUND_WITH_URL"
	StatusFoundWithOrganization Status = "VOTER_GUIDE_POSSIBILITY_FOUND_WITH_ORGANIZATION_WE_VOTE_ID"
	StatusFoundWithPublicFigure Status = "VOTER_GUIDE_POSSIBILITY_FOUND_WITH_PUBLIC_FIGURE_WE_VOTE_ID"
	StatusFoundWithOwner        Status = "VOTER_GUIDE_POSSIBILITY_FOUND_WITH_VOTER_WE_VOTE_ID"
	StatusNotFound              Status = "VOTER_GUIDE_POSSIBILITY_NOT_FOUND"
	StatusInsufficientVariables Status = "VOTER_GUIDE_POSSIBILITY_NOT_RETRIEVED_INSUFFICIENT_VARIABLES"

	StatusStorageFailure Status = "VOTER_GUIDE_POSSIBILITY_STORAGE_FAILURE"
)

// UpsertResult reports the outcome of a create-or-update.
type UpsertResult struct {
	Success       bool
	Status        Status
	Created       bool
	MultipleFound bool
	Possibility   *entity.VoterGuidePossibility
}

// RetrieveResult reports the outcome of a lookup. Not-found is non-fatal.
type RetrieveResult struct {
	Success       bool
	Status        Status
	Found         bool
	NotFound      bool
	MultipleFound bool
	Possibility   *entity.VoterGuidePossibility
}

// DeleteResult reports whether a deletion actually occurred.
type DeleteResult struct {
	Success bool
	Deleted bool
	ID      int64
}

// Service coordinates possibility writes and lookups.
type Service struct {
	Possibilities repository.VoterGuidePossibilityRepository
	Logger        *slog.Logger
}

func NewService(possibilities repository.VoterGuidePossibilityRepository, logger *slog.Logger) *Service {
	return &Service{Possibilities: possibilities, Logger: logger}
}

func (s *Service) storageFailure(ctx context.Context, operation string, err error) {
	s.Logger.ErrorContext(ctx, "voter guide possibility storage failure", "operation", operation, "error", err)
}

// Upsert creates or updates the possibility for a URL. When an election id
// is given the (url, election) pair is the key; otherwise the URL alone is.
func (s *Service) Upsert(ctx context.Context, url string, googleCivicElectionID int64) UpsertResult {
	url = strings.TrimSpace(url)
	if url == "" {
		return UpsertResult{Status: StatusVariablesMissing}
	}

	var existing *entity.VoterGuidePossibility
	var err error
	if googleCivicElectionID > 0 {
		existing, err = s.Possibilities.GetByURLAndElection(ctx, url, googleCivicElectionID)
	} else {
		existing, err = s.Possibilities.GetByURL(ctx, url)
	}
	if errors.Is(err, entity.ErrMultipleFound) {
		return UpsertResult{Status: StatusMultipleFound, MultipleFound: true, Possibility: existing}
	}
	if err != nil {
		s.storageFailure(ctx, "Upsert", err)
		return UpsertResult{Status: StatusStorageFailure}
	}

	if existing == nil {
		created := &entity.VoterGuidePossibility{
			URL:                   url,
			OwnerType:             entity.OwnerUnknown,
			GoogleCivicElectionID: googleCivicElectionID,
		}
		if err := s.Possibilities.Create(ctx, created); err != nil {
			s.storageFailure(ctx, "Upsert", err)
			return UpsertResult{Status: StatusStorageFailure}
		}
		return UpsertResult{Success: true, Status: StatusCreated, Created: true, Possibility: created}
	}

	existing.URL = url
	if googleCivicElectionID > 0 {
		existing.GoogleCivicElectionID = googleCivicElectionID
	}
	if err := s.Possibilities.Update(ctx, existing); err != nil {
		s.storageFailure(ctx, "Upsert", err)
		return UpsertResult{Status: StatusStorageFailure}
	}
	return UpsertResult{Success: true, Status: StatusUpdated, Possibility: existing}
}

// RetrieveQuery carries the alternate keys accepted by Retrieve, tried in
// precedence order: internal id, URL, then each owner reference paired with
// an election.
type RetrieveQuery struct {
	ID                    int64
	URL                   string
	GoogleCivicElectionID int64
	OrganizationWeVoteID  string
	PublicFigureWeVoteID  string
	OwnerWeVoteID         string
}

func (s *Service) retrieveResult(possibility *entity.VoterGuidePossibility, err error, foundStatus Status) RetrieveResult {
	if errors.Is(err, entity.ErrMultipleFound) {
		return RetrieveResult{Status: StatusMultipleFound, MultipleFound: true, Possibility: possibility}
	}
	if possibility == nil {
		return RetrieveResult{Success: true, Status: StatusNotFound, NotFound: true}
	}
	return RetrieveResult{Success: true, Status: foundStatus, Found: true, Possibility: possibility}
}

// Retrieve looks up a single possibility by the first usable key.
func (s *Service) Retrieve(ctx context.Context, query RetrieveQuery) RetrieveResult {
	switch {
	case query.ID > 0:
		possibility, err := s.Possibilities.GetByID(ctx, query.ID)
		if err != nil {
			s.storageFailure(ctx, "Retrieve", err)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(possibility, nil, StatusFoundWithID)

	case query.URL != "":
		possibility, err := s.Possibilities.GetByURL(ctx, strings.TrimSpace(query.URL))
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(possibility, err, StatusFoundWithURL)

	case query.OrganizationWeVoteID != "" && query.GoogleCivicElectionID > 0:
		possibility, err := s.Possibilities.GetByOrganizationAndElection(ctx, query.OrganizationWeVoteID, query.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(possibility, err, StatusFoundWithOrganization)

	case query.PublicFigureWeVoteID != "" && query.GoogleCivicElectionID > 0:
		possibility, err := s.Possibilities.GetByPublicFigureAndElection(ctx, query.PublicFigureWeVoteID, query.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(possibility, err, StatusFoundWithPublicFigure)

	case query.OwnerWeVoteID != "" && query.GoogleCivicElectionID > 0:
		possibility, err := s.Possibilities.GetByOwnerAndElection(ctx, query.OwnerWeVoteID, query.GoogleCivicElectionID)
		if err != nil && !errors.Is(err, entity.ErrMultipleFound) {
			s.storageFailure(ctx, "Retrieve", err)
			return RetrieveResult{Status: StatusStorageFailure}
		}
		return s.retrieveResult(possibility, err, StatusFoundWithOwner)
	}
	return RetrieveResult{Status: StatusInsufficientVariables}
}

// Delete removes the possibility with the given internal id. A missing
// record is a successful no-op.
func (s *Service) Delete(ctx context.Context, id int64) DeleteResult {
	possibility, err := s.Possibilities.GetByID(ctx, id)
	if err != nil {
		s.storageFailure(ctx, "Delete", err)
		return DeleteResult{ID: id}
	}
	if possibility == nil {
		return DeleteResult{Success: true, ID: id}
	}
	if err := s.Possibilities.Delete(ctx, possibility.ID); err != nil {
		s.storageFailure(ctx, "Delete", err)
		return DeleteResult{ID: id}
	}
	return DeleteResult{Success: true, Deleted: true, ID: id}
}
