// Package possibility provides HTTP handlers for voter guide possibility
// endpoints. Possibilities are URL-keyed staging records submitted by
// volunteers before a full voter guide exists.
package possibility

import (
	"time"

	"voter-guides/internal/domain/entity"
)

// DTO represents the JSON structure for possibility data transfer.
type DTO struct {
	ID                    int64     `json:"id"`
	URL                   string    `json:"voter_guide_possibility_url"`
	OwnerType             string    `json:"voter_guide_owner_type"`
	OrganizationWeVoteID  string    `json:"organization_we_vote_id,omitempty"`
	PublicFigureWeVoteID  string    `json:"public_figure_we_vote_id,omitempty"`
	OwnerWeVoteID         string    `json:"owner_we_vote_id,omitempty"`
	GoogleCivicElectionID int64     `json:"google_civic_election_id,omitempty"`
	LastUpdated           time.Time `json:"last_updated"`
}

func fromEntity(p *entity.VoterGuidePossibility) *DTO {
	if p == nil {
		return nil
	}
	return &DTO{
		ID:                    p.ID,
		URL:                   p.URL,
		OwnerType:             string(p.OwnerType),
		OrganizationWeVoteID:  p.OrganizationWeVoteID,
		PublicFigureWeVoteID:  p.PublicFigureWeVoteID,
		OwnerWeVoteID:         p.OwnerWeVoteID,
		GoogleCivicElectionID: p.GoogleCivicElectionID,
		LastUpdated:           p.LastUpdated,
	}
}

// UpsertResponse is the envelope for create-or-update outcomes.
type UpsertResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Created       bool   `json:"voter_guide_possibility_created"`
	MultipleFound bool   `json:"multiple_found"`
	Possibility   *DTO   `json:"voter_guide_possibility,omitempty"`
}

// RetrieveResponse is the envelope for single-record lookups.
type RetrieveResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Found         bool   `json:"voter_guide_possibility_found"`
	MultipleFound bool   `json:"multiple_found,omitempty"`
	Possibility   *DTO   `json:"voter_guide_possibility,omitempty"`
}

// DeleteResponse reports whether a deletion actually occurred.
type DeleteResponse struct {
	Success bool  `json:"success"`
	Deleted bool  `json:"voter_guide_possibility_deleted"`
	ID      int64 `json:"id"`
}
