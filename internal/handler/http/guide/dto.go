// Package guide provides HTTP handlers for voter guide endpoints. It covers
// owner-scoped upserts, alternate-key retrieval, listing queries, cached
// field refresh, and deletion.
package guide

import (
	"time"

	"voter-guides/internal/domain/entity"
)

// DTO represents the JSON structure for voter guide data transfer.
type DTO struct {
	ID                    int64     `json:"id"`
	WeVoteID              string    `json:"we_vote_id"`
	OwnerType             string    `json:"voter_guide_owner_type"`
	OrganizationWeVoteID  string    `json:"organization_we_vote_id,omitempty"`
	PublicFigureWeVoteID  string    `json:"public_figure_we_vote_id,omitempty"`
	OwnerWeVoteID         string    `json:"owner_we_vote_id,omitempty"`
	OwnerVoterID          int64     `json:"owner_voter_id,omitempty"`
	GoogleCivicElectionID int64     `json:"google_civic_election_id,omitempty"`
	VoteSmartTimeSpan     string    `json:"vote_smart_time_span,omitempty"`
	DisplayName           string    `json:"voter_guide_display_name"`
	ImageURL              string    `json:"voter_guide_image_url"`
	TwitterHandle         string    `json:"twitter_handle"`
	TwitterDescription    string    `json:"twitter_description"`
	TwitterFollowersCount int64     `json:"twitter_followers_count"`
	LastUpdated           time.Time `json:"last_updated"`
}

func fromEntity(vg *entity.VoterGuide) *DTO {
	if vg == nil {
		return nil
	}
	return &DTO{
		ID:                    vg.ID,
		WeVoteID:              vg.WeVoteID,
		OwnerType:             string(vg.OwnerType),
		OrganizationWeVoteID:  vg.OrganizationWeVoteID,
		PublicFigureWeVoteID:  vg.PublicFigureWeVoteID,
		OwnerWeVoteID:         vg.OwnerWeVoteID,
		OwnerVoterID:          vg.OwnerVoterID,
		GoogleCivicElectionID: vg.GoogleCivicElectionID,
		VoteSmartTimeSpan:     vg.VoteSmartTimeSpan,
		DisplayName:           vg.DisplayName,
		ImageURL:              vg.ImageURL,
		TwitterHandle:         vg.TwitterHandle,
		TwitterDescription:    vg.TwitterDescription,
		TwitterFollowersCount: vg.TwitterFollowersCount,
		LastUpdated:           vg.LastUpdated,
	}
}

func fromEntities(guides []*entity.VoterGuide) []*DTO {
	out := make([]*DTO, 0, len(guides))
	for _, vg := range guides {
		out = append(out, fromEntity(vg))
	}
	return out
}

// UpsertResponse is the envelope for create-or-update outcomes.
type UpsertResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Created       bool   `json:"voter_guide_created"`
	MultipleFound bool   `json:"multiple_found"`
	VoterGuide    *DTO   `json:"voter_guide,omitempty"`
}

// RetrieveResponse is the envelope for single-guide lookups.
type RetrieveResponse struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Found         bool   `json:"voter_guide_found"`
	MultipleFound bool   `json:"multiple_found,omitempty"`
	VoterGuide    *DTO   `json:"voter_guide,omitempty"`
}

// ExistsResponse reports whether a guide exists for a key pair.
type ExistsResponse struct {
	Success          bool `json:"success"`
	VoterGuideExists bool `json:"voter_guide_exists"`
}

// ListResponse is the envelope for listing queries.
type ListResponse struct {
	Success     bool   `json:"success"`
	Status      string `json:"status"`
	Found       bool   `json:"voter_guides_found"`
	VoterGuides []*DTO `json:"voter_guides"`
}

// DeleteResponse reports whether a deletion actually occurred.
type DeleteResponse struct {
	Success bool  `json:"success"`
	Deleted bool  `json:"voter_guide_deleted"`
	ID      int64 `json:"id"`
}
