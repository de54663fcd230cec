package repository

import (
	"context"

	"voter-guides/internal/domain/entity"
)

// VoterGuidePossibilityRepository provides storage access for voter guide
// possibilities, the URL-keyed staging records that precede full guides.
// Single-row lookups follow the same (nil, nil) / ErrMultipleFound convention
// as VoterGuideRepository.
type VoterGuidePossibilityRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.VoterGuidePossibility, error)
	GetByURL(ctx context.Context, url string) (*entity.VoterGuidePossibility, error)
	GetByURLAndElection(ctx context.Context, url string, electionID int64) (*entity.VoterGuidePossibility, error)
	GetByOrganizationAndElection(ctx context.Context, organizationWeVoteID string, electionID int64) (*entity.VoterGuidePossibility, error)
	GetByPublicFigureAndElection(ctx context.Context, publicFigureWeVoteID string, electionID int64) (*entity.VoterGuidePossibility, error)
	GetByOwnerAndElection(ctx context.Context, ownerWeVoteID string, electionID int64) (*entity.VoterGuidePossibility, error)

	Create(ctx context.Context, possibility *entity.VoterGuidePossibility) error
	Update(ctx context.Context, possibility *entity.VoterGuidePossibility) error
	Delete(ctx context.Context, id int64) error
}
