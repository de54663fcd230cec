package entity

import "time"

// VoterGuidePossibility is a staging record for a URL that might hold a voter
// guide. Volunteers submit candidate URLs; the record accumulates identifying
// information until it is superseded by a full VoterGuide, or deleted as
// spam. The URL is the only field guaranteed present.
type VoterGuidePossibility struct {
	ID  int64
	URL string

	OrganizationWeVoteID string
	PublicFigureWeVoteID string
	OwnerWeVoteID        string
	OwnerType            OwnerKind

	GoogleCivicElectionID int64

	LastUpdated time.Time
}
