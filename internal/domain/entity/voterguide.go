// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as VoterGuide and VoterGuidePossibility,
// along with their invariants and domain-specific errors.
package entity

import (
	"strconv"
	"strings"
	"time"
)

// OwnerKind identifies which category of real-world entity a voter guide is
// attributed to. Stored as a single character for compatibility with data
// shared across deployments.
type OwnerKind string

const (
	OwnerOrganization OwnerKind = "O"
	OwnerPublicFigure OwnerKind = "P"
	OwnerVoter        OwnerKind = "V"
	OwnerUnknown      OwnerKind = "U"
)

// Valid reports whether the owner kind is one of the recognized values.
func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerOrganization, OwnerPublicFigure, OwnerVoter, OwnerUnknown:
		return true
	}
	return false
}

// VoterGuide represents one published slate of positions attributed to a
// single speaker (an organization, public figure, or individual voter).
//
// The WeVoteID identifier is unique across all deployments and allows guide
// data to be shared with other servers. It is assigned exactly once, on first
// successful save, and is immutable afterwards.
//
// Exactly one owner reference is populated per record, consistent with
// OwnerType: OrganizationWeVoteID, PublicFigureWeVoteID, OwnerWeVoteID, or
// the legacy OwnerVoterID. The scope of the guide is identified either by
// GoogleCivicElectionID or by VoteSmartTimeSpan, never both for the same
// conceptual guide series.
type VoterGuide struct {
	ID        int64
	WeVoteID  string
	OwnerType OwnerKind

	OrganizationWeVoteID string
	PublicFigureWeVoteID string
	OwnerWeVoteID        string
	// Deprecated in the upstream data model; kept for records that predate
	// string owner identifiers.
	OwnerVoterID int64

	GoogleCivicElectionID int64
	VoteSmartTimeSpan     string

	// Cached display fields, denormalized from the owning entity and
	// refreshed lazily.
	DisplayName           string
	ImageURL              string
	TwitterHandle         string
	TwitterDescription    string
	TwitterFollowersCount int64

	LastUpdated time.Time
}

// NormalizeWeVoteID trims surrounding whitespace and lowercases a permanent
// identifier. Applied before every save so that lookups by WeVoteID are
// stable regardless of how the value arrived.
func NormalizeWeVoteID(weVoteID string) string {
	return strings.ToLower(strings.TrimSpace(weVoteID))
}

// TimeSpanYear returns the leading four digits of a time-span string as an
// integer, e.g. "2015-2016" -> 2015. Returns 0 when the string does not start
// with four digits. The dedup collapsing rule compares spans on this value
// alone; ties are deliberately left unresolved.
func TimeSpanYear(timeSpan string) int {
	if len(timeSpan) < 4 {
		return 0
	}
	year, err := strconv.Atoi(timeSpan[:4])
	if err != nil {
		return 0
	}
	return year
}

// HasOwner reports whether any owner reference is populated.
func (vg *VoterGuide) HasOwner() bool {
	return vg.OrganizationWeVoteID != "" || vg.PublicFigureWeVoteID != "" ||
		vg.OwnerWeVoteID != "" || vg.OwnerVoterID > 0
}

// TimeSpanScoped reports whether the guide is scoped by a time span rather
// than an election.
func (vg *VoterGuide) TimeSpanScoped() bool {
	return vg.VoteSmartTimeSpan != ""
}
