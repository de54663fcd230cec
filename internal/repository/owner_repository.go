package repository

import "context"

// Organization is the read-only projection of an owning organization used to
// denormalize display fields onto voter guides. The owner store itself is an
// external collaborator; this core never writes to it.
type Organization struct {
	WeVoteID              string
	Name                  string
	PhotoURL              string
	TwitterHandle         string
	TwitterDescription    string
	TwitterFollowersCount int64
}

// OrganizationRepository looks up owner organizations by permanent id.
// GetByWeVoteID returns (nil, nil) when the organization is not present
// locally; callers treat that as non-fatal.
type OrganizationRepository interface {
	GetByWeVoteID(ctx context.Context, weVoteID string) (*Organization, error)
}

// Election is one entry of the election catalog.
type Election struct {
	GoogleCivicElectionID int64
	Name                  string
	ElectionDay           string
}

// ElectionRepository exposes the election catalog, ordered most recent first.
type ElectionRepository interface {
	ListByDateDesc(ctx context.Context) ([]Election, error)
}

// SequenceRepository is the durable counter behind permanent id generation.
// Next must atomically increment and return the counter value; two concurrent
// calls never observe the same value for one sequence name.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
