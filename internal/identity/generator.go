// Package identity generates permanent, globally unique identifiers for
// voter guides. An identifier combines a per-deployment site prefix with a
// monotonically increasing integer held in durable storage, so values survive
// process restarts and never repeat for a given prefix. The sequence is not
// guaranteed gap-free.
package identity

import (
	"context"
	"fmt"

	"voter-guides/internal/repository"
)

// VoterGuideSequence is the durable sequence name backing voter guide ids.
const VoterGuideSequence = "voter_guide"

// Generator produces prefixed voter guide identifiers of the form
// wv<site prefix>vg<n>.
type Generator struct {
	sitePrefix string
	sequences  repository.SequenceRepository
}

// NewGenerator creates a Generator over the given durable sequence store.
func NewGenerator(sitePrefix string, sequences repository.SequenceRepository) *Generator {
	return &Generator{sitePrefix: sitePrefix, sequences: sequences}
}

// NextVoterGuideID returns the next voter guide identifier. Concurrent calls
// are serialized by the sequence store's atomic increment.
func (g *Generator) NextVoterGuideID(ctx context.Context) (string, error) {
	next, err := g.sequences.Next(ctx, VoterGuideSequence)
	if err != nil {
		return "", fmt.Errorf("next voter guide id: %w", err)
	}
	// "wv" marks the shared id space, the site prefix identifies one
	// deployment, "vg" marks the voter guide id family.
	return fmt.Sprintf("wv%svg%d", g.sitePrefix, next), nil
}
