// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "github.com/pdiddy/instruction-engine/pkg/types"

const (
	initialScore = 100

	// imagePenalty is applied once when a document embeds any image.
	imagePenalty = 20

	// fallbackPenalty is applied per table that had no list items and was
	// searched for manual numbering instead.
	fallbackPenalty = 50
)

// Score is the running quality score of one conversion. It is not clamped:
// enough penalties drive it below zero.
type Score struct {
	value  int
	ledger []types.Penalty
}

func newScore() *Score {
	return &Score{value: initialScore}
}

// Penalize subtracts points and records why.
func (s *Score) Penalize(points int, reason string) {
	s.value -= points
	s.ledger = append(s.ledger, types.Penalty{Reason: reason, Points: points})
}

// Value returns the current score.
func (s *Score) Value() int { return s.value }

// Penalties returns a copy of the deductions applied so far, oldest first.
func (s *Score) Penalties() []types.Penalty {
	if len(s.ledger) == 0 {
		return nil
	}
	out := make([]types.Penalty, len(s.ledger))
	copy(out, s.ledger)
	return out
}
