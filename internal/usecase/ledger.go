package usecase

import "github.com/cockroachdb/errors"

type entityKey struct {
	entity string
	season int
}

// RoundLedger assigns strictly increasing round numbers to entities within
// a season. Peek is idempotent: the next round stays fixed until Commit
// records the match as finalized. Two independent ledgers exist in the
// pipeline, one for teams and one for players.
type RoundLedger struct {
	last map[entityKey]int
}

func NewRoundLedger() *RoundLedger {
	return &RoundLedger{last: make(map[entityKey]int)}
}

// Peek returns the round to assign to the entity's next match: the number
// of committed rounds plus one.
func (l *RoundLedger) Peek(entity string, season int) int {
	return l.last[entityKey{entity, season}] + 1
}

// Commit records round as the entity's last finalized round. Rounds must be
// committed contiguously from 1; anything else is a sequencing violation.
func (l *RoundLedger) Commit(entity string, season int, round int) error {
	key := entityKey{entity, season}
	if round != l.last[key]+1 {
		return errors.Wrapf(ErrSequencing,
			"commit round %d for %q season %d, last finalized %d", round, entity, season, l.last[key])
	}
	l.last[key] = round
	return nil
}

// Count returns how many rounds have been finalized for the entity.
func (l *RoundLedger) Count(entity string, season int) int {
	return l.last[entityKey{entity, season}]
}
