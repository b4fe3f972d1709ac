package identity

import "errors"

// ErrNotFound is returned when a name/team/season combination has no
// canonical identity, or an identity has no registered position or rank.
var ErrNotFound = errors.New("identity not found")

// Resolver is the pre-built name-resolution lookup. Implementations are
// read-only during processing.
type Resolver interface {
	// Resolve maps a raw event/lineup name to a canonical identity for the
	// given season and team. Returns ErrNotFound when the combination is
	// unknown.
	Resolve(name string, season int, team string) (PlayerID, error)

	// PositionOf returns the registered position of an identity.
	PositionOf(id PlayerID) (Position, error)

	// TableRank returns the team's final league-table rank for a season,
	// counted from 1.
	TableRank(team string, season int) (int, error)
}
