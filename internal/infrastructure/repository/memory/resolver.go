package memory

import (
	"fmt"

	"github.com/pitchstats/matchform/internal/domain/identity"
)

type nameKey struct {
	name   string
	season int
	team   string
}

// ResolverEntry is one row of the pre-built name-resolution table.
type ResolverEntry struct {
	Name     string
	Season   int
	Team     string
	ID       identity.PlayerID
	Position identity.Position
}

// TableEntry is one team's final league-table rank for a season.
type TableEntry struct {
	Team   string
	Season int
	Rank   int
}

// Resolver is the in-memory identity lookup, built once from the feed's
// lookup tables and read-only afterwards.
type Resolver struct {
	names     map[nameKey]identity.PlayerID
	positions map[identity.PlayerID]identity.Position
	ranks     map[teamKey]int
}

func NewResolver(entries []ResolverEntry, table []TableEntry) *Resolver {
	r := &Resolver{
		names:     make(map[nameKey]identity.PlayerID, len(entries)),
		positions: make(map[identity.PlayerID]identity.Position, len(entries)),
		ranks:     make(map[teamKey]int, len(table)),
	}
	for _, e := range entries {
		r.names[nameKey{e.Name, e.Season, e.Team}] = e.ID
		r.positions[e.ID] = e.Position
	}
	for _, t := range table {
		r.ranks[teamKey{t.Team, t.Season}] = t.Rank
	}
	return r
}

func (r *Resolver) Resolve(name string, season int, team string) (identity.PlayerID, error) {
	id, ok := r.names[nameKey{name, season, team}]
	if !ok {
		return "", fmt.Errorf("resolve %q (%q, season %d): %w", name, team, season, identity.ErrNotFound)
	}
	return id, nil
}

func (r *Resolver) PositionOf(id identity.PlayerID) (identity.Position, error) {
	pos, ok := r.positions[id]
	if !ok {
		return "", fmt.Errorf("position of %s: %w", id, identity.ErrNotFound)
	}
	return pos, nil
}

func (r *Resolver) TableRank(team string, season int) (int, error) {
	rank, ok := r.ranks[teamKey{team, season}]
	if !ok {
		return 0, fmt.Errorf("table rank of %q season %d: %w", team, season, identity.ErrNotFound)
	}
	return rank, nil
}
