package usecase

import (
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/domain/stats"
)

type richEntry struct {
	date     time.Time
	opponent string
	team     stats.Vector
	roster   map[identity.PlayerID]stats.Vector
}

// FallbackEstimator fills in round records for matches whose feed carries no
// event log. A team's missing match is estimated from its own earlier
// fully-covered matches against comparable opposition: opponents in the same
// half of the table. Only matches finalized before the missing one are
// considered.
type FallbackEstimator struct {
	resolver identity.Resolver
	rich     map[entityKey][]richEntry
}

func NewFallbackEstimator(resolver identity.Resolver) *FallbackEstimator {
	return &FallbackEstimator{resolver: resolver, rich: make(map[entityKey][]richEntry)}
}

// RecordRichMatch stores one finalized fully-covered match as estimation
// material for the team.
func (f *FallbackEstimator) RecordRichMatch(team string, season int, date time.Time, opponent string, teamStats stats.Vector, roster map[identity.PlayerID]stats.Vector) {
	key := entityKey{team, season}
	f.rich[key] = append(f.rich[key], richEntry{date: date, opponent: opponent, team: teamStats, roster: roster})
}

// goodSide reports whether the team sits in the upper half of the table.
func (f *FallbackEstimator) goodSide(team, league string, season int) (bool, error) {
	rank, err := f.resolver.TableRank(team, season)
	if err != nil {
		return false, errors.Wrapf(ErrAttribution, "no table rank for %q season %d", team, season)
	}
	return float64(rank)/float64(identity.DivisionSize(league)) < 0.5, nil
}

// Estimate returns a team round vector and per-lineup-member player vectors
// averaged over the team's comparable prior matches. ok is false when no
// comparable match exists; callers then fall back to zero records.
func (f *FallbackEstimator) Estimate(team, opponent, league string, season int, date time.Time, lineup match.Lineup) (stats.Vector, []PlayerRound, bool, error) {
	opGood, err := f.goodSide(opponent, league, season)
	if err != nil {
		return nil, nil, false, err
	}

	var comparable []richEntry
	for _, e := range f.rich[entityKey{team, season}] {
		if !e.date.Before(date) {
			continue
		}
		g, err := f.goodSide(e.opponent, league, season)
		if err != nil {
			return nil, nil, false, err
		}
		if g == opGood {
			comparable = append(comparable, e)
		}
	}
	if len(comparable) == 0 {
		return nil, nil, false, nil
	}

	teamVec := stats.NewTeamVector()
	for _, e := range comparable {
		teamVec.Add(e.team)
	}
	teamVec.Scale(1 / float64(len(comparable)))

	names := lineup.Names()
	players := make([]PlayerRound, 0, len(names))
	for _, name := range names {
		id, err := f.resolver.Resolve(name, season, team)
		if err != nil {
			return nil, nil, false, errors.Wrapf(ErrAttribution,
				"fallback for %q season %d: lineup name %q unresolved", team, season, name)
		}
		pos, err := f.resolver.PositionOf(id)
		if err != nil {
			return nil, nil, false, errors.Wrapf(ErrAttribution,
				"fallback for %q season %d: player %s has no registered position", team, season, id)
		}
		statLen := stats.PlayerStatCount
		if pos == identity.PositionGoalkeeper {
			statLen = stats.KeeperStatCount
		}

		sum := make(stats.Vector, statLen)
		games := 0.0
		for _, e := range comparable {
			row, ok := e.roster[id]
			if !ok || len(row) != statLen || row[stats.TimePlayedIndex] <= 0 {
				continue
			}
			sum.Add(row)
			games++
		}
		if games > 0 {
			sum.Scale(1 / games)
		}
		players = append(players, PlayerRound{ID: id, Stats: sum})
	}

	return teamVec, players, true, nil
}
