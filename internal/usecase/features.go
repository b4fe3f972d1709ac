package usecase

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/domain/stats"
)

// PlayerRound pairs a lineup member with the stat vector credited to them
// for one match.
type PlayerRound struct {
	ID    identity.PlayerID
	Stats stats.Vector
}

type historyEntry struct {
	outcome match.Outcome
	date    time.Time
	stats   stats.Vector
}

// FeatureBuilder maintains per-(entity, season) match histories, newest
// first, and turns them into leakage-free pre-match feature vectors. A
// match's own records must be appended only after both sides' features have
// been read.
//
// With window > 0 each block carries a season-to-date part and a trailing
// form part over the last window matches, and a team needs window finalized
// matches before features exist at all. With window == 0 only the
// season-to-date part is emitted and a single finalized match suffices.
type FeatureBuilder struct {
	resolver identity.Resolver
	window   int

	teamHistory   map[entityKey][]historyEntry
	playerHistory map[entityKey][]historyEntry
}

func NewFeatureBuilder(resolver identity.Resolver, window int) *FeatureBuilder {
	return &FeatureBuilder{
		resolver:      resolver,
		window:        window,
		teamHistory:   make(map[entityKey][]historyEntry),
		playerHistory: make(map[entityKey][]historyEntry),
	}
}

func resIndex(o match.Outcome) int {
	switch o {
	case match.OutcomeWin:
		return 0
	case match.OutcomeDraw:
		return 1
	default:
		return 2
	}
}

type positionGroup struct {
	position identity.Position
	starter  bool
}

// groupOrder is the fixed block order of the feature vector: starters by
// position, then substitutes by position.
func groupOrder() []positionGroup {
	out := make([]positionGroup, 0, 8)
	for _, starter := range []bool{true, false} {
		for _, pos := range identity.Positions() {
			out = append(out, positionGroup{position: pos, starter: starter})
		}
	}
	return out
}

// AppendHistory records one finalized match for a team and its lineup.
// Entries are kept newest first.
func (b *FeatureBuilder) AppendHistory(team string, season int, date time.Time, outcome match.Outcome, teamStats stats.Vector, players []PlayerRound) {
	key := entityKey{team, season}
	b.teamHistory[key] = prepend(b.teamHistory[key], historyEntry{outcome: outcome, date: date, stats: teamStats})
	for _, p := range players {
		pk := entityKey{string(p.ID), season}
		b.playerHistory[pk] = prepend(b.playerHistory[pk], historyEntry{outcome: outcome, date: date, stats: p.Stats})
	}
}

func prepend(entries []historyEntry, e historyEntry) []historyEntry {
	out := make([]historyEntry, 0, len(entries)+1)
	out = append(out, e)
	return append(out, entries...)
}

// HistoryLen returns how many matches are on record for the team.
func (b *FeatureBuilder) HistoryLen(team string, season int) int {
	return len(b.teamHistory[entityKey{team, season}])
}

// FromHistory builds the pre-match feature vector for one side. ok is false
// when the team's history is too short; an error means a lineup name could
// not be resolved.
func (b *FeatureBuilder) FromHistory(team string, season int, lineup match.Lineup) (stats.Vector, bool, error) {
	hist := b.teamHistory[entityKey{team, season}]
	if len(hist) == 0 {
		return nil, false, nil
	}
	if b.window > 0 && len(hist) < b.window {
		return nil, false, nil
	}

	teamTotal := stats.NewTeamVector()
	teamForm := stats.NewTeamVector()
	resTotal := make(stats.Vector, 3)
	resForm := make(stats.Vector, 3)
	var windowCutoff time.Time
	for i, e := range hist {
		teamTotal.Add(e.stats)
		resTotal[resIndex(e.outcome)]++
		if b.window > 0 && i < b.window {
			// The cutoff ends on the oldest entry inside the window.
			windowCutoff = e.date
			teamForm.Add(e.stats)
			resForm[resIndex(e.outcome)]++
		}
	}
	teamPlayed := float64(len(hist))
	teamTotal.Scale(1 / teamPlayed)
	resTotal.Scale(1 / teamPlayed)

	out := make(stats.Vector, 0, b.featureLen())
	out = append(out, teamTotal...)
	out = append(out, resTotal...)
	if b.window > 0 {
		teamForm.Scale(1 / float64(b.window))
		resForm.Scale(1 / float64(b.window))
		out = append(out, teamForm...)
		out = append(out, resForm...)
	}

	groupTotal := make(map[positionGroup]stats.Vector, 8)
	groupForm := make(map[positionGroup]stats.Vector, 8)
	groupCount := make(map[positionGroup]float64, 8)
	for _, g := range groupOrder() {
		n := stats.PlayerStatCount
		if g.position == identity.PositionGoalkeeper {
			n = stats.KeeperStatCount
		}
		groupTotal[g] = make(stats.Vector, n+3)
		groupForm[g] = make(stats.Vector, n+3)
	}

	addPlayer := func(name string, starter bool) error {
		id, err := b.resolver.Resolve(name, season, team)
		if err != nil {
			return errors.Wrapf(ErrAttribution,
				"features for %q season %d: lineup name %q unresolved", team, season, name)
		}
		pos, err := b.resolver.PositionOf(id)
		if err != nil {
			return errors.Wrapf(ErrAttribution,
				"features for %q season %d: player %s has no registered position", team, season, id)
		}
		statLen := stats.PlayerStatCount
		if pos == identity.PositionGoalkeeper {
			statLen = stats.KeeperStatCount
		}

		total := make(stats.Vector, statLen)
		form := make(stats.Vector, statLen)
		rTotal := make(stats.Vector, 3)
		rForm := make(stats.Vector, 3)
		for _, e := range b.playerHistory[entityKey{string(id), season}] {
			total.Add(e.stats)
			rTotal[resIndex(e.outcome)]++
			if b.window > 0 && !e.date.Before(windowCutoff) {
				form.Add(e.stats)
				rForm[resIndex(e.outcome)]++
			}
		}

		normalizePlayerBlock(total, rTotal, teamPlayed)
		if b.window > 0 {
			normalizePlayerBlock(form, rForm, float64(b.window))
		}
		if pos == identity.PositionGoalkeeper {
			recomputeSavePercent(total)
			if b.window > 0 {
				recomputeSavePercent(form)
			}
		}

		g := positionGroup{position: pos, starter: starter}
		groupTotal[g].Add(append(total, rTotal...))
		groupForm[g].Add(append(form, rForm...))
		groupCount[g]++
		return nil
	}

	for _, name := range lineup.Starters {
		if name == "" {
			continue
		}
		if err := addPlayer(name, true); err != nil {
			return nil, false, err
		}
	}
	for _, name := range lineup.Substitutes {
		if name == "" {
			continue
		}
		if err := addPlayer(name, false); err != nil {
			return nil, false, err
		}
	}

	for _, g := range groupOrder() {
		if n := groupCount[g]; n > 0 {
			groupTotal[g].Scale(1 / n)
			groupForm[g].Scale(1 / n)
		}
		out = append(out, groupTotal[g]...)
		if b.window > 0 {
			out = append(out, groupForm[g]...)
		}
		out = append(out, groupCount[g])
	}

	return out, true, nil
}

// normalizePlayerBlock converts an accumulated raw block into per-90 rates.
// time_played becomes average minutes per team match, has_played becomes the
// participation fraction, and the outcome counts become frequencies. A
// player with zero recorded minutes keeps the raw (all-zero-rate) block.
func normalizePlayerBlock(vec, res stats.Vector, teamPlayed float64) {
	minutes := vec[stats.TimePlayedIndex]
	if minutes <= 0 {
		return
	}
	appearances := vec[len(vec)-1]
	vec.Scale(90 / minutes)
	vec[len(vec)-1] = appearances / teamPlayed
	vec[stats.TimePlayedIndex] = minutes / teamPlayed
	if total := res[0] + res[1] + res[2]; total > 0 {
		res.Scale(1 / total)
	}
}

// recomputeSavePercent rebuilds the save percentage from the aggregated
// saved/conceded counters. The per-match records never carry it, so the
// aggregate slot is zero until this runs.
func recomputeSavePercent(vec stats.Vector) {
	denom := vec[stats.KeeperShotsSaved] + vec[stats.KeeperGoalConceded]
	if denom > 0 {
		vec[stats.KeeperSavePercent] = vec[stats.KeeperShotsSaved] / denom
	}
}

func (b *FeatureBuilder) blockParts() int {
	if b.window > 0 {
		return 2
	}
	return 1
}

// featureLen returns the length of one side's feature vector.
func (b *FeatureBuilder) featureLen() int {
	parts := b.blockParts()
	n := parts * (stats.TeamStatCount + 3)
	n += 2 * (parts*(stats.KeeperStatCount+3) + 1)
	n += 6 * (parts*(stats.PlayerStatCount+3) + 1)
	return n
}

// Columns names every feature column, aligned with the vector layout emitted
// by FromHistory, home side first. The trailing label columns depend on the
// label mode.
func (b *FeatureBuilder) Columns(exactScore bool) []string {
	forms := []string{""}
	if b.window > 0 {
		forms = []string{"total", fmt.Sprintf("last_%d", b.window)}
	}

	out := make([]string, 0, 2*b.featureLen()+2)
	for _, side := range []string{"home", "away"} {
		for _, form := range forms {
			prefix := join(side, "Team", form)
			for _, stat := range stats.TeamStatNames() {
				out = append(out, prefix+"_"+stat)
			}
			out = append(out, prefix+"_wins", prefix+"_draws", prefix+"_lost")
		}
		for _, g := range groupOrder() {
			role := ""
			if !g.starter {
				role = "sub"
			}
			names := stats.PlayerStatNames()
			if g.position == identity.PositionGoalkeeper {
				names = stats.KeeperStatNames()
			}
			for _, form := range forms {
				prefix := join(side, string(g.position), role, form)
				for _, stat := range names {
					out = append(out, prefix+"_"+stat)
				}
				out = append(out, prefix+"_wins", prefix+"_draws", prefix+"_lost")
			}
			out = append(out, join(side, string(g.position), role)+"_n_players")
		}
	}

	if exactScore {
		out = append(out, "home_goals", "away_goals")
	} else {
		out = append(out, "result")
	}
	return out
}

func join(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "_"
		}
		out += p
	}
	return out
}
