package usecase

import (
	"testing"

	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/domain/stats"
)

// Betis (rank 16) is a lower-half opponent; Eibar (2) sits in the upper
// half and Granada (19) in the lower, per the fixture table.

func teamVecWithGoals(n float64) stats.Vector {
	v := stats.NewTeamVector()
	v[stats.TeamGoalScored] = n
	return v
}

func TestFallback_NoComparableMatches(t *testing.T) {
	f := NewFallbackEstimator(testResolver())

	_, _, ok, err := f.Estimate(homeTeam, awayTeam, testLeague, testSeason, historyDate(30), match.Lineup{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if ok {
		t.Fatalf("expected no estimate without prior rich matches")
	}
}

func TestFallback_FiltersByOpponentClass(t *testing.T) {
	f := NewFallbackEstimator(testResolver())

	f.RecordRichMatch(homeTeam, testSeason, historyDate(0), "Eibar", teamVecWithGoals(1), nil)
	f.RecordRichMatch(homeTeam, testSeason, historyDate(7), "Granada", teamVecWithGoals(3), nil)
	f.RecordRichMatch(homeTeam, testSeason, historyDate(14), "Granada", teamVecWithGoals(5), nil)

	// Betis is a lower-half opponent, so only the two Granada matches
	// are comparable.
	vec, _, ok, err := f.Estimate(homeTeam, awayTeam, testLeague, testSeason, historyDate(30), match.Lineup{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !ok {
		t.Fatalf("expected comparable matches")
	}
	if got := vec[stats.TeamGoalScored]; got != 4 {
		t.Fatalf("expected mean of the two lower-half matches, got %v", got)
	}

	// Against an upper-half opponent only the Eibar match counts.
	vec, _, ok, err = f.Estimate(homeTeam, "Eibar", testLeague, testSeason, historyDate(30), match.Lineup{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !ok {
		t.Fatalf("expected comparable matches")
	}
	if got := vec[stats.TeamGoalScored]; got != 1 {
		t.Fatalf("expected the upper-half match mean, got %v", got)
	}
}

func TestFallback_IgnoresLaterMatches(t *testing.T) {
	f := NewFallbackEstimator(testResolver())

	f.RecordRichMatch(homeTeam, testSeason, historyDate(0), "Granada", teamVecWithGoals(2), nil)
	f.RecordRichMatch(homeTeam, testSeason, historyDate(20), "Granada", teamVecWithGoals(8), nil)

	vec, _, ok, err := f.Estimate(homeTeam, awayTeam, testLeague, testSeason, historyDate(10), match.Lineup{})
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !ok {
		t.Fatalf("expected one comparable match")
	}
	if got := vec[stats.TeamGoalScored]; got != 2 {
		t.Fatalf("later matches must not leak into the estimate, got %v", got)
	}
}

func TestFallback_UnknownOpponentRank(t *testing.T) {
	f := NewFallbackEstimator(testResolver())

	if _, _, _, err := f.Estimate(homeTeam, "Osasuna", testLeague, testSeason, historyDate(10), match.Lineup{}); err == nil {
		t.Fatalf("expected rank resolution failure")
	}
}

func TestFallback_PlayerRowsNeedMinutes(t *testing.T) {
	f := NewFallbackEstimator(testResolver())

	played := stats.NewPlayerVector()
	played[stats.PlayerGoalScored] = 2
	played[stats.PlayerTimePlayed] = 90

	benched := stats.NewPlayerVector()
	benched[stats.PlayerGoalScored] = 5

	f.RecordRichMatch(homeTeam, testSeason, historyDate(0), "Granada", teamVecWithGoals(1),
		map[identity.PlayerID]stats.Vector{playerID("h-att1"): played})
	f.RecordRichMatch(homeTeam, testSeason, historyDate(7), "Granada", teamVecWithGoals(1),
		map[identity.PlayerID]stats.Vector{playerID("h-att1"): benched})

	lineup := match.Lineup{Starters: []string{"h-att1"}}
	_, players, ok, err := f.Estimate(homeTeam, awayTeam, testLeague, testSeason, historyDate(30), lineup)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !ok || len(players) != 1 {
		t.Fatalf("expected a single estimated player, got %v / %d", ok, len(players))
	}
	if got := players[0].Stats[stats.PlayerGoalScored]; got != 2 {
		t.Fatalf("zero-minute rows must be skipped, got %v", got)
	}
	if got := players[0].Stats[stats.PlayerTimePlayed]; got != 90 {
		t.Fatalf("unexpected estimated minutes: %v", got)
	}
}

func TestFallback_MeansOverComparables(t *testing.T) {
	f := NewFallbackEstimator(testResolver())

	one := stats.NewPlayerVector()
	one[stats.PlayerGoalScored] = 1
	one[stats.PlayerTimePlayed] = 90
	three := stats.NewPlayerVector()
	three[stats.PlayerGoalScored] = 3
	three[stats.PlayerTimePlayed] = 60

	f.RecordRichMatch(homeTeam, testSeason, historyDate(0), "Granada", teamVecWithGoals(1),
		map[identity.PlayerID]stats.Vector{playerID("h-mid1"): one})
	f.RecordRichMatch(homeTeam, testSeason, historyDate(7), "Granada", teamVecWithGoals(3),
		map[identity.PlayerID]stats.Vector{playerID("h-mid1"): three})

	lineup := match.Lineup{Starters: []string{"h-mid1"}}
	vec, players, ok, err := f.Estimate(homeTeam, awayTeam, testLeague, testSeason, historyDate(30), lineup)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if !ok {
		t.Fatalf("expected comparable matches")
	}
	if got := vec[stats.TeamGoalScored]; got != 2 {
		t.Fatalf("expected team mean 2, got %v", got)
	}
	if got := players[0].Stats[stats.PlayerGoalScored]; got != 2 {
		t.Fatalf("expected player mean 2, got %v", got)
	}
	if got := players[0].Stats[stats.PlayerTimePlayed]; got != 75 {
		t.Fatalf("expected minute mean 75, got %v", got)
	}
}
