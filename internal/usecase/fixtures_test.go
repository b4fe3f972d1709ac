package usecase

import (
	"strings"
	"time"

	"github.com/pitchstats/matchform/internal/domain/event"
	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/infrastructure/repository/memory"
)

const (
	testSeason = 2016
	testLeague = "SP1"
	homeTeam   = "Alaves"
	awayTeam   = "Betis"
)

var testKickoff = time.Date(2016, time.August, 20, 0, 0, 0, 0, time.UTC)

func teamNames(prefix string) (starters, subs []string) {
	starters = []string{
		prefix + "-gk",
		prefix + "-def1", prefix + "-def2", prefix + "-def3", prefix + "-def4",
		prefix + "-mid1", prefix + "-mid2", prefix + "-mid3", prefix + "-mid4",
		prefix + "-att1", prefix + "-att2",
	}
	subs = []string{prefix + "-sub-gk", prefix + "-sub-mid", prefix + "-sub-att"}
	return starters, subs
}

func positionFor(name string) identity.Position {
	switch {
	case strings.Contains(name, "gk"):
		return identity.PositionGoalkeeper
	case strings.Contains(name, "def"):
		return identity.PositionDefender
	case strings.Contains(name, "mid"):
		return identity.PositionMidfielder
	default:
		return identity.PositionAttacker
	}
}

func playerID(name string) identity.PlayerID {
	return identity.PlayerID("id-" + name)
}

func testResolver() *memory.Resolver {
	var entries []memory.ResolverEntry
	add := func(team, prefix string) {
		starters, subs := teamNames(prefix)
		for _, name := range append(starters, subs...) {
			entries = append(entries, memory.ResolverEntry{
				Name:     name,
				Season:   testSeason,
				Team:     team,
				ID:       playerID(name),
				Position: positionFor(name),
			})
		}
	}
	add(homeTeam, "h")
	add(awayTeam, "a")

	table := []memory.TableEntry{
		{Team: homeTeam, Season: testSeason, Rank: 3},
		{Team: awayTeam, Season: testSeason, Rank: 16},
		{Team: "Eibar", Season: testSeason, Rank: 2},
		{Team: "Granada", Season: testSeason, Rank: 19},
	}
	return memory.NewResolver(entries, table)
}

func testSheet() match.Sheet {
	hs, hb := teamNames("h")
	as, ab := teamNames("a")
	return match.Sheet{
		Home: match.Lineup{Starters: hs, Substitutes: hb},
		Away: match.Lineup{Starters: as, Substitutes: ab},
	}
}

func testMatch(id string, day int, adv bool) match.Match {
	return match.Match{
		ID:               id,
		Season:           testSeason,
		League:           testLeague,
		Date:             testKickoff.AddDate(0, 0, day),
		HomeTeam:         homeTeam,
		AwayTeam:         awayTeam,
		HomeGoals:        1,
		AwayGoals:        0,
		HasAdvancedStats: adv,
	}
}

func testRecord(id string, day int, events []event.MatchEvent) match.Record {
	return match.Record{
		Match:  testMatch(id, day, true),
		Sheet:  testSheet(),
		Events: events,
	}
}

func homeEvent(kind event.Kind, player string, minute int) event.MatchEvent {
	return event.MatchEvent{
		EventID:  "ev",
		MatchID:  "m1",
		Kind:     kind,
		Team:     homeTeam,
		Opponent: awayTeam,
		Player:   player,
		Minute:   minute,
	}
}

func testAccumulator() *Accumulator {
	return NewAccumulator(testResolver(), NewRoundLedger(), NewRoundLedger(), 2)
}
