package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"

	"github.com/pitchstats/matchform/internal/domain/event"
	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/domain/stats"
)

const fullMatchMinutes = 90

type playerSeasonKey struct {
	id     identity.PlayerID
	season int
}

type injuryMark struct {
	days float64
	date time.Time
}

// Accumulator turns one match's event log into finalized round records for
// both teams and every lineup member. It owns the team and player round
// ledgers and the cross-match injury bookkeeping, so a single Accumulator
// must process the whole batch in chronological order.
type Accumulator struct {
	resolver    identity.Resolver
	teams       *RoundLedger
	players     *RoundLedger
	initWorkers int
	injuries    map[playerSeasonKey]injuryMark
}

func NewAccumulator(resolver identity.Resolver, teams, players *RoundLedger, initWorkers int) *Accumulator {
	if initWorkers <= 0 {
		initWorkers = 4
	}
	return &Accumulator{
		resolver:    resolver,
		teams:       teams,
		players:     players,
		initWorkers: initWorkers,
		injuries:    make(map[playerSeasonKey]injuryMark),
	}
}

// MatchResult carries one match's finalized records.
type MatchResult struct {
	Home      *stats.TeamRecord
	Away      *stats.TeamRecord
	HomeRound int
	AwayRound int
	Players   []*stats.PlayerRecord
	Keepers   []*stats.KeeperRecord

	roster map[identity.PlayerID]stats.Vector
}

// RosterVector returns a participant's finalized stat vector.
func (r *MatchResult) RosterVector(id identity.PlayerID) (stats.Vector, bool) {
	vec, ok := r.roster[id]
	return vec, ok
}

// matchState is the mutable working set for one match.
type matchState struct {
	m        match.Match
	sheet    match.Sheet
	resolver identity.Resolver

	home *stats.TeamRecord
	away *stats.TeamRecord

	participants   map[identity.PlayerID]*participant
	order          []*participant
	playerRecs     map[identity.PlayerID]*stats.PlayerRecord
	keeperRecs     map[identity.PlayerID]*stats.KeeperRecord
	startingKeeper map[string]*participant
	bench          map[string][]*participant
	ejectedAt      map[identity.PlayerID]int

	homeRound int
	awayRound int
}

// ProcessMatch applies the full event log of one match and finalizes every
// touched record. Ledgers are only committed on success; a failed match
// leaves no partial state behind.
func (a *Accumulator) ProcessMatch(ctx context.Context, rec match.Record) (*MatchResult, error) {
	_, span := startPipelineSpan(ctx, "usecase.Accumulator.ProcessMatch")
	defer span.End()

	s := &matchState{
		m:              rec.Match,
		sheet:          rec.Sheet,
		resolver:       a.resolver,
		participants:   make(map[identity.PlayerID]*participant),
		playerRecs:     make(map[identity.PlayerID]*stats.PlayerRecord),
		keeperRecs:     make(map[identity.PlayerID]*stats.KeeperRecord),
		startingKeeper: make(map[string]*participant),
		bench:          make(map[string][]*participant),
		ejectedAt:      make(map[identity.PlayerID]int),
	}

	s.homeRound = a.teams.Peek(rec.Match.HomeTeam, rec.Match.Season)
	s.awayRound = a.teams.Peek(rec.Match.AwayTeam, rec.Match.Season)
	s.home = stats.NewTeamRecord(rec.Match.HomeTeam, rec.Match.Season, s.homeRound, rec.Match.Date)
	s.away = stats.NewTeamRecord(rec.Match.AwayTeam, rec.Match.Season, s.awayRound, rec.Match.Date)
	s.home.Stats[stats.TeamGamesPlayed] = 1
	s.home.Stats[stats.TeamGamesPlayedHome] = 1
	s.away.Stats[stats.TeamGamesPlayed] = 1
	s.away.Stats[stats.TeamGamesPlayedAway] = 1

	if err := a.initParticipants(s); err != nil {
		return nil, err
	}

	for _, ev := range rec.Events {
		ae, err := s.attribute(ev)
		if err != nil {
			return nil, err
		}
		s.apply(ae)
	}

	if err := s.finalize(a); err != nil {
		return nil, err
	}

	if err := a.teams.Commit(rec.Match.HomeTeam, rec.Match.Season, s.homeRound); err != nil {
		return nil, err
	}
	if err := a.teams.Commit(rec.Match.AwayTeam, rec.Match.Season, s.awayRound); err != nil {
		return nil, err
	}
	for _, p := range s.order {
		if err := a.players.Commit(string(p.id), rec.Match.Season, p.round); err != nil {
			return nil, err
		}
	}

	return s.result(), nil
}

type lineupSlot struct {
	name    string
	team    string
	starter bool
}

type resolvedSlot struct {
	slot lineupSlot
	id   identity.PlayerID
	pos  identity.Position
}

// initParticipants resolves every sheet name and creates zeroed records.
// Resolution is independent per player and runs on a small worker pool;
// round assignment stays sequential because the ledger is single-writer.
func (a *Accumulator) initParticipants(s *matchState) error {
	slots := make([]lineupSlot, 0, 46)
	appendSide := func(l match.Lineup, team string) {
		for _, name := range l.Starters {
			if name != "" {
				slots = append(slots, lineupSlot{name: name, team: team, starter: true})
			}
		}
		for _, name := range l.Substitutes {
			if name != "" {
				slots = append(slots, lineupSlot{name: name, team: team})
			}
		}
	}
	appendSide(s.sheet.Home, s.m.HomeTeam)
	appendSide(s.sheet.Away, s.m.AwayTeam)

	mapper := iter.Mapper[lineupSlot, resolvedSlot]{MaxGoroutines: a.initWorkers}
	resolved, err := mapper.MapErr(slots, func(slot *lineupSlot) (resolvedSlot, error) {
		id, err := a.resolver.Resolve(slot.name, s.m.Season, slot.team)
		if err != nil {
			return resolvedSlot{}, errors.Wrapf(ErrAttribution,
				"match %s: lineup name %q unresolved for %q season %d", s.m.ID, slot.name, slot.team, s.m.Season)
		}
		pos, err := a.resolver.PositionOf(id)
		if err != nil {
			return resolvedSlot{}, errors.Wrapf(ErrAttribution,
				"match %s: player %s has no registered position", s.m.ID, id)
		}
		return resolvedSlot{slot: *slot, id: id, pos: pos}, nil
	})
	if err != nil {
		return err
	}

	for _, r := range resolved {
		if _, dup := s.participants[r.id]; dup {
			continue
		}
		p := &participant{
			id:       r.id,
			name:     r.slot.name,
			team:     r.slot.team,
			position: r.pos,
			round:    a.players.Peek(string(r.id), s.m.Season),
			starter:  r.slot.starter,
		}
		s.participants[r.id] = p
		s.order = append(s.order, p)
		if p.keeper() {
			s.keeperRecs[r.id] = stats.NewKeeperRecord(r.id, p.name, s.m.Season, p.round, s.m.Date, p.team)
			if p.starter && s.startingKeeper[p.team] == nil {
				s.startingKeeper[p.team] = p
			}
		} else {
			s.playerRecs[r.id] = stats.NewPlayerRecord(r.id, p.name, s.m.Season, p.round, s.m.Date, p.team)
		}
		if !p.starter {
			s.bench[p.team] = append(s.bench[p.team], p)
		}
	}
	return nil
}

func (s *matchState) teamRecord(team string) *stats.TeamRecord {
	if team == s.m.HomeTeam {
		return s.home
	}
	return s.away
}

// statVec returns the participant's raw vector, keeper or outfield.
func (s *matchState) statVec(p *participant) stats.Vector {
	if p.keeper() {
		return s.keeperRecs[p.id].Stats
	}
	return s.playerRecs[p.id].Stats
}

// apply runs the dispatch table for one attributed event. Effects are not
// mutually exclusive: a goal is also a shot, and the attempt branch runs in
// addition to the goal branch.
func (s *matchState) apply(ae attributedEvent) {
	ev := ae.ev
	evRec := s.teamRecord(ae.team)
	opRec := s.teamRecord(ae.opponent)
	evHome := ae.team == s.m.HomeTeam
	hoaEv := stats.HomeAwayOffset(evHome)
	hoaOp := stats.HomeAwayOffset(!evHome)

	if ev.IsGoal {
		evRec.Stats[stats.TeamGoalScored]++
		evRec.Stats[stats.TeamGoalScored+hoaEv]++
		opRec.Stats[stats.TeamGoalConceded]++
		opRec.Stats[stats.TeamGoalConceded+hoaOp]++
		evRec.Stats[stats.TeamAttempts]++
		s.applyShotBreakdown(ev, evRec, opRec)
		s.creditFacingKeeper(ae.opponent, !evHome, true, false)

		if ev.IsOwnGoal() {
			opRec.Stats[stats.TeamOwnGoals]++
			if ae.actor != nil && !ae.actor.keeper() {
				s.statVec(ae.actor)[stats.PlayerOwnGoals]++
			}
		} else if ae.actor != nil && !ae.actor.keeper() {
			vec := s.statVec(ae.actor)
			vec[stats.PlayerGoalScored]++
			vec[stats.PlayerGoalScored+hoaEv]++
		}
	}

	switch ev.Secondary {
	case event.SecondaryKeyPass:
		if ae.second != nil && !ae.second.keeper() {
			s.statVec(ae.second)[stats.PlayerKeyPasses]++
		}
	case event.SecondaryOffsidePass:
		if ae.second != nil && !ae.second.keeper() {
			s.statVec(ae.second)[stats.PlayerOffsidePass]++
		}
	}

	switch ev.Kind {
	case event.KindAttempt:
		evRec.Stats[stats.TeamAttempts]++
		s.applyShotBreakdown(ev, evRec, opRec)
		if ae.actor != nil && !ae.actor.keeper() {
			s.statVec(ae.actor)[stats.PlayerAttempts]++
		}
		if ev.OnTarget {
			evRec.Stats[stats.TeamShotsOnTarget]++
			if ae.actor != nil && !ae.actor.keeper() {
				s.statVec(ae.actor)[stats.PlayerShotsOnTarget]++
				if !ev.IsGoal {
					s.creditFacingKeeper(ae.opponent, !evHome, false, true)
				}
			}
		}

	case event.KindCorner:
		evRec.Stats[stats.TeamCornersWon]++
		opRec.Stats[stats.TeamCornersConceded]++
		// Feed convention: the named player is the conceding defender.
		if ae.actor != nil && !ae.actor.keeper() {
			s.statVec(ae.actor)[stats.PlayerCornersConceded]++
		}

	case event.KindFoul:
		evRec.Stats[stats.TeamFouls]++
		if ae.actor != nil {
			s.bump(ae.actor, stats.PlayerFouls, stats.KeeperFouls)
		}

	case event.KindYellowCard:
		evRec.Stats[stats.TeamYellowCards]++
		if ae.actor != nil {
			s.bump(ae.actor, stats.PlayerYellowCards, stats.KeeperYellowCards)
		}

	case event.KindSecondYellow:
		evRec.Stats[stats.TeamYellowCards]++
		evRec.Stats[stats.TeamRedCards]++
		if ae.actor != nil {
			s.bump(ae.actor, stats.PlayerSecondYellow, stats.KeeperSecondYellow)
			s.eject(ae.actor, ev.Minute)
		}

	case event.KindStraightRed:
		evRec.Stats[stats.TeamRedCards]++
		if ae.actor != nil {
			s.bump(ae.actor, stats.PlayerStraightRed, stats.KeeperStraightRed)
			s.eject(ae.actor, ev.Minute)
		}

	case event.KindSubstitution:
		evRec.Stats[stats.TeamSubstitutions]++
		if ae.subIn != nil {
			vec := s.statVec(ae.subIn)
			s.bump(ae.subIn, stats.PlayerSubsIn, stats.KeeperSubsIn)
			writeExitMinute(vec, ev.Minute)
		}
		if ae.subOut != nil {
			vec := s.statVec(ae.subOut)
			s.bump(ae.subOut, stats.PlayerSubsOut, stats.KeeperSubsOut)
			writeExitMinute(vec, ev.Minute)
			if strings.Contains(ev.Text, "injur") {
				s.bump(ae.subOut, stats.PlayerHasInjured, stats.KeeperHasInjured)
			}
		}

	case event.KindFreeKickWon:
		evRec.Stats[stats.TeamFreeKicksWon]++
		opRec.Stats[stats.TeamFreeKicksConceded]++
		if ae.actor != nil && !ae.actor.keeper() {
			s.statVec(ae.actor)[stats.PlayerFreeKicksWon]++
		}

	case event.KindOffside:
		evRec.Stats[stats.TeamOffsides]++
		if ae.actor != nil && !ae.actor.keeper() {
			s.statVec(ae.actor)[stats.PlayerOffsides]++
		}

	case event.KindHandBall:
		if ae.actor != nil && !ae.actor.keeper() {
			s.statVec(ae.actor)[stats.PlayerHandBall]++
		}

	case event.KindPenalty:
		// Feed convention: the event team is the side conceding the penalty.
		evRec.Stats[stats.TeamPenaltiesConceded]++
		opRec.Stats[stats.TeamPenaltiesWon]++
	}
}

// bump increments the matching counter in whichever schema the participant
// uses.
func (s *matchState) bump(p *participant, playerIdx, keeperIdx int) {
	if p.keeper() {
		s.statVec(p)[keeperIdx]++
		return
	}
	s.statVec(p)[playerIdx]++
}

// eject flags a card-forced exit. The ejection minute wins over any later
// substitution bookkeeping for the same player.
func (s *matchState) eject(p *participant, minute int) {
	s.bump(p, stats.PlayerSubsOut, stats.KeeperSubsOut)
	writeExitMinute(s.statVec(p), minute)
	if _, seen := s.ejectedAt[p.id]; !seen {
		s.ejectedAt[p.id] = minute
	}
}

// writeExitMinute stores an in-match timestamp in the time_played slot.
// The first write records the minute; a second write (sub-in then sub-out)
// turns it into the minutes actually played between the two.
func writeExitMinute(vec stats.Vector, minute int) {
	if vec[stats.TimePlayedIndex] == 0 {
		vec[stats.TimePlayedIndex] = float64(minute)
		return
	}
	vec[stats.TimePlayedIndex] = float64(minute) - vec[stats.TimePlayedIndex]
}

func (s *matchState) applyShotBreakdown(ev event.MatchEvent, evRec, opRec *stats.TeamRecord) {
	if zone, ok := event.LocationBucket(ev.Location); ok {
		evRec.Stats[stats.TeamShotZoneIndex(zone, false)]++
		opRec.Stats[stats.TeamShotZoneIndex(zone, true)]++
	}
	if idx, ok := stats.TeamSituationIndex(ev.Situation, false); ok {
		evRec.Stats[idx]++
		cidx, _ := stats.TeamSituationIndex(ev.Situation, true)
		opRec.Stats[cidx]++
	}
}

// creditFacingKeeper credits a save or a concede to whichever goalkeeper
// was on the pitch for the defending side. If the starting keeper has been
// substituted off, the bench is scanned in listed order for a keeper who
// came on and has not gone off; when the feed leaves no eligible keeper,
// the keeper-level credit is dropped while team counters stand.
func (s *matchState) creditFacingKeeper(team string, teamIsHome bool, conceded, saved bool) {
	keeper := s.startingKeeper[team]
	if keeper != nil && s.statVec(keeper)[stats.KeeperSubsOut] == 0 {
		s.creditKeeper(keeper, teamIsHome, conceded, saved)
		return
	}
	for _, p := range s.bench[team] {
		if !p.keeper() {
			continue
		}
		vec := s.statVec(p)
		if vec[stats.KeeperSubsIn] != 0 && vec[stats.KeeperSubsOut] == 0 {
			s.creditKeeper(p, teamIsHome, conceded, saved)
			return
		}
	}
}

func (s *matchState) creditKeeper(p *participant, teamIsHome, conceded, saved bool) {
	vec := s.statVec(p)
	if conceded {
		vec[stats.KeeperGoalConceded]++
		vec[stats.KeeperGoalConceded+stats.HomeAwayOffset(teamIsHome)]++
		vec[stats.KeeperShotsOnTarget]++
	}
	if saved {
		vec[stats.KeeperShotsSaved]++
		vec[stats.KeeperShotsOnTarget]++
	}
}

// finalize reconciles minutes and injury counters for every participant.
func (s *matchState) finalize(a *Accumulator) error {
	for _, p := range s.order {
		vec := s.statVec(p)
		subsInIdx, subsOutIdx := stats.PlayerSubsIn, stats.PlayerSubsOut
		hasPlayedIdx, injuredIdx, daysIdx := stats.PlayerHasPlayed, stats.PlayerHasInjured, stats.PlayerDaysWithoutInjury
		ejected := vec[stats.PlayerSecondYellow] != 0 || vec[stats.PlayerStraightRed] != 0
		if p.keeper() {
			subsInIdx, subsOutIdx = stats.KeeperSubsIn, stats.KeeperSubsOut
			hasPlayedIdx, injuredIdx, daysIdx = stats.KeeperHasPlayed, stats.KeeperHasInjured, stats.KeeperDaysWithoutInjury
			ejected = vec[stats.KeeperSecondYellow] != 0 || vec[stats.KeeperStraightRed] != 0
		}

		subsIn, subsOut := vec[subsInIdx], vec[subsOutIdx]
		if subsOut != 0 && ejected {
			// Ejection takes precedence: drop the substitution flag and pin
			// minutes to the card minute.
			vec[subsOutIdx] = 0
			if minute, ok := s.ejectedAt[p.id]; ok {
				vec[stats.TimePlayedIndex] = float64(minute)
			}
		}
		if subsIn == 0 && subsOut == 0 && p.starter {
			vec[stats.TimePlayedIndex] = fullMatchMinutes
		} else if subsIn != 0 && subsOut == 0 {
			vec[stats.TimePlayedIndex] = fullMatchMinutes - vec[stats.TimePlayedIndex]
		}
		if vec[stats.TimePlayedIndex] != 0 {
			vec[hasPlayedIdx] = 1
		}

		key := playerSeasonKey{p.id, s.m.Season}
		switch {
		case vec[injuredIdx] != 0:
			vec[daysIdx] = 0
		case p.round == 1:
			vec[daysIdx] = stats.NoInjurySentinel
		default:
			prev, ok := a.injuries[key]
			if !ok {
				return errors.Wrapf(ErrSequencing,
					"match %s: player %s at round %d has no prior injury mark", s.m.ID, p.id, p.round)
			}
			if prev.days == stats.NoInjurySentinel {
				vec[daysIdx] = stats.NoInjurySentinel
			} else {
				vec[daysIdx] = prev.days + daysBetween(prev.date, s.m.Date)
			}
		}
		a.injuries[key] = injuryMark{days: vec[daysIdx], date: s.m.Date}
	}
	return nil
}

func daysBetween(from, to time.Time) float64 {
	return float64(int(to.Sub(from).Hours() / 24))
}

func (s *matchState) result() *MatchResult {
	out := &MatchResult{
		Home:      s.home,
		Away:      s.away,
		HomeRound: s.homeRound,
		AwayRound: s.awayRound,
		roster:    make(map[identity.PlayerID]stats.Vector, len(s.order)),
	}
	for _, p := range s.order {
		if p.keeper() {
			rec := s.keeperRecs[p.id]
			out.Keepers = append(out.Keepers, rec)
			out.roster[p.id] = rec.Stats.Clone()
			continue
		}
		rec := s.playerRecs[p.id]
		out.Players = append(out.Players, rec)
		out.roster[p.id] = rec.Stats.Clone()
	}
	return out
}
