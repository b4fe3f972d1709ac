package usecase

import (
	"github.com/cockroachdb/errors"

	"github.com/pitchstats/matchform/internal/domain/event"
	"github.com/pitchstats/matchform/internal/domain/identity"
)

// participant is one lineup member of the match being processed. Round
// numbers are fixed once at lineup initialization and reused for every
// event referencing the player.
type participant struct {
	id       identity.PlayerID
	name     string
	team     string
	position identity.Position
	round    int
	starter  bool
}

func (p *participant) keeper() bool {
	return p.position == identity.PositionGoalkeeper
}

// attributedEvent is one event with sides corrected and every player
// reference resolved to a lineup participant.
type attributedEvent struct {
	ev       event.MatchEvent
	team     string // true acting side, after any swap
	opponent string
	actor    *participant // nil when the event names no player
	second   *participant // nil when absent or unresolvable (not an error)
	subIn    *participant
	subOut   *participant
}

// attribute resolves one raw event against the match roster.
//
// Own-goal and corner events list the player under the side the feed
// credits, which is the opposite of the side the player belongs to; for
// those the opponent is tried first and a hit on the nominal side swaps
// the acting team.
func (s *matchState) attribute(ev event.MatchEvent) (attributedEvent, error) {
	team, opponent := ev.Team, ev.Opponent
	if team == s.m.AwayTeam && opponent == s.m.HomeTeam {
		// ok, away side acting
	} else if team != s.m.HomeTeam || opponent != s.m.AwayTeam {
		return attributedEvent{}, errors.Wrapf(ErrInvalidFeed,
			"match %s: event %s names sides %q/%q", s.m.ID, ev.EventID, ev.Team, ev.Opponent)
	}

	out := attributedEvent{ev: ev, team: team, opponent: opponent}

	if ev.Player != "" {
		swapped := ev.Kind == event.KindCorner || ev.IsOwnGoal()
		first, second := team, opponent
		if swapped {
			first, second = opponent, team
		}
		actor, found, err := s.findParticipant(ev, ev.Player, first, second)
		if err != nil {
			return attributedEvent{}, err
		}
		out.actor = actor
		// The acting side is always the one opposite the actor for swapped
		// kinds, and the actor's own side otherwise.
		if swapped {
			out.opponent = found
			out.team = s.otherTeam(found)
		} else {
			out.team = found
			out.opponent = s.otherTeam(found)
		}
	}

	if ev.Player2 != "" && ev.Kind != event.KindCorner {
		// Secondary references (key-pass targets and the like) are soft:
		// most events legitimately have none that resolves.
		out.second = s.softFind(ev.Player2, out.team)
	}

	if ev.Kind == event.KindSubstitution {
		if ev.PlayerIn != "" {
			p, _, err := s.findParticipant(ev, ev.PlayerIn, out.team, out.opponent)
			if err != nil {
				return attributedEvent{}, err
			}
			out.subIn = p
		}
		if ev.PlayerOut != "" {
			p, _, err := s.findParticipant(ev, ev.PlayerOut, out.team, out.opponent)
			if err != nil {
				return attributedEvent{}, err
			}
			out.subOut = p
		}
	}

	return out, nil
}

// findParticipant resolves a raw name against the first candidate team,
// then the second. Resolution must land on a player initialized from the
// match sheet; failure on both sides is a hard error.
func (s *matchState) findParticipant(ev event.MatchEvent, name, first, second string) (*participant, string, error) {
	for _, team := range []string{first, second} {
		id, err := s.resolver.Resolve(name, s.m.Season, team)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				continue
			}
			return nil, "", err
		}
		if p, ok := s.participants[id]; ok {
			return p, team, nil
		}
	}
	return nil, "", errors.Wrapf(ErrAttribution,
		"match %s: event %s kind %d: player %q not on sheet for %q or %q (season %d)",
		s.m.ID, ev.EventID, ev.Kind, name, first, second, s.m.Season)
}

// softFind resolves a secondary reference against the acting team only.
func (s *matchState) softFind(name, team string) *participant {
	id, err := s.resolver.Resolve(name, s.m.Season, team)
	if err != nil {
		return nil
	}
	p, ok := s.participants[id]
	if !ok || p.team != team {
		return nil
	}
	return p
}

func (s *matchState) otherTeam(team string) string {
	if team == s.m.HomeTeam {
		return s.m.AwayTeam
	}
	return s.m.HomeTeam
}
