package event

// Kind is the primary event type carried by the feed.
type Kind int

const (
	KindNone         Kind = 0
	KindAttempt      Kind = 1
	KindCorner       Kind = 2
	KindFoul         Kind = 3
	KindYellowCard   Kind = 4
	KindSecondYellow Kind = 5
	KindStraightRed  Kind = 6
	KindSubstitution Kind = 7
	KindFreeKickWon  Kind = 8
	KindOffside      Kind = 9
	KindHandBall     Kind = 10
	KindPenalty      Kind = 11
)

// SecondaryKind is the feed's secondary tag. Key passes and offside passes
// annotate the second player; own goals flip the attribution side.
type SecondaryKind int

const (
	SecondaryNone        SecondaryKind = 0
	SecondaryKeyPass     SecondaryKind = 12
	SecondaryOffsidePass SecondaryKind = 13
	SecondaryOwnGoal     SecondaryKind = 15
)

// Situation is the shot build-up classification (1..4 in the feed).
type Situation int

const (
	SituationNone     Situation = 0
	SituationOpenPlay Situation = 1
	SituationSetPiece Situation = 2
	SituationCorner   Situation = 3
	SituationFreeKick Situation = 4
)

// LocationBucket folds the feed's 18 shot-location codes into six zones.
// Code 19 means "not recorded" and yields ok=false, as does any unknown code.
func LocationBucket(code int) (LocationZone, bool) {
	zone, ok := locationZones[code]
	return zone, ok
}

type LocationZone int

const (
	ZoneMiddle LocationZone = iota
	ZoneDifficult
	ZoneEasy
	ZoneWing
	ZoneSmallerBoxSide
	ZoneBoxSide
	ZoneCount
)

var locationZones = map[int]LocationZone{
	1:  ZoneMiddle,
	2:  ZoneDifficult,
	3:  ZoneEasy,
	4:  ZoneWing,
	5:  ZoneWing,
	6:  ZoneDifficult,
	7:  ZoneDifficult,
	8:  ZoneDifficult,
	9:  ZoneBoxSide,
	10: ZoneSmallerBoxSide,
	11: ZoneBoxSide,
	12: ZoneSmallerBoxSide,
	13: ZoneEasy,
	14: ZoneEasy,
	15: ZoneMiddle,
	16: ZoneDifficult,
	17: ZoneDifficult,
	18: ZoneDifficult,
}

// MatchEvent is one row of a match's event log. Immutable once loaded.
type MatchEvent struct {
	EventID   string
	MatchID   string
	Kind      Kind
	Secondary SecondaryKind
	Team      string
	Opponent  string
	Player    string
	Player2   string
	PlayerIn  string
	PlayerOut string
	Minute    int
	Location  int
	Situation Situation
	IsGoal    bool
	OnTarget  bool
	Text      string
}

// IsOwnGoal reports whether the event carries the own-goal secondary tag.
func (e MatchEvent) IsOwnGoal() bool {
	return e.Secondary == SecondaryOwnGoal
}
