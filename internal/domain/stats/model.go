package stats

import (
	"time"

	"github.com/pitchstats/matchform/internal/domain/event"
	"github.com/pitchstats/matchform/internal/domain/identity"
)

// Team stat vector layout. The home/away splits sit directly after their
// base counter so HomeAwayOffset can address them.
const (
	TeamGamesPlayed = iota
	TeamGamesPlayedHome
	TeamGamesPlayedAway
	TeamGoalScored
	TeamGoalScoredHome
	TeamGoalScoredAway
	TeamGoalConceded
	TeamGoalConcededHome
	TeamGoalConcededAway
	TeamOwnGoals
	TeamAttempts
	TeamShotsOnTarget
	TeamFouls
	TeamFreeKicksWon
	TeamFreeKicksConceded
	TeamCornersWon
	TeamCornersConceded
	TeamPenaltiesWon
	TeamPenaltiesConceded
	TeamOffsides
	TeamYellowCards
	TeamRedCards
	TeamSubstitutions
	TeamOpenPlayMade
	TeamOpenPlayConceded
	TeamSetPieceMade
	TeamSetPieceConceded
	TeamCornerMade
	TeamCornerConceded
	TeamFreeKickMade
	TeamFreeKickConceded
	TeamShotMadeMiddle
	TeamShotConcededMiddle
	TeamShotMadeDifficult
	TeamShotConcededDifficult
	TeamShotMadeEasy
	TeamShotConcededEasy
	TeamShotMadeWing
	TeamShotConcededWing
	TeamShotMadeSmallerBoxSide
	TeamShotConcededSmallerBoxSide
	TeamShotMadeBoxSide
	TeamShotConcededBoxSide
	TeamStatCount
)

// Player stat vector layout. TimePlayed at index 12 and HasPlayed last are
// relied on by the per-90 normalization in the feature builder.
const (
	PlayerGoalScored = iota
	PlayerGoalScoredHome
	PlayerGoalScoredAway
	PlayerAttempts
	PlayerCornersConceded
	PlayerFouls
	PlayerYellowCards
	PlayerSecondYellow
	PlayerStraightRed
	PlayerFreeKicksWon
	PlayerOffsides
	PlayerKeyPasses
	PlayerTimePlayed
	PlayerSubsIn
	PlayerSubsOut
	PlayerHandBall
	PlayerOffsidePass
	PlayerHasInjured
	PlayerOwnGoals
	PlayerShotsOnTarget
	PlayerDaysWithoutInjury
	PlayerHasPlayed
	PlayerStatCount
)

// Goalkeeper stat vector layout. SavePercent/ShotsSaved/GoalConceded at
// indices 5/6/7 feed the save-percentage recomputation; TimePlayed shares
// index 12 with the player layout.
const (
	KeeperFouls = iota
	KeeperYellowCards
	KeeperSecondYellow
	KeeperStraightRed
	KeeperHasInjured
	KeeperSavePercent
	KeeperShotsSaved
	KeeperGoalConceded
	KeeperGoalConcededHome
	KeeperGoalConcededAway
	KeeperSubsIn
	KeeperSubsOut
	KeeperTimePlayed
	KeeperShotsOnTarget
	KeeperOwnGoals
	KeeperDaysWithoutInjury
	KeeperHasPlayed
	KeeperStatCount
)

// TimePlayedIndex is shared by the player and goalkeeper layouts.
const TimePlayedIndex = 12

// NoInjurySentinel marks "no recorded injury this season".
const NoInjurySentinel = 10000

// HomeAwayOffset addresses the _home/_away split that follows a base
// counter in the team and keeper layouts.
func HomeAwayOffset(home bool) int {
	if home {
		return 1
	}
	return 2
}

// TeamSituationIndex returns the made (or conceded) counter for a shot
// situation.
func TeamSituationIndex(sit event.Situation, conceded bool) (int, bool) {
	if sit < event.SituationOpenPlay || sit > event.SituationFreeKick {
		return 0, false
	}
	idx := TeamOpenPlayMade + 2*(int(sit)-1)
	if conceded {
		idx++
	}
	return idx, true
}

// TeamShotZoneIndex returns the made (or conceded) counter for a shot
// location zone.
func TeamShotZoneIndex(zone event.LocationZone, conceded bool) int {
	idx := TeamShotMadeMiddle + 2*int(zone)
	if conceded {
		idx++
	}
	return idx
}

// Vector is a fixed-schedule stat vector. Entries are float64 because every
// downstream consumer does averaging and per-90 scaling.
type Vector []float64

func NewTeamVector() Vector   { return make(Vector, TeamStatCount) }
func NewPlayerVector() Vector { return make(Vector, PlayerStatCount) }
func NewKeeperVector() Vector { return make(Vector, KeeperStatCount) }

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Add accumulates other into v. Lengths must match.
func (v Vector) Add(other Vector) {
	for i := range other {
		v[i] += other[i]
	}
}

// Scale multiplies every entry in place.
func (v Vector) Scale(f float64) {
	for i := range v {
		v[i] *= f
	}
}

// TeamRecord is one team's aggregate for one round of a season.
type TeamRecord struct {
	Name   string
	Season int
	Round  int
	Date   time.Time
	Stats  Vector
}

func NewTeamRecord(name string, season, round int, date time.Time) *TeamRecord {
	return &TeamRecord{Name: name, Season: season, Round: round, Date: date, Stats: NewTeamVector()}
}

// PlayerRecord is one outfield player's aggregate for one round.
type PlayerRecord struct {
	ID     identity.PlayerID
	Name   string
	Season int
	Round  int
	Date   time.Time
	Team   string
	Stats  Vector
}

func NewPlayerRecord(id identity.PlayerID, name string, season, round int, date time.Time, team string) *PlayerRecord {
	return &PlayerRecord{ID: id, Name: name, Season: season, Round: round, Date: date, Team: team, Stats: NewPlayerVector()}
}

// KeeperRecord is one goalkeeper's aggregate for one round.
type KeeperRecord struct {
	ID     identity.PlayerID
	Name   string
	Season int
	Round  int
	Date   time.Time
	Team   string
	Stats  Vector
}

func NewKeeperRecord(id identity.PlayerID, name string, season, round int, date time.Time, team string) *KeeperRecord {
	return &KeeperRecord{ID: id, Name: name, Season: season, Round: round, Date: date, Team: team, Stats: NewKeeperVector()}
}

var teamStatNames = []string{
	"games_played", "games_played_home", "games_played_away",
	"goal_scored", "goal_scored_home", "goal_scored_away",
	"goal_conceded", "goal_conceded_home", "goal_conceded_away",
	"own_goals", "attempts", "shots_on_target",
	"fouls", "free_kicks_won", "free_kicks_conceded",
	"corners_won", "corners_conceded",
	"penalties_won", "penalties_conceded",
	"offsides", "yellow_cards", "red_cards", "substitutions",
	"open_play_made", "open_play_conceded",
	"set_piece_made", "set_piece_conceded",
	"corner_made", "corner_conceded",
	"free_kick_made", "free_kick_conceded",
	"shot_made_middle", "shot_conceded_middle",
	"shot_made_difficult", "shot_conceded_difficult",
	"shot_made_easy", "shot_conceded_easy",
	"shot_made_wing", "shot_conceded_wing",
	"shot_made_smaller_box_side", "shot_conceded_smaller_box_side",
	"shot_made_box_side", "shot_conceded_box_side",
}

var playerStatNames = []string{
	"goal_scored", "goal_scored_home", "goal_scored_away",
	"attempts", "corners_conceded", "fouls",
	"yellow_cards", "second_yellow_card", "straight_red_card",
	"free_kicks_won", "offsides", "key_passes",
	"time_played", "subs_in", "subs_out",
	"hand_ball", "offside_pass", "has_injured",
	"own_goals", "shots_on_target", "days_without_injury", "has_played",
}

var keeperStatNames = []string{
	"fouls", "yellow_cards", "second_yellow_card", "straight_red_card",
	"has_injured", "shots_saved_percent", "shots_saved",
	"goal_conceded", "goal_conceded_home", "goal_conceded_away",
	"subs_in", "subs_out", "time_played",
	"shots_on_target", "own_goals", "days_without_injury", "has_played",
}

// TeamStatNames returns the team schema in vector order.
func TeamStatNames() []string { return teamStatNames }

// PlayerStatNames returns the outfield-player schema in vector order.
func PlayerStatNames() []string { return playerStatNames }

// KeeperStatNames returns the goalkeeper schema in vector order.
func KeeperStatNames() []string { return keeperStatNames }

// StatsMap pairs schema names with vector values, for serialization.
func StatsMap(names []string, v Vector) map[string]float64 {
	out := make(map[string]float64, len(names))
	for i, name := range names {
		out[name] = v[i]
	}
	return out
}

// VectorFromMap rebuilds a vector from a named payload. Missing names stay
// zero.
func VectorFromMap(names []string, payload map[string]float64) Vector {
	out := make(Vector, len(names))
	for i, name := range names {
		out[i] = payload[name]
	}
	return out
}
