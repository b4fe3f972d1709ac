package identity

// PlayerID is the stable canonical identity assigned by the upstream
// name-resolution service.
type PlayerID string

// Position is a player's registered role.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionAttacker   Position = "Attacker"
)

// Positions lists all roles in the canonical feature-block order.
func Positions() []Position {
	return []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionAttacker}
}

// DivisionSize returns the number of teams in a league. The Bundesliga
// ("D1") runs 18 teams; every other covered league runs 20.
func DivisionSize(league string) int {
	if league == "D1" {
		return 18
	}
	return 20
}
