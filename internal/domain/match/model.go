package match

import "time"

// Match is one fixture's metadata as carried by the feed.
type Match struct {
	ID               string
	Season           int
	League           string
	Date             time.Time
	HomeTeam         string
	AwayTeam         string
	HomeGoals        int
	AwayGoals        int
	HasAdvancedStats bool
}

// Lineup is one side's sheet: eleven starters plus a bench of up to twelve.
type Lineup struct {
	Starters    []string
	Substitutes []string
}

// Names returns starters followed by substitutes, blanks removed.
func (l Lineup) Names() []string {
	out := make([]string, 0, len(l.Starters)+len(l.Substitutes))
	for _, name := range l.Starters {
		if name != "" {
			out = append(out, name)
		}
	}
	for _, name := range l.Substitutes {
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Contains reports whether name appears anywhere on the sheet.
func (l Lineup) Contains(name string) bool {
	if name == "" {
		return false
	}
	for _, n := range l.Starters {
		if n == name {
			return true
		}
	}
	for _, n := range l.Substitutes {
		if n == name {
			return true
		}
	}
	return false
}

// Sheet holds both sides' lineups for one match.
type Sheet struct {
	Home Lineup
	Away Lineup
}

// Outcome classifies a final score from one side's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "X"
	OutcomeLoss Outcome = "L"
)

// Outcomes returns the home and away outcome for a final score.
func Outcomes(homeGoals, awayGoals int) (home, away Outcome) {
	switch {
	case homeGoals > awayGoals:
		return OutcomeWin, OutcomeLoss
	case homeGoals < awayGoals:
		return OutcomeLoss, OutcomeWin
	default:
		return OutcomeDraw, OutcomeDraw
	}
}
