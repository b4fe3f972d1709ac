package feed

// Repairs describes known feed defects fixed at load time: whole
// league-seasons with unusable coverage, and individual lineup cells the
// upstream export got wrong.
type Repairs struct {
	DropSeasons   []LeagueSeason `json:"drop_seasons"`
	LineupPatches []LineupPatch  `json:"lineup_patches"`
}

type LeagueSeason struct {
	League string `json:"league"`
	Season int    `json:"season"`
}

// LineupPatch replaces one lineup cell of one match. Side is "home" or
// "away", Role is "starter" or "sub", Index counts from 0.
type LineupPatch struct {
	MatchID string `json:"match_id"`
	Side    string `json:"side" validate:"oneof=home away"`
	Role    string `json:"role" validate:"oneof=starter sub"`
	Index   int    `json:"index" validate:"min=0"`
	Name    string `json:"name"`
}

func (r Repairs) dropped(league string, season int) bool {
	for _, d := range r.DropSeasons {
		if d.League == league && d.Season == season {
			return true
		}
	}
	return false
}

func (r Repairs) apply(row *lineupRow) {
	for _, p := range r.LineupPatches {
		if p.MatchID != row.MatchID {
			continue
		}
		var slots []string
		switch {
		case p.Side == "home" && p.Role == "starter":
			slots = row.HomeStarters
		case p.Side == "home" && p.Role == "sub":
			slots = row.HomeSubs
		case p.Side == "away" && p.Role == "starter":
			slots = row.AwayStarters
		default:
			slots = row.AwaySubs
		}
		if p.Index < len(slots) {
			slots[p.Index] = p.Name
		}
	}
}
