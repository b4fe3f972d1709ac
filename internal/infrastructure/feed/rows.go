package feed

// Wire rows for the file feed. Field names follow the upstream export.

type matchRow struct {
	ID        string `json:"id" validate:"required"`
	Season    int    `json:"season" validate:"required"`
	League    string `json:"league" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	HomeTeam  string `json:"home_team" validate:"required"`
	AwayTeam  string `json:"away_team" validate:"required"`
	HomeGoals int    `json:"home_goals" validate:"min=0"`
	AwayGoals int    `json:"away_goals" validate:"min=0"`
	AdvStats  bool   `json:"adv_stats"`
}

type lineupRow struct {
	MatchID      string   `json:"match_id" validate:"required"`
	HomeStarters []string `json:"home_starters" validate:"max=11"`
	HomeSubs     []string `json:"home_subs" validate:"max=12"`
	AwayStarters []string `json:"away_starters" validate:"max=11"`
	AwaySubs     []string `json:"away_subs" validate:"max=12"`
}

type eventRow struct {
	ID        string `json:"id" validate:"required"`
	MatchID   string `json:"match_id" validate:"required"`
	Kind      int    `json:"kind" validate:"min=0,max=11"`
	Secondary int    `json:"secondary" validate:"omitempty,oneof=12 13 15"`
	Team      string `json:"team" validate:"required"`
	Opponent  string `json:"opponent" validate:"required"`
	Player    string `json:"player"`
	Player2   string `json:"player2"`
	PlayerIn  string `json:"player_in"`
	PlayerOut string `json:"player_out"`
	Minute    int    `json:"minute" validate:"min=0"`
	Location  int    `json:"location" validate:"min=0"`
	Situation int    `json:"situation" validate:"min=0,max=4"`
	IsGoal    bool   `json:"is_goal"`
	OnTarget  bool   `json:"on_target"`
	Text      string `json:"text"`
}

type playerRow struct {
	Name     string `json:"name" validate:"required"`
	Season   int    `json:"season" validate:"required"`
	Team     string `json:"team" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
	Position string `json:"position" validate:"oneof=Goalkeeper Defender Midfielder Attacker"`
}

type tableRow struct {
	Team   string `json:"team" validate:"required"`
	Season int    `json:"season" validate:"required"`
	Rank   int    `json:"rank" validate:"min=1"`
}
