package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitchstats/matchform/internal/domain/event"
)

func writeFeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeBaseFeed(t *testing.T, dir string) {
	writeFeedFile(t, dir, matchesFile, `[
		{"id": "m2", "season": 2016, "league": "SP1", "date": "2016-08-27",
		 "home_team": "Betis", "away_team": "Alaves", "home_goals": 0, "away_goals": 0, "adv_stats": false},
		{"id": "m1", "season": 2016, "league": "SP1", "date": "2016-08-20",
		 "home_team": "Alaves", "away_team": "Betis", "home_goals": 2, "away_goals": 1, "adv_stats": true}
	]`)
	writeFeedFile(t, dir, lineupsFile, `[
		{"match_id": "m1",
		 "home_starters": ["h1", "h2"], "home_subs": ["h3"],
		 "away_starters": ["a1"], "away_subs": []},
		{"match_id": "m2",
		 "home_starters": ["a1"], "home_subs": [],
		 "away_starters": ["h1"], "away_subs": []}
	]`)
	writeFeedFile(t, dir, eventsFile, `[
		{"id": "e1", "match_id": "m1", "kind": 1, "team": "Alaves", "opponent": "Betis",
		 "player": "h1", "minute": 12, "location": 1, "situation": 1, "is_goal": true, "on_target": true},
		{"id": "e2", "match_id": "m1", "kind": 7, "team": "Alaves", "opponent": "Betis",
		 "player_in": "h3", "player_out": "h2", "minute": 60, "text": "Substitution, Alaves."}
	]`)
}

func TestLoader_ListJoinsAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeBaseFeed(t, dir)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	recs, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.Equal(t, "m1", recs[0].Match.ID, "records must come out date sorted")
	require.Equal(t, "m2", recs[1].Match.ID)

	m1 := recs[0]
	require.Equal(t, "Alaves", m1.Match.HomeTeam)
	require.Equal(t, 2, m1.Match.HomeGoals)
	require.True(t, m1.Match.HasAdvancedStats)
	require.Equal(t, "2016-08-20", m1.Match.Date.Format(dateLayout))
	require.Equal(t, []string{"h1", "h2"}, m1.Sheet.Home.Starters)
	require.Equal(t, []string{"h3"}, m1.Sheet.Home.Substitutes)

	require.Len(t, m1.Events, 2)
	require.Equal(t, event.KindAttempt, m1.Events[0].Kind)
	require.True(t, m1.Events[0].IsGoal)
	require.Equal(t, event.KindSubstitution, m1.Events[1].Kind)
	require.Equal(t, "h3", m1.Events[1].PlayerIn)
	require.Equal(t, "h2", m1.Events[1].PlayerOut)

	require.Empty(t, recs[1].Events)
}

func TestLoader_AdvancedStatsRequireEvents(t *testing.T) {
	dir := t.TempDir()
	writeBaseFeed(t, dir)
	writeFeedFile(t, dir, eventsFile, `[]`)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	_, err = l.List(context.Background())
	require.ErrorContains(t, err, "no events")
}

func TestLoader_MissingLineupFails(t *testing.T) {
	dir := t.TempDir()
	writeBaseFeed(t, dir)
	writeFeedFile(t, dir, lineupsFile, `[
		{"match_id": "m1", "home_starters": ["h1"], "home_subs": [], "away_starters": ["a1"], "away_subs": []}
	]`)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	_, err = l.List(context.Background())
	require.ErrorContains(t, err, "no lineup row")
}

func TestLoader_RejectsInvalidEventRow(t *testing.T) {
	dir := t.TempDir()
	writeBaseFeed(t, dir)
	writeFeedFile(t, dir, eventsFile, `[
		{"id": "e1", "match_id": "m1", "kind": 99, "team": "Alaves", "opponent": "Betis", "minute": 12}
	]`)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	_, err = l.List(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "e1")
}

func TestLoader_RepairsDropAndPatch(t *testing.T) {
	dir := t.TempDir()
	writeBaseFeed(t, dir)
	writeFeedFile(t, dir, matchesFile, `[
		{"id": "m1", "season": 2016, "league": "SP1", "date": "2016-08-20",
		 "home_team": "Alaves", "away_team": "Betis", "home_goals": 2, "away_goals": 1, "adv_stats": true},
		{"id": "m9", "season": 2015, "league": "SP1", "date": "2015-08-20",
		 "home_team": "Alaves", "away_team": "Betis", "home_goals": 1, "away_goals": 1, "adv_stats": false}
	]`)
	writeFeedFile(t, dir, repairsFile, `{
		"drop_seasons": [{"league": "SP1", "season": 2015}],
		"lineup_patches": [
			{"match_id": "m1", "side": "home", "role": "starter", "index": 1, "name": "h2-fixed"}
		]
	}`)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	recs, err := l.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1, "the 2015 season must be dropped")
	require.Equal(t, "m1", recs[0].Match.ID)
	require.Equal(t, []string{"h1", "h2-fixed"}, recs[0].Sheet.Home.Starters)
}

func TestLoader_Lookups(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, playersFile, `[
		{"name": "h1", "season": 2016, "team": "Alaves", "player_id": "id-h1", "position": "Attacker"},
		{"name": "a1", "season": 2016, "team": "Betis", "player_id": "id-a1", "position": "Goalkeeper"}
	]`)
	writeFeedFile(t, dir, tablesFile, `[
		{"team": "Alaves", "season": 2016, "rank": 9}
	]`)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	entries, table, err := l.Lookups()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "id-h1", string(entries[0].ID))
	require.Equal(t, "Goalkeeper", string(entries[1].Position))
	require.Len(t, table, 1)
	require.Equal(t, 9, table[0].Rank)
}

func TestLoader_LookupsRejectUnknownPosition(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, playersFile, `[
		{"name": "h1", "season": 2016, "team": "Alaves", "player_id": "id-h1", "position": "Libero"}
	]`)
	writeFeedFile(t, dir, tablesFile, `[]`)

	l, err := NewLoader(dir, 2, nil)
	require.NoError(t, err)

	_, _, err = l.Lookups()
	require.Error(t, err)
}
