package feed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"

	"github.com/pitchstats/matchform/internal/domain/event"
	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/infrastructure/repository/memory"
	"github.com/pitchstats/matchform/internal/platform/logging"
)

const (
	matchesFile = "matches.json"
	lineupsFile = "lineups.json"
	eventsFile  = "events.json"
	playersFile = "players.json"
	tablesFile  = "tables.json"
	repairsFile = "repairs.json"
)

const dateLayout = "2006-01-02"

// Loader reads the file-based feed export: match index, lineups, event logs
// and the identity lookup tables, all as JSON arrays in one directory. An
// optional repairs.json patches known upstream defects before anything else
// sees the data.
type Loader struct {
	dir      string
	workers  int
	validate *validator.Validate
	repairs  Repairs
	log      *logging.Logger
}

func NewLoader(dir string, workers int, log *logging.Logger) (*Loader, error) {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = logging.Default()
	}
	l := &Loader{
		dir:      dir,
		workers:  workers,
		validate: validator.New(),
		log:      log,
	}

	raw, err := os.ReadFile(filepath.Join(dir, repairsFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", repairsFile, err)
		}
		return l, nil
	}
	if err := sonic.Unmarshal(raw, &l.repairs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", repairsFile, err)
	}
	return l, nil
}

// List implements match.Feed: the joined batch, sorted by date.
func (l *Loader) List(ctx context.Context) ([]match.Record, error) {
	matchRows, err := readRows[matchRow](filepath.Join(l.dir, matchesFile))
	if err != nil {
		return nil, err
	}
	lineupRows, err := readRows[lineupRow](filepath.Join(l.dir, lineupsFile))
	if err != nil {
		return nil, err
	}
	eventRows, err := readRows[eventRow](filepath.Join(l.dir, eventsFile))
	if err != nil {
		return nil, err
	}

	for i := range matchRows {
		if err := l.validate.Struct(matchRows[i]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", matchesFile, i, err)
		}
	}
	lineups := make(map[string]lineupRow, len(lineupRows))
	for i := range lineupRows {
		if err := l.validate.Struct(lineupRows[i]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", lineupsFile, i, err)
		}
		l.repairs.apply(&lineupRows[i])
		lineups[lineupRows[i].MatchID] = lineupRows[i]
	}

	events, err := l.convertEvents(eventRows)
	if err != nil {
		return nil, err
	}
	byMatch := make(map[string][]event.MatchEvent)
	for _, ev := range events {
		byMatch[ev.MatchID] = append(byMatch[ev.MatchID], ev)
	}

	out := make([]match.Record, 0, len(matchRows))
	dropped := 0
	for _, row := range matchRows {
		if l.repairs.dropped(row.League, row.Season) {
			dropped++
			continue
		}
		date, err := time.ParseInLocation(dateLayout, row.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("match %s: bad date %q: %w", row.ID, row.Date, err)
		}
		lu, ok := lineups[row.ID]
		if !ok {
			return nil, fmt.Errorf("match %s: no lineup row", row.ID)
		}
		evs := byMatch[row.ID]
		if row.AdvStats && len(evs) == 0 {
			return nil, fmt.Errorf("match %s: flagged with advanced stats but has no events", row.ID)
		}

		out = append(out, match.Record{
			Match: match.Match{
				ID:               row.ID,
				Season:           row.Season,
				League:           row.League,
				Date:             date,
				HomeTeam:         row.HomeTeam,
				AwayTeam:         row.AwayTeam,
				HomeGoals:        row.HomeGoals,
				AwayGoals:        row.AwayGoals,
				HasAdvancedStats: row.AdvStats,
			},
			Sheet: match.Sheet{
				Home: match.Lineup{Starters: lu.HomeStarters, Substitutes: lu.HomeSubs},
				Away: match.Lineup{Starters: lu.AwayStarters, Substitutes: lu.AwaySubs},
			},
			Events: evs,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match.Date.Before(out[j].Match.Date)
	})

	l.log.InfoContext(ctx, "feed loaded",
		"matches", len(out), "dropped", dropped, "events", len(events))
	return out, nil
}

// convertEvents validates and converts event rows on a worker pool. Row
// order is preserved.
func (l *Loader) convertEvents(rows []eventRow) ([]event.MatchEvent, error) {
	out := make([]event.MatchEvent, len(rows))
	errs := make([]error, len(rows))

	pool, err := ants.NewPool(l.workers)
	if err != nil {
		return nil, fmt.Errorf("event pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range rows {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := l.validate.Struct(rows[i]); err != nil {
				errs[i] = err
				return
			}
			row := rows[i]
			out[i] = event.MatchEvent{
				EventID:   row.ID,
				MatchID:   row.MatchID,
				Kind:      event.Kind(row.Kind),
				Secondary: event.SecondaryKind(row.Secondary),
				Team:      row.Team,
				Opponent:  row.Opponent,
				Player:    row.Player,
				Player2:   row.Player2,
				PlayerIn:  row.PlayerIn,
				PlayerOut: row.PlayerOut,
				Minute:    row.Minute,
				Location:  row.Location,
				Situation: event.Situation(row.Situation),
				IsGoal:    row.IsGoal,
				OnTarget:  row.OnTarget,
				Text:      row.Text,
			}
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s row %d (%s): %w", eventsFile, i, rows[i].ID, err)
		}
	}
	return out, nil
}

// Lookups reads the identity tables backing the in-memory resolver.
func (l *Loader) Lookups() ([]memory.ResolverEntry, []memory.TableEntry, error) {
	playerRows, err := readRows[playerRow](filepath.Join(l.dir, playersFile))
	if err != nil {
		return nil, nil, err
	}
	tableRows, err := readRows[tableRow](filepath.Join(l.dir, tablesFile))
	if err != nil {
		return nil, nil, err
	}

	entries := make([]memory.ResolverEntry, 0, len(playerRows))
	for i, row := range playerRows {
		if err := l.validate.Struct(row); err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", playersFile, i, err)
		}
		entries = append(entries, memory.ResolverEntry{
			Name:     row.Name,
			Season:   row.Season,
			Team:     row.Team,
			ID:       identity.PlayerID(row.PlayerID),
			Position: identity.Position(row.Position),
		})
	}

	table := make([]memory.TableEntry, 0, len(tableRows))
	for i, row := range tableRows {
		if err := l.validate.Struct(row); err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", tablesFile, i, err)
		}
		table = append(table, memory.TableEntry{Team: row.Team, Season: row.Season, Rank: row.Rank})
	}
	return entries, table, nil
}

func readRows[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	var rows []T
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
