package usecase

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/match"
	"github.com/pitchstats/matchform/internal/domain/stats"
	"github.com/pitchstats/matchform/internal/platform/logging"
)

// DatasetRow is one emitted training example: pre-match feature vectors for
// both sides plus the final score.
type DatasetRow struct {
	MatchID   string
	Home      stats.Vector
	Away      stats.Vector
	HomeGoals int
	AwayGoals int
}

// Dataset is the pipeline's output feature matrix.
type Dataset struct {
	Columns    []string
	ExactScore bool
	Rows       []DatasetRow
}

// Pipeline drives one chronological pass over the feed: read both sides'
// pre-match features, process or estimate the match, append it to history,
// and emit a dataset row once both sides have enough history.
type Pipeline struct {
	feed     match.Feed
	acc      *Accumulator
	features *FeatureBuilder
	fallback *FallbackEstimator
	records  stats.Repository
	log      *logging.Logger
	exact    bool
}

// NewPipeline wires the batch pipeline. records may be nil when no
// persistence sink is configured.
func NewPipeline(feed match.Feed, acc *Accumulator, features *FeatureBuilder, fallback *FallbackEstimator, records stats.Repository, log *logging.Logger, exactScore bool) *Pipeline {
	if log == nil {
		log = logging.Default()
	}
	return &Pipeline{
		feed:     feed,
		acc:      acc,
		features: features,
		fallback: fallback,
		records:  records,
		log:      log,
		exact:    exactScore,
	}
}

// Run processes the whole feed and returns the assembled dataset. The first
// match that cannot be attributed or sequenced aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Dataset, error) {
	ctx, span := startPipelineSpan(ctx, "usecase.Pipeline.Run")
	defer span.End()

	recs, err := p.feed.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Match.Date.Before(recs[j].Match.Date)
	})

	ds := &Dataset{Columns: p.features.Columns(p.exact), ExactScore: p.exact}
	rich, estimated := 0, 0
	for _, rec := range recs {
		row, err := p.processOne(ctx, rec)
		if err != nil {
			return nil, errors.Wrapf(err, "match %s (%s vs %s, %s)",
				rec.Match.ID, rec.Match.HomeTeam, rec.Match.AwayTeam, rec.Match.Date.Format("2006-01-02"))
		}
		if rec.Match.HasAdvancedStats {
			rich++
		} else {
			estimated++
		}
		if row != nil {
			ds.Rows = append(ds.Rows, *row)
		}
	}

	p.log.InfoContext(ctx, "pipeline finished",
		"matches", len(recs), "rows", len(ds.Rows), "rich", rich, "estimated", estimated)
	return ds, nil
}

func (p *Pipeline) processOne(ctx context.Context, rec match.Record) (*DatasetRow, error) {
	m := rec.Match

	// Features come first. The match's own records must stay invisible to
	// its own feature vectors.
	homeFeat, homeOK, err := p.features.FromHistory(m.HomeTeam, m.Season, rec.Sheet.Home)
	if err != nil {
		return nil, err
	}
	awayFeat, awayOK, err := p.features.FromHistory(m.AwayTeam, m.Season, rec.Sheet.Away)
	if err != nil {
		return nil, err
	}

	var (
		homeVec, awayVec stats.Vector
		homePl, awayPl   []PlayerRound
	)
	if m.HasAdvancedStats {
		res, err := p.acc.ProcessMatch(ctx, rec)
		if err != nil {
			return nil, err
		}
		if err := p.flush(ctx, res); err != nil {
			return nil, err
		}
		homeVec, homePl = sideRounds(res, m.HomeTeam)
		awayVec, awayPl = sideRounds(res, m.AwayTeam)
		p.fallback.RecordRichMatch(m.HomeTeam, m.Season, m.Date, m.AwayTeam, homeVec, sideRoster(res, m.HomeTeam))
		p.fallback.RecordRichMatch(m.AwayTeam, m.Season, m.Date, m.HomeTeam, awayVec, sideRoster(res, m.AwayTeam))
		p.log.DebugContext(ctx, "match accumulated",
			"match_id", m.ID, "home", m.HomeTeam, "away", m.AwayTeam,
			"home_round", res.HomeRound, "away_round", res.AwayRound)
	} else {
		homeVec, homePl, err = p.estimateSide(ctx, m, m.HomeTeam, m.AwayTeam, rec.Sheet.Home)
		if err != nil {
			return nil, err
		}
		awayVec, awayPl, err = p.estimateSide(ctx, m, m.AwayTeam, m.HomeTeam, rec.Sheet.Away)
		if err != nil {
			return nil, err
		}
	}

	homeOut, awayOut := match.Outcomes(m.HomeGoals, m.AwayGoals)
	p.features.AppendHistory(m.HomeTeam, m.Season, m.Date, homeOut, homeVec, homePl)
	p.features.AppendHistory(m.AwayTeam, m.Season, m.Date, awayOut, awayVec, awayPl)

	if !homeOK || !awayOK {
		return nil, nil
	}
	return &DatasetRow{
		MatchID:   m.ID,
		Home:      homeFeat,
		Away:      awayFeat,
		HomeGoals: m.HomeGoals,
		AwayGoals: m.AwayGoals,
	}, nil
}

// estimateSide fills one side of an event-less match from comparable prior
// matches, or zero records when none exist yet.
func (p *Pipeline) estimateSide(ctx context.Context, m match.Match, team, opponent string, lineup match.Lineup) (stats.Vector, []PlayerRound, error) {
	vec, players, ok, err := p.fallback.Estimate(team, opponent, m.League, m.Season, m.Date, lineup)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		return vec, players, nil
	}

	p.log.WarnContext(ctx, "no comparable matches, recording zero round",
		"match_id", m.ID, "team", team, "opponent", opponent)
	players = make([]PlayerRound, 0, len(lineup.Names()))
	for _, name := range lineup.Names() {
		id, err := p.acc.resolver.Resolve(name, m.Season, team)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrAttribution,
				"zero round for %q season %d: lineup name %q unresolved", team, m.Season, name)
		}
		pos, err := p.acc.resolver.PositionOf(id)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrAttribution,
				"zero round for %q season %d: player %s has no registered position", team, m.Season, id)
		}
		zero := stats.NewPlayerVector()
		if pos == identity.PositionGoalkeeper {
			zero = stats.NewKeeperVector()
		}
		players = append(players, PlayerRound{ID: id, Stats: zero})
	}
	return stats.NewTeamVector(), players, nil
}

func (p *Pipeline) flush(ctx context.Context, res *MatchResult) error {
	if p.records == nil {
		return nil
	}
	if err := p.records.SaveTeamRecord(ctx, *res.Home); err != nil {
		return err
	}
	if err := p.records.SaveTeamRecord(ctx, *res.Away); err != nil {
		return err
	}
	for _, rec := range res.Players {
		if err := p.records.SavePlayerRecord(ctx, *rec); err != nil {
			return err
		}
	}
	for _, rec := range res.Keepers {
		if err := p.records.SaveKeeperRecord(ctx, *rec); err != nil {
			return err
		}
	}
	return nil
}

// sideRounds extracts one team's finalized vectors from a match result.
func sideRounds(res *MatchResult, team string) (stats.Vector, []PlayerRound) {
	var teamVec stats.Vector
	if res.Home.Name == team {
		teamVec = res.Home.Stats.Clone()
	} else {
		teamVec = res.Away.Stats.Clone()
	}
	var players []PlayerRound
	for _, rec := range res.Players {
		if rec.Team == team {
			players = append(players, PlayerRound{ID: rec.ID, Stats: rec.Stats.Clone()})
		}
	}
	for _, rec := range res.Keepers {
		if rec.Team == team {
			players = append(players, PlayerRound{ID: rec.ID, Stats: rec.Stats.Clone()})
		}
	}
	return teamVec, players
}

func sideRoster(res *MatchResult, team string) map[identity.PlayerID]stats.Vector {
	out := make(map[identity.PlayerID]stats.Vector)
	for _, rec := range res.Players {
		if rec.Team == team {
			out[rec.ID] = rec.Stats.Clone()
		}
	}
	for _, rec := range res.Keepers {
		if rec.Team == team {
			out[rec.ID] = rec.Stats.Clone()
		}
	}
	return out
}
