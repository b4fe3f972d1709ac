package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/stats"
)

// RecordRepository persists finalized round records to Postgres. Stat
// vectors are stored as named JSONB payloads keyed by the schema names.
type RecordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) SaveTeamRecord(ctx context.Context, rec stats.TeamRecord) error {
	payload, err := encodeStats(stats.TeamStatNames(), rec.Stats)
	if err != nil {
		return fmt.Errorf("encode team record stats: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO team_records (name, season, round, date, stats)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.Name, rec.Season, rec.Round, rec.Date, payload)
	if err != nil {
		return fmt.Errorf("insert team record: %w", err)
	}
	return nil
}

func (r *RecordRepository) SavePlayerRecord(ctx context.Context, rec stats.PlayerRecord) error {
	payload, err := encodeStats(stats.PlayerStatNames(), rec.Stats)
	if err != nil {
		return fmt.Errorf("encode player record stats: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO player_records (player_id, name, season, round, date, team, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(rec.ID), rec.Name, rec.Season, rec.Round, rec.Date, rec.Team, payload)
	if err != nil {
		return fmt.Errorf("insert player record: %w", err)
	}
	return nil
}

func (r *RecordRepository) SaveKeeperRecord(ctx context.Context, rec stats.KeeperRecord) error {
	payload, err := encodeStats(stats.KeeperStatNames(), rec.Stats)
	if err != nil {
		return fmt.Errorf("encode keeper record stats: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO keeper_records (player_id, name, season, round, date, team, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(rec.ID), rec.Name, rec.Season, rec.Round, rec.Date, rec.Team, payload)
	if err != nil {
		return fmt.Errorf("insert keeper record: %w", err)
	}
	return nil
}

func (r *RecordRepository) ListTeamRecords(ctx context.Context, name string, season int) ([]stats.TeamRecord, error) {
	var rows []teamRecordTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, season, round, date, stats
		FROM team_records
		WHERE name = $1 AND season = $2
		ORDER BY round`,
		name, season)
	if err != nil {
		return nil, fmt.Errorf("select team records: %w", err)
	}

	out := make([]stats.TeamRecord, 0, len(rows))
	for _, row := range rows {
		vec, err := decodeStats(stats.TeamStatNames(), row.Stats)
		if err != nil {
			return nil, fmt.Errorf("decode team record %d stats: %w", row.ID, err)
		}
		out = append(out, stats.TeamRecord{
			Name:   row.Name,
			Season: row.Season,
			Round:  row.Round,
			Date:   row.Date,
			Stats:  vec,
		})
	}
	return out, nil
}

func (r *RecordRepository) ListPlayerRecords(ctx context.Context, id identity.PlayerID, season int) ([]stats.PlayerRecord, error) {
	rows, err := r.listPlayerRows(ctx, "player_records", id, season)
	if err != nil {
		return nil, err
	}

	out := make([]stats.PlayerRecord, 0, len(rows))
	for _, row := range rows {
		vec, err := decodeStats(stats.PlayerStatNames(), row.Stats)
		if err != nil {
			return nil, fmt.Errorf("decode player record %d stats: %w", row.ID, err)
		}
		out = append(out, stats.PlayerRecord{
			ID:     identity.PlayerID(row.PlayerID),
			Name:   row.Name,
			Season: row.Season,
			Round:  row.Round,
			Date:   row.Date,
			Team:   row.Team,
			Stats:  vec,
		})
	}
	return out, nil
}

func (r *RecordRepository) ListKeeperRecords(ctx context.Context, id identity.PlayerID, season int) ([]stats.KeeperRecord, error) {
	rows, err := r.listPlayerRows(ctx, "keeper_records", id, season)
	if err != nil {
		return nil, err
	}

	out := make([]stats.KeeperRecord, 0, len(rows))
	for _, row := range rows {
		vec, err := decodeStats(stats.KeeperStatNames(), row.Stats)
		if err != nil {
			return nil, fmt.Errorf("decode keeper record %d stats: %w", row.ID, err)
		}
		out = append(out, stats.KeeperRecord{
			ID:     identity.PlayerID(row.PlayerID),
			Name:   row.Name,
			Season: row.Season,
			Round:  row.Round,
			Date:   row.Date,
			Team:   row.Team,
			Stats:  vec,
		})
	}
	return out, nil
}

func (r *RecordRepository) listPlayerRows(ctx context.Context, table string, id identity.PlayerID, season int) ([]playerRecordTableModel, error) {
	var rows []playerRecordTableModel
	query := fmt.Sprintf(`
		SELECT id, player_id, name, season, round, date, team, stats
		FROM %s
		WHERE player_id = $1 AND season = $2
		ORDER BY round`, table)
	if err := r.db.SelectContext(ctx, &rows, query, string(id), season); err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}
