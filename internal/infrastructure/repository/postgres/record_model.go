package postgres

import (
	"time"

	"github.com/bytedance/sonic"

	"github.com/pitchstats/matchform/internal/domain/stats"
)

type teamRecordTableModel struct {
	ID     int64     `db:"id"`
	Name   string    `db:"name"`
	Season int       `db:"season"`
	Round  int       `db:"round"`
	Date   time.Time `db:"date"`
	Stats  []byte    `db:"stats"`
}

type playerRecordTableModel struct {
	ID       int64     `db:"id"`
	PlayerID string    `db:"player_id"`
	Name     string    `db:"name"`
	Season   int       `db:"season"`
	Round    int       `db:"round"`
	Date     time.Time `db:"date"`
	Team     string    `db:"team"`
	Stats    []byte    `db:"stats"`
}

// encodeStats serializes a stat vector as a named JSONB payload so the
// column stays readable when queried directly.
func encodeStats(names []string, v stats.Vector) ([]byte, error) {
	return sonic.Marshal(stats.StatsMap(names, v))
}

func decodeStats(names []string, raw []byte) (stats.Vector, error) {
	payload := make(map[string]float64, len(names))
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return stats.VectorFromMap(names, payload), nil
}
