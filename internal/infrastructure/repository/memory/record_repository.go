package memory

import (
	"context"
	"sync"

	"github.com/pitchstats/matchform/internal/domain/identity"
	"github.com/pitchstats/matchform/internal/domain/stats"
)

type teamKey struct {
	name   string
	season int
}

type playerKey struct {
	id     identity.PlayerID
	season int
}

// RecordRepository keeps finalized round records in memory. Saves arrive in
// round order, so per-entity slices stay sorted by round.
type RecordRepository struct {
	mu      sync.RWMutex
	teams   map[teamKey][]stats.TeamRecord
	players map[playerKey][]stats.PlayerRecord
	keepers map[playerKey][]stats.KeeperRecord
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		teams:   make(map[teamKey][]stats.TeamRecord),
		players: make(map[playerKey][]stats.PlayerRecord),
		keepers: make(map[playerKey][]stats.KeeperRecord),
	}
}

func (r *RecordRepository) SaveTeamRecord(_ context.Context, rec stats.TeamRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Stats = rec.Stats.Clone()
	key := teamKey{rec.Name, rec.Season}
	r.teams[key] = append(r.teams[key], rec)
	return nil
}

func (r *RecordRepository) SavePlayerRecord(_ context.Context, rec stats.PlayerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Stats = rec.Stats.Clone()
	key := playerKey{rec.ID, rec.Season}
	r.players[key] = append(r.players[key], rec)
	return nil
}

func (r *RecordRepository) SaveKeeperRecord(_ context.Context, rec stats.KeeperRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.Stats = rec.Stats.Clone()
	key := playerKey{rec.ID, rec.Season}
	r.keepers[key] = append(r.keepers[key], rec)
	return nil
}

func (r *RecordRepository) ListTeamRecords(_ context.Context, name string, season int) ([]stats.TeamRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.teams[teamKey{name, season}]
	out := make([]stats.TeamRecord, 0, len(recs))
	out = append(out, recs...)
	return out, nil
}

func (r *RecordRepository) ListPlayerRecords(_ context.Context, id identity.PlayerID, season int) ([]stats.PlayerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.players[playerKey{id, season}]
	out := make([]stats.PlayerRecord, 0, len(recs))
	out = append(out, recs...)
	return out, nil
}

func (r *RecordRepository) ListKeeperRecords(_ context.Context, id identity.PlayerID, season int) ([]stats.KeeperRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := r.keepers[playerKey{id, season}]
	out := make([]stats.KeeperRecord, 0, len(recs))
	out = append(out, recs...)
	return out, nil
}
