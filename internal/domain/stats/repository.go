package stats

import (
	"context"

	"github.com/pitchstats/matchform/internal/domain/identity"
)

// Repository persists finalized round records. Records are written exactly
// once, after the owning match's post-processing completes.
type Repository interface {
	SaveTeamRecord(ctx context.Context, rec TeamRecord) error
	SavePlayerRecord(ctx context.Context, rec PlayerRecord) error
	SaveKeeperRecord(ctx context.Context, rec KeeperRecord) error

	ListTeamRecords(ctx context.Context, name string, season int) ([]TeamRecord, error)
	ListPlayerRecords(ctx context.Context, id identity.PlayerID, season int) ([]PlayerRecord, error)
	ListKeeperRecords(ctx context.Context, id identity.PlayerID, season int) ([]KeeperRecord, error)
}
