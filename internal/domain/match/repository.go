package match

import (
	"context"

	"github.com/pitchstats/matchform/internal/domain/event"
)

// Record bundles one match with its sheet and (when advanced stats are
// available) its full event log, already joined by the feed.
type Record struct {
	Match  Match
	Sheet  Sheet
	Events []event.MatchEvent
}

// Feed yields the full batch of matches in chronological order.
type Feed interface {
	List(ctx context.Context) ([]Record, error)
}
