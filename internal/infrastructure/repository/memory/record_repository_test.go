package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pitchstats/matchform/internal/domain/stats"
)

var testDate = time.Date(2016, time.August, 20, 0, 0, 0, 0, time.UTC)

func TestRecordRepository_TeamRoundTrip(t *testing.T) {
	repo := NewRecordRepository()
	ctx := context.Background()

	rec := stats.NewTeamRecord("Alaves", 2016, 1, testDate)
	rec.Stats[stats.TeamGoalScored] = 2
	if err := repo.SaveTeamRecord(ctx, *rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the saved vector must not reach the stored copy.
	rec.Stats[stats.TeamGoalScored] = 99

	got, err := repo.ListTeamRecords(ctx, "Alaves", 2016)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Stats[stats.TeamGoalScored] != 2 {
		t.Fatalf("stored vector was aliased, got %v", got[0].Stats[stats.TeamGoalScored])
	}

	other, err := repo.ListTeamRecords(ctx, "Alaves", 2017)
	if err != nil {
		t.Fatalf("list other season: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("seasons must be independent, got %d records", len(other))
	}
}

func TestRecordRepository_PlayerAndKeeperRoundTrip(t *testing.T) {
	repo := NewRecordRepository()
	ctx := context.Background()

	pr := stats.NewPlayerRecord("id-1", "mid", 2016, 1, testDate, "Alaves")
	pr.Stats[stats.PlayerGoalScored] = 1
	if err := repo.SavePlayerRecord(ctx, *pr); err != nil {
		t.Fatalf("save player: %v", err)
	}
	kr := stats.NewKeeperRecord("id-2", "gk", 2016, 1, testDate, "Alaves")
	kr.Stats[stats.KeeperShotsSaved] = 4
	if err := repo.SaveKeeperRecord(ctx, *kr); err != nil {
		t.Fatalf("save keeper: %v", err)
	}

	players, err := repo.ListPlayerRecords(ctx, "id-1", 2016)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 1 || players[0].Stats[stats.PlayerGoalScored] != 1 {
		t.Fatalf("unexpected player records: %+v", players)
	}

	keepers, err := repo.ListKeeperRecords(ctx, "id-2", 2016)
	if err != nil {
		t.Fatalf("list keepers: %v", err)
	}
	if len(keepers) != 1 || keepers[0].Stats[stats.KeeperShotsSaved] != 4 {
		t.Fatalf("unexpected keeper records: %+v", keepers)
	}

	if list, _ := repo.ListPlayerRecords(ctx, "id-2", 2016); len(list) != 0 {
		t.Fatalf("keeper record must not appear in the player table")
	}
}

func TestRecordRepository_RoundsStaySorted(t *testing.T) {
	repo := NewRecordRepository()
	ctx := context.Background()

	for round := 1; round <= 3; round++ {
		rec := stats.NewTeamRecord("Alaves", 2016, round, testDate.AddDate(0, 0, 7*round))
		if err := repo.SaveTeamRecord(ctx, *rec); err != nil {
			t.Fatalf("save round %d: %v", round, err)
		}
	}

	got, err := repo.ListTeamRecords(ctx, "Alaves", 2016)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, rec := range got {
		if rec.Round != i+1 {
			t.Fatalf("expected round %d at index %d, got %d", i+1, i, rec.Round)
		}
	}
}
