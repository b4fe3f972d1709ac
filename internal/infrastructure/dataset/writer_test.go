package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/pitchstats/matchform/internal/usecase"
)

func smallDataset(exact bool) *usecase.Dataset {
	return &usecase.Dataset{
		Columns:    []string{"home_a", "home_b", "away_a", "away_b", "result"},
		ExactScore: exact,
		Rows: []usecase.DatasetRow{
			{MatchID: "m1", Home: []float64{1, 0.5}, Away: []float64{0, 2}, HomeGoals: 2, AwayGoals: 1},
			{MatchID: "m2", Home: []float64{0, 0}, Away: []float64{1, 1}, HomeGoals: 0, AwayGoals: 0},
			{MatchID: "m3", Home: []float64{3, 0.25}, Away: []float64{0, 0}, HomeGoals: 0, AwayGoals: 4},
		},
	}
}

func TestWriter_WritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := NewWriter(path).Write(smallDataset(false)); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "home_a,home_b,away_a,away_b,result" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1,0.5,0,2,H" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",X") {
		t.Fatalf("draw must label X, got %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], ",A") {
		t.Fatalf("away win must label A, got %q", lines[3])
	}
}

func TestWriter_ExactScoreColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	ds := smallDataset(true)
	ds.Columns = []string{"home_a", "home_b", "away_a", "away_b", "home_goals", "away_goals"}
	if err := NewWriter(path).Write(ds); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if !strings.HasSuffix(lines[1], ",2,1") {
		t.Fatalf("expected exact score columns, got %q", lines[1])
	}
	if !strings.HasSuffix(lines[3], ",0,4") {
		t.Fatalf("expected exact score columns, got %q", lines[3])
	}
}

func TestWriter_MetadataSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := NewWriter(path).Write(smallDataset(false)); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path + ".meta.json")
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var meta metadata
	if err := sonic.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.Columns != 5 || meta.Rows != 3 || meta.ExactScore {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.GeneratedAt.IsZero() {
		t.Fatalf("generated_at must be set")
	}
}
