package usecase

import (
	"testing"

	"github.com/cockroachdb/errors"
)

func TestRoundLedger_PeekIsIdempotent(t *testing.T) {
	l := NewRoundLedger()

	if got := l.Peek("arsenal", 2016); got != 1 {
		t.Fatalf("expected first peek 1, got %d", got)
	}
	if got := l.Peek("arsenal", 2016); got != 1 {
		t.Fatalf("expected repeated peek 1, got %d", got)
	}

	if err := l.Commit("arsenal", 2016, 1); err != nil {
		t.Fatalf("commit round 1: %v", err)
	}
	if got := l.Peek("arsenal", 2016); got != 2 {
		t.Fatalf("expected peek 2 after commit, got %d", got)
	}
}

func TestRoundLedger_SeasonsAreIndependent(t *testing.T) {
	l := NewRoundLedger()

	if err := l.Commit("arsenal", 2016, 1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := l.Peek("arsenal", 2017); got != 1 {
		t.Fatalf("expected fresh season to start at 1, got %d", got)
	}
	if got := l.Count("arsenal", 2016); got != 1 {
		t.Fatalf("expected count 1, got %d", got)
	}
	if got := l.Count("arsenal", 2017); got != 0 {
		t.Fatalf("expected count 0 for untouched season, got %d", got)
	}
}

func TestRoundLedger_CommitOutOfOrder(t *testing.T) {
	l := NewRoundLedger()

	if err := l.Commit("arsenal", 2016, 2); !errors.Is(err, ErrSequencing) {
		t.Fatalf("expected sequencing violation for gap, got %v", err)
	}
	if err := l.Commit("arsenal", 2016, 1); err != nil {
		t.Fatalf("commit round 1: %v", err)
	}
	if err := l.Commit("arsenal", 2016, 1); !errors.Is(err, ErrSequencing) {
		t.Fatalf("expected sequencing violation for repeat, got %v", err)
	}
}
