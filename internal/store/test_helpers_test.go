package store

import (
	"context"
	"testing"
	"time"

	"github.com/roach88/pairs/internal/game"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string) Run {
	return Run{
		ID:              id,
		Seed:            42,
		ResolutionDelay: 800 * time.Millisecond,
		TickInterval:    time.Second,
		StartedAt:       time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func mustWriteRun(t *testing.T, s *Store, run Run) {
	t.Helper()
	if err := s.WriteRun(context.Background(), run); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
}

func flipped(seq int64, card int) game.Event {
	return game.Event{
		Kind:      game.EventFlipped,
		Seq:       seq,
		Offset:    time.Duration(seq) * 100 * time.Millisecond,
		SessionID: "s-1",
		Preset:    "easy",
		Cards:     []int{card},
	}
}
