package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/pairs/internal/game"
)

// Run describes one engine lifetime.
type Run struct {
	ID              string        `json:"id"`
	Seed            int64         `json:"seed"`
	ResolutionDelay time.Duration `json:"resolution_delay"`
	TickInterval    time.Duration `json:"tick_interval"`
	StartedAt       time.Time     `json:"started_at"`
}

// WriteRun inserts a run record. Writing the same id twice is an error.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, resolution_delay_us, tick_interval_us, started_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seed,
		run.ResolutionDelay.Microseconds(),
		run.TickInterval.Microseconds(),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteEvent appends an event to a run.
// Uses ON CONFLICT DO NOTHING so re-delivering the same seq is idempotent.
//
// Note: The run referenced by runID must exist (foreign key constraint).
func (s *Store) WriteEvent(ctx context.Context, runID string, ev game.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (run_id, seq, kind, session_id, offset_us, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		runID,
		ev.Seq,
		string(ev.Kind),
		ev.SessionID,
		ev.Offset.Microseconds(),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}
