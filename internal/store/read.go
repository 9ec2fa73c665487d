package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/pairs/internal/game"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// ReadRun returns a single run.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, resolution_delay_us, tick_interval_us, started_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, resolution_delay_us, tick_interval_us, started_at
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadEvents returns every event of a run in seq order.
func (s *Store) ReadEvents(ctx context.Context, runID string) ([]game.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, session_id, offset_us, payload
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	defer rows.Close()

	var events []game.Event
	for rows.Next() {
		var (
			seq       int64
			kind      string
			sessionID string
			offsetUS  int64
			payload   string
		)
		if err := rows.Scan(&seq, &kind, &sessionID, &offsetUS, &payload); err != nil {
			return nil, fmt.Errorf("read events: scan: %w", err)
		}

		var ev game.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("read events: seq %d: %w", seq, err)
		}
		ev.Seq = seq
		ev.Kind = game.EventKind(kind)
		ev.SessionID = sessionID
		ev.Offset = time.Duration(offsetUS) * time.Microsecond
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		delayUS    int64
		intervalUS int64
		startedAt  string
	)
	if err := row.Scan(&run.ID, &run.Seed, &delayUS, &intervalUS, &startedAt); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	run.ResolutionDelay = time.Duration(delayUS) * time.Microsecond
	run.TickInterval = time.Duration(intervalUS) * time.Microsecond
	run.StartedAt = t
	return run, nil
}
