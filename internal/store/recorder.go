package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/pairs/internal/game"
)

// Recorder is a game.Observer that appends every published event to the
// journal under one run.
//
// Write failures are logged and counted, never propagated: the game keeps
// going even if the journal cannot.
type Recorder struct {
	ctx    context.Context
	store  *Store
	runID  string
	logger *slog.Logger

	mu       sync.Mutex
	firstErr error
	failed   int
}

// NewRecorder writes the run record and returns a recorder for it.
func NewRecorder(ctx context.Context, s *Store, run Run, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := s.WriteRun(ctx, run); err != nil {
		return nil, err
	}
	return &Recorder{ctx: ctx, store: s, runID: run.ID, logger: logger}, nil
}

// RunID returns the run this recorder writes to.
func (r *Recorder) RunID() string {
	return r.runID
}

// OnUpdate implements game.Observer.
func (r *Recorder) OnUpdate(u game.Update) {
	for _, ev := range u.Events {
		if err := r.store.WriteEvent(r.ctx, r.runID, ev); err != nil {
			r.logger.Error("journal write failed", "run", r.runID, "seq", ev.Seq, "kind", ev.Kind, "error", err)
			r.mu.Lock()
			if r.firstErr == nil {
				r.firstErr = err
			}
			r.failed++
			r.mu.Unlock()
		}
	}
}

// Failures returns how many writes failed and the first error.
func (r *Recorder) Failures() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed, r.firstErr
}
