package game

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/roach88/pairs/internal/clock"
	"github.com/roach88/pairs/internal/deck"
	"github.com/roach88/pairs/internal/preset"
)

const (
	// DefaultResolutionDelay is how long two open cards stay visible before
	// they are compared.
	DefaultResolutionDelay = 800 * time.Millisecond

	// DefaultTickInterval is how often the elapsed-time counter refreshes.
	DefaultTickInterval = time.Second
)

// Engine owns one game session's state and is its only writer.
//
// Thread-safety model:
//   - all intents are safe from any goroutine
//   - at most one mutation runs at a time (mu)
//   - observers are notified in mutation order (notifyMu)
//
// INVARIANTS:
//   - at most two cards are face-up and unmatched
//   - matchedPairs <= difficulty.PairCount
//   - while checking, no flip changes state
type Engine struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	clock     clock.Clock
	seq       *clock.Sequence
	rng       *rand.Rand
	ids       IDGenerator
	logger    *slog.Logger
	observers []Observer

	resolutionDelay time.Duration
	tickInterval    time.Duration
	created         time.Time

	// generation is bumped on every reset; timer callbacks compare it.
	generation uint64
	closed     bool
	pending    clock.Timer
	ticker     clock.Timer

	sessionID      string
	difficulty     *preset.Preset
	cards          []deck.Card
	attempts       int
	matchedPairs   int
	checking       bool
	startTime      time.Time
	elapsedSeconds int
	mismatches     map[int]int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source. Default: clock.System{}.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand sets the shuffle source. Default: a randomly seeded PCG.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed seeds the shuffle source deterministically.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = deck.NewRand(seed) }
}

// WithResolutionDelay overrides DefaultResolutionDelay.
func WithResolutionDelay(d time.Duration) Option {
	return func(e *Engine) { e.resolutionDelay = d }
}

// WithTickInterval overrides DefaultTickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickInterval = d }
}

// WithIDGenerator sets the session id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an Engine with no difficulty chosen.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:           clock.System{},
		seq:             clock.NewSequence(),
		ids:             UUIDv7Generator{},
		resolutionDelay: DefaultResolutionDelay,
		tickInterval:    DefaultTickInterval,
		mismatches:      make(map[int]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.created = e.clock.Now()
	return e
}

// batch collects the effects of one mutation.
type batch struct {
	events  []Event
	changed bool
}

// mutate runs fn under the state lock and then publishes the resulting
// update, if any, to every observer.
func (e *Engine) mutate(fn func(b *batch) error) error {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	b := &batch{}
	err := fn(b)
	publish := b.changed || len(b.events) > 0
	var u Update
	if publish {
		if len(b.events) == 0 {
			e.seq.Next()
		}
		u = Update{State: e.snapshotLocked(), Events: b.events}
	}
	e.mu.Unlock()

	if publish {
		for _, o := range e.observers {
			o.OnUpdate(u)
		}
	}
	return err
}

// emitLocked stamps and appends an event carrying the current counters.
func (e *Engine) emitLocked(b *batch, ev Event) {
	ev.Seq = e.seq.Next()
	ev.Offset = e.clock.Now().Sub(e.created)
	ev.SessionID = e.sessionID
	ev.Attempts = e.attempts
	ev.MatchedPairs = e.matchedPairs
	ev.ElapsedSeconds = e.elapsedSeconds
	if ev.Preset == "" && e.difficulty != nil {
		ev.Preset = e.difficulty.Name
	}
	b.events = append(b.events, ev)
	b.changed = true
}

// ChooseDifficulty selects p and deals a fresh game.
//
// If the deck cannot be dealt the error is returned and the current game is
// left untouched.
func (e *Engine) ChooseDifficulty(p preset.Preset) error {
	return e.mutate(func(b *batch) error {
		return e.resetLocked(b, p.Clone())
	})
}

// Restart deals a fresh game at the current difficulty.
// No-op when no difficulty is chosen.
func (e *Engine) Restart() error {
	return e.mutate(func(b *batch) error {
		if e.difficulty == nil {
			return nil
		}
		return e.resetLocked(b, *e.difficulty)
	})
}

// ClearDifficulty returns to the "no difficulty" state: the board is emptied,
// counters zeroed and all timers cancelled.
func (e *Engine) ClearDifficulty() error {
	return e.mutate(func(b *batch) error {
		if e.difficulty == nil {
			return nil
		}
		previous := e.difficulty.Name
		e.generation++
		e.stopTimersLocked()
		e.difficulty = nil
		e.cards = nil
		e.attempts = 0
		e.matchedPairs = 0
		e.checking = false
		e.elapsedSeconds = 0
		e.mismatches = make(map[int]int)
		e.emitLocked(b, Event{Kind: EventCleared, Preset: previous})
		e.sessionID = ""
		return nil
	})
}

func (e *Engine) resetLocked(b *batch, p preset.Preset) error {
	cards, err := deck.Build(p, e.rng)
	if err != nil {
		return err
	}

	e.generation++
	e.stopTimersLocked()

	e.difficulty = &p
	e.cards = cards
	e.attempts = 0
	e.matchedPairs = 0
	e.checking = false
	e.startTime = e.clock.Now()
	e.elapsedSeconds = 0
	e.mismatches = make(map[int]int)
	e.sessionID = e.ids.Generate()

	gen := e.generation
	e.ticker = e.clock.AfterFunc(e.tickInterval, func() { e.onTick(gen) })

	e.logger.Debug("dealt deck", "session", e.sessionID, "preset", p.Name, "cards", len(cards))
	def := p.Clone()
	e.emitLocked(b, Event{Kind: EventDealt, Layout: deck.Layout(cards), Definition: &def})
	return nil
}

func (e *Engine) stopTimersLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}

// Flip turns card id face-up.
//
// Flipping while a comparison is pending, or flipping a card that is already
// face-up or matched, is silently ignored. An unknown id, or a flip with no
// difficulty chosen, is an error.
func (e *Engine) Flip(id int) error {
	return e.mutate(func(b *batch) error {
		if e.difficulty == nil {
			return NewNoDifficultyError(id)
		}
		if id < 0 || id >= len(e.cards) || e.cards[id].ID != id {
			return NewInvalidCardError(id, len(e.cards), e.sessionID)
		}
		if e.checking {
			e.logger.Debug("flip ignored while checking", "session", e.sessionID, "card", id)
			return nil
		}
		card := &e.cards[id]
		if card.FaceUp || card.Matched {
			e.logger.Debug("flip ignored", "session", e.sessionID, "card", id, "face_up", card.FaceUp, "matched", card.Matched)
			return nil
		}

		card.FaceUp = true
		e.emitLocked(b, Event{Kind: EventFlipped, Cards: []int{id}, Images: []preset.ImageID{card.Image}})

		open := openCards(e.cards)
		switch {
		case len(open) < 2:
			return nil
		case len(open) > 2:
			err := NewInvariantError(open, e.sessionID)
			e.logger.Error("engine invariant violated", "error", err)
			return err
		}

		e.attempts++
		e.checking = true
		gen := e.generation
		pair := [2]int{open[0], open[1]}
		e.pending = e.clock.AfterFunc(e.resolutionDelay, func() { e.resolve(gen, pair) })
		return nil
	})
}

// resolve compares the two cards flipped in generation gen.
func (e *Engine) resolve(gen uint64, pair [2]int) {
	err := e.mutate(func(b *batch) error {
		if gen != e.generation || !e.checking {
			e.logger.Debug("stale resolution discarded", "generation", gen, "current", e.generation)
			return nil
		}
		e.pending = nil
		first, second := &e.cards[pair[0]], &e.cards[pair[1]]
		images := []preset.ImageID{first.Image, second.Image}

		if first.Image == second.Image {
			first.Matched = true
			second.Matched = true
			e.matchedPairs++
			e.checking = false
			e.emitLocked(b, Event{Kind: EventMatched, Cards: pair[:], Images: images})
			if e.matchedPairs == e.difficulty.PairCount {
				e.refreshElapsedLocked()
				if e.ticker != nil {
					e.ticker.Stop()
					e.ticker = nil
				}
				e.logger.Info("game won", "session", e.sessionID, "attempts", e.attempts, "elapsed_seconds", e.elapsedSeconds)
				e.emitLocked(b, Event{Kind: EventWon})
			}
			return nil
		}

		first.FaceUp = false
		second.FaceUp = false
		e.mismatches[first.ID]++
		e.mismatches[second.ID]++
		e.checking = false
		e.emitLocked(b, Event{Kind: EventMismatched, Cards: pair[:], Images: images})
		return nil
	})
	if err != nil && !IsClosed(err) {
		e.logger.Error("resolution failed", "error", err)
	}
}

// Tick refreshes ElapsedSeconds from the clock. No effect without a
// difficulty or once the game is over.
func (e *Engine) Tick() {
	_ = e.mutate(func(b *batch) error {
		b.changed = e.tickLocked()
		return nil
	})
}

func (e *Engine) onTick(gen uint64) {
	_ = e.mutate(func(b *batch) error {
		if gen != e.generation {
			return nil
		}
		b.changed = e.tickLocked()
		if e.isGameOverLocked() {
			e.ticker = nil
			return nil
		}
		e.ticker = e.clock.AfterFunc(e.tickInterval, func() { e.onTick(gen) })
		return nil
	})
}

func (e *Engine) tickLocked() bool {
	if e.difficulty == nil || e.isGameOverLocked() {
		return false
	}
	return e.refreshElapsedLocked()
}

func (e *Engine) refreshElapsedLocked() bool {
	elapsed := int(e.clock.Now().Sub(e.startTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed == e.elapsedSeconds {
		return false
	}
	e.elapsedSeconds = elapsed
	return true
}

func (e *Engine) isGameOverLocked() bool {
	return e.difficulty != nil && e.matchedPairs == e.difficulty.PairCount
}

// IsGameOver reports whether every pair has been matched.
func (e *Engine) IsGameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isGameOverLocked()
}

// PairsRemaining returns how many pairs are still face-down.
func (e *Engine) PairsRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.difficulty == nil {
		return 0
	}
	return e.difficulty.PairCount - e.matchedPairs
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	s := State{
		SessionID:      e.sessionID,
		Version:        e.seq.Current(),
		Cards:          append([]deck.Card(nil), e.cards...),
		Attempts:       e.attempts,
		MatchedPairs:   e.matchedPairs,
		Checking:       e.checking,
		StartTime:      e.startTime,
		ElapsedSeconds: e.elapsedSeconds,
		Mismatches:     make(map[int]int, len(e.mismatches)),
	}
	if e.difficulty != nil {
		p := e.difficulty.Clone()
		s.Difficulty = &p
	}
	for id, n := range e.mismatches {
		s.Mismatches[id] = n
	}
	return s
}

// Close cancels all timers. Later intents fail with ErrClosed.
//
// Close waits for an update that is being delivered to finish, so no
// observer runs after it returns. It must not be called from an observer.
func (e *Engine) Close() {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.generation++
	e.stopTimersLocked()
}
