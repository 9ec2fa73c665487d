package game

import (
	"time"

	"github.com/roach88/pairs/internal/deck"
	"github.com/roach88/pairs/internal/preset"
)

// State is an immutable snapshot of the game, safe to hold after the engine
// moves on.
type State struct {
	SessionID      string         `json:"session_id,omitempty"`
	Version        int64          `json:"version"`
	Difficulty     *preset.Preset `json:"difficulty,omitempty"`
	Cards          []deck.Card    `json:"cards"`
	Attempts       int            `json:"attempts"`
	MatchedPairs   int            `json:"matched_pairs"`
	Checking       bool           `json:"checking"`
	StartTime      time.Time      `json:"start_time"`
	ElapsedSeconds int            `json:"elapsed_seconds"`

	// Mismatches counts, per card id, how often the card was part of a failed
	// comparison. A presentation layer animates when the counter changes.
	Mismatches map[int]int `json:"mismatches,omitempty"`
}

// IsGameOver reports whether every pair of the chosen difficulty is matched.
func (s State) IsGameOver() bool {
	return s.Difficulty != nil && s.MatchedPairs == s.Difficulty.PairCount
}

// PairsRemaining is the number of pairs still to find; 0 without a difficulty.
func (s State) PairsRemaining() int {
	if s.Difficulty == nil {
		return 0
	}
	return s.Difficulty.PairCount - s.MatchedPairs
}

// Open returns the ids of cards that are face-up and not yet matched.
func (s State) Open() []int {
	return openCards(s.Cards)
}

// Grid returns the layout for the current difficulty.
func (s State) Grid() preset.Grid {
	return preset.GridFor(s.Difficulty)
}

func openCards(cards []deck.Card) []int {
	var open []int
	for _, c := range cards {
		if c.FaceUp && !c.Matched {
			open = append(open, c.ID)
		}
	}
	return open
}

// EventKind names a domain event.
type EventKind string

const (
	// EventDealt: a new deck was dealt (choose difficulty or restart).
	EventDealt EventKind = "dealt"
	// EventFlipped: a card was turned face-up.
	EventFlipped EventKind = "flipped"
	// EventMatched: two open cards resolved as a pair.
	EventMatched EventKind = "matched"
	// EventMismatched: two open cards differed and were turned back.
	EventMismatched EventKind = "mismatched"
	// EventWon: the last pair was matched.
	EventWon EventKind = "won"
	// EventCleared: the difficulty was cleared and the board emptied.
	EventCleared EventKind = "cleared"
)

// Event records one observable transition.
type Event struct {
	Kind      EventKind     `json:"kind"`
	Seq       int64         `json:"seq"`
	Offset    time.Duration `json:"offset"`
	SessionID string        `json:"session_id,omitempty"`

	Preset string           `json:"preset,omitempty"`
	Layout []preset.ImageID `json:"layout,omitempty"`
	// Definition is the full preset a dealt event was dealt from, so a
	// journaled run can be replayed without the catalog it came from.
	Definition *preset.Preset `json:"definition,omitempty"`
	Cards  []int            `json:"cards,omitempty"`
	Images []preset.ImageID `json:"images,omitempty"`

	Attempts       int `json:"attempts"`
	MatchedPairs   int `json:"matched_pairs"`
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// Update is what observers receive after a mutation.
type Update struct {
	State  State
	Events []Event
}

// Observer consumes updates. See the package documentation for delivery
// guarantees.
type Observer interface {
	OnUpdate(Update)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Update)

// OnUpdate calls f(u).
func (f ObserverFunc) OnUpdate(u Update) { f(u) }
