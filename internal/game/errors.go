package game

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes contract errors raised by the Engine.
type ErrorCode string

const (
	// ErrCodeInvalidCard indicates a flip targeted a card id not in the deck.
	ErrCodeInvalidCard ErrorCode = "INVALID_CARD"

	// ErrCodeNoDifficulty indicates a flip before any difficulty was chosen.
	ErrCodeNoDifficulty ErrorCode = "NO_DIFFICULTY"

	// ErrCodeInvariant indicates the engine observed a state it must never reach.
	ErrCodeInvariant ErrorCode = "INVARIANT"

	// ErrCodeClosed indicates an intent after Close.
	ErrCodeClosed ErrorCode = "CLOSED"
)

// Error is a programmer/contract error. Expected no-ops (flipping an open
// card, flipping while checking) are never reported as errors.
type Error struct {
	Code    ErrorCode
	Message string
	CardID  int
	Session string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Session != "" {
		return fmt.Sprintf("%s: %s (session=%s)", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidCardError reports a card id outside 0..deckSize-1.
func NewInvalidCardError(id, deckSize int, session string) *Error {
	return &Error{
		Code:    ErrCodeInvalidCard,
		Message: fmt.Sprintf("card %d not in deck of %d", id, deckSize),
		CardID:  id,
		Session: session,
	}
}

// NewNoDifficultyError reports a flip with no active game.
func NewNoDifficultyError(id int) *Error {
	return &Error{
		Code:    ErrCodeNoDifficulty,
		Message: fmt.Sprintf("flip card %d with no difficulty chosen", id),
		CardID:  id,
	}
}

// NewInvariantError reports more than two open, unmatched cards.
func NewInvariantError(open []int, session string) *Error {
	return &Error{
		Code:    ErrCodeInvariant,
		Message: fmt.Sprintf("%d cards face-up and unmatched %v, at most 2 allowed", len(open), open),
		CardID:  -1,
		Session: session,
	}
}

// ErrClosed is returned for every intent after Close.
var ErrClosed = &Error{Code: ErrCodeClosed, Message: "engine closed", CardID: -1}

func hasCode(err error, code ErrorCode) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code == code
	}
	return false
}

// IsInvalidCard reports whether err is an ErrCodeInvalidCard error.
func IsInvalidCard(err error) bool { return hasCode(err, ErrCodeInvalidCard) }

// IsNoDifficulty reports whether err is an ErrCodeNoDifficulty error.
func IsNoDifficulty(err error) bool { return hasCode(err, ErrCodeNoDifficulty) }

// IsInvariant reports whether err is an ErrCodeInvariant error.
func IsInvariant(err error) bool { return hasCode(err, ErrCodeInvariant) }

// IsClosed reports whether err is an ErrCodeClosed error.
func IsClosed(err error) bool { return hasCode(err, ErrCodeClosed) }
