// Package game implements the memory-game state engine.
//
// The Engine is the only writer of game state. Callers (a terminal UI, the
// scenario harness, a replay) send intents - ChooseDifficulty, Flip, Restart,
// ClearDifficulty, Tick - and receive an Update after every mutation.
//
// # Turn Sequencing
//
// Flipping the second open card increments the attempt counter, sets the
// checking lock and schedules a resolution after ResolutionDelay. While the
// lock is held every flip is dropped, not queued. The resolution either
// marks both cards matched or turns them back face-down and bumps their
// mismatch counters.
//
// # Timers
//
// The resolution and the once-per-second elapsed-time tick are the only
// suspension points. Both are one-shot timers from the injected
// clock.Clock. Every reset bumps a generation token; a timer callback whose
// generation no longer matches does nothing, so a resolution armed for an
// old deck can never touch a new one. The tick timer stops re-arming once
// the game is won.
//
// # Observers
//
// Updates are delivered in mutation order, after the state lock has been
// released, from whichever goroutine performed the mutation. Observers must
// not call back into the Engine synchronously.
package game
