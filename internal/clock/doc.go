// Package clock provides the two notions of time the game engine relies on.
//
// Clock is wall-clock time with cancellable one-shot timers. The engine
// never calls time.Now or time.AfterFunc directly; production code uses
// System, tests and replays use testutil.FakeClock.
//
// Sequence is a monotonic logical counter. Every domain event and every
// published snapshot is stamped with a value from it, so observers can order
// updates without comparing timestamps.
package clock
