// Package store provides the SQLite-backed event journal.
//
// A journal is an append-only log of engine runs. Each run records the seed
// and timer settings it was created with, followed by every domain event the
// engine published, in sequence order. The journal is an audit trail and the
// input to replay verification; it is never used to resume a game.
//
// # Ordering
//
// Events are ordered by seq, the engine's logical clock, NEVER by wall time.
// All queries use ORDER BY seq ASC so replays see the same order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Open(":memory:") gives a journal that lives only as long as the process.
package store
