// Package store provides SQLite-backed storage for the unified table and
// for playback sessions.
//
// The unified table is written once by `pdscatter unify` and read back by
// every other command, so the CSV exports are parsed and joined only once.
// LoadTable rebuilds the table through dataset.NewTable, which re-checks key
// uniqueness and column completeness on every load.
//
// Sessions record each rendered frame with the session's logical seq:
//   - frames are UNIQUE(session_id, seq)
//   - reads are ORDER BY seq ASC
//   - no wall-clock timestamps are stored
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
