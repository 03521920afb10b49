// Package store provides SQLite-backed durable storage for kestrel
// check runs.
//
// The store is an append-only log of completed runs:
//   - runs: one row per checked scenario with its final verdict
//   - run_actions: the recorded actions a run declared
//   - run_ops: the flat mutation log the run applied, in order
//
// A stored run carries everything needed to replay it: replaying
// re-applies the op log to a fresh graph and must reproduce the stored
// verdict. All ordering uses seq INTEGER (logical position), never
// timestamps; created_at on runs is metadata only and plays no part in
// replay.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
