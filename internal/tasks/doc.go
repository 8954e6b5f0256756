// Package tasks persists captured tasks in SQLite and owns their lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, and the atomic status transitions the orchestrator and controllers
// rely on. Every mutation after creation flows through Transition, which
// compare-and-swaps on the current status so concurrent writers cannot
// clobber each other: the loser observes an InvalidTransitionError and drops
// its write.
//
// Display lanes are derived from status and the requires-attention flag on
// read; they are never stored. Schema changes bump the version in schema.go.
//
// Treat this package as the single source of truth for task semantics; when
// you add statuses or metadata fields, update schema.sql and bump
// schemaVersion.
package tasks
