// Package daemon coordinates the long-running scribe process: it enforces
// single-instance execution with a file lock, runs the enrichment
// orchestrator, and serves the HTTP API that clients poll.
package daemon
