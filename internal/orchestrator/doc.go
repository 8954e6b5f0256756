// Package orchestrator runs the background enrichment pipeline that moves
// tasks from pending through processing to completed or failed.
package orchestrator
