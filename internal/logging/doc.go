// Package logging configures structured slog output for the daemon and CLI.
//
// It provides a human-readable console handler and a JSON handler, shared
// attribute helpers, canonical field names, and component loggers so every
// subsystem emits consistent, filterable records.
package logging
