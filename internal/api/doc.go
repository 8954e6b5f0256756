// Package api provides the service layer between the HTTP transport and the
// task store, the transport DTO types, and the HTTP client used by the CLI.
//
// The daemon owns the store; everything else talks to it through this
// package. Views are derived on read (most notably the display lane), so the
// transport never persists anything it computes.
package api
