// Package extraction talks to an OpenRouter-compatible chat completion API to
// enrich raw task text and extract structured metadata with per-field
// confidence scores. Each call is a single attempt; retry policy belongs to
// the caller.
package extraction
