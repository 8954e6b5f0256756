// Package extractcache provides a best-effort in-memory TTL cache for
// extraction results, so that resubmitted or retried task text does not pay
// for a second model call.
package extractcache
