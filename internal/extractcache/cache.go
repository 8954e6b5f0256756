package extractcache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"scribe/internal/extraction"
	"scribe/internal/logging"
	"scribe/internal/textutil"
)

const (
	// DefaultTTL is how long a cached extraction stays valid.
	DefaultTTL = time.Hour
	// DefaultCapacity bounds the number of live entries.
	DefaultCapacity = 256
)

type entry struct {
	key      string
	result   *extraction.Result
	storedAt time.Time
}

// Cache memoizes extraction results in memory, keyed by a digest of the
// normalized input text. It is strictly best effort: expiry, eviction, and
// absence all look like a miss, and a full cache simply evicts its oldest
// entry. Failed extractions are never stored, so a retry of a failed task
// always reaches the service.
type Cache struct {
	ttl      time.Duration
	capacity int
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	order   []string // insertion order, oldest first
}

// Option customizes the cache.
type Option func(*Cache)

// WithClock overrides the time source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cache with the given TTL and capacity. Non-positive values
// fall back to the defaults. A nil logger is replaced with a nop logger.
func New(ttl time.Duration, capacity int, logger *slog.Logger, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Cache{
		ttl:      ttl,
		capacity: capacity,
		logger:   logging.NewComponentLogger(logger, "extractcache"),
		now:      time.Now,
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for a piece of raw input: the hex SHA-256 of the
// lowercased, whitespace-collapsed text. Inputs differing only in case or
// spacing share an entry.
func Key(rawInput string) string {
	sum := sha256.Sum256([]byte(textutil.NormalizeInput(rawInput)))
	return hex.EncodeToString(sum[:])
}

// Lookup returns a previously stored result for equivalent input. Expired
// entries are dropped on access.
func (c *Cache) Lookup(rawInput string) (*extraction.Result, bool) {
	key := Key(rawInput)

	c.mu.Lock()
	defer c.mu.Unlock()

	stored, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(stored.storedAt) >= c.ttl {
		c.remove(key)
		c.logger.Debug("cache entry expired", logging.String("key", shortKey(key)))
		return nil, false
	}
	return stored.result, true
}

// Store records an extraction result for the given input, evicting the oldest
// entry when the cache is full. Nil results are ignored.
func (c *Cache) Store(rawInput string, result *extraction.Result) {
	if result == nil {
		return
	}
	key := Key(rawInput)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		evicted := c.order[0]
		c.remove(evicted)
		c.logger.Debug("evicted oldest cache entry", logging.String("key", shortKey(evicted)))
	}

	c.entries[key] = &entry{key: key, result: result, storedAt: c.now()}
	c.order = append(c.order, key)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, candidate := range c.order {
		if candidate == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
