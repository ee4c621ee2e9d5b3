package folio

import (
	"strings"
	"sync"
)

// NormalizeID canonicalizes an instrument identifier for use as a cache
// key. Callers must apply it consistently upstream of the engine, or cache
// lookups silently miss.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// QuoteResult is a price observation, or the reason none could be made.
// Exactly one of Price/Err is meaningful. Immutable once stored.
type QuoteResult struct {
	Price Money
	Err   error
}

// NewQuote returns a successful quote result.
func NewQuote(price Money) QuoteResult { return QuoteResult{Price: price} }

// NoQuote returns a failed quote result carrying the reason.
func NoQuote(err error) QuoteResult { return QuoteResult{Err: err} }

// QuoteCache memoizes quote results for the lifetime of the process.
// Once an identifier is present, it is never fetched again in the same run:
// there is no eviction, no TTL and no size bound, because a single run
// touches a bounded, small set of instruments. Staleness is bounded only
// by process restart.
//
// The cache is an explicitly owned instance injected into fetchers, safe
// for concurrent readers and writers.
type QuoteCache struct {
	mu     sync.RWMutex
	quotes map[string]QuoteResult
}

// NewQuoteCache creates an empty cache.
func NewQuoteCache() *QuoteCache {
	return &QuoteCache{quotes: make(map[string]QuoteResult)}
}

// Get returns the memoized result for id, if any.
func (c *QuoteCache) Get(id string) (QuoteResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[id]
	return q, ok
}

// Put stores a result for id. It is visible to all subsequent Gets.
func (c *QuoteCache) Put(id string, q QuoteResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[id] = q
}

// Len returns the number of memoized identifiers.
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}
