package folio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Clock abstracts the waits between retry attempts, so tests can inject a
// fake and assert the backoff sequence without wall-clock sleeps.
type Clock interface {
	// Sleep blocks for d or until ctx is cancelled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const (
	// DefaultAttempts is the retry budget for a rate-limited batch.
	DefaultAttempts = 3
	// DefaultInitialDelay is the wait before the first retry. It doubles
	// on each subsequent attempt.
	DefaultInitialDelay = 5 * time.Second
)

// Fetcher resolves batches of instrument identifiers to quote results.
//
// It consults the injected QuoteCache first, issues a single batched
// provider request for the identifiers still missing, and retries the
// whole missing batch with exponential backoff when the provider signals
// rate limiting. Every outcome, failures included, is memoized: a failed
// fetch is not retried on a later call within the same process, since the
// retries already happened inline. Cancellation is the one exception, it
// says nothing about the instrument and is never cached.
type Fetcher struct {
	provider QuoteProvider
	cache    *QuoteCache
	clock    Clock
	log      zerolog.Logger

	attempts     int
	initialDelay time.Duration

	// mu serializes the partition-and-fetch path, so two concurrent
	// fetches for the same missing identifier cannot both hit the
	// provider.
	mu sync.Mutex
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithClock sets the clock used for backoff waits.
func WithClock(c Clock) FetcherOption {
	return func(f *Fetcher) { f.clock = c }
}

// WithRetry sets the retry budget and the initial backoff delay.
func WithRetry(attempts int, initialDelay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.attempts = attempts
		f.initialDelay = initialDelay
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) FetcherOption {
	return func(f *Fetcher) { f.log = log }
}

// NewFetcher creates a Fetcher for the given provider and cache.
func NewFetcher(provider QuoteProvider, cache *QuoteCache, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		provider:     provider,
		cache:        cache,
		clock:        realClock{},
		log:          zerolog.Nop(),
		attempts:     DefaultAttempts,
		initialDelay: DefaultInitialDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves all ids to quote results.
//
// The returned map holds exactly one result per requested identifier
// (after normalization and deduplication), no matter how many retries
// occurred. Fetch itself never fails: error conditions ride per-id inside
// QuoteResult. The worst case is a map where every id carries an error.
func (f *Fetcher) Fetch(ctx context.Context, ids []string) map[string]QuoteResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]QuoteResult, len(ids))
	var missing []string
	for _, raw := range ids {
		id := NormalizeID(raw)
		if id == "" {
			continue
		}
		if _, seen := out[id]; seen {
			continue
		}
		if q, ok := f.cache.Get(id); ok {
			out[id] = q
			continue
		}
		// mark as requested, overwritten below
		out[id] = QuoteResult{}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return out
	}

	f.fetchBatch(ctx, missing, out)
	return out
}

// fetchBatch issues one batched provider request for the missing ids, with
// rate-limit-aware retries, and records an outcome for every one of them.
func (f *Fetcher) fetchBatch(ctx context.Context, missing []string, out map[string]QuoteResult) {
	delay := f.initialDelay
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			// Cancellation is terminal: pending ids get the context
			// error, uncached, so a fresh run can still fetch them.
			for _, id := range missing {
				out[id] = NoQuote(err)
			}
			return
		}

		prices, err := f.provider.Quotes(ctx, missing)
		if err == nil {
			for _, id := range missing {
				var q QuoteResult
				if p, ok := prices[id]; ok {
					q = NewQuote(p)
				} else {
					q = NoQuote(&NotFoundError{ID: id})
				}
				f.cache.Put(id, q)
				out[id] = q
			}
			f.log.Debug().
				Str("provider", f.provider.Name()).
				Int("requested", len(missing)).
				Int("resolved", len(prices)).
				Msg("batch fetched")
			return
		}

		if ctx.Err() != nil {
			// the attempt died of cancellation, not of the provider:
			// terminal and uncached, as at the top of the loop
			for _, id := range missing {
				out[id] = NoQuote(ctx.Err())
			}
			return
		}

		var rl *RateLimitError
		if !errors.As(err, &rl) || attempt >= f.attempts {
			// Not retryable, or the retry budget is spent: memoize the
			// failure for every id still missing.
			q := NoQuote(err)
			for _, id := range missing {
				f.cache.Put(id, q)
				out[id] = q
			}
			f.log.Warn().
				Err(err).
				Str("provider", f.provider.Name()).
				Int("ids", len(missing)).
				Int("attempt", attempt).
				Msg("batch fetch failed")
			return
		}

		f.log.Info().
			Str("provider", f.provider.Name()).
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("rate limited, backing off")
		if err := f.clock.Sleep(ctx, delay); err != nil {
			for _, id := range missing {
				out[id] = NoQuote(err)
			}
			return
		}
		delay *= 2
	}
}
