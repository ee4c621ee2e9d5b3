package folio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFetcher_Dedup(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{prices: map[string]Money{"A": USD(1), "B": USD(2)}},
	}}
	f := NewFetcher(provider, NewQuoteCache())

	got := f.Fetch(context.Background(), []string{"A", "a", " A ", "B"})

	if len(provider.calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(provider.calls))
	}
	if len(provider.calls[0]) != 2 {
		t.Errorf("batch = %v, want exactly {A, B}", provider.calls[0])
	}
	if len(got) != 2 {
		t.Errorf("len(Fetch()) = %d, want 2", len(got))
	}
	if !got["A"].Price.Equal(USD(1)) || !got["B"].Price.Equal(USD(2)) {
		t.Errorf("Fetch() = %v, want A=1 B=2", got)
	}
}

func TestFetcher_CacheHit(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{prices: map[string]Money{"A": USD(1)}},
	}}
	f := NewFetcher(provider, NewQuoteCache())

	first := f.Fetch(context.Background(), []string{"A"})
	second := f.Fetch(context.Background(), []string{"A"})

	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (second fetch must be served from cache)", len(provider.calls))
	}
	if !second["A"].Price.Equal(first["A"].Price) {
		t.Errorf("cached result = %v, want %v", second["A"], first["A"])
	}
}

func TestFetcher_PartialCacheHit(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{prices: map[string]Money{"A": USD(1)}},
		{prices: map[string]Money{"B": USD(2)}},
	}}
	f := NewFetcher(provider, NewQuoteCache())

	f.Fetch(context.Background(), []string{"A"})
	got := f.Fetch(context.Background(), []string{"A", "B"})

	if len(provider.calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.calls))
	}
	// the second batch only covers the missing id
	if len(provider.calls[1]) != 1 || provider.calls[1][0] != "B" {
		t.Errorf("second batch = %v, want {B}", provider.calls[1])
	}
	if !got["A"].Price.Equal(USD(1)) || !got["B"].Price.Equal(USD(2)) {
		t.Errorf("Fetch() = %v, want A=1 B=2", got)
	}
}

func TestFetcher_NotFound(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{prices: map[string]Money{"A": USD(1)}},
	}}
	f := NewFetcher(provider, NewQuoteCache())

	got := f.Fetch(context.Background(), []string{"A", "GONE"})

	q := got["GONE"]
	var nf *NotFoundError
	if q.Err == nil || !errors.As(q.Err, &nf) {
		t.Fatalf("Fetch()[GONE].Err = %v, want *NotFoundError", q.Err)
	}
	if nf.ID != "GONE" {
		t.Errorf("NotFoundError.ID = %q, want GONE", nf.ID)
	}
}

func TestFetcher_Backoff(t *testing.T) {
	rl := &RateLimitError{Provider: "stub"}
	provider := &stubProvider{script: []stubResponse{
		{err: rl},
		{err: rl},
		{prices: map[string]Money{"A": USD(42), "B": USD(7)}},
	}}
	clock := &fakeClock{}
	f := NewFetcher(provider, NewQuoteCache(), WithClock(clock))

	got := f.Fetch(context.Background(), []string{"A", "B"})

	if len(provider.calls) != 3 {
		t.Fatalf("provider calls = %d, want 3", len(provider.calls))
	}
	wantWaits := []time.Duration{5 * time.Second, 10 * time.Second}
	if len(clock.waits) != len(wantWaits) {
		t.Fatalf("waits = %v, want %v", clock.waits, wantWaits)
	}
	for i, want := range wantWaits {
		if clock.waits[i] != want {
			t.Errorf("waits[%d] = %v, want %v", i, clock.waits[i], want)
		}
	}
	if !got["A"].Price.Equal(USD(42)) || !got["B"].Price.Equal(USD(7)) {
		t.Errorf("Fetch() after retries = %v, want attempt-3 data for all ids", got)
	}
}

func TestFetcher_RetryExhaustion(t *testing.T) {
	rl := &RateLimitError{Provider: "stub"}
	provider := &stubProvider{script: []stubResponse{{err: rl}}}
	clock := &fakeClock{}
	f := NewFetcher(provider, NewQuoteCache(), WithClock(clock))

	got := f.Fetch(context.Background(), []string{"A", "B"})

	if len(provider.calls) != 3 {
		t.Errorf("provider calls = %d, want the full retry budget of 3", len(provider.calls))
	}
	for _, id := range []string{"A", "B"} {
		q := got[id]
		if q.Err == nil {
			t.Errorf("Fetch()[%s].Err = nil, want the last rate limit error", id)
		}
		if !q.Price.IsZero() {
			t.Errorf("Fetch()[%s].Price = %v, want no fabricated price", id, q.Price)
		}
		var asRl *RateLimitError
		if !errors.As(q.Err, &asRl) {
			t.Errorf("Fetch()[%s].Err = %v, want *RateLimitError", id, q.Err)
		}
	}
}

func TestFetcher_NoRetryOnTransient(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{err: &TransientError{Provider: "stub", Err: errors.New("connection reset")}},
	}}
	clock := &fakeClock{}
	f := NewFetcher(provider, NewQuoteCache(), WithClock(clock))

	got := f.Fetch(context.Background(), []string{"A"})

	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (transient failures are not retried)", len(provider.calls))
	}
	if len(clock.waits) != 0 {
		t.Errorf("waits = %v, want none", clock.waits)
	}
	if got["A"].Err == nil {
		t.Errorf("Fetch()[A].Err = nil, want the transient error")
	}
}

func TestFetcher_FailureIsCached(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{err: &TransientError{Provider: "stub", Err: errors.New("down")}},
	}}
	f := NewFetcher(provider, NewQuoteCache())

	f.Fetch(context.Background(), []string{"A"})
	got := f.Fetch(context.Background(), []string{"A"})

	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (failed fetch is memoized for the run)", len(provider.calls))
	}
	if got["A"].Err == nil {
		t.Errorf("Fetch()[A].Err = nil, want the cached error")
	}
}

func TestFetcher_CancelledBeforeFetch(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{prices: map[string]Money{"A": USD(1)}},
	}}
	cache := NewQuoteCache()
	f := NewFetcher(provider, cache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := f.Fetch(ctx, []string{"A"})

	if len(provider.calls) != 0 {
		t.Errorf("provider calls = %d, want 0", len(provider.calls))
	}
	if !errors.Is(got["A"].Err, context.Canceled) {
		t.Errorf("Fetch()[A].Err = %v, want context.Canceled", got["A"].Err)
	}
	// cancellation is not memoized, a fresh run can still fetch
	if cache.Len() != 0 {
		t.Errorf("cache.Len() = %d, want 0", cache.Len())
	}
}

func TestFetcher_CancelledDuringAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cache := NewQuoteCache()
	f := NewFetcher(&cancellingProvider{cancel: cancel}, cache)

	got := f.Fetch(ctx, []string{"A"})

	if !errors.Is(got["A"].Err, context.Canceled) {
		t.Errorf("Fetch()[A].Err = %v, want context.Canceled", got["A"].Err)
	}
	// an attempt torn down by cancellation is not memoized, a fresh run
	// can still fetch
	if cache.Len() != 0 {
		t.Errorf("cache.Len() = %d, want 0", cache.Len())
	}
}

func TestFetcher_CancelledDuringBackoff(t *testing.T) {
	rl := &RateLimitError{Provider: "stub"}
	provider := &stubProvider{script: []stubResponse{{err: rl}}}

	ctx, cancel := context.WithCancel(context.Background())
	f := NewFetcher(provider, NewQuoteCache(), WithClock(&cancellingClock{cancel: cancel}))

	got := f.Fetch(ctx, []string{"A"})

	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (no attempt after cancellation)", len(provider.calls))
	}
	if !errors.Is(got["A"].Err, context.Canceled) {
		t.Errorf("Fetch()[A].Err = %v, want context.Canceled", got["A"].Err)
	}
}

func TestFetcher_EveryIDResolved(t *testing.T) {
	provider := &stubProvider{script: []stubResponse{
		{prices: map[string]Money{"A": USD(1)}},
	}}
	f := NewFetcher(provider, NewQuoteCache())

	ids := []string{"A", "B", "C", "a", " b "}
	got := f.Fetch(context.Background(), ids)

	if len(got) != 3 {
		t.Fatalf("len(Fetch()) = %d, want 3 (one result per distinct id)", len(got))
	}
	for _, id := range []string{"A", "B", "C"} {
		if _, ok := got[id]; !ok {
			t.Errorf("Fetch() missing result for %s", id)
		}
	}
}
