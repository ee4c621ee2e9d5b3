package folio

import (
	"context"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// INR is a helper for test to create inr money from const
func INR(v float64) Money { return M(v, "INR") }

// stubResponse is one scripted provider answer.
type stubResponse struct {
	prices map[string]Money
	err    error
}

// stubProvider plays a script of responses and records every batch it was
// asked for. Past the end of the script, the last response repeats.
type stubProvider struct {
	calls  [][]string
	script []stubResponse
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Quotes(_ context.Context, ids []string) (map[string]Money, error) {
	p.calls = append(p.calls, append([]string(nil), ids...))
	i := len(p.calls) - 1
	if i >= len(p.script) {
		i = len(p.script) - 1
	}
	r := p.script[i]
	return r.prices, r.err
}

// fakeClock records the requested waits without sleeping.
type fakeClock struct {
	waits []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.waits = append(c.waits, d)
	return ctx.Err()
}

// cancellingClock cancels the run instead of waiting, as if the caller
// gave up during the backoff.
type cancellingClock struct {
	cancel context.CancelFunc
}

func (c *cancellingClock) Sleep(ctx context.Context, d time.Duration) error {
	c.cancel()
	return context.Canceled
}

// cancellingProvider cancels the run while its own call is in flight, and
// fails the way a real client does when the request is torn down.
type cancellingProvider struct {
	cancel context.CancelFunc
}

func (p *cancellingProvider) Name() string { return "stub" }

func (p *cancellingProvider) Quotes(ctx context.Context, ids []string) (map[string]Money, error) {
	p.cancel()
	return nil, &TransientError{Provider: "stub", Err: ctx.Err()}
}
