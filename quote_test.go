package folio

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{"  AAPL  ", "AAPL"},
		{"btc-usd", "BTC-USD"},
		{" 120503 ", "120503"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteCache(t *testing.T) {
	cache := NewQuoteCache()

	if _, ok := cache.Get("AAPL"); ok {
		t.Errorf("Get() on empty cache = hit, want miss")
	}

	cache.Put("AAPL", NewQuote(USD(150)))
	q, ok := cache.Get("AAPL")
	if !ok {
		t.Fatalf("Get() after Put() = miss, want hit")
	}
	if !q.Price.Equal(USD(150)) {
		t.Errorf("Get().Price = %v, want %v", q.Price, USD(150))
	}

	// failures are cached too
	cache.Put("GONE", NoQuote(errors.New("no data")))
	q, ok = cache.Get("GONE")
	if !ok || q.Err == nil {
		t.Errorf("Get() of failed quote = (%v, %v), want cached error", q, ok)
	}

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
}

func TestQuoteCacheConcurrent(t *testing.T) {
	cache := NewQuoteCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("ID%d", n%4)
			cache.Put(id, NewQuote(USD(float64(n))))
			cache.Get(id)
		}(i)
	}
	wg.Wait()

	if cache.Len() != 4 {
		t.Errorf("Len() = %d, want 4", cache.Len())
	}
}
