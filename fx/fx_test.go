package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(WithBaseURL(url), WithHTTPClient(http.DefaultClient))
}

func TestRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/INR", r.URL.Path)
		w.Write([]byte(`{"base":"INR","rates":{"USD":0.0112,"EUR":0.0104}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	rate, err := client.Rate(context.Background(), "INR", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.0112)), "Rate() = %s, want 0.0112", rate)
}

func TestRate_SameCurrency(t *testing.T) {
	// no server: the identity rate must not hit the network
	client := newTestClient("http://127.0.0.1:0")
	rate, err := client.Rate(context.Background(), "USD", "USD")

	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRate_Unknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base":"INR","rates":{"EUR":0.0104}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Rate(context.Background(), "INR", "USD")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "INR->USD")
}

func TestRate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Rate(context.Background(), "INR", "USD")
	assert.Error(t, err)
}
