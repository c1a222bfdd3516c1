package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockPulse/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const sampleBody = `{
  "Meta Data": {"2. Symbol": "TM"},
  "Time Series (Daily)": {
    "2024-01-03": {"1. open": "181.50", "2. high": "183.00", "3. low": "180.10", "4. close": "182.25", "5. volume": "1200"},
    "2024-01-02": {"1. open": "180.00", "2. high": "182.00", "3. low": "179.00", "4. close": "181.50", "5. volume": "1000"},
    "2024-01-04": {"1. open": "oops", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}
  }
}`

func newTestClient(url string, c cache.Service) *Client {
	opts := []Option{WithBaseURL(url), WithLimiter(rate.NewLimiter(rate.Inf, 1))}
	if c != nil {
		opts = append(opts, WithCache(c, time.Hour))
	}
	return New("demo", opts...)
}

func TestTransform(t *testing.T) {
	bars, skipped, err := Transform("TM", []byte(sampleBody))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-01-02", bars[0].EventDate.Format("2006-01-02"))
	assert.Equal(t, 181.5, bars[0].Close)
	assert.Equal(t, uint64(1200), bars[1].Volume)
	assert.Equal(t, "TM", bars[1].Ticker)
	assert.False(t, bars[1].News)
}

func TestTransformMissingSeries(t *testing.T) {
	_, _, err := Transform("TM", []byte(`{"Meta Data": {}}`))
	require.ErrorIs(t, err, ErrNoTimeSeries)
}

func TestDailyBarsFetchesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "TM", r.URL.Query().Get("symbol"))
		assert.Equal(t, "full", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "demo", r.URL.Query().Get("apikey"))
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	mem := cache.NewTTLCache()
	c := newTestClient(srv.URL, mem)

	bars, err := c.DailyBars(context.Background(), "TM")
	require.NoError(t, err)
	assert.Len(t, bars, 2)

	bars, err = c.DailyBars(context.Background(), "TM")
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDailyBarsRateLimitNotCached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Information": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer srv.Close()

	mem := cache.NewTTLCache()
	c := newTestClient(srv.URL, mem)

	_, err := c.DailyBars(context.Background(), "TM")
	require.ErrorIs(t, err, ErrRateLimited)

	_, err = mem.GetBytes(context.Background(), c.cacheKey("TM"))
	require.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestDailyBarsNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "call frequency"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, nil).DailyBars(context.Background(), "TM")
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestDailyBarsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, nil).DailyBars(context.Background(), "TM")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDailyBarsMissingKey(t *testing.T) {
	c := New("", WithLimiter(rate.NewLimiter(rate.Inf, 1)))
	_, err := c.DailyBars(context.Background(), "TM")
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestDailyBarsCacheHitWithoutKey(t *testing.T) {
	mem := cache.NewTTLCache()
	c := New("", WithCache(mem, 0))
	require.NoError(t, mem.SetBytes(context.Background(), c.cacheKey("TM"), []byte(sampleBody), 0))

	bars, err := c.DailyBars(context.Background(), "TM")
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}
