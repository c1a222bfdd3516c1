package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"golang.org/x/time/rate"
)

var (
	ErrRateLimited   = errors.New("alphavantage: rate limited")
	ErrMissingAPIKey = errors.New("alphavantage: api key is required")
	ErrNoTimeSeries  = errors.New("alphavantage: response has no daily time series")
)

const seriesKey = "Time Series (Daily)"

// Option configures Client.
type Option func(*Client)

// Client fetches TIME_SERIES_DAILY and caches the raw body.
type Client struct {
	http       *xhttp.Client
	baseURL    string
	apiKey     string
	outputSize string
	cache      cache.Service
	cacheTTL   time.Duration
	limiter    *rate.Limiter
	l          *applogger.Logger
}

// New creates a client. The free tier allows 5 calls a minute.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    "https://www.alphavantage.co/query",
		apiKey:     apiKey,
		outputSize: "full",
		limiter:    rate.NewLimiter(rate.Every(12*time.Second), 1),
		l:          applogger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(30 * time.Second))
	}
	return c
}

func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

func WithOutputSize(s string) Option { return func(c *Client) { c.outputSize = s } }

func WithHTTPClient(h *xhttp.Client) Option { return func(c *Client) { c.http = h } }

// WithCache stores validated responses; ttl 0 keeps them forever.
func WithCache(s cache.Service, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = s
		c.cacheTTL = ttl
	}
}

func WithLimiter(l *rate.Limiter) Option { return func(c *Client) { c.limiter = l } }

func WithLogger(l *applogger.Logger) Option { return func(c *Client) { c.l = l } }

// DailyBars returns the full daily history for symbol, oldest first.
func (c *Client) DailyBars(ctx context.Context, symbol string) ([]models.DailyBar, error) {
	raw, err := c.rawDaily(ctx, symbol)
	if err != nil {
		return nil, err
	}
	bars, skipped, err := Transform(symbol, raw)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.l.Warn("alphavantage rows skipped", applogger.String("symbol", symbol), applogger.Int("skipped", skipped))
	}
	return bars, nil
}

func (c *Client) cacheKey(symbol string) string {
	return cache.GenerateKeyWithParams("alphavantage", "daily", symbol, c.outputSize)
}

func (c *Client) rawDaily(ctx context.Context, symbol string) ([]byte, error) {
	key := c.cacheKey(symbol)
	if c.cache != nil {
		body, err := c.cache.GetBytes(ctx, key)
		switch {
		case err == nil:
			c.l.Info("alphavantage cache hit", applogger.String("key", key))
			return body, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			c.l.Warn("alphavantage cache read failed", applogger.String("key", key), applogger.Error(err))
		}
	}

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("alphavantage wait: %w", err)
	}

	start := time.Now()
	body, err := c.http.GetBytes(ctx, &xhttp.RequestOptions{
		URL: c.baseURL,
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY"},
			"symbol":     {symbol},
			"outputsize": {c.outputSize},
			"apikey":     {c.apiKey},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	if err := checkBody(body); err != nil {
		return nil, err
	}
	c.l.Info("alphavantage fetch ok",
		applogger.String("symbol", symbol),
		applogger.Int("bytes", len(body)),
		applogger.Duration("duration_ms", time.Since(start)),
	)

	if c.cache != nil {
		if err := c.cache.SetBytes(ctx, key, body, c.cacheTTL); err != nil {
			c.l.Warn("alphavantage cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return body, nil
}

// checkBody rejects throttling notes and bodies without a daily series.
func checkBody(body []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return fmt.Errorf("alphavantage decode: %w", err)
	}
	for _, k := range []string{"Information", "Note"} {
		if msg, ok := probe[k]; ok {
			var s string
			_ = json.Unmarshal(msg, &s)
			return fmt.Errorf("%w: %s", ErrRateLimited, s)
		}
	}
	if msg, ok := probe["Error Message"]; ok {
		var s string
		_ = json.Unmarshal(msg, &s)
		return fmt.Errorf("alphavantage: %s", s)
	}
	if _, ok := probe[seriesKey]; !ok {
		return ErrNoTimeSeries
	}
	return nil
}
