package models

import "time"

// DailyBar is one trading day of OHLCV data for a ticker, plus the curated news label.
type DailyBar struct {
	Ticker    string
	EventDate time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    uint64
	News      bool
	NewsType  *string // nil when no news was recorded for the day
}

// NewsLabel returns the raw news type or "" when absent.
func (b DailyBar) NewsLabel() string {
	if b.NewsType == nil {
		return ""
	}
	return *b.NewsType
}

// NewsEvent is a dated, labelled news item resolved from a curated article URL.
type NewsEvent struct {
	URL       string
	Type      string
	EventDate time.Time
}

// MarketClose is one daily close of a reference index.
type MarketClose struct {
	EventDate time.Time
	Close     float64
}
