package usecase

import "errors"

var (
	// ErrSourceUnavailable wraps failures reaching the bar store or market data.
	ErrSourceUnavailable = errors.New("data source unavailable")
	// ErrUnorderedBars means the store returned dates out of order or duplicated.
	ErrUnorderedBars = errors.New("bars are not strictly increasing by date")
)
