package analytics

import "errors"

var (
	ErrTooFewBars         = errors.New("analytics: at least two bars are required")
	ErrNoEstimationWindow = errors.New("analytics: no news-free days to estimate the market model")
	ErrNoEventWindows     = errors.New("analytics: no news day has a complete event window")
	ErrBadWindow          = errors.New("analytics: event window must be positive")
)
