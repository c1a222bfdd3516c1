package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// LoaderConfig selects the bars a Loader returns.
type LoaderConfig struct {
	Symbol    string
	StartDate time.Time
}

// Loader reads the bar snapshot for one symbol.
type Loader struct {
	cfg     LoaderConfig
	src     drepo.BarSource
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewLoader(cfg LoaderConfig, src drepo.BarSource, metrics drepo.Metrics, l *applogger.Logger) *Loader {
	return &Loader{cfg: cfg, src: src, metrics: metrics, l: l}
}

// Symbol is the configured ticker.
func (l *Loader) Symbol() string { return l.cfg.Symbol }

// Load returns bars dated on or after start, oldest first. A zero start uses
// the configured start date. No rows is not an error.
func (l *Loader) Load(ctx context.Context, start time.Time) ([]models.DailyBar, error) {
	if start.IsZero() {
		start = l.cfg.StartDate
	}
	start = util.TruncateDay(start)
	began := time.Now()

	bars, err := l.src.DailyBars(ctx, l.cfg.Symbol, start)
	if err != nil {
		l.metrics.RecordError("load")
		l.l.Error("load bars failed", applogger.String("symbol", l.cfg.Symbol), applogger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if err := checkOrdered(bars, start); err != nil {
		l.metrics.RecordError("load")
		return nil, err
	}
	if bars == nil {
		bars = []models.DailyBar{}
	}

	l.metrics.RecordStage("load", len(bars), time.Since(began).Seconds())
	l.l.Info("bars loaded",
		applogger.String("symbol", l.cfg.Symbol),
		applogger.Date("start", start),
		applogger.Int("rows", len(bars)),
		applogger.Duration("duration_ms", time.Since(began)),
	)
	return bars, nil
}

func checkOrdered(bars []models.DailyBar, start time.Time) error {
	for i, b := range bars {
		if b.EventDate.Before(start) {
			return fmt.Errorf("%w: %s is before start %s", ErrUnorderedBars, util.FormatDate(b.EventDate), util.FormatDate(start))
		}
		if i > 0 && !b.EventDate.After(bars[i-1].EventDate) {
			return fmt.Errorf("%w: %s follows %s", ErrUnorderedBars, util.FormatDate(b.EventDate), util.FormatDate(bars[i-1].EventDate))
		}
	}
	return nil
}
