package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/analytics"
	applogger "StockPulse/pkg/logger"
)

// Analyzer runs the descriptive impact comparison and the market-model event study.
type Analyzer struct {
	loader  *Loader
	market  drepo.MarketSource
	index   string
	window  int
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewAnalyzer(loader *Loader, market drepo.MarketSource, index string, window int, metrics drepo.Metrics, l *applogger.Logger) *Analyzer {
	return &Analyzer{loader: loader, market: market, index: index, window: window, metrics: metrics, l: l}
}

// Impact compares news and news-free days from start.
func (a *Analyzer) Impact(ctx context.Context, start time.Time) (*models.ImpactSummary, error) {
	bars, err := a.loader.Load(ctx, start)
	if err != nil {
		return nil, err
	}
	began := time.Now()
	sum, err := analytics.Impact(a.loader.Symbol(), bars)
	if err != nil {
		a.metrics.RecordError("impact")
		return nil, err
	}
	a.metrics.RecordStage("impact", len(bars), time.Since(began).Seconds())
	a.l.Info("impact analysis done",
		applogger.Int("no_news_days", sum.NoNews.Days),
		applogger.Int("news_days", sum.WithNews.Days),
		applogger.Float64("abs_return_no_news", sum.NoNews.AbsReturn),
		applogger.Float64("abs_return_news", sum.WithNews.AbsReturn),
	)
	return sum, nil
}

// EventStudy estimates abnormal returns around news days. A window of 0 uses the configured one.
func (a *Analyzer) EventStudy(ctx context.Context, start time.Time, window int) (*models.EventStudy, error) {
	if window <= 0 {
		window = a.window
	}
	bars, err := a.loader.Load(ctx, start)
	if err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		return nil, analytics.ErrTooFewBars
	}

	began := time.Now()
	closes, err := a.market.DailyCloses(ctx, a.index, bars[0].EventDate, bars[len(bars)-1].EventDate)
	if err != nil {
		a.metrics.RecordError("event_study")
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	study, err := analytics.EventStudy(analytics.EventStudyInput{
		Symbol: a.loader.Symbol(),
		Index:  a.index,
		Bars:   bars,
		Market: closes,
		Window: window,
	})
	if err != nil {
		a.metrics.RecordError("event_study")
		return nil, err
	}
	a.metrics.RecordStage("event_study", study.Events, time.Since(began).Seconds())
	a.l.Info("event study done",
		applogger.String("index", a.index),
		applogger.Float64("alpha", study.Model.Alpha),
		applogger.Float64("beta", study.Model.Beta),
		applogger.Int("events", study.Events),
		applogger.Int("skipped", study.Skipped),
		applogger.Float64("caar_end", study.CAAR[len(study.CAAR)-1]),
	)
	return study, nil
}
