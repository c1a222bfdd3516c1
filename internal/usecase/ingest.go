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

// BarFetcher pulls the full daily history of a symbol from a vendor.
type BarFetcher interface {
	DailyBars(ctx context.Context, symbol string) ([]models.DailyBar, error)
}

// Ingestor copies vendor bars into the store.
type Ingestor struct {
	symbol  string
	fetcher BarFetcher
	store   drepo.BarStore
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewIngestor(symbol string, fetcher BarFetcher, store drepo.BarStore, metrics drepo.Metrics, l *applogger.Logger) *Ingestor {
	return &Ingestor{symbol: symbol, fetcher: fetcher, store: store, metrics: metrics, l: l}
}

// InitSchema creates the bar table when missing.
func (i *Ingestor) InitSchema(ctx context.Context) error {
	if err := i.store.Init(ctx); err != nil {
		i.metrics.RecordError("init")
		return err
	}
	return nil
}

// Run fetches and inserts the history. Re-running replaces rows per day and
// keeps news labels already applied to those days.
func (i *Ingestor) Run(ctx context.Context) (int, error) {
	began := time.Now()
	bars, err := i.fetcher.DailyBars(ctx, i.symbol)
	if err != nil {
		i.metrics.RecordError("fetch")
		i.l.Error("fetch bars failed", applogger.String("symbol", i.symbol), applogger.Error(err))
		return 0, fmt.Errorf("fetch %s: %w", i.symbol, err)
	}
	if len(bars) == 0 {
		i.l.Warn("vendor returned no bars", applogger.String("symbol", i.symbol))
		return 0, nil
	}

	if err := i.carryNews(ctx, bars); err != nil {
		i.metrics.RecordError("fetch")
		return 0, err
	}

	n, err := i.store.InsertBars(ctx, bars)
	if err != nil {
		i.metrics.RecordError("fetch")
		return n, fmt.Errorf("store bars: %w", err)
	}
	i.metrics.RecordStage("fetch", n, time.Since(began).Seconds())
	i.l.Info("bars ingested",
		applogger.String("symbol", i.symbol),
		applogger.Date("first", bars[0].EventDate),
		applogger.Date("last", bars[len(bars)-1].EventDate),
		applogger.Int("rows", n),
		applogger.Duration("duration_ms", time.Since(began)),
	)
	return n, nil
}

func (i *Ingestor) carryNews(ctx context.Context, bars []models.DailyBar) error {
	existing, err := i.store.DailyBars(ctx, i.symbol, bars[0].EventDate)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	labels := make(map[string]models.DailyBar, len(existing))
	for _, b := range existing {
		if b.News {
			labels[util.FormatDate(b.EventDate)] = b
		}
	}
	for k := range bars {
		if old, ok := labels[util.FormatDate(bars[k].EventDate)]; ok {
			bars[k].News = true
			bars[k].NewsType = old.NewsType
		}
	}
	return nil
}
