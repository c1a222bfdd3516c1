package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/service/newsscrape"
	applogger "StockPulse/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DateResolver finds the publication day of an article.
type DateResolver interface {
	PublishedOn(ctx context.Context, url string) (time.Time, error)
}

// EnrichReport summarises one enrichment run.
type EnrichReport struct {
	Entries  int
	Resolved int
	Applied  int
	Failed   int
}

// Enricher labels bars with curated news events.
type Enricher struct {
	symbol      string
	resolver    DateResolver
	store       drepo.BarStore
	concurrency int
	limiter     *rate.Limiter
	metrics     drepo.Metrics
	l           *applogger.Logger
}

func NewEnricher(symbol string, resolver DateResolver, store drepo.BarStore, concurrency int, limiter *rate.Limiter, metrics drepo.Metrics, l *applogger.Logger) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Enricher{
		symbol:      symbol,
		resolver:    resolver,
		store:       store,
		concurrency: concurrency,
		limiter:     limiter,
		metrics:     metrics,
		l:           l,
	}
}

// Resolve fetches publication days concurrently. Entries that cannot be
// resolved are logged and left out; the result keeps file order.
func (e *Enricher) Resolve(ctx context.Context, entries []newsscrape.Entry) ([]models.NewsEvent, error) {
	resolved := make([]*models.NewsEvent, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for idx, entry := range entries {
		g.Go(func() error {
			if err := e.limiter.Wait(gctx); err != nil {
				return err
			}
			day, err := e.resolver.PublishedOn(gctx, entry.URL)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				e.l.Warn("news date not resolved",
					applogger.Int("line", entry.Line),
					applogger.String("url", entry.URL),
					applogger.Error(err),
				)
				return nil
			}
			resolved[idx] = &models.NewsEvent{URL: entry.URL, Type: entry.Type, EventDate: day}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve news dates: %w", err)
	}

	out := make([]models.NewsEvent, 0, len(entries))
	for _, ev := range resolved {
		if ev != nil {
			out = append(out, *ev)
		}
	}
	return out, nil
}

// Run resolves entries and applies the labels in file order, so a later line
// for the same day wins. Failed updates are logged and counted.
func (e *Enricher) Run(ctx context.Context, entries []newsscrape.Entry) (EnrichReport, error) {
	began := time.Now()
	rep := EnrichReport{Entries: len(entries)}

	events, err := e.Resolve(ctx, entries)
	if err != nil {
		e.metrics.RecordError("enrich")
		return rep, err
	}
	rep.Resolved = len(events)
	rep.Failed = len(entries) - len(events)

	for _, ev := range events {
		if err := e.store.MarkNews(ctx, e.symbol, ev.EventDate, ev.Type); err != nil {
			if ctx.Err() != nil {
				e.metrics.RecordError("enrich")
				return rep, ctx.Err()
			}
			rep.Failed++
			e.l.Error("news label not applied",
				applogger.Date("day", ev.EventDate),
				applogger.String("news_type", ev.Type),
				applogger.Error(err),
			)
			continue
		}
		rep.Applied++
		e.l.Debug("news label applied", applogger.Date("day", ev.EventDate), applogger.String("news_type", ev.Type))
	}

	e.metrics.RecordStage("enrich", rep.Applied, time.Since(began).Seconds())
	e.l.Info("enrichment finished",
		applogger.Int("entries", rep.Entries),
		applogger.Int("applied", rep.Applied),
		applogger.Int("failed", rep.Failed),
		applogger.Duration("duration_ms", time.Since(began)),
	)
	return rep, nil
}
