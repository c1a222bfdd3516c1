package usecase

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	applogger "StockPulse/pkg/logger"
)

// Preparer runs load, feature building and the chronological split.
type Preparer struct {
	loader  *Loader
	builder *features.Builder
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewPreparer(loader *Loader, builder *features.Builder, metrics drepo.Metrics, l *applogger.Logger) *Preparer {
	return &Preparer{loader: loader, builder: builder, metrics: metrics, l: l}
}

// Symbol is the ticker being prepared.
func (p *Preparer) Symbol() string { return p.loader.Symbol() }

// Table loads bars from start and builds the unscaled feature table.
func (p *Preparer) Table(ctx context.Context, start time.Time) (*models.FeatureTable, error) {
	bars, err := p.loader.Load(ctx, start)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	table, err := p.builder.Build(bars)
	if err != nil {
		p.metrics.RecordError("build")
		p.l.Error("build features failed", applogger.Int("bars", len(bars)), applogger.Error(err))
		return nil, err
	}
	p.metrics.RecordStage("build", table.Len(), time.Since(began).Seconds())
	p.l.Info("features built",
		applogger.Int("bars", len(bars)),
		applogger.Int("rows", table.Len()),
		applogger.Int("columns", len(table.Columns)),
		applogger.Duration("duration_ms", time.Since(began)),
	)
	return table, nil
}

// Prepare returns the scaled train/test dataset split at cutoff.
func (p *Preparer) Prepare(ctx context.Context, start, cutoff time.Time) (*models.Dataset, error) {
	table, err := p.Table(ctx, start)
	if err != nil {
		return nil, err
	}

	began := time.Now()
	ds, _, err := features.Split(table, cutoff)
	if err != nil {
		p.metrics.RecordError("split")
		p.l.Error("split failed", applogger.Date("cutoff", cutoff), applogger.Error(err))
		return nil, err
	}
	p.metrics.RecordStage("split", len(ds.XTrain)+len(ds.XTest), time.Since(began).Seconds())
	p.l.Info("dataset split",
		applogger.Date("cutoff", cutoff),
		applogger.Int("train_rows", len(ds.XTrain)),
		applogger.Int("test_rows", len(ds.XTest)),
	)
	return ds, nil
}
