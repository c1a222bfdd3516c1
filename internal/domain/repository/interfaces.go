package repository

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
)

// BarSource provides read-only, date-ordered access to persisted daily bars.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, from time.Time) ([]models.DailyBar, error)
}

// BarStore persists daily bars and their news labels.
type BarStore interface {
	BarSource
	Init(ctx context.Context) error
	InsertBars(ctx context.Context, bars []models.DailyBar) (int, error)
	MarkNews(ctx context.Context, symbol string, day time.Time, newsType string) error
	Health(ctx context.Context) error
}

// MarketSource returns daily closes for a reference index over [from, to].
type MarketSource interface {
	DailyCloses(ctx context.Context, index string, from, to time.Time) ([]models.MarketClose, error)
}

// DatasetPublisher ships prepared dataset rows to downstream consumers.
type DatasetPublisher interface {
	PublishDataset(ctx context.Context, symbol string, ds *models.Dataset) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordStage(stage string, rows int, seconds float64)
	RecordError(stage string)
}
