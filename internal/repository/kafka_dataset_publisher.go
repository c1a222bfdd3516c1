package repository

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const publishChunk = 500

type batchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// DatasetHeader is the first message of a published dataset.
type DatasetHeader struct {
	Kind      string   `json:"kind"`
	Symbol    string   `json:"symbol"`
	Cutoff    string   `json:"cutoff"`
	Columns   []string `json:"columns"`
	TrainRows int      `json:"train_rows"`
	TestRows  int      `json:"test_rows"`
}

// DatasetRow is one scaled feature row. Values follow DatasetHeader.Columns.
type DatasetRow struct {
	Kind      string    `json:"kind"`
	Symbol    string    `json:"symbol"`
	EventDate string    `json:"event_date"`
	Partition string    `json:"partition"`
	Values    []float64 `json:"values"`
	Target    bool      `json:"target"`
}

// KafkaDatasetPublisher writes a header message followed by one message per row,
// keyed by event date so a compacted topic keeps the latest run per day.
type KafkaDatasetPublisher struct {
	p     batchPublisher
	topic string
	l     *applogger.Logger
}

func NewKafkaDatasetPublisher(p *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaDatasetPublisher {
	return newKafkaDatasetPublisher(p, topic, l)
}

func newKafkaDatasetPublisher(p batchPublisher, topic string, l *applogger.Logger) *KafkaDatasetPublisher {
	if l == nil {
		l = applogger.Nop()
	}
	return &KafkaDatasetPublisher{p: p, topic: topic, l: l}
}

func (k *KafkaDatasetPublisher) PublishDataset(ctx context.Context, symbol string, ds *models.Dataset) error {
	start := time.Now()
	header := DatasetHeader{
		Kind:      "header",
		Symbol:    symbol,
		Cutoff:    util.FormatDate(ds.Cutoff),
		Columns:   ds.Columns,
		TrainRows: len(ds.XTrain),
		TestRows:  len(ds.XTest),
	}
	msgs := make([]pkgkafka.Message, 0, publishChunk)
	msgs = append(msgs, pkgkafka.Message{Key: []byte(symbol + ":header"), Value: header})

	total := 0
	flush := func() error {
		if len(msgs) == 0 {
			return nil
		}
		if err := k.p.PublishBatch(ctx, k.topic, msgs); err != nil {
			return fmt.Errorf("publish dataset: %w", err)
		}
		total += len(msgs)
		msgs = msgs[:0]
		return nil
	}

	add := func(partition string, dates []time.Time, x [][]float64, y []bool) error {
		for i := range x {
			day := util.FormatDate(dates[i])
			msgs = append(msgs, pkgkafka.Message{
				Key: []byte(symbol + ":" + day),
				Value: DatasetRow{
					Kind:      "row",
					Symbol:    symbol,
					EventDate: day,
					Partition: partition,
					Values:    x[i],
					Target:    y[i],
				},
			})
			if len(msgs) >= publishChunk {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := add("train", ds.TrainDates, ds.XTrain, ds.YTrain); err != nil {
		return err
	}
	if err := add("test", ds.TestDates, ds.XTest, ds.YTest); err != nil {
		return err
	}
	if err := flush(); err != nil {
		return err
	}
	k.l.Info("dataset published",
		applogger.String("topic", k.topic),
		applogger.String("symbol", symbol),
		applogger.Int("messages", total),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return nil
}

func (k *KafkaDatasetPublisher) Close() error {
	return k.p.Close()
}
