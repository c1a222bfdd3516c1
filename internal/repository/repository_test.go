package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	pkgch "StockPulse/pkg/clickhouse"
	pkgkafka "StockPulse/pkg/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newMockStore(t *testing.T, chunk int) (*CHBarStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewCHBarStore(pkgch.NewFromDB(db, "stocks_db"), "stocks_db", "stock_daily", chunk), mock
}

func TestCHBarStoreDailyBars(t *testing.T) {
	s, mock := newMockStore(t, 0)

	rows := sqlmock.NewRows([]string{"ticker", "event_date", "open", "high", "low", "close", "volume", "news", "news_type"}).
		AddRow("TM", day("2024-01-02"), 180.0, 182.0, 179.0, 181.5, uint64(1000), uint8(0), nil).
		AddRow("TM", day("2024-01-03"), 181.5, 183.0, 180.0, 182.0, uint64(1200), uint8(1), "earnings")
	mock.ExpectQuery(regexp.QuoteMeta("FROM stocks_db.stock_daily FINAL")).
		WithArgs("TM", "2024-01-01").
		WillReturnRows(rows)

	bars, err := s.DailyBars(context.Background(), "TM", day("2024-01-01"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-02"), bars[0].EventDate)
	assert.False(t, bars[0].News)
	assert.Nil(t, bars[0].NewsType)
	assert.True(t, bars[1].News)
	require.NotNil(t, bars[1].NewsType)
	assert.Equal(t, "earnings", *bars[1].NewsType)
	assert.Equal(t, uint64(1200), bars[1].Volume)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCHBarStoreDailyBarsQueryError(t *testing.T) {
	s, mock := newMockStore(t, 0)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := s.DailyBars(context.Background(), "TM", day("2024-01-01"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query daily bars")
}

func TestCHBarStoreInsertBarsChunks(t *testing.T) {
	s, mock := newMockStore(t, 2)
	bars := []models.DailyBar{
		{Ticker: "TM", EventDate: day("2024-01-02"), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Ticker: "TM", EventDate: day("2024-01-03"), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 11},
		{Ticker: "TM", EventDate: day("2024-01-04"), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 12},
	}

	insert := regexp.QuoteMeta("INSERT INTO stocks_db.stock_daily (ticker, event_date, open, high, low, close, volume, news, news_type) VALUES")
	mock.ExpectExec(insert + `.*\),\(`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(insert).
		WithArgs("TM", "2024-01-04", 1.0, 2.0, 0.5, 1.5, int64(12), int64(0), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.InsertBars(context.Background(), bars)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCHBarStoreInsertBarsError(t *testing.T) {
	s, mock := newMockStore(t, 1)
	bars := []models.DailyBar{
		{Ticker: "TM", EventDate: day("2024-01-02")},
		{Ticker: "TM", EventDate: day("2024-01-03")},
	}
	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT").WillReturnError(errors.New("too many parts"))

	n, err := s.InsertBars(context.Background(), bars)
	require.Error(t, err)
	assert.Equal(t, 1, n)
}

func TestCHBarStoreMarkNews(t *testing.T) {
	s, mock := newMockStore(t, 0)
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE stocks_db.stock_daily UPDATE news = 1, news_type = ? WHERE event_date = ? AND ticker = ?")).
		WithArgs("recall", "2024-02-05", "TM").
		WillReturnResult(driver.RowsAffected(0))

	require.NoError(t, s.MarkNews(context.Background(), "TM", day("2024-02-05"), "recall"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCHBarStoreInit(t *testing.T) {
	s, mock := newMockStore(t, 0)
	for range s.Schema() {
		mock.ExpectExec(".+").WillReturnResult(driver.RowsAffected(0))
	}
	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, s.Schema()[1], "ReplacingMergeTree")
}

func TestMemoryBarStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBarStore()
	n, err := s.InsertBars(ctx, []models.DailyBar{
		{Ticker: "TM", EventDate: day("2024-01-03"), Close: 2},
		{Ticker: "TM", EventDate: day("2024-01-02"), Close: 1},
		{Ticker: "HMC", EventDate: day("2024-01-02"), Close: 9},
		{Ticker: "TM", EventDate: day("2024-01-03"), Close: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, s.MarkNews(ctx, "TM", day("2024-01-03"), "product"))
	require.NoError(t, s.MarkNews(ctx, "TM", day("2030-01-01"), "product"))

	bars, err := s.DailyBars(ctx, "TM", day("2024-01-01"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-02"), bars[0].EventDate)
	assert.Equal(t, 3.0, bars[1].Close)
	assert.True(t, bars[1].News)
	assert.Equal(t, "product", bars[1].NewsLabel())

	bars, err = s.DailyBars(ctx, "TM", day("2024-01-03"))
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

type fakeBatchPublisher struct {
	batches [][]pkgkafka.Message
	err     error
	closed  bool
}

func (f *fakeBatchPublisher) PublishBatch(_ context.Context, _ string, messages []pkgkafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, append([]pkgkafka.Message(nil), messages...))
	return nil
}

func (f *fakeBatchPublisher) Close() error {
	f.closed = true
	return nil
}

func TestKafkaDatasetPublisher(t *testing.T) {
	fake := &fakeBatchPublisher{}
	pub := newKafkaDatasetPublisher(fake, "datasets", nil)
	ds := &models.Dataset{
		Columns:    []string{"a", "b"},
		Cutoff:     day("2024-01-03"),
		XTrain:     [][]float64{{0, 1}, {1, 0}},
		YTrain:     []bool{true, false},
		TrainDates: []time.Time{day("2024-01-01"), day("2024-01-02")},
		XTest:      [][]float64{{2, 2}},
		YTest:      []bool{true},
		TestDates:  []time.Time{day("2024-01-03")},
	}

	require.NoError(t, pub.PublishDataset(context.Background(), "TM", ds))
	require.Len(t, fake.batches, 1)
	msgs := fake.batches[0]
	require.Len(t, msgs, 4)

	header, ok := msgs[0].Value.(DatasetHeader)
	require.True(t, ok)
	assert.Equal(t, 2, header.TrainRows)
	assert.Equal(t, 1, header.TestRows)
	assert.Equal(t, "2024-01-03", header.Cutoff)

	last, ok := msgs[3].Value.(DatasetRow)
	require.True(t, ok)
	assert.Equal(t, "test", last.Partition)
	assert.Equal(t, "TM:2024-01-03", string(msgs[3].Key))
	assert.Equal(t, []float64{2, 2}, last.Values)

	require.NoError(t, pub.Close())
	assert.True(t, fake.closed)
}

func TestKafkaDatasetPublisherError(t *testing.T) {
	fake := &fakeBatchPublisher{err: errors.New("broker down")}
	pub := newKafkaDatasetPublisher(fake, "datasets", nil)
	err := pub.PublishDataset(context.Background(), "TM", &models.Dataset{Cutoff: day("2024-01-01")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish dataset")
}
