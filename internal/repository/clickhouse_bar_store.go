package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	pkgch "StockPulse/pkg/clickhouse"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

const defaultChunkSize = 2000

// CHBarStore implements BarStore backed by a ClickHouse ReplacingMergeTree table.
type CHBarStore struct {
	db        *sql.DB
	database  string
	table     string
	chunkSize int
	l         *applogger.Logger
}

// NewCHBarStore builds a store for database.table.
func NewCHBarStore(ch *pkgch.Client, database, table string, chunkSize int) *CHBarStore {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &CHBarStore{
		db:        ch.DB(),
		database:  database,
		table:     table,
		chunkSize: chunkSize,
		l:         applogger.Nop(),
	}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) qualified() string {
	return s.database + "." + s.table
}

// Schema returns the idempotent DDL for the bar table.
func (s *CHBarStore) Schema() []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    ticker     String,
    event_date Date,
    open       Float64,
    high       Float64,
    low        Float64,
    close      Float64,
    volume     UInt64,
    news       UInt8 DEFAULT 0,
    news_type  Nullable(String)
) ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(event_date)
ORDER BY (ticker, event_date)`, s.qualified()),
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS news UInt8 DEFAULT 0", s.qualified()),
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS news_type Nullable(String)", s.qualified()),
	}
}

// Init creates the database and table when missing.
func (s *CHBarStore) Init(ctx context.Context) error {
	for _, stmt := range s.Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.l.Error("clickhouse init schema error", applogger.String("table", s.qualified()), applogger.Error(err))
			return fmt.Errorf("init schema: %w", err)
		}
	}
	s.l.Info("clickhouse schema ready", applogger.String("table", s.qualified()))
	return nil
}

// DailyBars returns bars for symbol on or after from, oldest first.
// FINAL collapses rows not yet merged by ReplacingMergeTree.
func (s *CHBarStore) DailyBars(ctx context.Context, symbol string, from time.Time) ([]models.DailyBar, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT ticker, event_date, open, high, low, close, volume, news, news_type
        FROM %s FINAL
        WHERE ticker = ? AND event_date >= ?
        ORDER BY event_date ASC
    `, s.qualified())
	rows, err := s.db.QueryContext(ctx, q, symbol, util.FormatDate(from))
	if err != nil {
		s.l.Error("clickhouse daily_bars query error",
			applogger.String("table", s.qualified()),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query daily bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.DailyBar, 0, 2048)
	for rows.Next() {
		var (
			b        models.DailyBar
			news     uint8
			newsType sql.NullString
		)
		if err := rows.Scan(&b.Ticker, &b.EventDate, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &news, &newsType); err != nil {
			s.l.Error("clickhouse daily_bars scan error", applogger.String("symbol", symbol), applogger.Error(err))
			return nil, fmt.Errorf("scan daily bar: %w", err)
		}
		b.EventDate = util.TruncateDay(b.EventDate)
		b.News = news != 0
		if newsType.Valid {
			v := newsType.String
			b.NewsType = &v
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		s.l.Error("clickhouse daily_bars rows error", applogger.String("symbol", symbol), applogger.Error(err))
		return nil, fmt.Errorf("rows: %w", err)
	}
	s.l.Info("clickhouse daily_bars ok",
		applogger.String("symbol", symbol),
		applogger.Date("from", from),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// InsertBars writes bars with multi-row VALUES statements, chunkSize rows each.
// Rows for an existing (ticker, event_date) replace it on merge.
func (s *CHBarStore) InsertBars(ctx context.Context, bars []models.DailyBar) (int, error) {
	inserted := 0
	for start := 0; start < len(bars); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*9)
		for _, b := range bars[start:end] {
			if b.Ticker == "" || b.EventDate.IsZero() {
				continue
			}
			var news uint8
			if b.News {
				news = 1
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				b.Ticker,
				util.FormatDate(b.EventDate),
				b.Open,
				b.High,
				b.Low,
				b.Close,
				b.Volume,
				news,
				b.NewsType,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ticker, event_date, open, high, low, close, volume, news, news_type) VALUES %s",
			s.qualified(), strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			s.l.Error("clickhouse insert_bars error",
				applogger.Int("chunk_start", start),
				applogger.Int("inserted", inserted),
				applogger.Error(err),
			)
			return inserted, fmt.Errorf("insert bars: %w", err)
		}
		inserted += len(values)
	}
	return inserted, nil
}

// MarkNews flags the bar for day and waits for the mutation to finish on all replicas.
func (s *CHBarStore) MarkNews(ctx context.Context, symbol string, day time.Time, newsType string) error {
	q := fmt.Sprintf("ALTER TABLE %s UPDATE news = 1, news_type = ? WHERE event_date = ? AND ticker = ?", s.qualified())
	ctx = pkgch.WithSettings(ctx, map[string]any{"mutations_sync": 2})
	if _, err := s.db.ExecContext(ctx, q, newsType, util.FormatDate(day), symbol); err != nil {
		s.l.Error("clickhouse mark_news error",
			applogger.String("symbol", symbol),
			applogger.Date("day", day),
			applogger.Error(err),
		)
		return fmt.Errorf("mark news: %w", err)
	}
	return nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
