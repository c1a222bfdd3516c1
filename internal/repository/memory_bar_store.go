package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"
)

// MemoryBarStore is an in-process BarStore keyed by (ticker, day).
// InsertBars replaces existing days, like ReplacingMergeTree after a merge.
type MemoryBarStore struct {
	mu   sync.RWMutex
	bars map[string]map[string]models.DailyBar
}

func NewMemoryBarStore() *MemoryBarStore {
	return &MemoryBarStore{bars: make(map[string]map[string]models.DailyBar)}
}

func (s *MemoryBarStore) Init(context.Context) error { return nil }

func (s *MemoryBarStore) Health(context.Context) error { return nil }

func (s *MemoryBarStore) DailyBars(_ context.Context, symbol string, from time.Time) ([]models.DailyBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	from = util.TruncateDay(from)
	out := make([]models.DailyBar, 0, len(s.bars[symbol]))
	for _, b := range s.bars[symbol] {
		if !b.EventDate.Before(from) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (s *MemoryBarStore) InsertBars(_ context.Context, bars []models.DailyBar) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range bars {
		if b.Ticker == "" || b.EventDate.IsZero() {
			continue
		}
		byDay, ok := s.bars[b.Ticker]
		if !ok {
			byDay = make(map[string]models.DailyBar)
			s.bars[b.Ticker] = byDay
		}
		b.EventDate = util.TruncateDay(b.EventDate)
		byDay[util.FormatDate(b.EventDate)] = b
		n++
	}
	return n, nil
}

// MarkNews is a no-op when the day is absent, matching an UPDATE that matches no rows.
func (s *MemoryBarStore) MarkNews(_ context.Context, symbol string, day time.Time, newsType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := util.FormatDate(day)
	b, ok := s.bars[symbol][key]
	if !ok {
		return nil
	}
	b.News = true
	v := newsType
	b.NewsType = &v
	s.bars[symbol][key] = b
	return nil
}
