package features

import (
	"fmt"
	"math"
	"strconv"

	"StockPulse/internal/domain/models"
)

// Params sets the lookback windows. The zero value is not usable; see DefaultParams.
type Params struct {
	Lags      int
	SMAShort  int
	SMALong   int
	VolWindow int
	RSIPeriod int
}

// DefaultParams are the windows used by the research pipeline.
func DefaultParams() Params {
	return Params{Lags: 5, SMAShort: 10, SMALong: 30, VolWindow: 30, RSIPeriod: 14}
}

// Warmup is the number of leading rows dropped: the longest lookback in effect.
func (p Params) Warmup() int {
	return max(p.Lags, p.SMAShort, p.SMALong, p.VolWindow, p.RSIPeriod)
}

func (p Params) validate() error {
	if p.Lags < 1 || p.SMAShort < 1 || p.SMALong < 1 || p.VolWindow < 2 || p.RSIPeriod < 1 {
		return fmt.Errorf("features: invalid params %+v", p)
	}
	return nil
}

// Builder turns a date-ordered bar series into the dense feature table.
type Builder struct {
	params     Params
	categories CategorySet
}

// NewBuilder creates a Builder for the given windows and news categories.
func NewBuilder(params Params, categories CategorySet) (*Builder, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Builder{params: params, categories: categories}, nil
}

// Columns is the predictor column order. It is fixed for a Builder.
func (b *Builder) Columns() []string {
	cols := []string{"open", "high", "low", "close", "volume", "news"}
	for i := 1; i <= b.params.Lags; i++ {
		n := strconv.Itoa(i)
		cols = append(cols, "close_lag_"+n, "volume_lag_"+n)
	}
	cols = append(cols,
		"sma_"+strconv.Itoa(b.params.SMAShort),
		"sma_"+strconv.Itoa(b.params.SMALong),
		"volatility_"+strconv.Itoa(b.params.VolWindow),
		"rsi",
	)
	return append(cols, b.categories.Columns()...)
}

// Build computes target, lags, moving averages, volatility, RSI and news
// indicators, then drops the warm-up rows and the final row (no next day).
// bars must be ascending by date with no duplicates.
func (b *Builder) Build(bars []models.DailyBar) (*models.FeatureTable, error) {
	warmup := b.params.Warmup()
	if len(bars) < warmup+2 {
		return nil, fmt.Errorf("%w: have %d bars, need at least %d", ErrInsufficientData, len(bars), warmup+2)
	}

	n := len(bars)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, bar := range bars {
		closes[i] = bar.Close
		volumes[i] = float64(bar.Volume)
	}

	// 1. target, undefined on the last row
	next := Lead(closes, 1)

	// 2-5. predictors
	closeLags := make([][]float64, b.params.Lags)
	volumeLags := make([][]float64, b.params.Lags)
	for i := range closeLags {
		closeLags[i] = Lag(closes, i+1)
		volumeLags[i] = Lag(volumes, i+1)
	}
	smaShort := RollingMean(closes, b.params.SMAShort)
	smaLong := RollingMean(closes, b.params.SMALong)
	vol := RollingStd(closes, b.params.VolWindow)
	rsi := RSI(closes, b.params.RSIPeriod)

	cols := b.Columns()
	table := &models.FeatureTable{Columns: cols}
	for t := warmup; t < n; t++ {
		if math.IsNaN(next[t]) {
			continue
		}
		bar := bars[t]
		row := make([]float64, 0, len(cols))
		row = append(row, bar.Open, bar.High, bar.Low, bar.Close, volumes[t], boolFloat(bar.News))
		for i := range closeLags {
			row = append(row, closeLags[i][t], volumeLags[i][t])
		}
		row = append(row, smaShort[t], smaLong[t], vol[t], rsi[t])
		// 6. one-hot news category; 7. ticker and raw label are not carried
		row = append(row, b.categories.Encode(bar.NewsType)...)

		// 8. any remaining hole drops the row
		if hasNaN(row) {
			continue
		}
		table.Dates = append(table.Dates, bar.EventDate)
		table.Values = append(table.Values, row)
		table.Target = append(table.Target, next[t] > closes[t])
	}

	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: no complete rows after warm-up", ErrInsufficientData)
	}
	return table, nil
}

func boolFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func hasNaN(row []float64) bool {
	for _, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
