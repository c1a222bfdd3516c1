package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"StockPulse/internal/domain/models"
)

var day0 = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes []float64) []models.DailyBar {
	bars := make([]models.DailyBar, len(closes))
	for i, c := range closes {
		bars[i] = models.DailyBar{
			Ticker:    "TM",
			EventDate: day0.AddDate(0, 0, i),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    uint64(1000 + (i*37)%500),
		}
	}
	return bars
}

func wavyCloses(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i)*0.1
	}
	return out
}

func constantCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func newTestBuilder(t *testing.T, categories ...string) *Builder {
	t.Helper()
	b, err := NewBuilder(DefaultParams(), NewCategorySet(categories))
	require.NoError(t, err)
	return b
}

func strPtr(s string) *string { return &s }

func TestBuildRowCountDropsWarmupAndLastRow(t *testing.T) {
	b := newTestBuilder(t, "earnings")
	for _, n := range []int{32, 40, 75, 300} {
		table, err := b.Build(barsFromCloses(wavyCloses(n)))
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, n-30-1, table.Len(), "n=%d", n)
		assert.Len(t, table.Values, table.Len())
		assert.Len(t, table.Target, table.Len())
		for _, row := range table.Values {
			require.Len(t, row, len(table.Columns))
			for _, v := range row {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		}
	}
}

func TestBuildConstantCloseSeries(t *testing.T) {
	b := newTestBuilder(t)
	table, err := b.Build(barsFromCloses(constantCloses(40, 50)))
	require.NoError(t, err)

	require.Equal(t, 9, table.Len())
	for _, up := range table.Target {
		assert.False(t, up)
	}
	for _, v := range table.Column("rsi") {
		assert.Equal(t, 100.0, v)
	}
	for _, v := range table.Column("volatility_30") {
		assert.Equal(t, 0.0, v)
	}
	// first kept row is the 31st bar
	assert.Equal(t, day0.AddDate(0, 0, 30), table.Dates[0])
	assert.Equal(t, day0.AddDate(0, 0, 38), table.Dates[8])
}

func TestBuildInsufficientData(t *testing.T) {
	b := newTestBuilder(t)
	_, err := b.Build(barsFromCloses(wavyCloses(31)))
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = b.Build(nil)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestBuildColumnOrderIsStable(t *testing.T) {
	b := newTestBuilder(t, "earnings", "recall")
	want := []string{
		"open", "high", "low", "close", "volume", "news",
		"close_lag_1", "volume_lag_1", "close_lag_2", "volume_lag_2",
		"close_lag_3", "volume_lag_3", "close_lag_4", "volume_lag_4",
		"close_lag_5", "volume_lag_5",
		"sma_10", "sma_30", "volatility_30", "rsi",
		"news_type_no news", "news_type_earnings", "news_type_recall", "news_type_other",
	}
	assert.Equal(t, want, b.Columns())

	t1, err := b.Build(barsFromCloses(wavyCloses(60)))
	require.NoError(t, err)
	t2, err := b.Build(barsFromCloses(wavyCloses(60)))
	require.NoError(t, err)
	assert.Equal(t, want, t1.Columns)
	assert.Equal(t, t1, t2)
}

func TestBuildTargetLagsAndAverages(t *testing.T) {
	closes := wavyCloses(50)
	bars := barsFromCloses(closes)
	b := newTestBuilder(t)
	table, err := b.Build(bars)
	require.NoError(t, err)

	for i, d := range table.Dates {
		idx := int(d.Sub(day0).Hours() / 24)
		assert.Equal(t, closes[idx+1] > closes[idx], table.Target[i])
	}

	first := 30
	assert.Equal(t, closes[first-1], table.Column("close_lag_1")[0])
	assert.Equal(t, closes[first-5], table.Column("close_lag_5")[0])
	assert.Equal(t, float64(bars[first-3].Volume), table.Column("volume_lag_3")[0])
	assert.InDelta(t, stat.Mean(closes[first-9:first+1], nil), table.Column("sma_10")[0], 1e-9)
	assert.InDelta(t, stat.Mean(closes[first-29:first+1], nil), table.Column("sma_30")[0], 1e-9)
	assert.InDelta(t, stat.StdDev(closes[first-29:first+1], nil), table.Column("volatility_30")[0], 1e-9)
}

func TestBuildNewsEncoding(t *testing.T) {
	bars := barsFromCloses(wavyCloses(45))
	bars[35].News = true
	bars[35].NewsType = strPtr("earnings")

	b := newTestBuilder(t, "earnings")
	table, err := b.Build(bars)
	require.NoError(t, err)

	earnings := table.Column("news_type_earnings")
	noNews := table.Column("news_type_no news")
	require.NotNil(t, earnings)
	require.NotNil(t, noNews)

	hits := 0
	for i, d := range table.Dates {
		if d.Equal(bars[35].EventDate) {
			assert.Equal(t, 1.0, earnings[i])
			assert.Equal(t, 0.0, noNews[i])
			assert.Equal(t, 1.0, table.Column("news")[i])
			hits++
			continue
		}
		assert.Equal(t, 0.0, earnings[i])
		assert.Equal(t, 1.0, noNews[i])
	}
	assert.Equal(t, 1, hits)
}

func TestBuildOneHotSumsToOne(t *testing.T) {
	bars := barsFromCloses(wavyCloses(80))
	labels := []string{"earnings", "Recall", "something new", "  ", "EARNINGS"}
	for i, l := range labels {
		bars[32+i*7].NewsType = strPtr(l)
		bars[32+i*7].News = true
	}

	b := newTestBuilder(t, "earnings", "recall")
	table, err := b.Build(bars)
	require.NoError(t, err)

	start := len(table.Columns) - 4
	for _, row := range table.Values {
		sum := 0.0
		for _, v := range row[start:] {
			assert.True(t, v == 0 || v == 1)
			sum += v
		}
		assert.Equal(t, 1.0, sum)
	}
	assert.Equal(t, 1.0, sumOf(table.Column("news_type_other")))
	assert.Equal(t, 2.0, sumOf(table.Column("news_type_earnings")))
	assert.Equal(t, 1.0, sumOf(table.Column("news_type_recall")))
}

func sumOf(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

func TestCategorySet(t *testing.T) {
	cs := NewCategorySet([]string{"Earnings", "earnings", "no news", "other", "", "Product  Launch"})
	assert.Equal(t, []string{"no news", "earnings", "product launch", "other"}, cs.Labels())
	assert.Equal(t, 4, cs.Len())

	assert.Equal(t, 0, cs.Index(nil))
	assert.Equal(t, 0, cs.Index(strPtr(" ")))
	assert.Equal(t, 1, cs.Index(strPtr("EARNINGS")))
	assert.Equal(t, 2, cs.Index(strPtr("product launch")))
	assert.Equal(t, 3, cs.Index(strPtr("lawsuit")))
	assert.Equal(t, []float64{0, 0, 1, 0}, cs.Encode(strPtr("Product launch")))
}

func TestRSI(t *testing.T) {
	got := RSI([]float64{1, 2, 1.5}, 2)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 200.0/3, got[2], 1e-12)

	rising := RSI([]float64{1, 2, 3, 4, 5, 6}, 3)
	for _, v := range rising[3:] {
		assert.Equal(t, 100.0, v)
	}
	falling := RSI([]float64{6, 5, 4, 3, 2, 1}, 3)
	for _, v := range falling[3:] {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range RSI(wavyCloses(200), 14)[14:] {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestRollingHelpers(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	m := RollingMean(x, 3)
	assert.True(t, math.IsNaN(m[1]))
	assert.Equal(t, 2.0, m[2])
	assert.Equal(t, 3.0, m[3])

	s := RollingStd(x, 3)
	assert.True(t, math.IsNaN(s[1]))
	assert.InDelta(t, 1.0, s[2], 1e-12)

	l := Lag(x, 2)
	assert.True(t, math.IsNaN(l[1]))
	assert.Equal(t, 1.0, l[2])

	ld := Lead(x, 1)
	assert.Equal(t, 2.0, ld[0])
	assert.True(t, math.IsNaN(ld[3]))
}

func TestNewBuilderRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.VolWindow = 1
	_, err := NewBuilder(p, NewCategorySet(nil))
	require.Error(t, err)
	assert.Equal(t, 30, DefaultParams().Warmup())
}
