package analytics

import (
	"math"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/features"
)

// VolumeWindow is the trailing window of the volume baseline.
const VolumeWindow = 30

// Impact compares mean absolute return, intraday range and relative volume
// between news and news-free days. Undefined leading values are back-filled,
// then any remaining gaps forward-filled. A group with no days reports zeros.
func Impact(symbol string, bars []models.DailyBar) (*models.ImpactSummary, error) {
	n := len(bars)
	if n < 2 {
		return nil, ErrTooFewBars
	}
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	ret := PctChange(closes)
	absRet := make([]float64, n)
	rng := make([]float64, n)
	for i, b := range bars {
		absRet[i] = math.Abs(ret[i])
		rng[i] = (b.High - b.Low) / b.Low
	}
	base := features.RollingMean(volumes, VolumeWindow)
	volRatio := make([]float64, n)
	for i := range volumes {
		volRatio[i] = volumes[i] / base[i]
	}
	for _, s := range [][]float64{absRet, rng, volRatio} {
		FillBackForward(s)
	}

	var acc [2]groupAcc
	for i, b := range bars {
		g := 0
		if b.News {
			g = 1
		}
		acc[g].add(absRet[i], rng[i], volRatio[i])
	}
	return &models.ImpactSummary{
		Symbol:   symbol,
		NoNews:   acc[0].metrics(),
		WithNews: acc[1].metrics(),
	}, nil
}

type groupAcc struct {
	days int
	sum  [3]float64
	cnt  [3]int
}

func (g *groupAcc) add(vals ...float64) {
	g.days++
	for i, v := range vals {
		if defined(v) {
			g.sum[i] += v
			g.cnt[i]++
		}
	}
}

func (g *groupAcc) metrics() models.ImpactMetrics {
	mean := func(i int) float64 {
		if g.cnt[i] == 0 {
			return 0
		}
		return g.sum[i] / float64(g.cnt[i])
	}
	return models.ImpactMetrics{
		Days:              g.days,
		AbsReturn:         mean(0),
		VolatilityRange:   mean(1),
		VolumeChangeRatio: mean(2),
	}
}

// PctChange returns x[i]/x[i-1]-1 with NaN at index 0.
func PctChange(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(x); i++ {
		out[i] = x[i]/x[i-1] - 1
	}
	return out
}

// FillBackForward replaces undefined values in place: each gap takes the next
// defined value, and trailing gaps take the last defined one.
func FillBackForward(x []float64) {
	next := math.NaN()
	for i := len(x) - 1; i >= 0; i-- {
		if defined(x[i]) {
			next = x[i]
		} else {
			x[i] = next
		}
	}
	prev := math.NaN()
	for i := range x {
		if defined(x[i]) {
			prev = x[i]
		} else {
			x[i] = prev
		}
	}
}

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
