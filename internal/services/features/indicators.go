package features

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Series values are NaN where a window is not yet populated.

// Lag shifts x forward by k: out[t] = x[t-k].
func Lag(x []float64, k int) []float64 {
	out := nanSlice(len(x))
	for t := k; t < len(x); t++ {
		out[t] = x[t-k]
	}
	return out
}

// Lead shifts x backward by k: out[t] = x[t+k].
func Lead(x []float64, k int) []float64 {
	out := nanSlice(len(x))
	for t := 0; t+k < len(x); t++ {
		out[t] = x[t+k]
	}
	return out
}

// RollingMean is the trailing arithmetic mean over window observations, current one included.
func RollingMean(x []float64, window int) []float64 {
	out := nanSlice(len(x))
	for t := window - 1; t < len(x); t++ {
		out[t] = stat.Mean(x[t-window+1:t+1], nil)
	}
	return out
}

// RollingStd is the trailing sample standard deviation (n-1 denominator).
func RollingStd(x []float64, window int) []float64 {
	out := nanSlice(len(x))
	if window < 2 {
		return out
	}
	for t := window - 1; t < len(x); t++ {
		out[t] = stat.StdDev(x[t-window+1:t+1], nil)
	}
	return out
}

// RSI is the simple-average relative strength index over period day-over-day deltas.
// A window without losses maps to 100, including the flat case.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period < 1 || len(closes) <= period {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for t := 1; t < len(closes); t++ {
		d := closes[t] - closes[t-1]
		if d > 0 {
			gains[t] = d
		} else {
			losses[t] = -d
		}
	}
	for t := period; t < len(closes); t++ {
		avgGain := stat.Mean(gains[t-period+1:t+1], nil)
		avgLoss := stat.Mean(losses[t-period+1:t+1], nil)
		out[t] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
