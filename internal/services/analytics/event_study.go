package analytics

import (
	"StockPulse/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

// EventStudyInput is the joined stock and index series.
type EventStudyInput struct {
	Symbol string
	Index  string
	Bars   []models.DailyBar
	Market []models.MarketClose
	Window int
}

type joinedDay struct {
	close  float64
	market float64
	news   bool
}

// EventStudy fits return = alpha + beta*market_return on news-free days and
// averages abnormal returns over [-Window, +Window] around each news day.
// Days missing from either series are dropped before returns are computed.
func EventStudy(in EventStudyInput) (*models.EventStudy, error) {
	if in.Window <= 0 {
		return nil, ErrBadWindow
	}
	days := join(in.Bars, in.Market)
	if len(days) < 2 {
		return nil, ErrTooFewBars
	}

	n := len(days)
	stockClose := make([]float64, n)
	marketClose := make([]float64, n)
	for i, d := range days {
		stockClose[i] = d.close
		marketClose[i] = d.market
	}
	stockRet := zeroUndefined(PctChange(stockClose))
	marketRet := zeroUndefined(PctChange(marketClose))

	var xs, ys []float64
	for i, d := range days {
		if !d.news {
			xs = append(xs, marketRet[i])
			ys = append(ys, stockRet[i])
		}
	}
	if len(xs) == 0 {
		return nil, ErrNoEstimationWindow
	}
	model := fitMarketModel(xs, ys)

	abnormal := make([]float64, n)
	for i := range days {
		abnormal[i] = stockRet[i] - (model.Alpha + model.Beta*marketRet[i])
	}

	w := in.Window
	width := 2*w + 1
	sums := make([]float64, width)
	events, skipped := 0, 0
	for i, d := range days {
		if !d.news {
			continue
		}
		if i-w < 0 || i+w+1 > n {
			skipped++
			continue
		}
		for k := 0; k < width; k++ {
			sums[k] += abnormal[i-w+k]
		}
		events++
	}
	if events == 0 {
		return nil, ErrNoEventWindows
	}

	out := &models.EventStudy{
		Symbol:  in.Symbol,
		Index:   in.Index,
		Model:   model,
		Window:  w,
		Offsets: make([]int, width),
		AAR:     make([]float64, width),
		CAAR:    make([]float64, width),
		Events:  events,
		Skipped: skipped,
	}
	cum := 0.0
	for k := 0; k < width; k++ {
		out.Offsets[k] = k - w
		out.AAR[k] = sums[k] / float64(events)
		cum += out.AAR[k]
		out.CAAR[k] = cum
	}
	return out, nil
}

// fitMarketModel is ordinary least squares. A constant regressor gives beta 0
// and alpha equal to the mean return.
func fitMarketModel(xs, ys []float64) models.MarketModel {
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 {
		return models.MarketModel{Alpha: stat.Mean(ys, nil), Beta: 0, Days: len(xs)}
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return models.MarketModel{Alpha: alpha, Beta: beta, Days: len(xs)}
}

// join is an inner join on calendar day; both inputs must be sorted ascending.
func join(bars []models.DailyBar, market []models.MarketClose) []joinedDay {
	out := make([]joinedDay, 0, len(bars))
	i, j := 0, 0
	for i < len(bars) && j < len(market) {
		bd, md := bars[i].EventDate, market[j].EventDate
		switch {
		case bd.Before(md):
			i++
		case md.Before(bd):
			j++
		default:
			out = append(out, joinedDay{close: bars[i].Close, market: market[j].Close, news: bars[i].News})
			i++
			j++
		}
	}
	return out
}

func zeroUndefined(x []float64) []float64 {
	for i, v := range x {
		if !defined(v) {
			x[i] = 0
		}
	}
	return x
}
