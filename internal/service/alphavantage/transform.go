package alphavantage

import (
	"encoding/json"
	"fmt"
	"sort"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/util"

	"github.com/shopspring/decimal"
)

type dailyResponse struct {
	Series map[string]map[string]string `json:"Time Series (Daily)"`
}

// Transform turns a TIME_SERIES_DAILY body into bars sorted by date.
// Rows with a bad date, a missing field or a negative value are counted in skipped.
func Transform(symbol string, body []byte) (bars []models.DailyBar, skipped int, err error) {
	var resp dailyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("alphavantage decode: %w", err)
	}
	if resp.Series == nil {
		return nil, 0, ErrNoTimeSeries
	}

	bars = make([]models.DailyBar, 0, len(resp.Series))
	for date, fields := range resp.Series {
		b, ok := toBar(symbol, date, fields)
		if !ok {
			skipped++
			continue
		}
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].EventDate.Before(bars[j].EventDate) })
	return bars, skipped, nil
}

func toBar(symbol, date string, fields map[string]string) (models.DailyBar, bool) {
	day, ok := util.ParseDate(date)
	if !ok {
		return models.DailyBar{}, false
	}
	var px [4]float64
	for i, k := range []string{"1. open", "2. high", "3. low", "4. close"} {
		d, err := decimal.NewFromString(fields[k])
		if err != nil || d.IsNegative() {
			return models.DailyBar{}, false
		}
		px[i] = d.InexactFloat64()
	}
	vol, err := decimal.NewFromString(fields["5. volume"])
	if err != nil || vol.IsNegative() {
		return models.DailyBar{}, false
	}
	return models.DailyBar{
		Ticker:    symbol,
		EventDate: day,
		Open:      px[0],
		High:      px[1],
		Low:       px[2],
		Close:     px[3],
		Volume:    uint64(vol.IntPart()),
	}, true
}
