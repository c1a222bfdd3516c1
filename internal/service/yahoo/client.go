package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// Client reads daily index closes from the Yahoo Finance chart API.
type Client struct {
	http    *xhttp.Client
	baseURL string
	l       *applogger.Logger
}

func New(baseURL string, h *xhttp.Client, l *applogger.Logger) *Client {
	if h == nil {
		h = xhttp.NewClient()
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{http: h, baseURL: baseURL, l: l}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses returns adjusted closes for index over [from, to], oldest first.
// Days with a null close are dropped.
func (c *Client) DailyCloses(ctx context.Context, index string, from, to time.Time) ([]models.MarketClose, error) {
	start := time.Now()
	var chart chartResponse
	err := c.http.GetJSON(ctx, &xhttp.RequestOptions{
		URL: c.baseURL + "/v8/finance/chart/" + url.PathEscape(index),
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"period1":  {strconv.FormatInt(util.TruncateDay(from).Unix(), 10)},
			"period2":  {strconv.FormatInt(util.TruncateDay(to).AddDate(0, 0, 1).Unix(), 10)},
			"events":   {"div,splits"},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", index, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", index)
	}

	res := chart.Chart.Result[0]
	var closes []*float64
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp) {
		closes = res.Indicators.AdjClose[0].AdjClose
	} else if len(res.Indicators.Quote) > 0 && len(res.Indicators.Quote[0].Close) == len(res.Timestamp) {
		closes = res.Indicators.Quote[0].Close
	} else {
		return nil, fmt.Errorf("yahoo: close series misaligned for %s", index)
	}

	byDay := make(map[time.Time]float64, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if closes[i] == nil {
			continue
		}
		day := util.TruncateDay(time.Unix(ts+res.Meta.GMTOffset, 0).UTC())
		if day.Before(util.TruncateDay(from)) || day.After(util.TruncateDay(to)) {
			continue
		}
		byDay[day] = *closes[i]
	}
	out := make([]models.MarketClose, 0, len(byDay))
	for d, v := range byDay {
		out = append(out, models.MarketClose{EventDate: d, Close: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })

	c.l.Info("yahoo daily_closes ok",
		applogger.String("index", index),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
