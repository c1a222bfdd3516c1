package models

// ImpactMetrics are mean daily reaction metrics for one group of days.
type ImpactMetrics struct {
	Days              int     `json:"days"`
	AbsReturn         float64 `json:"abs_return"`
	VolatilityRange   float64 `json:"volatility_range"`
	VolumeChangeRatio float64 `json:"volume_change_ratio"`
}

// ImpactSummary compares days with and without news.
type ImpactSummary struct {
	Symbol   string        `json:"symbol"`
	NoNews   ImpactMetrics `json:"no_news"`
	WithNews ImpactMetrics `json:"with_news"`
}

// MarketModel is the OLS fit return = Alpha + Beta * market_return.
type MarketModel struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Days  int     `json:"estimation_days"`
}

// EventStudy is the cumulative average abnormal return around news days.
type EventStudy struct {
	Symbol  string      `json:"symbol"`
	Index   string      `json:"index"`
	Model   MarketModel `json:"model"`
	Window  int         `json:"window"`
	Offsets []int       `json:"offsets"`
	AAR     []float64   `json:"aar"`
	CAAR    []float64   `json:"caar"`
	Events  int         `json:"events"`
	Skipped int         `json:"skipped"`
}
