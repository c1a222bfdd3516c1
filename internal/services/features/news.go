package features

import (
	"StockPulse/pkg/util"
)

const (
	// NoNewsCategory labels days without a recorded news type.
	NoNewsCategory = "no news"
	// OtherCategory catches labels outside the declared set.
	OtherCategory = "other"

	newsColumnPrefix = "news_type_"
)

// CategorySet is the closed enumeration of news categories used for one-hot encoding.
// Order is NoNews, the declared categories, then Other; it never depends on the data.
type CategorySet struct {
	labels []string
	index  map[string]int
}

// NewCategorySet builds the enumeration from declared labels. Labels are normalized
// (lowercase, single spaces); duplicates and the reserved labels are ignored.
func NewCategorySet(declared []string) CategorySet {
	cs := CategorySet{
		labels: []string{NoNewsCategory},
		index:  map[string]int{NoNewsCategory: 0},
	}
	for _, raw := range declared {
		l := util.NormalizeLabel(raw)
		if l == "" || l == OtherCategory {
			continue
		}
		if _, ok := cs.index[l]; ok {
			continue
		}
		cs.index[l] = len(cs.labels)
		cs.labels = append(cs.labels, l)
	}
	cs.index[OtherCategory] = len(cs.labels)
	cs.labels = append(cs.labels, OtherCategory)
	return cs
}

// Len is the number of indicator columns.
func (cs CategorySet) Len() int { return len(cs.labels) }

// Labels returns the categories in column order.
func (cs CategorySet) Labels() []string {
	return append([]string(nil), cs.labels...)
}

// Columns returns indicator column names, e.g. "news_type_earnings".
func (cs CategorySet) Columns() []string {
	out := make([]string, len(cs.labels))
	for i, l := range cs.labels {
		out[i] = newsColumnPrefix + l
	}
	return out
}

// Index maps a raw news type to its category position. Missing or blank
// labels are NoNews; unknown labels are Other.
func (cs CategorySet) Index(raw *string) int {
	if raw == nil {
		return 0
	}
	l := util.NormalizeLabel(*raw)
	if l == "" {
		return 0
	}
	if i, ok := cs.index[l]; ok {
		return i
	}
	return cs.index[OtherCategory]
}

// Encode returns the one-hot vector for a raw news type.
func (cs CategorySet) Encode(raw *string) []float64 {
	v := make([]float64, len(cs.labels))
	v[cs.Index(raw)] = 1
	return v
}
