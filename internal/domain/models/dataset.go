package models

import "time"

// FeatureTable is the dense, row-aligned output of feature engineering.
// Values[i] holds the predictors for Dates[i]; Target[i] is its next-day label.
type FeatureTable struct {
	Columns []string
	Dates   []time.Time
	Values  [][]float64
	Target  []bool
}

// Len is the number of rows.
func (t *FeatureTable) Len() int { return len(t.Dates) }

// Column returns a copy of the named column, or nil if absent.
func (t *FeatureTable) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(t.Values))
	for i, row := range t.Values {
		out[i] = row[idx]
	}
	return out
}

// Dataset holds the scaled chronological split handed to model trainers.
// Row i of XTrain corresponds to YTrain[i] and TrainDates[i]; same for test.
type Dataset struct {
	Columns    []string
	Cutoff     time.Time
	XTrain     [][]float64
	XTest      [][]float64
	YTrain     []bool
	YTest      []bool
	TrainDates []time.Time
	TestDates  []time.Time
}
