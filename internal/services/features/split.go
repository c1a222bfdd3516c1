package features

import (
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
)

// Split partitions the table chronologically at cutoff (train: date < cutoff,
// test: date >= cutoff), fits a StandardScaler on train and applies it to both.
func Split(table *models.FeatureTable, cutoff time.Time) (*models.Dataset, *StandardScaler, error) {
	if table == nil || table.Len() == 0 || len(table.Columns) == 0 {
		return nil, nil, ErrEmptyFeatures
	}

	ds := &models.Dataset{
		Columns: append([]string(nil), table.Columns...),
		Cutoff:  cutoff,
	}
	var rawTrain, rawTest [][]float64
	for i, d := range table.Dates {
		if d.Before(cutoff) {
			rawTrain = append(rawTrain, table.Values[i])
			ds.YTrain = append(ds.YTrain, table.Target[i])
			ds.TrainDates = append(ds.TrainDates, d)
		} else {
			rawTest = append(rawTest, table.Values[i])
			ds.YTest = append(ds.YTest, table.Target[i])
			ds.TestDates = append(ds.TestDates, d)
		}
	}
	if len(rawTrain) == 0 {
		return nil, nil, fmt.Errorf("%w: cutoff %s precedes first row %s",
			ErrEmptyTrain, cutoff.Format(time.DateOnly), table.Dates[0].Format(time.DateOnly))
	}

	scaler := &StandardScaler{}
	var err error
	if ds.XTrain, err = scaler.FitTransform(rawTrain); err != nil {
		return nil, nil, err
	}
	if ds.XTest, err = scaler.Transform(rawTest); err != nil {
		return nil, nil, err
	}
	return ds, scaler, nil
}
