package models

// DatasetRequest selects the bars and cutoff of a prepared dataset. Empty values use the configured dates.
type DatasetRequest struct {
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	Split string `query:"split" validate:"omitempty,datetime=2006-01-02"`
}

// ImpactRequest selects the bars of an impact comparison.
type ImpactRequest struct {
	Start string `query:"start" validate:"omitempty,datetime=2006-01-02"`
}

// EventStudyRequest selects the bars and the half-width of the event window.
type EventStudyRequest struct {
	Start  string `query:"start" validate:"omitempty,datetime=2006-01-02"`
	Window int    `query:"window" validate:"omitempty,gte=1,lte=30"`
}

// DatasetResponse is the JSON view of a Dataset.
type DatasetResponse struct {
	Symbol     string      `json:"symbol"`
	Cutoff     string      `json:"cutoff"`
	Columns    []string    `json:"columns"`
	TrainDates []string    `json:"train_dates"`
	TestDates  []string    `json:"test_dates"`
	XTrain     [][]float64 `json:"x_train"`
	XTest      [][]float64 `json:"x_test"`
	YTrain     []bool      `json:"y_train"`
	YTest      []bool      `json:"y_test"`
}
