package features

import "errors"

var (
	// ErrInsufficientData means the bar series is shorter than the longest lookback window.
	ErrInsufficientData = errors.New("features: insufficient data for lookback windows")
	// ErrEmptyTrain means the cutoff leaves no rows to fit the scaler on.
	ErrEmptyTrain = errors.New("features: train partition is empty")
	// ErrEmptyFeatures means the feature table has no rows or no columns.
	ErrEmptyFeatures = errors.New("features: feature table is empty")
	// ErrShapeMismatch means a matrix does not match the fitted column count.
	ErrShapeMismatch = errors.New("features: column count mismatch")
	// ErrNotFitted means Transform was called before Fit.
	ErrNotFitted = errors.New("features: scaler not fitted")
)
