package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each column on its mean and divides by its population
// standard deviation. Zero-variance columns keep scale 1.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit learns per-column statistics from x only.
func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return ErrEmptyTrain
	}
	width := len(x[0])
	if width == 0 {
		return ErrEmptyFeatures
	}
	mean := make([]float64, width)
	scale := make([]float64, width)
	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			if len(row) != width {
				return fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), width)
			}
			col[i] = row[j]
		}
		m, sd := stat.PopMeanStdDev(col, nil)
		mean[j] = m
		if sd == 0 {
			sd = 1
		}
		scale[j] = sd
	}
	s.Mean, s.Scale = mean, scale
	return nil
}

// Transform applies the fitted statistics and returns a new matrix; x is not modified.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, i, len(row), len(s.Mean))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits on x and returns x scaled.
func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}
