package ml

import (
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler removes the per-feature mean and divides by the population
// standard deviation. Features with zero variance keep a scale of 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(features [][]float64) error {
	if len(features) == 0 {
		return errors.New("features is empty")
	}
	width := len(features[0])
	if width == 0 {
		return errors.New("features have no columns")
	}
	mean := make([]float64, width)
	scale := make([]float64, width)
	column := make([]float64, len(features))
	for j := 0; j < width; j++ {
		for i, row := range features {
			if len(row) != width {
				return errors.Errorf("row %d has %d columns, expected %d", i, len(row), width)
			}
			column[i] = row[j]
		}
		mean[j], scale[j] = stat.PopMeanStdDev(column, nil)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	s.Mean, s.Scale = mean, scale
	return nil
}

func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) > 0 && len(s.Mean) == len(s.Scale)
}

// TransformVector standardizes a single row.
func (s *StandardScaler) TransformVector(values []float64) ([]float64, error) {
	if !s.Fitted() {
		return nil, errors.New("scaler not fitted")
	}
	if len(values) != len(s.Mean) {
		return nil, errors.Errorf("expected %d features, got %d", len(s.Mean), len(values))
	}
	result := make([]float64, len(values))
	for i, v := range values {
		result[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return result, nil
}

func (s *StandardScaler) Transform(features [][]float64) ([][]float64, error) {
	result := make([][]float64, len(features))
	for i, row := range features {
		scaled, err := s.TransformVector(row)
		if err != nil {
			return nil, errors.Annotatef(err, "row %d", i)
		}
		result[i] = scaled
	}
	return result, nil
}

func (s *StandardScaler) FitTransform(features [][]float64) ([][]float64, error) {
	if err := s.Fit(features); err != nil {
		return nil, err
	}
	return s.Transform(features)
}
