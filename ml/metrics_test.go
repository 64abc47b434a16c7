package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thresholdModel struct {
	threshold float64
}

func (m *thresholdModel) Train([][]float64, []int) error { return nil }
func (m *thresholdModel) Save(string) error             { return nil }
func (m *thresholdModel) Load(string) error             { return nil }

func (m *thresholdModel) Predict(features []float64) (int, float64, error) {
	if len(features) == 0 {
		return 0, 0, errors.New("empty")
	}
	if features[0] > m.threshold {
		return 1, 1, nil
	}
	return 0, 1, nil
}

func TestEvaluate(t *testing.T) {
	testX := [][]float64{{0.1}, {0.6}, {0.7}, {0.2}, {0.9}}
	testY := []int{0, 1, 0, 1, 1}
	metrics, err := Evaluate(&thresholdModel{threshold: 0.5}, testX, testY)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, metrics.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3, metrics.Precision, 1e-12)
	assert.InDelta(t, 2.0/3, metrics.Recall, 1e-12)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate(&thresholdModel{}, nil, nil)
	assert.Error(t, err)
	_, err = Evaluate(&thresholdModel{}, [][]float64{{1}}, []int{0, 1})
	assert.Error(t, err)
	_, err = Evaluate(&thresholdModel{}, [][]float64{{}}, []int{0})
	assert.Error(t, err)
}
