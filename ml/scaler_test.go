package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScaler(t *testing.T) {
	features := [][]float64{
		{1, 10},
		{3, 10},
		{5, 10},
	}
	scaler := NewStandardScaler()
	scaled, err := scaler.FitTransform(features)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{3, 10}, scaler.Mean, 1e-12)
	// population deviation of {1,3,5}; constant column keeps a unit scale
	assert.InDelta(t, 1.632993161855452, scaler.Scale[0], 1e-12)
	assert.Equal(t, 1.0, scaler.Scale[1])

	assert.InDelta(t, -1.224744871391589, scaled[0][0], 1e-12)
	assert.InDelta(t, 0, scaled[1][0], 1e-12)
	assert.InDelta(t, 1.224744871391589, scaled[2][0], 1e-12)
	for _, row := range scaled {
		assert.Equal(t, 0.0, row[1])
	}
	// input must not be modified
	assert.Equal(t, []float64{1, 10}, features[0])
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.TransformVector([]float64{1, 2})
	assert.Error(t, err)

	assert.Error(t, scaler.Fit(nil))
	assert.Error(t, scaler.Fit([][]float64{{1, 2}, {3}}))

	require.NoError(t, scaler.Fit([][]float64{{1, 2}, {3, 4}}))
	_, err = scaler.TransformVector([]float64{1})
	assert.Error(t, err)
}
