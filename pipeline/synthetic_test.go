package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestGenerateSynthetic(t *testing.T) {
	dataset := GenerateSynthetic(DefaultSamples, DefaultSyntheticSeed)
	require.NoError(t, dataset.Validate())
	assert.Equal(t, SourceSynthetic, dataset.Source)
	assert.Equal(t, 400, dataset.Len())

	f1 := make([]float64, dataset.Len())
	f2 := make([]float64, dataset.Len())
	var positives int
	for i, row := range dataset.Features {
		require.Len(t, row, 2)
		f1[i], f2[i] = row[0], row[1]
		positives += dataset.Labels[i]
	}
	assert.InDelta(t, 500, stat.Mean(f1, nil), 15)
	assert.InDelta(t, 80, stat.StdDev(f1, nil), 10)
	assert.InDelta(t, 300, stat.Mean(f2, nil), 15)
	assert.InDelta(t, 60, stat.StdDev(f2, nil), 10)
	// both classes are present
	assert.Greater(t, positives, 40)
	assert.Less(t, positives, 360)
}

func TestGenerateSyntheticIsDeterministic(t *testing.T) {
	a := GenerateSynthetic(50, 9)
	b := GenerateSynthetic(50, 9)
	c := GenerateSynthetic(50, 10)
	assert.Equal(t, a.Features, b.Features)
	assert.Equal(t, a.Labels, b.Labels)
	assert.NotEqual(t, a.Features, c.Features)
	assert.Equal(t, a.Digest(), b.Digest())
}

func TestGenerateSyntheticDefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSamples, GenerateSynthetic(0, 1).Len())
}
