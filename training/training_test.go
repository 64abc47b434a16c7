package training

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"fwmodel/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnSyntheticData(t *testing.T) {
	dataset := pipeline.GenerateSynthetic(pipeline.DefaultSamples, pipeline.DefaultSyntheticSeed)
	result, err := Run(dataset, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 320, result.TrainRows)
	assert.Equal(t, 80, result.TestRows)
	assert.Equal(t, pipeline.SourceSynthetic, result.Source)
	assert.Equal(t, dataset.Digest(), result.Digest)
	assert.True(t, result.Model.Converged)

	assert.GreaterOrEqual(t, result.Metrics.Accuracy, 0.0)
	assert.LessOrEqual(t, result.Metrics.Accuracy, 1.0)
	// the label is a noisy increasing function of both features
	assert.Greater(t, result.Metrics.Accuracy, 0.7)
	assert.Greater(t, result.Model.Weights[0], 0.0)
	assert.Greater(t, result.Model.Weights[1], 0.0)

	assert.InDelta(t, 500, result.Scaler.Mean[0], 15)
	assert.InDelta(t, 300, result.Scaler.Mean[1], 15)
}

func TestRunIsDeterministic(t *testing.T) {
	dataset := pipeline.GenerateSynthetic(200, 4)
	a, err := Run(dataset, DefaultConfig())
	require.NoError(t, err)
	b, err := Run(dataset, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a.Params(), b.Params())
	assert.Equal(t, a.Metrics, b.Metrics)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(&pipeline.Dataset{}, DefaultConfig())
	assert.Error(t, err)

	config := DefaultConfig()
	config.TestRatio = 1.5
	_, err = Run(pipeline.GenerateSynthetic(50, 1), config)
	assert.Error(t, err)

	single := &pipeline.Dataset{
		Features: [][]float64{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}},
		Labels:   []int{1, 1, 1, 1, 1},
	}
	_, err = Run(single, DefaultConfig())
	assert.ErrorContains(t, err, "single class")
}

func TestWriteReport(t *testing.T) {
	result, err := Run(pipeline.GenerateSynthetic(pipeline.DefaultSamples, pipeline.DefaultSyntheticSeed), DefaultConfig())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, result))
	text := out.String()

	assert.True(t, strings.HasPrefix(text, "\n=== Model Summary ===\nTest accuracy: "))
	accuracy := regexp.MustCompile(`Test accuracy: ([0-9.]+)\n`).FindStringSubmatch(text)
	require.Len(t, accuracy, 2)
	value, err := strconv.ParseFloat(accuracy[1], 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, value, 0.0)
	assert.LessOrEqual(t, value, 1.0)

	for _, prefix := range []string{"Weights (w0,w1): ", "Bias: ", "Scaler mean (m0,m1): ", "Scaler scale (s0,s1): "} {
		assert.Contains(t, text, "\n"+prefix)
	}
	assert.Contains(t, text, "\n=== Arduino-friendly C constants ===\n")

	declaration := regexp.MustCompile(`(?m)^const float (MODEL_W\[2\]|MODEL_B|SCALER_MEAN\[2\]|SCALER_SCALE\[2\]) = (.+);$`)
	matches := declaration.FindAllStringSubmatch(text, -1)
	require.Len(t, matches, 4)
	for _, match := range matches {
		for _, token := range strings.Split(strings.Trim(match[2], "{}"), ", ") {
			require.True(t, strings.HasSuffix(token, "f"), token)
			_, err := strconv.ParseFloat(strings.TrimSuffix(token, "f"), 64)
			assert.NoError(t, err, token)
		}
	}
}

func TestExportedParamsMatchModel(t *testing.T) {
	dataset := pipeline.GenerateSynthetic(pipeline.DefaultSamples, pipeline.DefaultSyntheticSeed)
	result, err := Run(dataset, DefaultConfig())
	require.NoError(t, err)

	params := result.Params()
	model := result.StandardizedModel()
	var disagreements int
	for _, row := range dataset.Features {
		want, _, err := model.Predict(row)
		require.NoError(t, err)
		_, got, err := params.Infer([]float32{float32(row[0]), float32(row[1])})
		require.NoError(t, err)
		if want != got {
			disagreements++
		}
	}
	// single precision may only flip points sitting on the boundary
	assert.LessOrEqual(t, disagreements, 1)
}

func TestCache(t *testing.T) {
	cache, err := NewCache(1)
	require.NoError(t, err)

	config := DefaultConfig()
	first := &Result{Digest: "a"}
	cache.Add(config, first)
	got, ok := cache.Get("a", config)
	assert.True(t, ok)
	assert.Same(t, first, got)

	other := config
	other.Seed = 7
	_, ok = cache.Get("a", other)
	assert.False(t, ok)

	cache.Add(config, &Result{Digest: "b"})
	_, ok = cache.Get("a", config)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}
