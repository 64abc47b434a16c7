package ml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardizedModel(t *testing.T) {
	features, labels := noisyLinearData(200, 11)
	raw := make([][]float64, len(features))
	for i, row := range features {
		raw[i] = []float64{500 + 80*row[0], 300 + 60*row[1]}
	}

	model := &StandardizedModel{}
	require.NoError(t, model.Train(raw, labels))
	assert.InDelta(t, 500, model.Scaler.Mean[0], 20)
	assert.InDelta(t, 300, model.Scaler.Mean[1], 20)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, model.Save(path))
	loaded, err := LoadModel(TypeStandardizedLogistic, path)
	require.NoError(t, err)

	for _, row := range raw[:20] {
		want, wantConf, err := model.Predict(row)
		require.NoError(t, err)
		got, gotConf, err := loaded.Predict(row)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.InDelta(t, wantConf, gotConf, 1e-12)
	}
}

func TestLoadModelErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadModel("decision_tree", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = LoadModel(TypeStandardizedLogistic, filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":{"weights":[1,2]}}`), 0o600))
	_, err = LoadModel(TypeStandardizedLogistic, path)
	assert.Error(t, err)
}
