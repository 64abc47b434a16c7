package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatasetValidate(t *testing.T) {
	tests := []struct {
		name    string
		dataset Dataset
		wantErr bool
	}{
		{
			name:    "valid",
			dataset: Dataset{Features: [][]float64{{1, 2}, {3, 4}}, Labels: []int{0, 1}},
		},
		{
			name:    "empty",
			dataset: Dataset{},
			wantErr: true,
		},
		{
			name:    "row count mismatch",
			dataset: Dataset{Features: [][]float64{{1, 2}, {3, 4}}, Labels: []int{0}},
			wantErr: true,
		},
		{
			name:    "ragged rows",
			dataset: Dataset{Features: [][]float64{{1, 2}, {3}}, Labels: []int{0, 1}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dataset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatasetDigest(t *testing.T) {
	a := Dataset{Features: [][]float64{{1, 2}, {3, 4}}, Labels: []int{0, 1}, Source: SourceFile}
	b := Dataset{Features: [][]float64{{1, 2}, {3, 4}}, Labels: []int{0, 1}, Source: SourceSynthetic}
	c := Dataset{Features: [][]float64{{1, 2}, {3, 4}}, Labels: []int{1, 1}}
	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
	assert.Len(t, a.Digest(), 64)
}
