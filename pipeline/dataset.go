package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/juju/errors"
)

// Source tells where a dataset came from.
type Source string

const (
	SourceFile      Source = "file"
	SourceSynthetic Source = "synthetic"
)

// Dataset holds feature rows and their binary labels for a single run.
type Dataset struct {
	Features [][]float64
	Labels   []int
	Source   Source
	Path     string
}

func (d *Dataset) Len() int {
	return len(d.Labels)
}

func (d *Dataset) Validate() error {
	if len(d.Features) == 0 {
		return errors.New("dataset is empty")
	}
	if len(d.Features) != len(d.Labels) {
		return errors.Errorf("dataset has %d feature rows but %d labels", len(d.Features), len(d.Labels))
	}
	width := len(d.Features[0])
	for i, row := range d.Features {
		if len(row) != width {
			return errors.Errorf("row %d has %d features, expected %d", i, len(row), width)
		}
	}
	return nil
}

// Digest identifies the dataset content independent of where it came from.
func (d *Dataset) Digest() string {
	hash := sha256.New()
	var buf [8]byte
	for i, row := range d.Features {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			hash.Write(buf[:])
		}
		if i < len(d.Labels) {
			binary.LittleEndian.PutUint64(buf[:], uint64(d.Labels[i]))
			hash.Write(buf[:])
		}
	}
	return hex.EncodeToString(hash.Sum(nil))
}
