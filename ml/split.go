package ml

import (
	"math"
	"math/rand/v2"

	"github.com/juju/errors"
)

const (
	DefaultTestRatio = 0.2
	DefaultSplitSeed = 42
)

// TrainTestSplit shuffles the rows with a seeded permutation and holds out
// ceil(n*testRatio) of them for testing.
func TrainTestSplit(features [][]float64, labels []int, testRatio float64, seed uint64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int, err error) {
	if len(features) != len(labels) {
		return nil, nil, nil, nil, errors.New("features and labels size mismatch")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, nil, nil, errors.Errorf("test ratio %v must be in (0, 1)", testRatio)
	}
	n := len(features)
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest == 0 || nTest >= n {
		return nil, nil, nil, nil, errors.Errorf("cannot split %d rows with test ratio %v", n, testRatio)
	}

	rnd := rand.New(rand.NewPCG(seed, seed))
	indices := rnd.Perm(n)
	trainX = make([][]float64, 0, n-nTest)
	trainY = make([]int, 0, n-nTest)
	testX = make([][]float64, 0, nTest)
	testY = make([]int, 0, nTest)
	for i, idx := range indices {
		if i < nTest {
			testX = append(testX, features[idx])
			testY = append(testY, labels[idx])
		} else {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY, nil
}
