package ml

import (
	"github.com/juju/errors"
)

// Metrics are computed with label 1 as the positive class.
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

func Evaluate(model MLModel, testX [][]float64, testY []int) (Metrics, error) {
	if len(testX) != len(testY) {
		return Metrics{}, errors.New("features and labels size mismatch")
	}
	if len(testX) == 0 {
		return Metrics{}, errors.New("empty evaluation set")
	}

	var correct int
	var truePositive int
	var predictedPositive int
	var actualPositive int

	for i, feature := range testX {
		label, _, err := model.Predict(feature)
		if err != nil {
			return Metrics{}, errors.Annotatef(err, "predict row %d", i)
		}
		if label == testY[i] {
			correct++
		}
		if label == 1 {
			predictedPositive++
		}
		if testY[i] == 1 {
			actualPositive++
			if label == 1 {
				truePositive++
			}
		}
	}

	var metrics Metrics
	metrics.Accuracy = float64(correct) / float64(len(testX))
	if predictedPositive > 0 {
		metrics.Precision = float64(truePositive) / float64(predictedPositive)
	}
	if actualPositive > 0 {
		metrics.Recall = float64(truePositive) / float64(actualPositive)
	}
	return metrics, nil
}
