package ml

import (
	"github.com/juju/errors"
)

const (
	TypeLogisticRegression   = "logistic_regression"
	TypeStandardizedLogistic = "standardized_logistic"
)

func LoadModel(modelType, path string) (MLModel, error) {
	var model MLModel
	switch modelType {
	case TypeLogisticRegression:
		model = &LogisticRegression{}
	case TypeStandardizedLogistic:
		model = &StandardizedModel{}
	default:
		return nil, errors.NotSupportedf("model type %q", modelType)
	}
	if err := model.Load(path); err != nil {
		return nil, err
	}
	return model, nil
}
