package ml

import (
	"encoding/json"
	"os"

	"github.com/juju/errors"
)

// StandardizedModel chains a StandardScaler in front of a LogisticRegression so
// that callers can predict on raw sensor readings.
type StandardizedModel struct {
	Scaler *StandardScaler     `json:"scaler"`
	Model  *LogisticRegression `json:"model"`
}

func NewStandardizedModel(scaler *StandardScaler, model *LogisticRegression) *StandardizedModel {
	return &StandardizedModel{Scaler: scaler, Model: model}
}

func (s *StandardizedModel) Train(features [][]float64, labels []int) error {
	if s.Scaler == nil {
		s.Scaler = NewStandardScaler()
	}
	if s.Model == nil {
		s.Model = &LogisticRegression{}
	}
	scaled, err := s.Scaler.FitTransform(features)
	if err != nil {
		return err
	}
	return s.Model.Train(scaled, labels)
}

func (s *StandardizedModel) Predict(features []float64) (int, float64, error) {
	if s.Scaler == nil || s.Model == nil {
		return 0, 0, errors.New("model not trained")
	}
	scaled, err := s.Scaler.TransformVector(features)
	if err != nil {
		return 0, 0, err
	}
	return s.Model.Predict(scaled)
}

func (s *StandardizedModel) Save(path string) error {
	if s.Scaler == nil || !s.Scaler.Fitted() || s.Model == nil || len(s.Model.Weights) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (s *StandardizedModel) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var model StandardizedModel
	if err := json.Unmarshal(payload, &model); err != nil {
		return errors.Annotatef(err, "decode %s", path)
	}
	if model.Scaler == nil || !model.Scaler.Fitted() || model.Model == nil || len(model.Model.Weights) == 0 {
		return errors.Errorf("%s: incomplete model", path)
	}
	if len(model.Scaler.Mean) != len(model.Model.Weights) {
		return errors.Errorf("%s: scaler has %d features, model has %d",
			path, len(model.Scaler.Mean), len(model.Model.Weights))
	}
	*s = model
	return nil
}
