package training

import (
	"fmt"
	"io"
	"strings"

	"fwmodel/export"
	"fwmodel/logging"
	"fwmodel/ml"
	"fwmodel/pipeline"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

type Config struct {
	TestRatio float64 `yaml:"test_ratio"`
	Seed      uint64  `yaml:"seed"`
	C         float64 `yaml:"c"`
	Tol       float64 `yaml:"tol"`
	MaxIter   int     `yaml:"max_iter"`
}

func DefaultConfig() Config {
	return Config{
		TestRatio: ml.DefaultTestRatio,
		Seed:      ml.DefaultSplitSeed,
		C:         ml.DefaultC,
		Tol:       ml.DefaultTol,
		MaxIter:   ml.DefaultMaxIter,
	}
}

func (c Config) Validate() error {
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return errors.NotValidf("test_ratio %v outside (0, 1)", c.TestRatio)
	}
	if c.C <= 0 {
		return errors.NotValidf("c %v", c.C)
	}
	if c.Tol <= 0 {
		return errors.NotValidf("tol %v", c.Tol)
	}
	if c.MaxIter <= 0 {
		return errors.NotValidf("max_iter %d", c.MaxIter)
	}
	return nil
}

// Result is the outcome of one training run.
type Result struct {
	Scaler    *ml.StandardScaler
	Model     *ml.LogisticRegression
	Metrics   ml.Metrics
	Source    pipeline.Source
	TrainRows int
	TestRows  int
	Digest    string
}

// Run standardizes the whole dataset, holds out a test split, fits the
// classifier on the rest and scores it on the held-out rows.
func Run(dataset *pipeline.Dataset, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := dataset.Validate(); err != nil {
		return nil, err
	}

	scaler := ml.NewStandardScaler()
	scaled, err := scaler.FitTransform(dataset.Features)
	if err != nil {
		return nil, errors.Annotate(err, "standardize features")
	}

	trainX, trainY, testX, testY, err := ml.TrainTestSplit(scaled, dataset.Labels, config.TestRatio, config.Seed)
	if err != nil {
		return nil, err
	}

	model := ml.NewLogisticRegression(config.C, config.MaxIter, config.Tol)
	if err := model.Train(trainX, trainY); err != nil {
		return nil, errors.Annotate(err, "fit classifier")
	}
	if !model.Converged {
		logging.Logger().Warn("classifier did not converge",
			zap.Int("iterations", model.Iterations),
			zap.Float64("tol", config.Tol))
	}

	metrics, err := ml.Evaluate(model, testX, testY)
	if err != nil {
		return nil, err
	}
	logging.Logger().Info("train classifier",
		zap.Int("train_rows", len(trainY)),
		zap.Int("test_rows", len(testY)),
		zap.Int("iterations", model.Iterations),
		zap.Float64("accuracy", metrics.Accuracy),
		zap.Float64("precision", metrics.Precision),
		zap.Float64("recall", metrics.Recall))

	return &Result{
		Scaler:    scaler,
		Model:     model,
		Metrics:   metrics,
		Source:    dataset.Source,
		TrainRows: len(trainY),
		TestRows:  len(testY),
		Digest:    dataset.Digest(),
	}, nil
}

func (r *Result) Params() export.Params {
	return ModelParams(r.StandardizedModel())
}

// ModelParams extracts the firmware constants from a fitted model.
func ModelParams(m *ml.StandardizedModel) export.Params {
	return export.Params{
		Weights: append([]float64(nil), m.Model.Weights...),
		Bias:    m.Model.Bias,
		Mean:    append([]float64(nil), m.Scaler.Mean...),
		Scale:   append([]float64(nil), m.Scaler.Scale...),
	}
}

// StandardizedModel bundles the fitted scaler and classifier for raw inputs.
func (r *Result) StandardizedModel() *ml.StandardizedModel {
	return ml.NewStandardizedModel(r.Scaler, r.Model)
}

// WriteSummary prints the human readable model summary.
func WriteSummary(w io.Writer, r *Result) error {
	p := r.Params()
	_, err := fmt.Fprintf(w, "\n=== Model Summary ===\n"+
		"Test accuracy: %.3f\n"+
		"Weights (%s): %s\n"+
		"Bias: %v\n"+
		"Scaler mean (%s): %s\n"+
		"Scaler scale (%s): %s\n",
		r.Metrics.Accuracy,
		names("w", len(p.Weights)), values(p.Weights),
		p.Bias,
		names("m", len(p.Mean)), values(p.Mean),
		names("s", len(p.Scale)), values(p.Scale))
	return errors.Trace(err)
}

// WriteReport prints the summary followed by the firmware constants.
func WriteReport(w io.Writer, r *Result) error {
	if err := WriteSummary(w, r); err != nil {
		return err
	}
	return export.WriteConstants(w, r.Params())
}

func names(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return strings.Join(parts, ",")
}

func values(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
