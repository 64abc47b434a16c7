package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fwmodel/db"
	"fwmodel/export"
	"fwmodel/logging"
	"fwmodel/ml"
	"fwmodel/pipeline"
	"fwmodel/training"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// trainer runs the load, fit, report and persist sequence. With a cache,
// datasets seen in an earlier run are not refitted, and a dataset equal to
// the last one persisted is skipped entirely.
type trainer struct {
	config *Config
	out    io.Writer
	cache  *training.Cache
	last   string
}

func newTrainer(config *Config, out io.Writer, cache *training.Cache) *trainer {
	return &trainer{config: config, out: out, cache: cache}
}

func (t *trainer) run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dataset, err := pipeline.LoadOrGenerate(t.config.DataOptions(), t.out)
	if err != nil {
		return err
	}
	digest := dataset.Digest()
	if t.cache != nil && digest == t.last {
		logging.Logger().Info("dataset unchanged, skip training", zap.String("digest", digest))
		return nil
	}

	var result *training.Result
	if t.cache != nil {
		if cached, ok := t.cache.Get(digest, t.config.Training); ok {
			logging.Logger().Info("reuse cached model", zap.String("digest", digest))
			result = cached
		}
	}
	if result == nil {
		if result, err = training.Run(dataset, t.config.Training); err != nil {
			return err
		}
	}
	if err := training.WriteReport(t.out, result); err != nil {
		return err
	}
	if err := t.persist(dataset, result); err != nil {
		return err
	}
	t.last = digest
	if t.cache != nil {
		t.cache.Add(t.config.Training, result)
	}
	return nil
}

func (t *trainer) persist(dataset *pipeline.Dataset, result *training.Result) error {
	trainedAt := time.Now()
	if path := t.config.Export.HeaderPath; path != "" {
		if err := writeHeader(path, t.config.Export.Guard, result, trainedAt); err != nil {
			return errors.Annotatef(err, "write header %s", path)
		}
		logging.Logger().Info("write header", zap.String("path", path))
	}
	if path := t.config.Export.ModelPath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Trace(err)
		}
		if err := result.StandardizedModel().Save(path); err != nil {
			return errors.Annotatef(err, "save model %s", path)
		}
		logging.Logger().Info("save model", zap.String("path", path))
	}
	if path := t.config.Database.Path; path != "" {
		if err := db.InitDB(path); err != nil {
			return errors.Annotatef(err, "open database %s", path)
		}
		defer db.CloseDB()
		params := result.Params()
		id, err := db.SaveTrainingLog(db.TrainingLog{
			ModelName:   ml.TypeLogisticRegression,
			DataSource:  string(result.Source),
			DataPath:    dataset.Path,
			Digest:      result.Digest,
			Accuracy:    result.Metrics.Accuracy,
			Precision:   result.Metrics.Precision,
			Recall:      result.Metrics.Recall,
			TrainRows:   result.TrainRows,
			TestRows:    result.TestRows,
			Bias:        params.Bias,
			Weights:     params.Weights,
			ScalerMean:  params.Mean,
			ScalerScale: params.Scale,
			TrainedAt:   trainedAt,
		})
		if err != nil {
			return errors.Annotate(err, "record training run")
		}
		logging.Logger().Info("record training run", zap.Int64("id", id))
	}
	return nil
}

func writeHeader(path, guard string, result *training.Result, trainedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = export.WriteHeader(file, result.Params(), guard,
		"Generated by train_model. Do not edit.",
		fmt.Sprintf("Trained %s on %s data, test accuracy %.3f",
			trainedAt.Format(time.RFC3339), result.Source, result.Metrics.Accuracy))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return err
}
