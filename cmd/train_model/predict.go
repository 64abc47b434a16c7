package main

import (
	"fmt"
	"io"
	"strconv"

	"fwmodel/logging"
	"fwmodel/ml"
	"fwmodel/training"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCommand = &cobra.Command{
	Use:   "predict <f1> <f2>",
	Short: "Classify one reading with a saved model and its firmware constants.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := setup(cmd)
		if err := predict(cmd.OutOrStdout(), config.Export.ModelPath, args); err != nil {
			logging.Logger().Fatal("failed to predict", zap.Error(err))
		}
	},
}

func predict(w io.Writer, modelPath string, args []string) error {
	if modelPath == "" {
		return errors.New("no model configured, set --model or export.model_path")
	}
	features := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return errors.Annotatef(err, "feature f%d", i+1)
		}
		features[i] = v
	}

	loaded, err := ml.LoadModel(ml.TypeStandardizedLogistic, modelPath)
	if err != nil {
		return err
	}
	model := loaded.(*ml.StandardizedModel)
	label, confidence, err := model.Predict(features)
	if err != nil {
		return err
	}

	single := make([]float32, len(features))
	for i, v := range features {
		single[i] = float32(v)
	}
	prob, firmwareLabel, err := training.ModelParams(model).Infer(single)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "label: %d (confidence %.4f)\nfirmware: label %d (p=%.4f)\n",
		label, confidence, firmwareLabel, prob)
	return errors.Trace(err)
}
