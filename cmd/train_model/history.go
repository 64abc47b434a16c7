package main

import (
	"fmt"
	"io"
	"strings"

	"fwmodel/db"
	"fwmodel/logging"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List recorded training runs.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := setup(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		if err := printHistory(cmd.OutOrStdout(), config.Database.Path, limit); err != nil {
			logging.Logger().Fatal("failed to load history", zap.Error(err))
		}
	},
}

func init() {
	historyCommand.Flags().IntP("limit", "n", 20, "number of runs to show (0 for all)")
}

func printHistory(w io.Writer, path string, limit int) error {
	if path == "" {
		return errors.New("no database configured, set --db or database.path")
	}
	if err := db.InitDB(path); err != nil {
		return errors.Annotatef(err, "open database %s", path)
	}
	defer db.CloseDB()
	logs, err := db.LoadTrainingLog(limit)
	if err != nil {
		return errors.Trace(err)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"id", "trained at", "source", "train/test", "accuracy", "precision", "recall", "weights", "bias"})
	for _, log := range logs {
		source := log.DataSource
		if log.DataPath != "" {
			source += " (" + log.DataPath + ")"
		}
		weights := make([]string, len(log.Weights))
		for i, v := range log.Weights {
			weights[i] = fmt.Sprintf("%.4f", v)
		}
		table.Append([]string{
			fmt.Sprint(log.ID),
			log.TrainedAt.Local().Format("2006-01-02 15:04:05"),
			source,
			fmt.Sprintf("%d/%d", log.TrainRows, log.TestRows),
			fmt.Sprintf("%.3f", log.Accuracy),
			fmt.Sprintf("%.3f", log.Precision),
			fmt.Sprintf("%.3f", log.Recall),
			strings.Join(weights, " "),
			fmt.Sprintf("%.4f", log.Bias),
		})
	}
	table.Render()
	return nil
}
