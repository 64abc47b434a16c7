package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fwmodel/logging"
	"fwmodel/pipeline"
	"fwmodel/training"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Retrain and print new constants whenever the data file changes.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := setup(cmd)
		debounce, _ := cmd.Flags().GetDuration("debounce")

		cache, err := training.NewCache(training.DefaultCacheSize)
		if err != nil {
			logging.Logger().Fatal("failed to create cache", zap.Error(err))
		}
		t := newTrainer(config, cmd.OutOrStdout(), cache)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := t.run(ctx); err != nil {
			logging.Logger().Error("failed to train model", zap.Error(err))
		}
		watcher, err := pipeline.NewDatasetWatcher(config.Data.Path, debounce, func(ctx context.Context) {
			if err := t.run(ctx); err != nil {
				logging.Logger().Error("failed to train model", zap.Error(err))
			}
		})
		if err != nil {
			logging.Logger().Fatal("failed to create watcher", zap.Error(err))
		}
		if err := watcher.Start(ctx); err != nil {
			logging.Logger().Fatal("failed to start watcher", zap.Error(err))
		}
		<-ctx.Done()
		watcher.Stop()
		logging.Logger().Info("stop watching")
	},
}

func init() {
	watchCommand.Flags().Duration("debounce", pipeline.DefaultDebounce, "quiet period after the last change before retraining")
}
