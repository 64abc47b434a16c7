package main

import (
	"context"
	"os"

	"fwmodel/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "train_model",
	Short: "Train a two-feature logistic regression and print firmware constants.",
	Long: `Train a two-feature logistic regression and print firmware constants.

Rows are read from a CSV file with the header f1,f2,label (sensor_data.csv by
default). When the file is absent, or lacks one of those columns, a synthetic
dataset is generated instead.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		config := setup(cmd)
		t := newTrainer(config, cmd.OutOrStdout(), nil)
		if err := t.run(context.Background()); err != nil {
			logging.Logger().Fatal("failed to train model", zap.Error(err))
		}
	},
}

func init() {
	flags := rootCommand.PersistentFlags()
	logging.AddFlags(flags)
	flags.Bool("debug", false, "use debug log mode")
	flags.StringP("config", "c", "", "configuration file path (default "+defaultConfigPath+" when present)")
	flags.String("data", "", "labeled data file with header f1,f2,label")
	flags.String("header", "", "also write the constants to this C header file")
	flags.String("model", "", "path of the fitted model saved as JSON")
	flags.String("db", "", "SQLite database recording training history")
	rootCommand.AddCommand(watchCommand, historyCommand, predictCommand, versionCommand)
}

// setup loads the configuration, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command) *Config {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = defaultConfigPath
	}
	config, err := loadConfig(configPath, explicit)
	if err != nil {
		logging.Logger().Fatal("failed to load config", zap.Error(err))
	}
	if flags.Changed("data") {
		config.Data.Path, _ = flags.GetString("data")
	}
	if flags.Changed("header") {
		config.Export.HeaderPath, _ = flags.GetString("header")
	}
	if flags.Changed("model") {
		config.Export.ModelPath, _ = flags.GetString("model")
	}
	if flags.Changed("db") {
		config.Database.Path, _ = flags.GetString("db")
	}

	debug, _ := flags.GetBool("debug")
	logging.SetLogger(logging.FileOptionsFromFlags(flags, config.Log), debug)
	logging.Logger().Debug("load config", zap.String("config", configPath), zap.Any("data", config.Data))
	return config
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
