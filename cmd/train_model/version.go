package main

import (
	"fmt"
	"runtime"

	"fwmodel/ml"
	"fwmodel/pipeline"
	"github.com/spf13/cobra"
)

// Default build-time variable.
// These values are overridden via ldflags
var (
	Version   = "unknown-version"
	GitCommit = "unknown-commit"
	BuildTime = "unknown-buildtime"
)

func BuildInfo() string {
	var buildInfo string
	buildInfo += fmt.Sprintln("Version:\t", Version)
	buildInfo += fmt.Sprintln("Go version:\t", runtime.Version())
	buildInfo += fmt.Sprintln("Git commit:\t", GitCommit)
	buildInfo += fmt.Sprintln("Built:\t\t", BuildTime)
	buildInfo += fmt.Sprintf("OS/Arch:\t %s/%s\n", runtime.GOOS, runtime.GOARCH)
	buildInfo += fmt.Sprintf("Model:\t\t %s (%d features, test ratio %g)\n",
		ml.TypeStandardizedLogistic, pipeline.NumFeatures, ml.DefaultTestRatio)
	return buildInfo
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show build information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), BuildInfo())
	},
}
