package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFileOptionsFromFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	require.NoError(t, flagSet.Parse([]string{"--log-path", "train.log", "--log-max-backups", "3"}))

	opts := FileOptionsFromFlags(flagSet, FileOptions{Path: "config.log", MaxAge: 7})
	assert.Equal(t, "train.log", opts.Path)
	assert.Equal(t, 100, opts.MaxSize)
	assert.Equal(t, 7, opts.MaxAge)
	assert.Equal(t, 3, opts.MaxBackups)
}

func TestSetLoggerWritesFile(t *testing.T) {
	defer ReplaceLogger(Logger())()

	path := filepath.Join(t.TempDir(), "train.log")
	SetLogger(FileOptions{Path: path, MaxSize: 1}, false)
	Logger().Info("model trained", zap.Float64("accuracy", 0.9))
	Logger().Debug("hidden")
	_ = Logger().Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "model trained")
	assert.Contains(t, string(content), "accuracy")
	assert.NotContains(t, string(content), "hidden")
}

func TestReplaceLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := ReplaceLogger(zap.New(core))
	Logger().Info("hello")
	restore()
	assert.Equal(t, 1, logs.Len())
	Logger().Info("after restore")
	assert.Equal(t, 1, logs.Len())
}
