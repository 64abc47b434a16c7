package logging

import (
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

func init() {
	// stdout carries the exported constants, keep the default logger on stderr
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	var err error
	logger, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}

// Logger get current logger
func Logger() *zap.Logger {
	return logger
}

// ReplaceLogger swaps the global logger and returns a function restoring the previous one.
func ReplaceLogger(l *zap.Logger) func() {
	prev := logger
	logger = l
	return func() { logger = prev }
}

func AddFlags(flagSet *pflag.FlagSet) {
	flagSet.String("log-path", "", "path of log file")
	flagSet.Int("log-max-size", 100, "maximum size in megabytes of the log file")
	flagSet.Int("log-max-age", 0, "maximum number of days to retain old log files")
	flagSet.Int("log-max-backups", 0, "maximum number of old log files to retain")
}

// FileOptions configures the rotating log file. An empty Path disables it.
type FileOptions struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"`
	MaxAge     int    `yaml:"max_age"`
	MaxBackups int    `yaml:"max_backups"`
}

// FileOptionsFromFlags overlays flags that were set explicitly on top of opts.
func FileOptionsFromFlags(flagSet *pflag.FlagSet, opts FileOptions) FileOptions {
	if flagSet.Changed("log-path") {
		opts.Path, _ = flagSet.GetString("log-path")
	}
	if flagSet.Changed("log-max-size") || opts.MaxSize == 0 {
		opts.MaxSize, _ = flagSet.GetInt("log-max-size")
	}
	if flagSet.Changed("log-max-age") {
		opts.MaxAge, _ = flagSet.GetInt("log-max-age")
	}
	if flagSet.Changed("log-max-backups") {
		opts.MaxBackups, _ = flagSet.GetInt("log-max-backups")
	}
	return opts
}

func SetLogger(opts FileOptions, debug bool) {
	var (
		encoder zapcore.Encoder
		level   zapcore.LevelEnabler
	)
	timeEncoder := zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.999999")

	if debug {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = timeEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
		level = zap.DebugLevel
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = timeEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
		level = zap.InfoLevel
	}
	writers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if opts.Path != "" {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   false,
		}))
	}
	core := zapcore.NewCore(encoder, zap.CombineWriteSyncers(writers...), level)
	logger = zap.New(core)
}
