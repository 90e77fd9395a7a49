// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/orrery/internal/config"
)

// Option adjusts the logging configuration before the logger is built.
type Option func(*config.LoggingConfig)

// WithLevel overrides the configured level when level is non-empty.
func WithLevel(level string) Option {
	return func(c *config.LoggingConfig) {
		if level != "" {
			c.Level = level
		}
	}
}

// WithOutput overrides the configured output when path is non-empty.
func WithOutput(path string) Option {
	return func(c *config.LoggingConfig) {
		if path != "" {
			c.Output = path
		}
	}
}

// New builds the logger named "orrery". Format "json" gives structured
// records for files and pipelines; "console" or empty gives short colored
// lines for a terminal. Output is "stderr", "stdout" or a file path.
func New(cfg config.LoggingConfig, opts ...Option) (*zap.Logger, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("%w: log level %q", config.ErrInvalidConfig, cfg.Level)
		}
	}

	var zc zap.Config
	switch strings.ToLower(cfg.Format) {
	case "json":
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zc.EncoderConfig.ConsoleSeparator = " "
		zc.DisableCaller = true
		zc.DisableStacktrace = true
		if cfg.Output == "" || cfg.Output == "stderr" || cfg.Output == "stdout" {
			zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	default:
		return nil, fmt.Errorf("%w: log format %q", config.ErrInvalidConfig, cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	out := cfg.Output
	if out == "" {
		out = "stderr"
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{"stderr"}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log.Named("orrery"), nil
}
