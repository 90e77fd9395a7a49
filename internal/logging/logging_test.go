package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/san-kum/orrery/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggingConfig
		opts  []Option
		level zapcore.Level
	}{
		{"console debug", config.LoggingConfig{Level: "debug", Format: "console"}, nil, zapcore.DebugLevel},
		{"json warn", config.LoggingConfig{Level: "warn", Format: "json"}, nil, zapcore.WarnLevel},
		{"empty defaults to info", config.LoggingConfig{}, nil, zapcore.InfoLevel},
		{"upper case level", config.LoggingConfig{Level: "ERROR"}, nil, zapcore.ErrorLevel},
		{"flag overrides file", config.LoggingConfig{Level: "error"}, []Option{WithLevel("debug")}, zapcore.DebugLevel},
		{"empty flag keeps file", config.LoggingConfig{Level: "warn"}, []Option{WithLevel("")}, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg, tt.opts...)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			if !log.Core().Enabled(tt.level) {
				t.Errorf("expected %v enabled", tt.level)
			}
			if tt.level > zapcore.DebugLevel && log.Core().Enabled(tt.level-1) {
				t.Errorf("expected %v disabled", tt.level-1)
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"bad level", config.LoggingConfig{Level: "loud"}},
		{"bad format", config.LoggingConfig{Format: "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.log")

	log, err := New(config.LoggingConfig{Level: "info", Format: "json"}, WithOutput(path))
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Info("run complete")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"run complete"`) || !strings.Contains(line, `"logger":"orrery"`) {
		t.Errorf("unexpected log line: %s", line)
	}
}
