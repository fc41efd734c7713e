// Package logging builds the zap logger shared by the engine, the steps and
// the LLM layer. The console belongs to the conversation, so logs go to a
// file.
package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/studyflow/internal/store"
)

type loggerKey struct{}

// Config selects where logs go and how verbose they are.
type Config struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string
	// Path is the log file. Empty disables logging.
	Path string
}

// DefaultPath resolves the log file location:
// STUDYFLOW_LOG, then <data home>/studyflow/studyflow.log.
func DefaultPath() (string, error) {
	if p := os.Getenv("STUDYFLOW_LOG"); p != "" {
		return p, nil
	}
	home, err := store.DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "studyflow", "studyflow.log"), nil
}

// New creates a JSON logger appending to cfg.Path.
//
// Level conventions:
//   - error: provider or storage failures that end a step
//   - warn:  unparsable payloads, stalled steps, resource download failures
//   - info:  workflow transitions, progress checkpoints, calendar writes
//   - debug: prompts, payload extraction details, downloads
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Path == "" {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if err := store.EnsureDir(cfg.Path); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{cfg.Path},
		ErrorOutputPaths: []string{cfg.Path},
	}

	return zapCfg.Build()
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the logger stored in the context, or fallback.
func LoggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
