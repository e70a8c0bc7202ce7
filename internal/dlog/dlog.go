// Package dlog provides procloop's ambient structured logging, the
// equivalent of the teacher's MACGO_DEBUG* env-var-driven debug package but
// backed by go.uber.org/zap instead of a hand-rolled log.Logger.
package dlog

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// L returns the package-wide sugared logger, initializing it from
// PROCLOOP_DEBUG / PROCLOOP_DEBUG_LEVEL / PROCLOOP_DEBUG_LOG on first use.
func L() *zap.SugaredLogger {
	once.Do(initialize)
	return logger
}

func initialize() {
	level := zapcore.WarnLevel
	if os.Getenv("PROCLOOP_DEBUG") == "1" {
		level = zapcore.DebugLevel
	}
	if n, err := strconv.Atoi(os.Getenv("PROCLOOP_DEBUG_LEVEL")); err == nil && n > 0 {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.OutputPaths = []string{"stderr"}

	if path := os.Getenv("PROCLOOP_DEBUG_LOG"); path != "" {
		cfg.OutputPaths = []string{"stderr", path}
	}

	zl, err := cfg.Build()
	if err != nil {
		// Fall back to a minimal logger rather than ever panic from a
		// logging subsystem.
		zl = zap.NewNop()
	}
	logger = zl.Sugar().Named("procloop")
}

// Sync flushes any buffered log entries. Callers that care about final
// messages (e.g. the CLI) should defer this on exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
