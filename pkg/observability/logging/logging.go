package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.Must(zap.NewProduction()).Sugar()
)

// Init replaces the package logger with one at the given level ("debug",
// "info", "warn", "error"). Unknown levels fall back to info.
func Init(level string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
	return logger, nil
}

// InitFromEnv initializes logging from the LOG_LEVEL environment variable.
func InitFromEnv() (*zap.SugaredLogger, error) {
	return Init(os.Getenv("LOG_LEVEL"))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) { get().Debugf(format, args...) }

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) { get().Infof(format, args...) }

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) { get().Warnf(format, args...) }

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) { get().Errorf(format, args...) }

// Fatalf logs a formatted message and exits.
func Fatalf(format string, args ...interface{}) { get().Fatalf(format, args...) }

// Sync flushes buffered log entries.
func Sync() error { return get().Sync() }
