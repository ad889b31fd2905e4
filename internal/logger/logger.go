package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu sync.RWMutex

	// logger is the process logger built by Init
	logger *zap.Logger

	// level is shared by every core built from logger, so SetLevel
	// applies to loggers already handed out
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init builds the process logger. Format "json" uses the production
// encoder; anything else writes human-readable console lines.
func Init(lvl, format string) error {
	zapLevel, err := parseLevel(lvl)
	if err != nil {
		return err
	}

	var config zap.Config
	if format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.Encoding = "console"
		config.DisableStacktrace = true
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.InitialFields = map[string]interface{}{"app": "linkguard"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level.SetLevel(zapLevel)
	config.Level = level

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	logger = built
	mu.Unlock()
	return nil
}

// SetLevel changes the level of the running logger
func SetLevel(lvl string) error {
	zapLevel, err := parseLevel(lvl)
	if err != nil {
		return err
	}
	level.SetLevel(zapLevel)
	return nil
}

// Level returns the current log level name
func Level() string {
	return level.Level().String()
}

func parseLevel(lvl string) (zapcore.Level, error) {
	switch lvl {
	case "debug", "info", "warn", "error":
		return zapcore.ParseLevel(lvl)
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", lvl)
	}
}

// Sync flushes any buffered log entries
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		return logger.Sync()
	}
	return nil
}

// GetZapLogger returns the process logger, or a no-op logger before Init
func GetZapLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
