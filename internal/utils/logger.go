package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zlog is the process-wide logger. It is a no-op until InitLogger runs so
// packages can log from tests without setup.
var Zlog = zap.NewNop()

// InitLogger builds Zlog for the given level and environment. Development
// environments get the human readable console encoder.
func InitLogger(level, environment string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Zlog = logger
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Zlog.Sync()
}

// TokenPrefix returns the first n characters of a credential for log lines.
func TokenPrefix(token string, n int) string {
	if token == "" {
		return ""
	}
	if len(token) <= n {
		return token
	}
	return token[:n]
}
