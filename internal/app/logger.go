package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the single *zap.Logger threaded through the container,
// per SPEC_FULL §10.1: production config in production (JSON, sampled),
// development config otherwise (console-friendly), both overridden to the
// configured level. "trace" has no zapcore equivalent and is treated as
// debug, the most verbose level zap actually has.
func newLogger(cfg *Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "trace" {
		return zapcore.DebugLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return l, nil
}
