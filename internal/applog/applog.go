// Package applog wires the engine's structured logging on top of zap. Every
// component logs through a *zap.SugaredLogger handed down from New, rather
// than through the standard library's log package.
package applog

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"unified-thinking/internal/config"
)

// New builds a zap logger from logging config: "json" format yields
// production-style structured output, anything else yields the
// human-readable console encoder.
func New(cfg config.LoggingConfig) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if strings.ToLower(cfg.Format) == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Noop returns a logger that discards everything, for tests that don't
// want to assert on log output.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
