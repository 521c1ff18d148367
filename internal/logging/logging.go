// Package logging builds the zap loggers used across the service.
package logging

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agri365/agri365/internal/config"
)

// Standard field names for structured log lines.
const (
	FieldRequestID  = "request_id"
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldQuery      = "query"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldSource     = "source"
	FieldPort       = "port"
)

// New returns a JSON production logger, or a console logger when
// cfg.Development is set.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "unknown log level %q", s)
	}
	return level, nil
}

// Component tags a logger with the component that owns it.
func Component(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(zap.String(FieldComponent, name))
}
