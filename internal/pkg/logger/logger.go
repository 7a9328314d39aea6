package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cnkcrm/internal/config"
)

// New returns a JSON production logger in prod-like environments and a
// colored development logger otherwise.
func New(env string) (*zap.Logger, error) {
	if config.IsProdLike(env) {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}
