package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the context-aware logging interface used across the service.
// All methods take a context first so request-scoped fields can be attached
// later without changing call sites.
type Logger interface {
	Debug(ctx context.Context, args ...interface{})
	Debugf(ctx context.Context, format string, args ...interface{})
	Info(ctx context.Context, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
	Fatal(ctx context.Context, args ...interface{})
	Fatalf(ctx context.Context, format string, args ...interface{})
}

// ZapConfig controls how the underlying zap logger is built.
type ZapConfig struct {
	Level        string // debug, info, warn, error
	Mode         string // development or production
	Encoding     string // console or json
	ColorEnabled bool
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Init builds the process-wide logger from config. Falls back to a sane
// production logger if the config is unparsable.
func Init(cfg ZapConfig) Logger {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}

	var zcfg zap.Config
	if cfg.Mode == "development" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Encoding != "" {
		zcfg.Encoding = cfg.Encoding
	}
	if cfg.ColorEnabled && zcfg.Encoding == "console" {
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	base, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		base = zap.Must(zap.NewProduction(zap.AddCallerSkip(1)))
	}

	return &zapLogger{sugar: base.Sugar()}
}

func (z *zapLogger) Debug(_ context.Context, args ...interface{}) { z.sugar.Debug(args...) }
func (z *zapLogger) Debugf(_ context.Context, format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}
func (z *zapLogger) Info(_ context.Context, args ...interface{}) { z.sugar.Info(args...) }
func (z *zapLogger) Infof(_ context.Context, format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}
func (z *zapLogger) Warn(_ context.Context, args ...interface{}) { z.sugar.Warn(args...) }
func (z *zapLogger) Warnf(_ context.Context, format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}
func (z *zapLogger) Error(_ context.Context, args ...interface{}) { z.sugar.Error(args...) }
func (z *zapLogger) Errorf(_ context.Context, format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}
func (z *zapLogger) Fatal(_ context.Context, args ...interface{}) { z.sugar.Fatal(args...) }
func (z *zapLogger) Fatalf(_ context.Context, format string, args ...interface{}) {
	z.sugar.Fatalf(format, args...)
}
