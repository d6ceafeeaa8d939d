package logger

import (
	"context"

	"github.com/ougirez/energy-mock/internal/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global = zap.NewNop().Sugar()

// Init replaces the process logger. level is one of zap's level names.
func Init(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	global = l.Sugar()
	return nil
}


func Sync() {
	_ = global.Sync()
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.CtxKeyRequestID, requestID)
}

func fromCtx(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return global
	}
	if id, ok := ctx.Value(constants.CtxKeyRequestID).(string); ok && id != "" {
		return global.With("request_id", id)
	}
	return global
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Infof(format, args...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...interface{}) {
	fromCtx(ctx).Infow(msg, keysAndValues...)
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	fromCtx(ctx).Errorf(format, args...)
}

func Error(ctx context.Context, msg string) {
	fromCtx(ctx).Error(msg)
}
