package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ProductionMode  = "production"
	DevelopmentMode = "development"
)

type ctxKey string

// Keys stored on request contexts by the middleware layer.
var (
	RequestIDKey ctxKey = "request_id"
	ActorIDKey   ctxKey = "actor_id"
)

type Logger struct {
	zl *zap.Logger
}

func New(mode string) *Logger {
	var cfg zap.Config
	if mode == ProductionMode {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return &Logger{zl: zl}
}

// With returns a logger carrying request_id and actor_id fields when the
// context has them.
func (l *Logger) With(ctx context.Context) *zap.Logger {
	var fields []zap.Field
	if ctx != nil {
		if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
			fields = append(fields, zap.String(string(RequestIDKey), requestID))
		}
		if actorID, ok := ctx.Value(ActorIDKey).(string); ok {
			fields = append(fields, zap.String(string(ActorIDKey), actorID))
		}
	}
	return l.zl.With(fields...)
}

func (l *Logger) Infof(template string, args ...interface{}) {
	l.zl.Sugar().Infof(template, args...)
}

func (l *Logger) Warnf(template string, args ...interface{}) {
	l.zl.Sugar().Warnf(template, args...)
}

func (l *Logger) Errorf(template string, args ...interface{}) {
	l.zl.Sugar().Errorf(template, args...)
}

func (l *Logger) Sync() error {
	return l.zl.Sync()
}
