package logging

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 对 zap 的薄封装，统一带上服务标识并支持从 ctx 注入 trace 字段
type Logger struct {
	base *zap.Logger
}

func New(level string, jsonFormat bool, service, env string) (*Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if !jsonFormat {
		cfg.Encoding = "console"
	}
	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	base = base.With(zap.String("service", service), zap.String("env", env))
	return &Logger{base: base}, nil
}

func NewNop() *Logger { return &Logger{base: zap.NewNop()} }

// WithContext 附加当前 span 的 trace_id/span_id，方便日志与链路对齐
func (l *Logger) WithContext(ctx context.Context) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l.base
	}
	return l.base.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

func (l *Logger) Info(msg string, fields ...zap.Field)  { l.base.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.base.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.base.Error(msg, fields...) }
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }

func (l *Logger) Sync() { _ = l.base.Sync() }

func (l *Logger) Zap() *zap.Logger { return l.base }
