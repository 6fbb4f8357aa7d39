package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Slog exposes the logger through the standard structured-logging interface
// so packages written against *slog.Logger share the zap core.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(slogHandler{zap: l.Zap()})
}

type slogHandler struct {
	zap *zap.Logger
}

func (h slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.zap.Core().Enabled(zapLevelFor(level))
}

func (h slogHandler) Handle(ctx context.Context, record slog.Record) error {
	fields := make([]zap.Field, 0, record.NumAttrs()+2)
	record.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
		return true
	})
	fields = append(fields, traceFields(ctx)...)

	if ce := h.zap.Check(zapLevelFor(record.Level), record.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(attrs))
	for _, attr := range attrs {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
	}
	return slogHandler{zap: h.zap.With(fields...)}
}

func (h slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return slogHandler{zap: h.zap.Named(name)}
}

func zapLevelFor(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
