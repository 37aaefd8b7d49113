// Package logger provides a structured, context-aware logger on top of log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Level is the minimum severity a Logger emits.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// TraceIDFn extracts a trace identifier from a context.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is what business modules depend on.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// The c variants skip extra stack frames when resolving the source
	// location, for helpers that log on behalf of their caller.
	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

// Logger writes JSON records through slog.
type Logger struct {
	handler   slog.Handler
	traceIDFn TraceIDFn
}

var _ LoggerInterface = (*Logger)(nil)

// New builds a Logger writing to w. When traceIDFn is nil the otel span
// context is used.
func New(w io.Writer, level Level, service string, traceIDFn TraceIDFn) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})

	if traceIDFn == nil {
		traceIDFn = spanTraceID
	}

	return &Logger{
		handler:   handler.WithAttrs([]slog.Attr{slog.String("service", service)}),
		traceIDFn: traceIDFn,
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, 3, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, 3, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, 3, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, 3, msg, args...)
}

func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelDebug, 3+caller, msg, args...)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelInfo, 3+caller, msg, args...)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelWarn, 3+caller, msg, args...)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelError, 3+caller, msg, args...)
}

func (l *Logger) write(ctx context.Context, level Level, skip int, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	if id := l.traceIDFn(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	r.Add(args...)

	_ = l.handler.Handle(ctx, r)
}

func spanTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
