package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

var loggerKey = contextKey{}

func levelFor(debug, verbose bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Initialize installs the colourised terminal handler as the default logger.
func Initialize(debug, verbose bool) {
	slog.SetDefault(slog.New(NewCycleHandler(os.Stderr, HandlerOptions{
		Level:     levelFor(debug, verbose),
		AddSource: debug,
	})))
}

// InitializeService logs plain timestamped lines to w, at info level or
// below. Used when running unattended under the service manager.
func InitializeService(w io.Writer, debug bool) {
	slog.SetDefault(slog.New(NewCycleHandler(w, HandlerOptions{
		Level:      levelFor(debug, true),
		Timestamps: true,
		Plain:      true,
	})))
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

// WithRun tags every record logged through ctx with the cycle's run id.
func WithRun(ctx context.Context, runID string) context.Context {
	return With(ctx, slog.String("run_id", runID))
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}
