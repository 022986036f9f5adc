// Package logger provides a structured, levelled logger built on log/slog.
//
// WithCtx returns the logger the request middleware stored in the context,
// so every line a handler writes carries the request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", id)
//	// → time=... level=INFO msg="order placed" request_id=1f0c… order_id=2024-05-01-003
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/shopadmin/config"
)

var L *slog.Logger

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// EnableMongo tees every record into a MongoDB collection as well as stdout.
// The returned func flushes and disconnects; call it on shutdown.
func EnableMongo(uri, db string) (func(), error) {
	mh, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return func() {}, fmt.Errorf("logger: %w", err)
	}
	L = slog.New(NewMultiHandler(baseHandler(), mh))
	slog.SetDefault(L)
	return mh.Close, nil
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by InjectLogger, or the
// base logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx. Called by the Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

// LevelFor maps an HTTP status to the level its access line is logged at.
func LevelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
