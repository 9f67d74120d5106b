package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the process logger for the given environment. Outside
// of local development records are duplicated into a file under logDir.
func SetupLogger(env, logDir string) *slog.Logger {
	var out io.Writer = os.Stdout

	if env != envLocal && logDir != "" {
		file, err := os.OpenFile(
			filepath.Join(logDir, "storeping.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err == nil {
			out = io.MultiWriter(os.Stdout, file)
		}
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// Notifier receives rendered log lines, e.g. the admin Telegram chat.
type Notifier interface {
	SendMessage(msg string)
}

// SetupTelegramHandler tees error-level records to the notifier so the
// operator hears about failures without watching the log file.
func SetupTelegramHandler(log *slog.Logger, n Notifier, level slog.Level) *slog.Logger {
	return slog.New(&teeHandler{next: log.Handler(), notifier: n, level: level})
}

type teeHandler struct {
	next     slog.Handler
	notifier Notifier
	level    slog.Level
	attrs    []slog.Attr
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	if rec.Level >= slog.LevelError && rec.Level >= h.level && h.notifier != nil {
		msg := rec.Message
		rec.Attrs(func(a slog.Attr) bool {
			msg += "\n" + a.Key + ": " + a.Value.String()
			return true
		})
		for _, a := range h.attrs {
			msg += "\n" + a.Key + ": " + a.Value.String()
		}
		go h.notifier.SendMessage("⚠️ " + msg)
	}
	return h.next.Handle(ctx, rec)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		next:     h.next.WithAttrs(attrs),
		notifier: h.notifier,
		level:    h.level,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{next: h.next.WithGroup(name), notifier: h.notifier, level: h.level, attrs: h.attrs}
}
