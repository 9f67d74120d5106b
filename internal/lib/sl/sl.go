package sl

import "log/slog"

// Module tags log records with the emitting module name.
func Module(name string) slog.Attr {
	return slog.String("module", name)
}

// Err wraps an error for structured logging.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "nil")
	}
	return slog.String("error", err.Error())
}

// Secret logs a credential without exposing more than a short prefix.
func Secret(key, value string) slog.Attr {
	return slog.String(key, mask(value))
}

func mask(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
