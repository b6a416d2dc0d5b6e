package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	LevelTrace = slog.LevelDebug - 4
	LevelFatal = slog.LevelError + 4
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

var initOnce sync.Once

// Init installs the process-wide slog logger. Only the first call has any
// effect; later calls return the logger already in place.
func Init(opts Options) *slog.Logger {
	initOnce.Do(func() {
		slog.SetDefault(New(opts))
	})
	return slog.Default()
}

func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if NormalizeFormat(opts.Format) == FormatJSON {
		return slog.New(slog.NewJSONHandler(opts.Output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(opts.Output, handlerOpts))
}

// ParseLevel accepts the AWS_LAMBDA_LOG_LEVEL vocabulary. Unknown values map
// to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	case "FATAL":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

func NormalizeFormat(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), FormatJSON) {
		return FormatJSON
	}
	return FormatText
}
