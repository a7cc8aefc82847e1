package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

type Logger struct {
	*slog.Logger
}

func New(logLevel string) *Logger {
	return NewWithWriter(os.Stderr, logLevel)
}

// NewWithWriter creates a JSON logger writing to w
func NewWithWriter(w io.Writer, logLevel string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(logLevel),
		AddSource: logLevel == "debug",
	}

	handler := slog.NewJSONHandler(w, opts)

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return NewWithWriter(io.Discard, "error")
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether level names a known log level
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
	}
}

func (l *Logger) SnapshotLoaded(source string, routes, gateways int, duration int64, cached bool) {
	l.Info("Routing table loaded",
		slog.String("snapshot_source", source),
		slog.Int("routes", routes),
		slog.Int("default_gateway_interfaces", gateways),
		slog.Int64("duration_ms", duration),
		slog.Bool("cached", cached))
}

func (l *Logger) RouteResolved(addr, destination, gateway, iface string, found bool) {
	l.Debug("Route lookup completed",
		slog.String("address", addr),
		slog.String("destination", destination),
		slog.String("gateway", gateway),
		slog.String("interface", iface),
		slog.Bool("found", found))
}

func (l *Logger) BatchLookup(total, found, missing int, duration int64) {
	l.Info("Batch lookup completed",
		slog.Int("total", total),
		slog.Int("found", found),
		slog.Int("missing", missing),
		slog.Int64("duration_ms", duration))
}

func (l *Logger) ConfigLoaded(file, source string) {
	l.Debug("Configuration loaded",
		slog.String("config_file", file),
		slog.String("snapshot_source", source))
}

// Performance logs counters for an operation at debug level, keys sorted
func (l *Logger) Performance(operation string, counters map[string]interface{}) {
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys)+1)
	attrs = append(attrs, slog.String("operation", operation))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, counters[k]))
	}
	l.Debug("Performance counters", attrs...)
}
