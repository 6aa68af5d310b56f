package telemetry

import (
	"io"
	"os"
	"sort"
	"time"

	clog "github.com/charmbracelet/log"
)

// JSONLogger writes one JSON object per event. Field maps are flattened
// into sorted key/value pairs so lines are stable across runs.
type JSONLogger struct {
	l *clog.Logger
	w io.WriteCloser
}

// NewJSONLogger logs to path at the given level ("debug", "info", "warn",
// "error"). An empty path discards everything.
func NewJSONLogger(path, level string) (*JSONLogger, error) {
	var w io.WriteCloser = nopCloser{Writer: io.Discard}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
	}
	lvl := clog.InfoLevel
	if level != "" {
		parsed, err := clog.ParseLevel(level)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		lvl = parsed
	}
	return newLogger(w, lvl), nil
}

// NewWriterLogger logs to w; Close does not close w.
func NewWriterLogger(w io.Writer, level clog.Level) *JSONLogger {
	return newLogger(nopCloser{Writer: w}, level)
}

func newLogger(w io.WriteCloser, level clog.Level) *JSONLogger {
	l := clog.NewWithOptions(w, clog.Options{
		Formatter:       clog.JSONFormatter,
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
	})
	return &JSONLogger{l: l, w: w}
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Debug(msg, keyvals(fields)...)
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Info(msg, keyvals(fields)...)
}

func (l *JSONLogger) Warn(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Warn(msg, keyvals(fields)...)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	if l == nil || l.l == nil {
		return
	}
	l.l.Error(msg, keyvals(fields)...)
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

func keyvals(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
