package app

// Logger is the structured event sink the app reports to. The telemetry
// JSON logger is the production implementation.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
	Close() error
}
