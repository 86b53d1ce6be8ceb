package fixture

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DiagnosticLevel ranks diagnostics emitted during resolution.
type DiagnosticLevel string

const (
	LevelDebug DiagnosticLevel = "debug"
	LevelWarn  DiagnosticLevel = "warn"
)

// Diagnostic describes a non-fatal event observed while resolving slices.
type Diagnostic struct {
	Level   DiagnosticLevel
	SliceID string
	Chain   []string
	Message string
	Err     error
}

// Logger records resolution diagnostics.
type Logger interface {
	LogDiagnostic(Diagnostic)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Diagnostic)

// LogDiagnostic implements Logger.
func (f LoggerFunc) LogDiagnostic(d Diagnostic) {
	if f != nil {
		f(d)
	}
}

type noopLogger struct{}

func (noopLogger) LogDiagnostic(Diagnostic) {}

// NopLogger discards every diagnostic.
func NopLogger() Logger {
	return noopLogger{}
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger writes diagnostics to logger.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

// defaultLogger returns a child of the global zerolog logger tagged with the
// fixture component.
func defaultLogger() Logger {
	return zerologLogger{logger: log.With().Str("component", "fixture").Logger()}
}

func (l zerologLogger) LogDiagnostic(d Diagnostic) {
	var event *zerolog.Event
	switch d.Level {
	case LevelDebug:
		event = l.logger.Debug()
	default:
		event = l.logger.Warn()
	}
	if d.SliceID != "" {
		event = event.Str("slice", d.SliceID)
	}
	if len(d.Chain) > 0 {
		event = event.Strs("chain", d.Chain)
	}
	if d.Err != nil {
		event = event.Err(d.Err)
	}
	event.Msg(d.Message)
}

// WithLogger sets the diagnostics logger. A nil logger discards diagnostics.
func WithLogger(logger Logger) Option {
	return func(cfg *factoryConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}
