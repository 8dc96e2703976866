package workbook

import (
	"context"
	"fmt"
	"log/slog"
)

// Level is the severity of a Diagnostic.
type Level int

const (
	// LevelDebug traces pipeline decisions such as skipped rows.
	LevelDebug Level = iota
	// LevelVerbose reports progress such as completed writes.
	LevelVerbose
	// LevelWarning reports conditions that do not stop the pipeline.
	LevelWarning
	// LevelError reports a failed file, sheet or operation.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Category groups diagnostics by the kind of failure.
type Category string

// Error categories.
const (
	CategoryNotSpecified        Category = "NotSpecified"
	CategoryObjectNotFound      Category = "ObjectNotFound"
	CategoryInvalidArgument     Category = "InvalidArgument"
	CategoryInvalidData         Category = "InvalidData"
	CategoryInvalidOperation    Category = "InvalidOperation"
	CategoryInvalidType         Category = "InvalidType"
	CategoryReadError           Category = "ReadError"
	CategoryWriteError          Category = "WriteError"
	CategorySecurityError       Category = "SecurityError"
	CategoryOperationTimeout    Category = "OperationTimeout"
	CategoryOperationStopped    Category = "OperationStopped"
	CategoryResourceUnavailable Category = "ResourceUnavailable"
	CategoryNotImplemented      Category = "NotImplemented"
)

// Diagnostic is a message emitted by a pipeline stage.
type Diagnostic struct {
	Level Level
	// Terminating is set when the diagnostic stopped the whole operation.
	Terminating bool
	// Source is the emitting stage: "import", "export", "save", "sheets" or "schema".
	Source string
	// ID is a stable identifier such as FileNotFound.
	ID       string
	Category Category
	Message  string
	// Action is the recommended remediation, if any.
	Action string
	// Target is the offending path, sheet or value.
	Target string
	// Err is the underlying error, if any.
	Err error
}

func (d Diagnostic) String() string {
	if d.ID == "" {
		return fmt.Sprintf("%s: %s", d.Source, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Source, d.Message, d.ID)
}

// Error is returned by operations stopped by a terminating diagnostic.
// The diagnostic has already been emitted to the pipeline's Sink.
type Error struct {
	Diagnostic
}

func (e *Error) Error() string {
	return e.Diagnostic.String()
}

func (e *Error) Unwrap() error {
	return e.Diagnostic.Err
}

// Sink receives diagnostics as they are produced.
type Sink interface {
	Emit(d Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(d Diagnostic)

// Emit implements Sink.
func (f SinkFunc) Emit(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Tally forwards diagnostics to Sink and counts warnings and errors.
type Tally struct {
	Sink     Sink
	Warnings int
	Errors   int
}

// Emit implements Sink.
func (t *Tally) Emit(d Diagnostic) {
	switch d.Level {
	case LevelWarning:
		t.Warnings++
	case LevelError:
		t.Errors++
	}
	if t.Sink != nil {
		t.Sink.Emit(d)
	}
}

// LogSink writes diagnostics to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

// NewLogSink returns a LogSink writing to logger, or to slog.Default when nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{Logger: logger}
}

// Emit implements Sink.
func (s *LogSink) Emit(d Diagnostic) {
	attrs := []slog.Attr{slog.String("source", d.Source)}
	if d.ID != "" {
		attrs = append(attrs, slog.String("id", d.ID))
	}
	if d.Category != "" {
		attrs = append(attrs, slog.String("category", string(d.Category)))
	}
	if d.Target != "" {
		attrs = append(attrs, slog.String("target", d.Target))
	}
	if d.Action != "" {
		attrs = append(attrs, slog.String("action", d.Action))
	}
	if d.Terminating {
		attrs = append(attrs, slog.Bool("terminating", true))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.String("error", d.Err.Error()))
	}
	s.Logger.LogAttrs(context.Background(), slogLevel(d.Level), d.Message, attrs...)
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
