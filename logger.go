package mqttlite

import (
	"context"
	"io"
	"log"
	"log/slog"
	"maps"
	"os"
	"slices"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	// LogLevelDebug is the debug log level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the info log level.
	LogLevelInfo
	// LogLevelWarn is the warn log level.
	LogLevelWarn
	// LogLevelError is the error log level.
	LogLevelError
	// LogLevelNone disables all logging.
	LogLevelNone
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// LogFields represents key-value pairs for structured logging.
type LogFields map[string]any

// Logger defines the interface for logging.
type Logger interface {
	Debug(msg string, fields LogFields)
	Info(msg string, fields LogFields)
	Warn(msg string, fields LogFields)
	Error(msg string, fields LogFields)

	// WithFields returns a new logger with the given fields added.
	WithFields(fields LogFields) Logger

	Level() LogLevel
	SetLevel(level LogLevel)
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct {
	level LogLevel
}

// NewNoOpLogger creates a new no-op logger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{level: LogLevelNone}
}

// Debug does nothing.
func (n *NoOpLogger) Debug(_ string, _ LogFields) {}

// Info does nothing.
func (n *NoOpLogger) Info(_ string, _ LogFields) {}

// Warn does nothing.
func (n *NoOpLogger) Warn(_ string, _ LogFields) {}

// Error does nothing.
func (n *NoOpLogger) Error(_ string, _ LogFields) {}

// WithFields returns the same logger.
func (n *NoOpLogger) WithFields(_ LogFields) Logger {
	return n
}

// Level returns the log level.
func (n *NoOpLogger) Level() LogLevel {
	return n.level
}

// SetLevel sets the log level.
func (n *NoOpLogger) SetLevel(level LogLevel) {
	n.level = level
}

// StdLogger is a simple logger using the standard library log package.
type StdLogger struct {
	logger *log.Logger
	level  LogLevel
	fields LogFields
}

// NewStdLogger creates a new standard library based logger.
func NewStdLogger(w io.Writer, level LogLevel) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	return &StdLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
		fields: make(LogFields),
	}
}

// Debug logs a debug message.
func (s *StdLogger) Debug(msg string, fields LogFields) {
	if s.level <= LogLevelDebug {
		s.log(LogLevelDebug, msg, fields)
	}
}

// Info logs an info message.
func (s *StdLogger) Info(msg string, fields LogFields) {
	if s.level <= LogLevelInfo {
		s.log(LogLevelInfo, msg, fields)
	}
}

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, fields LogFields) {
	if s.level <= LogLevelWarn {
		s.log(LogLevelWarn, msg, fields)
	}
}

// Error logs an error message.
func (s *StdLogger) Error(msg string, fields LogFields) {
	if s.level <= LogLevelError {
		s.log(LogLevelError, msg, fields)
	}
}

// WithFields returns a new logger with the given fields added.
func (s *StdLogger) WithFields(fields LogFields) Logger {
	return &StdLogger{
		logger: s.logger,
		level:  s.level,
		fields: mergeFields(s.fields, fields),
	}
}

// Level returns the current log level.
func (s *StdLogger) Level() LogLevel {
	return s.level
}

// SetLevel sets the log level.
func (s *StdLogger) SetLevel(level LogLevel) {
	s.level = level
}

func (s *StdLogger) log(level LogLevel, msg string, fields LogFields) {
	all := mergeFields(s.fields, fields)
	if len(all) == 0 {
		s.logger.Printf("[%s] %s", level, msg)
		return
	}

	s.logger.Printf("[%s] %s %v", level, msg, all)
}

func mergeFields(base, extra LogFields) LogFields {
	merged := make(LogFields, len(base)+len(extra))
	maps.Copy(merged, base)
	maps.Copy(merged, extra)
	return merged
}

// SlogLogger adapts a *slog.Logger to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

// NewSlogLogger wraps l. A nil l uses slog.Default().
func NewSlogLogger(l *slog.Logger, level LogLevel) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	s := &SlogLogger{logger: l, level: new(slog.LevelVar)}
	s.SetLevel(level)
	return s
}

func (s *SlogLogger) Debug(msg string, fields LogFields) { s.log(slog.LevelDebug, msg, fields) }
func (s *SlogLogger) Info(msg string, fields LogFields)  { s.log(slog.LevelInfo, msg, fields) }
func (s *SlogLogger) Warn(msg string, fields LogFields)  { s.log(slog.LevelWarn, msg, fields) }
func (s *SlogLogger) Error(msg string, fields LogFields) { s.log(slog.LevelError, msg, fields) }

// WithFields returns a new logger with the given fields attached.
func (s *SlogLogger) WithFields(fields LogFields) Logger {
	return &SlogLogger{logger: s.logger.With(fieldsToAttrs(fields)...), level: s.level}
}

// Level returns the current log level.
func (s *SlogLogger) Level() LogLevel {
	switch l := s.level.Level(); {
	case l <= slog.LevelDebug:
		return LogLevelDebug
	case l <= slog.LevelInfo:
		return LogLevelInfo
	case l <= slog.LevelWarn:
		return LogLevelWarn
	case l <= slog.LevelError:
		return LogLevelError
	default:
		return LogLevelNone
	}
}

// SetLevel sets the log level.
func (s *SlogLogger) SetLevel(level LogLevel) {
	switch level {
	case LogLevelDebug:
		s.level.Set(slog.LevelDebug)
	case LogLevelInfo:
		s.level.Set(slog.LevelInfo)
	case LogLevelWarn:
		s.level.Set(slog.LevelWarn)
	case LogLevelError:
		s.level.Set(slog.LevelError)
	default:
		s.level.Set(slog.LevelError + 4)
	}
}

func (s *SlogLogger) log(level slog.Level, msg string, fields LogFields) {
	if level < s.level.Level() {
		return
	}
	s.logger.Log(context.Background(), level, msg, fieldsToAttrs(fields)...)
}

func fieldsToAttrs(fields LogFields) []any {
	attrs := make([]any, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// Standard field names for MQTT logging.
const (
	LogFieldClientID   = "client_id"
	LogFieldTopic      = "topic"
	LogFieldPacketID   = "packet_id"
	LogFieldPacketType = "packet_type"
	LogFieldReturnCode = "return_code"
	LogFieldError      = "error"
	LogFieldRemoteAddr = "remote_addr"
	LogFieldBytes      = "bytes"
)
