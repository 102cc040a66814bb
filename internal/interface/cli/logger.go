package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// LogLevel orders log severities from Debug up to Error.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (lv LogLevel) String() string {
	switch lv {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// LogLevelFromString parses a settings value into a LogLevel.
// Unknown or empty values fall back to Info.
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger writes leveled messages to a single destination. It satisfies
// the application's output.Logger port so the timer services share the
// CLI's log stream.
type Logger struct {
	mu  sync.RWMutex
	min LogLevel
	out io.Writer
}

func NewLogger(min LogLevel, out io.Writer) *Logger {
	return &Logger{min: min, out: out}
}

// SetLevel changes the minimum level below which messages are dropped.
func (l *Logger) SetLevel(min LogLevel) {
	l.mu.Lock()
	l.min = min
	l.mu.Unlock()
}

// SetOutput redirects the log stream.
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	l.out = out
	l.mu.Unlock()
}

func (l *Logger) Debug(format string, args ...interface{}) { l.emit(LogLevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.emit(LogLevelInfo, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.emit(LogLevelWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.emit(LogLevelError, format, args...) }

func (l *Logger) emit(level LogLevel, format string, args ...interface{}) {
	l.mu.RLock()
	out := l.out
	dropped := level < l.min
	l.mu.RUnlock()
	if dropped {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", level, fmt.Sprintf(format, args...))
}

// std is the process-wide logger behind the package helpers. Commands
// retune it via InitGlobalLogger once settings are loaded.
var std = NewLogger(LogLevelInfo, os.Stderr)

// InitGlobalLogger applies the configured level to the shared logger.
func InitGlobalLogger(level string) {
	std.SetLevel(LogLevelFromString(level))
}

// GetLogger returns the shared logger, for handing to the container.
func GetLogger() *Logger {
	return std
}

// Debug logs through the shared logger.
func Debug(format string, args ...interface{}) { std.emit(LogLevelDebug, format, args...) }

// Info logs through the shared logger.
func Info(format string, args ...interface{}) { std.emit(LogLevelInfo, format, args...) }

// Warn logs through the shared logger.
func Warn(format string, args ...interface{}) { std.emit(LogLevelWarn, format, args...) }

// Error logs through the shared logger.
func Error(format string, args ...interface{}) { std.emit(LogLevelError, format, args...) }
