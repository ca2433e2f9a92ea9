package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Logger is a leveled, printf-style logger scoped to a component.
type Logger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     LogLevel
	component string
}

// Default returns the process-wide logger. The minimum level is taken from
// COGNISERVE_LOG_LEVEL on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr, ParseLevel(os.Getenv("COGNISERVE_LOG_LEVEL")))
	})
	return defaultLogger
}

// New creates a logger writing to out with the given minimum level.
func New(out io.Writer, level LogLevel) *Logger {
	return &Logger{
		mu:    &sync.Mutex{},
		out:   out,
		level: level,
	}
}

// NewComponentLogger returns the default logger scoped to a component.
func NewComponentLogger(component string) *Logger {
	return Default().WithComponent(component)
}

// WithComponent returns a copy of the logger tagged with component. The
// underlying writer and lock are shared.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		mu:        l.mu,
		out:       l.out,
		level:     l.level,
		component: component,
	}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.out == nil {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	} else {
		file = "???"
		line = 0
	}

	component := l.component
	if component == "" {
		component = "cogniserve"
	}

	// Format: 2025-09-30 12:34:56 [INFO] [Component] file.go:123 - Message
	fmt.Fprintf(l.out, "%s [%s] [%s] %s:%d - %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		levelToString(level), component, file, line,
		fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) { l.log(DEBUG, format, args...) }

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) { l.log(INFO, format, args...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) { l.log(WARN, format, args...) }

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) { l.log(ERROR, format, args...) }

func levelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to its LogLevel; unrecognized names fall
// back to INFO.
func ParseLevel(name string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
