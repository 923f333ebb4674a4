package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides structured logging for CLI applications
type Logger struct {
	Level      LogLevel
	ShowEmojis bool
	SilentMode bool
	Out        io.Writer
}

// NewLogger creates a new logger writing to stdout
func NewLogger() *Logger {
	return &Logger{
		Level:      LogLevelInfo,
		ShowEmojis: true,
		SilentMode: false,
		Out:        os.Stdout,
	}
}

// SetSilentMode enables or disables silent mode
func (l *Logger) SetSilentMode(silent bool) {
	l.SilentMode = silent
}

// messageKind describes how one kind of console line is rendered and filtered
type messageKind struct {
	emoji    string
	tag      string
	minLevel LogLevel
	muted    bool // suppressed in silent mode
}

var (
	kindInfo     = messageKind{"ℹ️ ", "[INFO]", LogLevelInfo, true}
	kindSuccess  = messageKind{"✅", "[OK]", LogLevelError, true}
	kindProgress = messageKind{"🔄", "[..]", LogLevelInfo, true}
	kindWarn     = messageKind{"⚠️ ", "[WARN]", LogLevelWarn, false}
	kindError    = messageKind{"❌", "[ERROR]", LogLevelError, false}
	kindDebug    = messageKind{"🔍", "[DEBUG]", LogLevelDebug, false}
)

func (l *Logger) emit(kind messageKind, format string, args ...interface{}) {
	if l.Level < kind.minLevel || (kind.muted && l.SilentMode) {
		return
	}
	prefix := kind.tag
	if l.ShowEmojis {
		prefix = kind.emoji
	}
	fmt.Fprintf(l.Out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Header prints a title underlined to its width
func (l *Logger) Header(title string) {
	if l.SilentMode {
		return
	}
	title = strings.ToUpper(title)
	if l.ShowEmojis {
		title = "🎯 " + title
	}
	fmt.Fprintf(l.Out, "\n%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
}

func (l *Logger) Info(format string, args ...interface{})     { l.emit(kindInfo, format, args...) }
func (l *Logger) Success(format string, args ...interface{})  { l.emit(kindSuccess, format, args...) }
func (l *Logger) Progress(format string, args ...interface{}) { l.emit(kindProgress, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})     { l.emit(kindWarn, format, args...) }
func (l *Logger) Error(format string, args ...interface{})    { l.emit(kindError, format, args...) }
func (l *Logger) Debug(format string, args ...interface{})    { l.emit(kindDebug, format, args...) }

// EnvLoader provides environment loading utilities
type EnvLoader struct {
	logger *Logger
}

// NewEnvLoader creates a new environment loader
func NewEnvLoader(logger *Logger) *EnvLoader {
	return &EnvLoader{logger: logger}
}

// LoadEnvFile loads environment variables from a file. A missing file is not an error;
// variables already set in the environment win.
func (e *EnvLoader) LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		e.logger.Debug("Environment file %s not found, using system environment", path)
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		e.logger.Warn("Could not load environment file %s: %v", path, err)
		return err
	}

	e.logger.Debug("Environment loaded from %s", path)
	return nil
}

// Global instances for convenience
var (
	DefaultLogger    = NewLogger()
	DefaultEnvLoader = NewEnvLoader(DefaultLogger)
)

// Convenience functions using global instances
func Header(title string)                         { DefaultLogger.Header(title) }
func Info(format string, args ...interface{})     { DefaultLogger.Info(format, args...) }
func Error(format string, args ...interface{})    { DefaultLogger.Error(format, args...) }
func Success(format string, args ...interface{})  { DefaultLogger.Success(format, args...) }
func Warn(format string, args ...interface{})     { DefaultLogger.Warn(format, args...) }
func Debug(format string, args ...interface{})    { DefaultLogger.Debug(format, args...) }
func Progress(format string, args ...interface{}) { DefaultLogger.Progress(format, args...) }
func SetSilentMode(silent bool)                   { DefaultLogger.SetSilentMode(silent) }

func LoadEnvFile(path string) error { return DefaultEnvLoader.LoadEnvFile(path) }
