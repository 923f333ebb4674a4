package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger writes one analysis session per ticker and date range to logs/<TICKER>_<range>_<date>.log
type Logger struct {
	ticker    string
	dateRange string
	logFile   *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelStatus  LogLevel = "STATUS"
)

// RunSummary is what LogRunSummary records about one engine run
type RunSummary struct {
	Provider string
	Params   map[string]int
	Bars     int
	Dropped  int
	Rows     int
	Duration time.Duration
	// Latest holds the most recent complete row, empty on insufficient history
	Latest     map[string]float64
	LatestDate time.Time
	Reports    []string
}

// NewLogger creates the session log under logDir ("logs" when empty)
func NewLogger(logDir, ticker, dateRange string) (*Logger, error) {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	filename := fmt.Sprintf("%s_%s_%s.log", ticker, dateRange, time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := &Logger{
		ticker:    ticker,
		dateRange: dateRange,
		logFile:   file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}

	l.writeSessionHeader()
	return l, nil
}

func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 TECHNICAL ANALYSIS SESSION STARTED
================================================================================
Ticker: %s | Range: %s
Started: %s
Log File: %s
================================================================================
`, l.ticker, l.dateRange, time.Now().Format("2006-01-02 15:04:05"), filepath.Base(l.logPath))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	l.logger.Println(fmt.Sprintf("[%s] [%s] %s", timestamp, level, message))
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Status logs run status information
func (l *Logger) Status(format string, args ...interface{}) {
	l.Log(LogLevelStatus, format, args...)
}

// LogDataLoaded records where the bars came from
func (l *Logger) LogDataLoaded(provider string, bars int, first, last time.Time) {
	l.Info("Loaded %d bars from %s (%s → %s)", bars, provider,
		first.Format("2006-01-02"), last.Format("2006-01-02"))
}

// LogRunSummary writes the run summary block
func (l *Logger) LogRunSummary(s RunSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] [STATUS] ==================== RUN SUMMARY ====================\n", timestamp)
	fmt.Fprintf(&b, "📈 Ticker: %s | Range: %s | Provider: %s\n", l.ticker, l.dateRange, s.Provider)
	fmt.Fprintf(&b, "⚙️ Params: %s\n", formatParams(s.Params))
	fmt.Fprintf(&b, "🔄 Bars: %d | Dropped: %d | Rows: %d | Duration: %s\n", s.Bars, s.Dropped, s.Rows, s.Duration)

	if len(s.Latest) == 0 {
		b.WriteString("⚠️ Insufficient history: no complete row\n")
	} else {
		fmt.Fprintf(&b, "📊 Latest (%s): %s\n", s.LatestDate.Format("2006-01-02"), formatValues(s.Latest))
	}
	for _, r := range s.Reports {
		fmt.Fprintf(&b, "💾 Report: %s\n", r)
	}
	b.WriteString("==================================================================")

	l.logger.Println(b.String())
}

func formatParams(params map[string]int) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, params[k])
	}
	return strings.Join(parts, " ")
}

func formatValues(values map[string]float64) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%.4f", k, values[k])
	}
	return strings.Join(parts, " ")
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogWarning logs warning with context
func (l *Logger) LogWarning(context string, message string, args ...interface{}) {
	l.Warning("%s", fmt.Sprintf(context+": "+message, args...))
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile == nil {
		return nil
	}

	footer := fmt.Sprintf(`
================================================================================
🛑 TECHNICAL ANALYSIS SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))
	l.logger.Print(footer)

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
