package common

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ducminhle1904/ta-engine/internal/config"
)

// CommonFlags contains flags that are shared across multiple commands
type CommonFlags struct {
	// Environment and configuration
	EnvFile    *string
	ConfigFile *string

	// Logging and output
	Verbose  *bool
	Silent   *bool
	NoEmojis *bool

	// Help and version
	Version *bool
	Help    *bool
}

// RegisterCommonFlags registers common flags on fs
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		EnvFile:    fs.String("env", ".env", "Environment file path"),
		ConfigFile: fs.String("config", "", "JSON config file (bare names are looked up in configs/)"),

		Verbose:  fs.Bool("verbose", false, "Enable verbose output"),
		Silent:   fs.Bool("silent", false, "Enable silent mode (minimal output)"),
		NoEmojis: fs.Bool("no-emojis", false, "Disable emoji output"),

		Version: fs.Bool("version", false, "Show version information"),
		Help:    fs.Bool("help", false, "Show help information"),
	}
}

// AnalysisFlags override the environment configuration of one analysis run
type AnalysisFlags struct {
	Ticker   *string
	Start    *string
	End      *string
	Provider *string
	DataRoot *string
	CSVPath  *string
	Cache    *string

	RSIWindow  *int
	MACDFast   *int
	MACDSlow   *int
	MACDSignal *int
	ROCWindow  *int
	ADXWindow  *int

	OutputDir   *string
	Formats     *string
	ShowRaw     *bool
	ConsoleOnly *bool
}

// RegisterAnalysisFlags registers the analysis flags on fs. Defaults shown are the
// environment-independent ones; unset flags leave the loaded configuration untouched.
func RegisterAnalysisFlags(fs *flag.FlagSet) *AnalysisFlags {
	return &AnalysisFlags{
		Ticker:   fs.String("ticker", "AAPL", "Ticker symbol, e.g. AAPL or BTCUSDT"),
		Start:    fs.String("start", "2020-01-01", "Start date (YYYY-MM-DD, inclusive)"),
		End:      fs.String("end", "2025-01-01", "End date (YYYY-MM-DD, exclusive)"),
		Provider: fs.String("provider", config.ProviderCSV, "Data provider: csv, bybit, polygon"),
		DataRoot: fs.String("data-root", "data", "Data root directory for the csv provider"),
		CSVPath:  fs.String("csv", "", "Read this CSV file instead of <data-root>/<TICKER>.csv"),
		Cache:    fs.String("cache", config.CacheMemory, "Price cache: none, memory, sqlite, redis"),

		RSIWindow:  fs.Int("rsi-window", 14, "RSI window"),
		MACDFast:   fs.Int("macd-fast", 12, "MACD fast span"),
		MACDSlow:   fs.Int("macd-slow", 26, "MACD slow span"),
		MACDSignal: fs.Int("macd-signal", 9, "MACD signal span"),
		ROCWindow:  fs.Int("roc-window", 12, "ROC window"),
		ADXWindow:  fs.Int("adx-window", 14, "ADX window"),

		OutputDir:   fs.String("output", "results", "Output directory for reports"),
		Formats:     fs.String("format", "console", "Comma-separated outputs: console,csv,json,xlsx,parquet"),
		ShowRaw:     fs.Bool("show-raw", false, "Print the raw price table"),
		ConsoleOnly: fs.Bool("console-only", false, "Console output only (no file output)"),
	}
}

// Apply copies every flag set on the command line into cfg
func (f *AnalysisFlags) Apply(fs *flag.FlagSet, cfg *config.Config) error {
	var applyErr error
	fs.Visit(func(fl *flag.Flag) {
		if applyErr != nil {
			return
		}
		switch fl.Name {
		case "ticker":
			cfg.Analysis.Ticker = strings.ToUpper(strings.TrimSpace(*f.Ticker))
		case "start":
			d, err := config.ParseDate(*f.Start)
			if err != nil {
				applyErr = fmt.Errorf("-start: %w", err)
				return
			}
			cfg.Analysis.Start = d
		case "end":
			d, err := config.ParseDate(*f.End)
			if err != nil {
				applyErr = fmt.Errorf("-end: %w", err)
				return
			}
			cfg.Analysis.End = d
		case "provider":
			cfg.Data.Provider = strings.ToLower(*f.Provider)
		case "data-root":
			cfg.Data.DataRoot = *f.DataRoot
		case "csv":
			cfg.Data.CSVPath = *f.CSVPath
		case "cache":
			cfg.Cache.Backend = strings.ToLower(*f.Cache)
		case "rsi-window":
			cfg.Analysis.Params.RSIWindow = *f.RSIWindow
		case "macd-fast":
			cfg.Analysis.Params.MACDFast = *f.MACDFast
		case "macd-slow":
			cfg.Analysis.Params.MACDSlow = *f.MACDSlow
		case "macd-signal":
			cfg.Analysis.Params.MACDSignal = *f.MACDSignal
		case "roc-window":
			cfg.Analysis.Params.ROCWindow = *f.ROCWindow
		case "adx-window":
			cfg.Analysis.Params.ADXWindow = *f.ADXWindow
		case "output":
			cfg.Output.Dir = *f.OutputDir
		case "format":
			cfg.Output.Formats = splitList(*f.Formats)
		case "show-raw":
			cfg.Output.ShowRaw = *f.ShowRaw
		}
	})
	if applyErr != nil {
		return applyErr
	}

	if *f.ConsoleOnly {
		cfg.Output.Formats = []string{"console"}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FlagValidator provides flag validation utilities
type FlagValidator struct {
	errors []string
}

// NewFlagValidator creates a new flag validator
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{
		errors: make([]string, 0),
	}
}

// ValidateInt validates an int flag value
func (v *FlagValidator) ValidateInt(name string, value int, min, max int) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %d and %d, got: %d", name, min, max, value))
	}
	return v
}

// ValidateChoice validates that a string is one of the allowed choices
func (v *FlagValidator) ValidateChoice(name, value string, choices []string) *FlagValidator {
	for _, choice := range choices {
		if value == choice {
			return v
		}
	}
	v.errors = append(v.errors, fmt.Sprintf("%s must be one of [%s], got: %s", name, strings.Join(choices, ", "), value))
	return v
}

// ValidateFile validates that a file exists
func (v *FlagValidator) ValidateFile(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
		}
		return v
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("%s file does not exist: %s", name, path))
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *FlagValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *FlagValidator) GetErrors() []string {
	return v.errors
}

// GetError returns a formatted error message with all validation errors
func (v *FlagValidator) GetError() error {
	if len(v.errors) == 0 {
		return nil
	}

	if len(v.errors) == 1 {
		return fmt.Errorf("validation error: %s", v.errors[0])
	}

	return fmt.Errorf("validation errors:\n  - %s", strings.Join(v.errors, "\n  - "))
}

// PrintErrors prints all validation errors
func (v *FlagValidator) PrintErrors() {
	if len(v.errors) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "❌ Flag validation errors:\n")
	for _, err := range v.errors {
		fmt.Fprintf(os.Stderr, "   • %s\n", err)
	}
}

// UsageFormatter provides utilities for formatting flag usage
type UsageFormatter struct {
	AppName        string
	AppDescription string
	Examples       []UsageExample
}

// UsageExample represents a usage example
type UsageExample struct {
	Command     string
	Description string
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description string) *UsageFormatter {
	return &UsageFormatter{
		AppName:        appName,
		AppDescription: description,
		Examples:       make([]UsageExample, 0),
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(command, description string) *UsageFormatter {
	u.Examples = append(u.Examples, UsageExample{
		Command:     command,
		Description: description,
	})
	return u
}

// PrintUsage prints formatted usage information for fs
func (u *UsageFormatter) PrintUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "%s - %s\n\n", u.AppName, u.AppDescription)

	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "  %s [OPTIONS]\n\n", filepath.Base(os.Args[0]))

	if len(u.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range u.Examples {
			fmt.Fprintf(w, "  # %s\n", example.Description)
			fmt.Fprintf(w, "  %s\n\n", example.Command)
		}
	}

	fmt.Fprintf(w, "OPTIONS:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// CheckHelpAndVersion handles -help and -version, reporting whether the command should exit
func CheckHelpAndVersion(appName string, commonFlags *CommonFlags, formatter *UsageFormatter, fs *flag.FlagSet) bool {
	if *commonFlags.Version {
		PrintVersion(appName)
		return true
	}

	if *commonFlags.Help {
		formatter.PrintUsage(os.Stdout, fs)
		return true
	}

	return false
}

// SetupLogger configures the default logger based on common flags
func SetupLogger(commonFlags *CommonFlags) {
	logger := DefaultLogger

	if *commonFlags.Silent {
		logger.SetSilentMode(true)
	}

	if *commonFlags.Verbose {
		logger.Level = LogLevelDebug
	}

	if *commonFlags.NoEmojis {
		logger.ShowEmojis = false
	}
}

// ApplyLogLevel maps LOG_LEVEL onto the default logger unless -verbose or -silent already decided
func ApplyLogLevel(commonFlags *CommonFlags, level string) {
	if *commonFlags.Verbose || *commonFlags.Silent {
		return
	}
	switch strings.ToLower(level) {
	case "debug":
		DefaultLogger.Level = LogLevelDebug
	case "warn", "warning":
		DefaultLogger.Level = LogLevelWarn
	case "error":
		DefaultLogger.Level = LogLevelError
	default:
		DefaultLogger.Level = LogLevelInfo
	}
}

// LoadConfig loads .env, then the environment or the -config file
func LoadConfig(commonFlags *CommonFlags) (*config.Config, error) {
	if err := LoadEnvFile(*commonFlags.EnvFile); err != nil {
		return nil, err
	}
	if *commonFlags.ConfigFile != "" {
		return config.LoadFromFile(*commonFlags.ConfigFile)
	}
	return config.Load(), nil
}
