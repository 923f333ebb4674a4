package reporting

import (
	"fmt"
	"log"
	"strings"
)

// NewReporters creates the file reporters for formats. "console" is accepted and skipped;
// "excel" is an alias of "xlsx". Duplicates are ignored.
func NewReporters(formats []string) ([]FileReporter, error) {
	var reporters []FileReporter
	seen := make(map[string]bool, len(formats))

	for _, format := range formats {
		format = strings.ToLower(strings.TrimSpace(format))
		if format == "excel" {
			format = FormatExcel
		}
		if format == "" || format == FormatConsole || seen[format] {
			continue
		}
		seen[format] = true

		switch format {
		case FormatCSV:
			reporters = append(reporters, NewDefaultCSVReporter())
		case FormatJSON:
			reporters = append(reporters, NewDefaultJSONReporter())
		case FormatExcel:
			reporters = append(reporters, NewDefaultExcelReporter())
		case FormatParquet:
			reporters = append(reporters, NewDefaultParquetReporter())
		default:
			return nil, fmt.Errorf("unsupported output format: %s", format)
		}
	}
	return reporters, nil
}

// WriteAll writes report with every reporter to <outputDir>/<TICKER>/indicators.<ext> and
// returns the written paths. It stops at the first failure.
func WriteAll(reporters []FileReporter, report Report, outputDir string) ([]string, error) {
	paths := make([]string, 0, len(reporters))
	for _, r := range reporters {
		path := ReportPath(outputDir, report.Ticker, ReportBaseName, r.Extension())
		if err := r.Write(report, path); err != nil {
			return paths, fmt.Errorf("failed to write %s report: %w", r.Format(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	console ConsoleReporter
	files   []FileReporter
	config  ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) (*ReportingManager, error) {
	files, err := NewReporters(config.Formats)
	if err != nil {
		return nil, err
	}

	m := &ReportingManager{files: files, config: config}
	for _, f := range config.Formats {
		if strings.EqualFold(strings.TrimSpace(f), FormatConsole) {
			m.console = NewDefaultConsoleReporter(config.ShowRaw)
		}
	}
	return m, nil
}

// WithConsole replaces the console reporter, e.g. to capture output
func (m *ReportingManager) WithConsole(console ConsoleReporter) *ReportingManager {
	m.console = console
	return m
}

// Report prints to the console when enabled and writes every file report
func (m *ReportingManager) Report(report Report) ([]string, error) {
	if m.console != nil {
		m.console.OutputResults(report)
	}

	paths, err := WriteAll(m.files, report, m.config.OutputDirectory)
	for _, p := range paths {
		log.Printf("💾 Report saved: %s", p)
	}
	return paths, err
}

// ConsoleEnabled reports whether console output was requested
func (m *ReportingManager) ConsoleEnabled() bool {
	return m.console != nil
}

// FileFormats lists the formats of the file reporters
func (m *ReportingManager) FileFormats() []string {
	formats := make([]string, len(m.files))
	for i, f := range m.files {
		formats[i] = f.Format()
	}
	return formats
}
