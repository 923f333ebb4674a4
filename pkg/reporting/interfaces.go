package reporting

import (
	"github.com/ducminhle1904/ta-engine/internal/analysis"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// Package reporting renders engine results to the console and to report files

// Output formats accepted by NewReporters
const (
	FormatConsole = "console"
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatExcel   = "xlsx"
	FormatParquet = "parquet"
)

// Report is one engine run together with the request that produced it
type Report struct {
	Ticker string
	Range  types.DateRange
	Result *analysis.Result
}

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	OutputResults(report Report)
	PrintSummary(report Report)
	PrintLatest(report Report)
	PrintRaw(report Report)
}

// FileReporter writes the cleaned table of a report to a single file
type FileReporter interface {
	// Format is the name used in OUTPUT_FORMATS, e.g. "csv"
	Format() string
	// Extension is the file extension without the dot
	Extension() string
	Write(report Report, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(root, ticker string) string
	EnsureDirectoryExists(path string) error
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle int
	DateStyle   int
	PriceStyle  int
	VolumeStyle int
	ValueStyle  int
	TitleStyle  int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	OutputDirectory string
	Formats         []string
	ShowRaw         bool
}
