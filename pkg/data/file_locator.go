package data

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// CandidatePaths lists where a ticker's daily CSV may live:
// <root>/<TICKER>.csv, <root>/<ticker>.csv, <root>/<TICKER>/daily.csv and
// <root>/<TICKER>/1440/candles.csv (the minute-interval layout used by the downloader).
func (f *DefaultFileLocator) CandidatePaths(dataRoot, ticker string) []string {
	upper := strings.ToUpper(ticker)
	lower := strings.ToLower(ticker)

	paths := []string{
		filepath.Join(dataRoot, upper+".csv"),
	}
	if lower != upper {
		paths = append(paths, filepath.Join(dataRoot, lower+".csv"))
	}
	return append(paths,
		filepath.Join(dataRoot, upper, "daily.csv"),
		filepath.Join(dataRoot, upper, "1440", "candles.csv"),
	)
}

// FindDataFile returns the first candidate that exists, or "" when none does
func (f *DefaultFileLocator) FindDataFile(dataRoot, ticker string) string {
	attemptedPaths := f.CandidatePaths(dataRoot, ticker)
	for _, path := range attemptedPaths {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	log.Printf("⚠️ No data file found for %s in:", ticker)
	for _, path := range attemptedPaths {
		log.Printf("   - %s", path)
	}
	return ""
}
