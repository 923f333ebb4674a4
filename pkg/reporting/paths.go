package reporting

import (
	"os"
	"path/filepath"
	"strings"
)

// ReportBaseName is the file name, without extension, of every file report
const ReportBaseName = "indicators"

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns <root>/<TICKER>
func (p *DefaultPathManager) GetDefaultOutputDir(root, ticker string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		t = "UNKNOWN"
	}
	if root == "" {
		root = "results"
	}
	return filepath.Join(root, t)
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// ReportPath returns <root>/<TICKER>/<name>.<ext>
func ReportPath(root, ticker, name, ext string) string {
	return filepath.Join(NewDefaultPathManager().GetDefaultOutputDir(root, ticker), name+"."+ext)
}
