package reporting

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ducminhle1904/ta-engine/internal/frame"
)

// DefaultCSVReporter writes the cleaned table as a date-indexed CSV
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// Format returns "csv"
func (r *DefaultCSVReporter) Format() string { return FormatCSV }

// Extension returns "csv"
func (r *DefaultCSVReporter) Extension() string { return "csv" }

// Write writes Date followed by every table column. An empty table yields the header only.
func (r *DefaultCSVReporter) Write(report Report, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := writeFrameCSV(w, report.Result.Table); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeFrameCSV(w *csv.Writer, f *frame.Frame) error {
	columns := f.Columns()
	if err := w.Write(append([]string{"Date"}, columns...)); err != nil {
		return err
	}

	record := make([]string, len(columns)+1)
	for i := 0; i < f.Len(); i++ {
		row := f.Row(i)
		record[0] = row.Date.Format("2006-01-02")
		for j, c := range columns {
			v := row.Values[c]
			if v.Defined {
				record[j+1] = strconv.FormatFloat(v.V, 'f', -1, 64)
			} else {
				record[j+1] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// WriteIndicatorsCSV is a package-level convenience function
func WriteIndicatorsCSV(report Report, path string) error {
	return NewDefaultCSVReporter().Write(report, path)
}
