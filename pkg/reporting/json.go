package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ducminhle1904/ta-engine/internal/indicators"
)

// Document is the JSON form of a report. Rows map each column name, plus "Date", to its value.
type Document struct {
	Ticker  string                   `json:"ticker"`
	Start   string                   `json:"start,omitempty"`
	End     string                   `json:"end,omitempty"`
	Params  indicators.Params        `json:"params"`
	Columns []string                 `json:"columns"`
	Bars    int                      `json:"bars"`
	Dropped int                      `json:"dropped"`
	Rows    []map[string]interface{} `json:"rows"`
}

// BuildDocument converts the cleaned table of report. Rows is never nil.
func BuildDocument(report Report) Document {
	res := report.Result
	doc := Document{
		Ticker:  report.Ticker,
		Start:   formatDay(report.Range.Start),
		End:     formatDay(report.Range.End),
		Params:  res.Params,
		Columns: res.Table.Columns(),
		Bars:    res.Raw.Len(),
		Dropped: res.Dropped,
		Rows:    make([]map[string]interface{}, 0, res.Table.Len()),
	}

	for _, row := range res.Table.Rows() {
		out := make(map[string]interface{}, len(row.Values)+1)
		out["Date"] = row.Date.Format("2006-01-02")
		for name, v := range row.Values {
			if v.Defined {
				out[name] = v.V
			} else {
				out[name] = nil
			}
		}
		doc.Rows = append(doc.Rows, out)
	}
	return doc
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DefaultJSONReporter writes a report as an indented JSON document
type DefaultJSONReporter struct{}

// NewDefaultJSONReporter creates a new JSON reporter
func NewDefaultJSONReporter() *DefaultJSONReporter {
	return &DefaultJSONReporter{}
}

// Format returns "json"
func (r *DefaultJSONReporter) Format() string { return FormatJSON }

// Extension returns "json"
func (r *DefaultJSONReporter) Extension() string { return "json" }

// FormatReport formats the report as JSON bytes
func (r *DefaultJSONReporter) FormatReport(report Report) ([]byte, error) {
	return json.MarshalIndent(BuildDocument(report), "", "  ")
}

// PrintReport prints the report as JSON to stdout
func (r *DefaultJSONReporter) PrintReport(report Report) {
	data, _ := r.FormatReport(report)
	fmt.Println(string(data))
}

// Write writes the JSON document to path
func (r *DefaultJSONReporter) Write(report Report, path string) error {
	data, err := r.FormatReport(report)
	if err != nil {
		return err
	}

	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
