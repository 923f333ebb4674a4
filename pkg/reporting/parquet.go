package reporting

import (
	"github.com/parquet-go/parquet-go"

	"github.com/ducminhle1904/ta-engine/internal/indicators"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// ParquetRow is one cleaned row in the parquet report
type ParquetRow struct {
	Date       string  `parquet:"date"`
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     int64   `parquet:"volume"`
	RSI        float64 `parquet:"rsi"`
	MACD       float64 `parquet:"macd"`
	MACDSignal float64 `parquet:"macd_signal"`
	ROC        float64 `parquet:"roc"`
	ADX        float64 `parquet:"adx"`
}

// DefaultParquetReporter writes the cleaned table as a parquet file
type DefaultParquetReporter struct{}

// NewDefaultParquetReporter creates a new parquet reporter
func NewDefaultParquetReporter() *DefaultParquetReporter {
	return &DefaultParquetReporter{}
}

// Format returns "parquet"
func (r *DefaultParquetReporter) Format() string { return FormatParquet }

// Extension returns "parquet"
func (r *DefaultParquetReporter) Extension() string { return "parquet" }

// Write writes every row of the cleaned table
func (r *DefaultParquetReporter) Write(report Report, path string) error {
	if err := NewDefaultPathManager().EnsureDirectoryExists(path); err != nil {
		return err
	}
	return parquet.WriteFile(path, ParquetRows(report))
}

// ParquetRows flattens the cleaned table. Cleaned rows are fully defined.
func ParquetRows(report Report) []ParquetRow {
	table := report.Result.Table
	rows := make([]ParquetRow, 0, table.Len())
	for _, row := range table.Rows() {
		get := func(name string) float64 {
			v, _ := row.Get(name)
			return v
		}
		rows = append(rows, ParquetRow{
			Date:       row.Date.Format("2006-01-02"),
			Open:       get(types.ColumnOpen),
			High:       get(types.ColumnHigh),
			Low:        get(types.ColumnLow),
			Close:      get(types.ColumnClose),
			Volume:     int64(get(types.ColumnVolume)),
			RSI:        get(indicators.ColumnRSI),
			MACD:       get(indicators.ColumnMACD),
			MACDSignal: get(indicators.ColumnMACDSignal),
			ROC:        get(indicators.ColumnROC),
			ADX:        get(indicators.ColumnADX),
		})
	}
	return rows
}
