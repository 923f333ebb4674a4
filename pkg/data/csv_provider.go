package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// CSVProvider implements DataProvider for daily CSV files
type CSVProvider struct {
	dataRoot string
	path     string
	format   CSVColumnMapping
	locator  FileLocator
	filter   *DefaultDataFilter
}

// NewCSVProvider creates a provider that reads <dataRoot>/<TICKER>.csv
func NewCSVProvider(dataRoot string) *CSVProvider {
	return &CSVProvider{
		dataRoot: dataRoot,
		format:   DefaultCSVFormat,
		locator:  NewDefaultFileLocator(),
		filter:   NewDefaultDataFilter(),
	}
}

// NewCSVFileProvider creates a provider that always reads path, whatever the ticker
func NewCSVFileProvider(path string) *CSVProvider {
	p := NewCSVProvider("")
	p.path = path
	return p
}

// WithFormat sets the column layout used when the header is not recognised
func (p *CSVProvider) WithFormat(format CSVColumnMapping) *CSVProvider {
	p.format = format
	return p
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "csv"
}

// LoadBars reads the ticker's file and keeps the bars inside the requested range
func (p *CSVProvider) LoadBars(ctx context.Context, req Request) ([]types.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = req.Normalize()

	path := p.path
	if path == "" {
		path = p.locator.FindDataFile(p.dataRoot, req.Ticker)
		if path == "" {
			return nil, apperrors.NewNoDataError("csv", "load_bars",
				fmt.Sprintf("no data file for %s under %s", req.Ticker, p.dataRoot)).
				WithContext("ticker", req.Ticker)
		}
	}

	bars, err := p.LoadFile(path)
	if err != nil {
		return nil, err
	}

	bars = p.filter.RemoveDuplicates(p.filter.SortByDate(bars))
	bars = p.filter.FilterByDateRange(bars, req.Range())
	if len(bars) == 0 {
		return nil, apperrors.NewNoDataError("csv", "load_bars",
			fmt.Sprintf("no rows for %s in %s", req.Ticker, req.Range())).
			WithContext("ticker", req.Ticker)
	}
	return bars, nil
}

// LoadFile parses a CSV file. Rows with missing or malformed values are skipped.
func (p *CSVProvider) LoadFile(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNoDataError("csv", "load_file",
				fmt.Sprintf("file not found: %s", filename))
		}
		return nil, apperrors.NewProviderError("csv", "load_file", err)
	}
	defer file.Close()

	return p.parse(file)
}

func (p *CSVProvider) parse(r io.Reader) ([]types.OHLCV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, apperrors.NewValidationError("csv", "parse", fmt.Sprintf("cannot read header: %v", err))
	}
	format := mappingFromHeader(header, p.format)

	var data []types.OHLCV
	lineNum := 1 // header already read
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, apperrors.NewValidationError("csv", "parse",
				fmt.Sprintf("error reading CSV at line %d: %v", lineNum+1, err))
		}
		lineNum++

		bar, ok := parseRecord(record, format, lineNum)
		if ok {
			data = append(data, bar)
		}
	}

	return data, nil
}

func parseRecord(record []string, format CSVColumnMapping, lineNum int) (types.OHLCV, bool) {
	if len(record) < format.MinColumns {
		log.Printf("⚠️ Insufficient columns at line %d (expected %d, got %d), skipping", lineNum, format.MinColumns, len(record))
		return types.OHLCV{}, false
	}

	date, err := parseDate(strings.TrimSpace(record[format.DateCol]), format.DateFormat)
	if err != nil {
		log.Printf("⚠️ Invalid date '%s' at line %d, skipping", record[format.DateCol], lineNum)
		return types.OHLCV{}, false
	}

	var values [5]float64
	for i, col := range []int{format.OpenCol, format.HighCol, format.LowCol, format.CloseCol, format.VolumeCol} {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			log.Printf("⚠️ Missing or invalid %s '%s' at line %d, skipping", types.PriceColumns[i], record[col], lineNum)
			return types.OHLCV{}, false
		}
		values[i] = v
	}
	open, high, low, close, volume := values[0], values[1], values[2], values[3], values[4]

	if open <= 0 || high <= 0 || low <= 0 || close <= 0 {
		log.Printf("⚠️ Invalid price data (negative or zero) at line %d, skipping", lineNum)
		return types.OHLCV{}, false
	}
	if high < low {
		log.Printf("⚠️ High price is lower than low price at line %d, skipping", lineNum)
		return types.OHLCV{}, false
	}
	if volume < 0 {
		log.Printf("⚠️ Negative volume at line %d, skipping", lineNum)
		return types.OHLCV{}, false
	}

	return types.OHLCV{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: int64(math.Round(volume)),
	}, true
}

// parseDate accepts the configured layout and falls back to a timestamp, keeping the day only
func parseDate(s, layout string) (time.Time, error) {
	for _, l := range []string{layout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(l, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// mappingFromHeader resolves column positions by name so extra columns such as
// "Adj Close" are tolerated. It falls back to the given layout when a column is missing.
func mappingFromHeader(header []string, fallback CSVColumnMapping) CSVColumnMapping {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	dateCol, ok := index["date"]
	if !ok {
		if dateCol, ok = index["timestamp"]; !ok {
			return fallback
		}
	}

	m := CSVColumnMapping{DateCol: dateCol, DateFormat: fallback.DateFormat}
	targets := []*int{&m.OpenCol, &m.HighCol, &m.LowCol, &m.CloseCol, &m.VolumeCol}
	maxCol := dateCol
	for i, name := range types.PriceColumns {
		col, ok := index[strings.ToLower(name)]
		if !ok {
			return fallback
		}
		*targets[i] = col
		if col > maxCol {
			maxCol = col
		}
	}
	m.MinColumns = maxCol + 1
	return m
}

// ValidateData validates the integrity of loaded data
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	return validateBars(data)
}

func validateBars(data []types.OHLCV) error {
	if len(data) == 0 {
		return apperrors.NewNoDataError("data", "validate", "no data provided")
	}

	for i, candle := range data {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return apperrors.NewValidationError("data", "validate",
				fmt.Sprintf("invalid price data at index %d: prices must be positive", i))
		}

		if candle.High < candle.Low {
			return apperrors.NewValidationError("data", "validate",
				fmt.Sprintf("invalid price data at index %d: high (%.4f) cannot be less than low (%.4f)",
					i, candle.High, candle.Low))
		}

		if candle.Volume < 0 {
			return apperrors.NewValidationError("data", "validate",
				fmt.Sprintf("invalid volume at index %d: %d", i, candle.Volume))
		}
	}

	return NewDefaultDataFilter().ValidateTimeSequence(data)
}
