package data

import (
	"context"
	"strings"
	"time"

	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// Request selects the daily bars of one ticker over the half-open range [Start, End).
// A zero Start or End leaves that side unbounded.
type Request struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// Range returns the requested calendar range.
func (r Request) Range() types.DateRange {
	return types.DateRange{Start: r.Start, End: r.End}
}

// Normalize upper-cases and trims the ticker.
func (r Request) Normalize() Request {
	r.Ticker = strings.ToUpper(strings.TrimSpace(r.Ticker))
	return r
}

// CacheKey identifies the request for a given provider: "provider|TICKER|start_end".
func (r Request) CacheKey(provider string) string {
	return strings.Join([]string{provider, strings.ToUpper(r.Ticker), r.Range().String()}, "|")
}

// DataProvider loads historical daily bars from a market data source
type DataProvider interface {
	// LoadBars returns bars sorted by date. An unknown ticker or an empty range yields an
	// error matching errors.ErrNoData.
	LoadBars(ctx context.Context, req Request) ([]types.OHLCV, error)

	// ValidateData validates the integrity of the loaded data
	ValidateData(data []types.OHLCV) error

	// GetName returns the name of the data provider
	GetName() string
}

// DataCache stores loaded bars by request key
type DataCache interface {
	// Get retrieves data from cache if available
	Get(ctx context.Context, key string) ([]types.OHLCV, bool, error)

	// Set stores data in cache
	Set(ctx context.Context, key string, data []types.OHLCV) error

	// Clear removes all cached data
	Clear(ctx context.Context) error

	// Size returns the number of cached entries
	Size(ctx context.Context) (int, error)

	// Name identifies the backend in logs and metrics
	Name() string
}

// DataFilter interface for filtering and transforming data
type DataFilter interface {
	// FilterByDateRange keeps the bars inside r
	FilterByDateRange(data []types.OHLCV, r types.DateRange) []types.OHLCV

	// ValidateTimeSequence ensures dates are strictly increasing
	ValidateTimeSequence(data []types.OHLCV) error
}

// CSVColumnMapping defines the column positions for different CSV formats
type CSVColumnMapping struct {
	DateCol    int
	OpenCol    int
	HighCol    int
	LowCol     int
	CloseCol   int
	VolumeCol  int
	MinColumns int
	DateFormat string
}

// Predefined CSV formats
var (
	// DefaultCSVFormat is Date,Open,High,Low,Close,Volume with calendar dates
	DefaultCSVFormat = CSVColumnMapping{
		DateCol:    0,
		OpenCol:    1,
		HighCol:    2,
		LowCol:     3,
		CloseCol:   4,
		VolumeCol:  5,
		MinColumns: 6,
		DateFormat: "2006-01-02",
	}

	// YahooCSVFormat is the Yahoo Finance export: Date,Open,High,Low,Close,Adj Close,Volume
	YahooCSVFormat = CSVColumnMapping{
		DateCol:    0,
		OpenCol:    1,
		HighCol:    2,
		LowCol:     3,
		CloseCol:   4,
		VolumeCol:  6,
		MinColumns: 7,
		DateFormat: "2006-01-02",
	}
)

// FileLocator finds the CSV file of a ticker under a data root
type FileLocator interface {
	// FindDataFile returns the first existing candidate path, or "" if none exists
	FindDataFile(dataRoot, ticker string) string

	// CandidatePaths lists the paths FindDataFile checks, in order
	CandidatePaths(dataRoot, ticker string) []string
}
