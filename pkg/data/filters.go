package data

import (
	"fmt"
	"sort"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// DefaultDataFilter implements DataFilter for common filtering operations
type DefaultDataFilter struct{}

// NewDefaultDataFilter creates a new default data filter
func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// FilterByDateRange keeps the bars with Start <= date < End
func (f *DefaultDataFilter) FilterByDateRange(data []types.OHLCV, r types.DateRange) []types.OHLCV {
	if len(data) == 0 {
		return data
	}

	filtered := make([]types.OHLCV, 0, len(data))
	for _, candle := range data {
		if r.Contains(candle.Date) {
			filtered = append(filtered, candle)
		}
	}
	return filtered
}

// ValidateTimeSequence ensures dates are strictly increasing
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.OHLCV) error {
	for i := 1; i < len(data); i++ {
		if data[i].Date.Before(data[i-1].Date) {
			return apperrors.NewValidationError("filter", "validate_time_sequence",
				fmt.Sprintf("data not in chronological order at index %d: %s comes after %s",
					i, data[i].Date.Format("2006-01-02"), data[i-1].Date.Format("2006-01-02")))
		}

		if data[i].Date.Equal(data[i-1].Date) {
			return apperrors.NewValidationError("filter", "validate_time_sequence",
				fmt.Sprintf("duplicate date at index %d: %s", i, data[i].Date.Format("2006-01-02")))
		}
	}

	return nil
}

// SortByDate returns a copy of data sorted by date (ascending, stable)
func (f *DefaultDataFilter) SortByDate(data []types.OHLCV) []types.OHLCV {
	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// RemoveDuplicates drops repeated dates, keeping the first occurrence. Input must be sorted.
func (f *DefaultDataFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	filtered := make([]types.OHLCV, 0, len(data))
	for i, candle := range data {
		if i > 0 && candle.Date.Equal(data[i-1].Date) {
			continue
		}
		filtered = append(filtered, candle)
	}
	return filtered
}
