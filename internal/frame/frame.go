package frame

import (
	"fmt"
	"time"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// Frame is a column-oriented table indexed by trading date. Every column has exactly one
// value per date; price columns are always defined, derived columns may hold Undefined.
type Frame struct {
	dates   []time.Time
	order   []string
	columns map[string]indicators.Series
}

// Row is a single dated row of a frame, keyed by column name.
type Row struct {
	Date   time.Time
	Values map[string]indicators.Value
}

// Get returns the value of column name and whether it is defined.
func (r Row) Get(name string) (float64, bool) {
	v, ok := r.Values[name]
	if !ok {
		return 0, false
	}
	return v.V, v.Defined
}

// FromBars builds a frame with the Open, High, Low, Close and Volume columns.
// Dates must be strictly increasing; the bars are copied, never retained.
func FromBars(bars []types.OHLCV) (*Frame, error) {
	if len(bars) == 0 {
		return nil, apperrors.NewNoDataError("frame", "from_bars", "no bars supplied")
	}

	f := &Frame{
		dates:   make([]time.Time, len(bars)),
		columns: make(map[string]indicators.Series, len(types.PriceColumns)+5),
	}
	open := make(indicators.Series, len(bars))
	high := make(indicators.Series, len(bars))
	low := make(indicators.Series, len(bars))
	closes := make(indicators.Series, len(bars))
	volume := make(indicators.Series, len(bars))

	for i, bar := range bars {
		if i > 0 && !bar.Date.After(bars[i-1].Date) {
			return nil, apperrors.NewValidationError("frame", "from_bars",
				fmt.Sprintf("dates must be strictly increasing: %s follows %s",
					bar.Date.Format("2006-01-02"), bars[i-1].Date.Format("2006-01-02")))
		}
		f.dates[i] = bar.Date
		open[i] = indicators.Defined(bar.Open)
		high[i] = indicators.Defined(bar.High)
		low[i] = indicators.Defined(bar.Low)
		closes[i] = indicators.Defined(bar.Close)
		volume[i] = indicators.Defined(float64(bar.Volume))
	}

	for _, c := range []struct {
		name   string
		series indicators.Series
	}{
		{types.ColumnOpen, open},
		{types.ColumnHigh, high},
		{types.ColumnLow, low},
		{types.ColumnClose, closes},
		{types.ColumnVolume, volume},
	} {
		if err := f.Append(c.name, c.series); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Append adds a derived column. It must be aligned with the frame's dates and the name must
// not already exist.
func (f *Frame) Append(name string, s indicators.Series) error {
	if len(s) != len(f.dates) {
		return apperrors.NewValidationError("frame", "append",
			fmt.Sprintf("column %s has %d values, frame has %d rows", name, len(s), len(f.dates))).
			WithContext("column", name)
	}
	if _, exists := f.columns[name]; exists {
		return apperrors.NewValidationError("frame", "append",
			fmt.Sprintf("column %s already exists", name)).WithContext("column", name)
	}
	f.order = append(f.order, name)
	f.columns[name] = s
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.dates)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool {
	return f.Len() == 0
}

// Dates returns the row index.
func (f *Frame) Dates() []time.Time {
	return f.dates
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Column returns the named series.
func (f *Frame) Column(name string) (indicators.Series, bool) {
	s, ok := f.columns[name]
	return s, ok
}

// Row returns the i-th row.
func (f *Frame) Row(i int) Row {
	r := Row{Date: f.dates[i], Values: make(map[string]indicators.Value, len(f.order))}
	for _, name := range f.order {
		r.Values[name] = f.columns[name][i]
	}
	return r
}

// Rows returns every row in date order.
func (f *Frame) Rows() []Row {
	rows := make([]Row, f.Len())
	for i := range rows {
		rows[i] = f.Row(i)
	}
	return rows
}

// DropUndefined returns a new frame without the rows that hold an undefined value in any
// column. Columns and their order are preserved; the receiver is left untouched.
func (f *Frame) DropUndefined() *Frame {
	keep := make([]int, 0, len(f.dates))
	for i := range f.dates {
		complete := true
		for _, name := range f.order {
			if !f.columns[name][i].Defined {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}

	out := &Frame{
		dates:   make([]time.Time, len(keep)),
		order:   f.Columns(),
		columns: make(map[string]indicators.Series, len(f.order)),
	}
	for j, i := range keep {
		out.dates[j] = f.dates[i]
	}
	for _, name := range f.order {
		src := f.columns[name]
		dst := make(indicators.Series, len(keep))
		for j, i := range keep {
			dst[j] = src[i]
		}
		out.columns[name] = dst
	}
	return out
}
