package analysis

import (
	"time"

	"github.com/ducminhle1904/ta-engine/internal/frame"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
)

// Result is the outcome of one engine run.
type Result struct {
	// Raw holds the input bars only
	Raw *frame.Frame
	// Full holds the bars and every indicator column before cleanup
	Full *frame.Frame
	// Table holds the rows where every column is defined
	Table *frame.Frame

	Params   indicators.Params
	Dropped  int
	Duration time.Duration
}

// Empty reports whether no row survived cleanup.
func (r *Result) Empty() bool {
	return r == nil || r.Table.Empty()
}

// Latest returns the most recent complete row.
func (r *Result) Latest() (frame.Row, bool) {
	if r.Empty() {
		return frame.Row{}, false
	}
	return r.Table.Row(r.Table.Len() - 1), true
}
