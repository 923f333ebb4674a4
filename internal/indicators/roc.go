package indicators

import (
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// ROC is the percentage Rate of Change over a fixed lookback
type ROC struct {
	window int
}

// NewROC creates a new ROC instance
func NewROC(window int) *ROC {
	return &ROC{window: window}
}

func (r *ROC) GetName() string { return "ROC" }

func (r *ROC) GetColumns() []string { return []string{ColumnROC} }

// GetRequiredPeriods returns window+1, the current bar plus the reference bar
func (r *ROC) GetRequiredPeriods() int { return r.window + 1 }

// Compute derives the ROC series from close prices
func (r *ROC) Compute(data []types.OHLCV) ([]Series, error) {
	if err := validateWindow("roc", "window", r.window, 1); err != nil {
		return nil, err
	}
	return []Series{CalculateROC(types.Closes(data), r.window)}, nil
}

// CalculateROC returns (close_t - close_{t-window}) / close_{t-window} * 100.
// The first window positions and any position with a zero reference price are undefined.
func CalculateROC(close []float64, window int) Series {
	out := make(Series, len(close))
	if window < 1 {
		return out
	}
	for i := window; i < len(close); i++ {
		ref := close[i-window]
		if ref == 0 {
			continue
		}
		out[i] = Defined((close[i] - ref) / ref * 100)
	}
	return out
}
