package indicators

import (
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// RSI calculates the Relative Strength Index over simple moving averages of gains and losses
type RSI struct {
	window int
}

// NewRSI creates a new RSI instance with the given window
func NewRSI(window int) *RSI {
	return &RSI{window: window}
}

// GetName returns the indicator name
func (r *RSI) GetName() string {
	return "RSI"
}

// GetColumns returns the produced series names
func (r *RSI) GetColumns() []string {
	return []string{ColumnRSI}
}

// GetRequiredPeriods returns window+1: one bar for the first difference plus window differences
func (r *RSI) GetRequiredPeriods() int {
	return r.window + 1
}

// Compute derives the RSI series from close prices
func (r *RSI) Compute(data []types.OHLCV) ([]Series, error) {
	if err := validateWindow("rsi", "window", r.window, 2); err != nil {
		return nil, err
	}
	return []Series{CalculateRSI(types.Closes(data), r.window)}, nil
}

// CalculateRSI returns RSI aligned with close. The first window positions are undefined.
// A zero average loss yields exactly 100.
func CalculateRSI(close []float64, window int) Series {
	out := make(Series, len(close))
	if window < 1 {
		return out
	}

	deltas := diff(close, 1)
	gains := NewRollingWindow(window)
	losses := NewRollingWindow(window)

	for i, d := range deltas {
		if d.Defined {
			gains.Push(Defined(max(d.V, 0)))
			losses.Push(Defined(max(-d.V, 0)))
		} else {
			gains.Push(Undefined)
			losses.Push(Undefined)
		}

		avgGain := gains.Mean()
		avgLoss := losses.Mean()
		if !avgGain.Defined || !avgLoss.Defined {
			continue
		}
		out[i] = Defined(rsiFromAverages(avgGain.V, avgLoss.V))
	}

	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
