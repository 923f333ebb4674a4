package indicators

import (
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// MACD represents the Moving Average Convergence Divergence indicator
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD instance with specified fast, slow, and signal periods.
// fast < slow is conventional but not enforced.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// GetName returns the indicator name
func (m *MACD) GetName() string {
	return "MACD"
}

// GetColumns returns the produced series names
func (m *MACD) GetColumns() []string {
	return []string{ColumnMACD, ColumnMACDSignal}
}

// GetRequiredPeriods returns 1; the EMA recursion is defined from the first bar
func (m *MACD) GetRequiredPeriods() int {
	return 1
}

// Compute derives the MACD line and its signal line from close prices
func (m *MACD) Compute(data []types.OHLCV) ([]Series, error) {
	if err := validateWindow("macd", "fast", m.fastPeriod, 1); err != nil {
		return nil, err
	}
	if err := validateWindow("macd", "slow", m.slowPeriod, 1); err != nil {
		return nil, err
	}
	if err := validateWindow("macd", "signal", m.signalPeriod, 1); err != nil {
		return nil, err
	}

	macdLine, signalLine := CalculateMACD(types.Closes(data), m.fastPeriod, m.slowPeriod, m.signalPeriod)
	return []Series{macdLine, signalLine}, nil
}

// CalculateMACD returns the MACD line (EMA fast - EMA slow) and its EMA signal line.
// Both are defined at every index.
func CalculateMACD(close []float64, fast, slow, signal int) (macdLine, signalLine Series) {
	prices := FromFloats(close)
	fastEMA := CalculateEMA(prices, fast)
	slowEMA := CalculateEMA(prices, slow)

	macdLine = make(Series, len(close))
	for i := range close {
		if fastEMA[i].Defined && slowEMA[i].Defined {
			macdLine[i] = Defined(fastEMA[i].V - slowEMA[i].V)
		}
	}

	signalLine = CalculateEMA(macdLine, signal)
	return macdLine, signalLine
}
