package indicators

import (
	"math"
	"time"

	"github.com/ducminhle1904/ta-engine/pkg/types"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// generateTestBars builds a wavy daily series with realistic high/low spreads.
func generateTestBars(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		price := 100.0 + 10*math.Sin(float64(i)/5) + float64(i)*0.2
		data[i] = types.OHLCV{
			Date:   testStart.AddDate(0, 0, i),
			Open:   price - 0.5,
			High:   price + 1.5 + math.Abs(math.Cos(float64(i))),
			Low:    price - 1.5 - math.Abs(math.Sin(float64(i))),
			Close:  price,
			Volume: int64(1000 + i),
		}
	}
	return data
}

func generateRisingBars(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		price := 100.0 + float64(i)
		data[i] = types.OHLCV{
			Date:   testStart.AddDate(0, 0, i),
			Open:   price - 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return data
}

func generateFallingBars(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		price := 200.0 - float64(i)
		data[i] = types.OHLCV{
			Date:   testStart.AddDate(0, 0, i),
			Open:   price + 0.5,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return data
}

func generateFlatBars(n int) []types.OHLCV {
	data := make([]types.OHLCV, n)
	for i := 0; i < n; i++ {
		data[i] = types.OHLCV{
			Date:   testStart.AddDate(0, 0, i),
			Open:   50,
			High:   50,
			Low:    50,
			Close:  50,
			Volume: 0,
		}
	}
	return data
}

func barsFromHLC(high, low, close []float64) []types.OHLCV {
	data := make([]types.OHLCV, len(close))
	for i := range close {
		data[i] = types.OHLCV{
			Date:   testStart.AddDate(0, 0, i),
			Open:   close[i],
			High:   high[i],
			Low:    low[i],
			Close:  close[i],
			Volume: 100,
		}
	}
	return data
}

func generateTestBarsClosesFrom(bars []types.OHLCV) []float64 {
	return types.Closes(bars)
}

func highs(bars []types.OHLCV) []float64  { return types.Highs(bars) }
func lows(bars []types.OHLCV) []float64   { return types.Lows(bars) }
func closes(bars []types.OHLCV) []float64 { return types.Closes(bars) }
