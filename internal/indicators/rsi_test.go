package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRSI_HandComputedScenario(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 10, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}

	rsi := CalculateRSI(closes, 14)
	require.Len(t, rsi, 15)

	for i := 0; i < 14; i++ {
		assert.False(t, rsi[i].Defined, "index %d should be undefined", i)
	}

	// 11 gains of 1 and 3 losses of 1: RS = 11/3, RSI = 100 * 11/14
	require.True(t, rsi[14].Defined)
	assert.InDelta(t, 1100.0/14.0, rsi[14].V, 1e-9)
}

func TestCalculateRSI_LeadingRunEqualsWindow(t *testing.T) {
	closes := generateTestBarsCloses(100)
	for _, window := range []int{2, 5, 14, 30} {
		rsi := CalculateRSI(closes, window)
		assert.Equal(t, window, rsi.LeadingUndefined(), "window %d", window)
	}
}

func TestCalculateRSI_WindowIncreaseShiftsWarmUp(t *testing.T) {
	closes := generateTestBarsCloses(120)
	base := CalculateRSI(closes, 10).LeadingUndefined()
	for _, delta := range []int{1, 4, 11} {
		got := CalculateRSI(closes, 10+delta).LeadingUndefined()
		assert.Equal(t, base+delta, got)
	}
}

func TestCalculateRSI_Bounded(t *testing.T) {
	for _, closes := range [][]float64{
		generateTestBarsCloses(200),
		{5, 1, 9, 2, 8, 3, 7, 4, 6, 5, 100, 1, 50, 2, 75, 3},
	} {
		for _, v := range CalculateRSI(closes, 3) {
			if !v.Defined {
				continue
			}
			assert.GreaterOrEqual(t, v.V, 0.0)
			assert.LessOrEqual(t, v.V, 100.0)
		}
	}
}

func TestCalculateRSI_ConstantSeriesIsHundred(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42
	}

	rsi := CalculateRSI(closes, 14)
	for i := 14; i < len(rsi); i++ {
		require.True(t, rsi[i].Defined)
		assert.Equal(t, 100.0, rsi[i].V)
	}
}

func TestCalculateRSI_RisingSeriesIsHundred(t *testing.T) {
	rsi := CalculateRSI([]float64{1, 2, 3, 4, 5, 6}, 3)
	assert.Equal(t, Defined(100), rsi[5])
}

func TestCalculateRSI_FallingSeriesIsZero(t *testing.T) {
	rsi := CalculateRSI([]float64{6, 5, 4, 3, 2, 1}, 3)
	require.True(t, rsi[5].Defined)
	assert.Equal(t, 0.0, rsi[5].V)
}

func TestCalculateRSI_ShortInputAllUndefined(t *testing.T) {
	rsi := CalculateRSI([]float64{1, 2, 3, 4, 5}, 14)
	assert.Len(t, rsi, 5)
	assert.Equal(t, 0, rsi.DefinedCount())
}

func TestCalculateRSI_Deterministic(t *testing.T) {
	closes := generateTestBarsCloses(300)
	assert.Equal(t, CalculateRSI(closes, 14), CalculateRSI(closes, 14))
}

func TestRSI_Compute(t *testing.T) {
	rsi := NewRSI(14)
	series, err := rsi.Compute(generateTestBars(50))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Len(t, series[0], 50)
}

func TestRSI_RejectsWindowBelowTwo(t *testing.T) {
	_, err := NewRSI(1).Compute(generateTestBars(10))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "window must be >= 2")
}

func TestRSI_GetName(t *testing.T) {
	assert.Equal(t, "RSI", NewRSI(14).GetName())
	assert.Equal(t, []string{ColumnRSI}, NewRSI(14).GetColumns())
}

func TestRSI_GetRequiredPeriods(t *testing.T) {
	assert.Equal(t, 15, NewRSI(14).GetRequiredPeriods()) // period + 1
}

func TestRSI_InterfaceCompliance(t *testing.T) {
	var _ TechnicalIndicator = NewRSI(14)
}

func BenchmarkCalculateRSI(b *testing.B) {
	closes := generateTestBarsCloses(5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CalculateRSI(closes, 14)
	}
}
