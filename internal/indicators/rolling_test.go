package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollingWindow_NotReadyUntilFull(t *testing.T) {
	w := NewRollingWindow(3)

	w.Push(Defined(1))
	w.Push(Defined(2))
	assert.False(t, w.Ready())
	assert.False(t, w.Sum().Defined)

	w.Push(Defined(3))
	assert.True(t, w.Ready())
	assert.Equal(t, Defined(6), w.Sum())
	assert.Equal(t, Defined(2), w.Mean())
}

func TestRollingWindow_Slides(t *testing.T) {
	w := NewRollingWindow(2)
	for _, v := range []float64{1, 2, 3, 4} {
		w.Push(Defined(v))
	}
	assert.Equal(t, Defined(7), w.Sum())
	assert.Equal(t, Defined(3.5), w.Mean())
}

func TestRollingWindow_UndefinedBlocksWindow(t *testing.T) {
	w := NewRollingWindow(2)
	w.Push(Undefined)
	w.Push(Defined(1))
	assert.False(t, w.Ready(), "undefined value still inside window")

	w.Push(Defined(2))
	assert.True(t, w.Ready())
	assert.Equal(t, Defined(3), w.Sum())

	w.Push(Undefined)
	assert.False(t, w.Sum().Defined)
}

func TestRollingWindow_ZeroWindowIsExactlyZero(t *testing.T) {
	w := NewRollingWindow(3)
	for _, v := range []float64{0.1, 0.2, 0.3, 0, 0, 0} {
		w.Push(Defined(v))
	}
	sum := w.Sum()
	assert.True(t, sum.Defined)
	assert.Equal(t, 0.0, sum.V)
}

func TestRollingWindow_Reset(t *testing.T) {
	w := NewRollingWindow(2)
	w.Push(Defined(5))
	w.Push(Defined(5))
	w.Reset()

	assert.False(t, w.Ready())
	w.Push(Defined(1))
	w.Push(Defined(1))
	assert.Equal(t, Defined(2), w.Sum())
}

func TestRollingMean_MatchesNaiveAverage(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	window := 4
	got := rollingMean(FromFloats(values), window)

	for i := range values {
		if i < window-1 {
			assert.False(t, got[i].Defined, "index %d", i)
			continue
		}
		sum := 0.0
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		assert.True(t, got[i].Defined)
		assert.InDelta(t, sum/float64(window), got[i].V, 1e-12, "index %d", i)
	}
}

func BenchmarkRollingMean(b *testing.B) {
	values := FromFloats(generateTestBarsCloses(10000))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rollingMean(values, 14)
	}
}

func generateTestBarsCloses(n int) []float64 {
	bars := generateTestBars(n)
	out := make([]float64, n)
	for i, bar := range bars {
		out[i] = bar.Close
	}
	return out
}
