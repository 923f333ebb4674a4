package indicators

import (
	"math"

	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// ADX represents the Average Directional Index technical indicator.
// ADX measures trend strength regardless of direction (0-100 scale).
// Values > 20 indicate trending market, > 40 indicate strong trend.
//
// This variant smooths TR, DX and the directional movement with plain trailing windows
// (SMA / rolling sum), not Wilder's recursive smoothing.
type ADX struct {
	window int
}

// NewADX creates a new ADX indicator
func NewADX(window int) *ADX {
	return &ADX{window: window}
}

// GetName returns the indicator name
func (adx *ADX) GetName() string {
	return "ADX"
}

// GetColumns returns the produced series names
func (adx *ADX) GetColumns() []string {
	return []string{ColumnADX}
}

// GetRequiredPeriods returns 2*window: window bars until ATR and DI are defined,
// then window-1 more DX values for the final average
func (adx *ADX) GetRequiredPeriods() int {
	return adx.window * 2
}

// Compute derives the ADX series from high, low and close
func (adx *ADX) Compute(data []types.OHLCV) ([]Series, error) {
	if err := validateWindow("adx", "window", adx.window, 1); err != nil {
		return nil, err
	}
	return []Series{CalculateADX(types.Highs(data), types.Lows(data), types.Closes(data), adx.window)}, nil
}

// TrueRange returns max(H-L, |H-C_prev|, |L-C_prev|), undefined at index 0.
func TrueRange(high, low, close []float64) Series {
	out := make(Series, len(close))
	if len(high) != len(close) || len(low) != len(close) {
		return out
	}
	for i := 1; i < len(close); i++ {
		prevClose := close[i-1]
		tr := math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-prevClose), math.Abs(low[i]-prevClose)))
		out[i] = Defined(tr)
	}
	return out
}

// DirectionalMovement returns +DM and -DM, undefined at index 0.
// Comparisons are strict: when the up and down moves tie, both are 0.
func DirectionalMovement(high, low []float64) (plusDM, minusDM Series) {
	plusDM = make(Series, len(high))
	minusDM = make(Series, len(high))
	if len(low) != len(high) {
		return plusDM, minusDM
	}
	for i := 1; i < len(high); i++ {
		upMove := high[i] - high[i-1]
		downMove := low[i-1] - low[i]

		plus, minus := 0.0, 0.0
		if upMove > downMove && upMove > 0 {
			plus = upMove
		}
		if downMove > upMove && downMove > 0 {
			minus = downMove
		}
		plusDM[i] = Defined(plus)
		minusDM[i] = Defined(minus)
	}
	return plusDM, minusDM
}

// CalculateDirectionalIndicators returns +DI and -DI: 100 * rolling sum of DM / ATR.
// A zero ATR leaves the position undefined.
func CalculateDirectionalIndicators(high, low, close []float64, window int) (plusDI, minusDI Series) {
	plusDI = make(Series, len(close))
	minusDI = make(Series, len(close))
	if window < 1 {
		return plusDI, minusDI
	}

	atr := rollingMean(TrueRange(high, low, close), window)
	plusDM, minusDM := DirectionalMovement(high, low)
	plusSum := rollingSum(plusDM, window)
	minusSum := rollingSum(minusDM, window)

	for i := range close {
		if i >= len(plusSum) || !atr[i].Defined || atr[i].V == 0 {
			continue
		}
		if plusSum[i].Defined {
			plusDI[i] = Defined(100 * plusSum[i].V / atr[i].V)
		}
		if minusSum[i].Defined {
			minusDI[i] = Defined(100 * minusSum[i].V / atr[i].V)
		}
	}
	return plusDI, minusDI
}

// CalculateDX returns 100 * |+DI - -DI| / (+DI + -DI); a zero sum is undefined.
func CalculateDX(plusDI, minusDI Series) Series {
	out := make(Series, len(plusDI))
	for i := range plusDI {
		if i >= len(minusDI) || !plusDI[i].Defined || !minusDI[i].Defined {
			continue
		}
		sum := plusDI[i].V + minusDI[i].V
		if sum == 0 {
			continue
		}
		out[i] = Defined(100 * math.Abs(plusDI[i].V-minusDI[i].V) / sum)
	}
	return out
}

// CalculateADX returns the trailing average of DX over window bars.
// The first 2*window-1 positions are undefined.
func CalculateADX(high, low, close []float64, window int) Series {
	if window < 1 {
		return make(Series, len(close))
	}
	plusDI, minusDI := CalculateDirectionalIndicators(high, low, close, window)
	return rollingMean(CalculateDX(plusDI, minusDI), window)
}
