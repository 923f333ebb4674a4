package indicators

import (
	"fmt"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// Output column names.
const (
	ColumnRSI        = "RSI"
	ColumnMACD       = "MACD"
	ColumnMACDSignal = "MACD_Signal"
	ColumnROC        = "ROC"
	ColumnADX        = "ADX"
)

// TechnicalIndicator computes one or more series aligned with the input bars.
// Implementations hold only their window parameters, so Compute is a pure function.
type TechnicalIndicator interface {
	// GetName returns the indicator name
	GetName() string

	// GetColumns returns the names of the produced series, in the order Compute returns them
	GetColumns() []string

	// GetRequiredPeriods returns the number of bars needed for the first defined value
	GetRequiredPeriods() int

	// Compute derives the indicator series from bars
	Compute(data []types.OHLCV) ([]Series, error)
}

func validateWindow(indicator, name string, value, min int) error {
	if value < min {
		return apperrors.NewValidationError(indicator, "compute",
			fmt.Sprintf("%s must be >= %d, got %d", name, min, value))
	}
	return nil
}
