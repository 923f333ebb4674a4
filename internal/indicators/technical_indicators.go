package indicators

import (
	"fmt"
)

// IndicatorType represents the type of technical indicator
type IndicatorType string

const (
	IndicatorTypeRSI  IndicatorType = "RSI"
	IndicatorTypeMACD IndicatorType = "MACD"
	IndicatorTypeROC  IndicatorType = "ROC"
	IndicatorTypeADX  IndicatorType = "ADX"
)

// Params holds the window parameters of every indicator
type Params struct {
	RSIWindow  int `json:"rsi_window"`
	MACDFast   int `json:"macd_fast"`
	MACDSlow   int `json:"macd_slow"`
	MACDSignal int `json:"macd_signal"`
	ROCWindow  int `json:"roc_window"`
	ADXWindow  int `json:"adx_window"`
}

// DefaultParams returns the conventional windows: RSI 14, MACD 12/26/9, ROC 12, ADX 14.
func DefaultParams() Params {
	return Params{
		RSIWindow:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		ROCWindow:  12,
		ADXWindow:  14,
	}
}

// IndicatorFactory creates technical indicators based on type and parameters
type IndicatorFactory struct{}

// NewIndicatorFactory creates a new indicator factory
func NewIndicatorFactory() *IndicatorFactory {
	return &IndicatorFactory{}
}

// CreateIndicator creates a technical indicator of the specified type
func (f *IndicatorFactory) CreateIndicator(indicatorType IndicatorType, params Params) (TechnicalIndicator, error) {
	switch indicatorType {
	case IndicatorTypeRSI:
		return NewRSI(params.RSIWindow), nil
	case IndicatorTypeMACD:
		return NewMACD(params.MACDFast, params.MACDSlow, params.MACDSignal), nil
	case IndicatorTypeROC:
		return NewROC(params.ROCWindow), nil
	case IndicatorTypeADX:
		return NewADX(params.ADXWindow), nil
	default:
		return nil, fmt.Errorf("unsupported indicator type: %s", indicatorType)
	}
}

// CreateAll builds the standard indicator set in output column order:
// RSI, MACD, MACD_Signal, ROC, ADX.
func (f *IndicatorFactory) CreateAll(params Params) []TechnicalIndicator {
	return []TechnicalIndicator{
		NewRSI(params.RSIWindow),
		NewMACD(params.MACDFast, params.MACDSlow, params.MACDSignal),
		NewROC(params.ROCWindow),
		NewADX(params.ADXWindow),
	}
}

// GetSupportedTypes returns all supported indicator types
func (f *IndicatorFactory) GetSupportedTypes() []IndicatorType {
	return []IndicatorType{
		IndicatorTypeRSI,
		IndicatorTypeMACD,
		IndicatorTypeROC,
		IndicatorTypeADX,
	}
}

// OutputColumns returns the derived column names in table order
func OutputColumns() []string {
	return []string{ColumnRSI, ColumnMACD, ColumnMACDSignal, ColumnROC, ColumnADX}
}
