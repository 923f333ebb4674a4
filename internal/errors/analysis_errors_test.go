package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoDataError_MatchesSentinel(t *testing.T) {
	err := NewNoDataError("csv", "load", "no rows for AAPL")

	assert.True(t, stderrors.Is(err, ErrNoData))
	assert.True(t, IsNoData(fmt.Errorf("loading: %w", err)))
	assert.Equal(t, ErrorCategoryNoData, CategoryOf(err))
	assert.Equal(t, RecoveryActionReport, err.GetRecoveryAction())
	assert.False(t, err.IsRetryable())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryNetwork, "bybit", "klines"))

	base := stderrors.New("dial tcp: refused")
	err := WrapError(base, ErrorCategoryNetwork, "bybit", "klines")

	assert.True(t, stderrors.Is(err, base))
	assert.True(t, err.IsRetryable())
	assert.False(t, err.IsFatal())
	assert.Equal(t, RecoveryActionRetry, err.GetRecoveryAction())
	assert.Contains(t, err.Error(), "[NETWORK:bybit] klines")
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err      error
		expected ErrorCategory
	}{
		{context.DeadlineExceeded, ErrorCategoryTimeout},
		{stderrors.New("connection reset by peer"), ErrorCategoryNetwork},
		{stderrors.New("HTTP 429 too many requests"), ErrorCategoryRateLimit},
		{stderrors.New("invalid ticker"), ErrorCategoryValidation},
		{fmt.Errorf("csv: %w", ErrNoData), ErrorCategoryNoData},
		{stderrors.New("something odd"), ErrorCategoryTemporary},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeError(tt.err, "test", "op").Category)
		})
	}
}

func TestCategorizeError_KeepsAnalysisError(t *testing.T) {
	original := NewConfigurationError("config", "validate", "rsi_window out of range")
	wrapped := fmt.Errorf("startup: %w", original)

	got := CategorizeError(wrapped, "other", "op")
	require.NotNil(t, got)
	assert.Same(t, original, got)
	assert.True(t, got.IsFatal())
	assert.Equal(t, RecoveryActionStop, got.GetRecoveryAction())
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("frame", "append", "length mismatch").
		WithContext("column", "RSI").
		WithRetryable(true)

	assert.Equal(t, "RSI", err.Context["column"])
	assert.True(t, err.IsRetryable())
	assert.Equal(t, ErrorCategory(""), CategoryOf(stderrors.New("plain")))
}
