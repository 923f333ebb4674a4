package bybit

import (
	"context"
	"errors"
	"testing"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKlineList(t *testing.T) {
	raw := []byte(`{
		"symbol": "BTCUSDT",
		"category": "spot",
		"list": [
			["1704153600000", "42280.1", "45879.6", "42100", "44950.3", "1523.5", "68000000"],
			["1704067200000", "42000", "42900", "41500", "42280.1", "1200.25", "50000000"],
			["1703980800000", "bad"]
		]
	}`)

	klines, err := parseKlineList(raw)
	require.NoError(t, err)
	require.Len(t, klines, 2, "incomplete rows are skipped")

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), klines[0].StartTime)
	assert.Equal(t, 44950.3, klines[0].ClosePrice)
	assert.Equal(t, 1200.25, klines[1].Volume)
}

func TestDecodeKline_RejectsNonNumeric(t *testing.T) {
	_, err := decodeKline([]string{"1704067200000", "1", "x", "0.5", "1.5", "10", "15"})
	assert.Error(t, err)

	_, err = decodeKline([]string{"", "1", "2", "0.5", "1.5", "10", "15"})
	assert.Error(t, err)

	k, err := decodeKline([]string{"1704067200000", "1", "2", "0.5", "1.5", "10", "15"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, k.ClosePrice)
}

func TestParseKlineResponse(t *testing.T) {
	_, err := parseKlineResponse("not a response")
	assert.Error(t, err)

	_, err = parseKlineResponse(&bybit_api.ServerResponse{RetCode: ErrCodeRateLimitExceeded, RetMsg: "too many visits"})
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
	assert.True(t, IsRetryableError(err))

	klines, err := parseKlineResponse(&bybit_api.ServerResponse{
		Result: map[string]interface{}{
			"list": [][]string{{"1704067200000", "1", "2", "0.5", "1.5", "10", "15"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, klines, 1)
	assert.Equal(t, 2.0, klines[0].HighPrice)
}

func TestRetryWithConfig(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	fast := RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}

	calls := 0
	err := c.RetryWithConfig(context.Background(), func() error {
		calls++
		if calls < 3 {
			return NewBybitError(ErrCodeRateLimitExceeded, "rate limited")
		}
		return nil
	}, fast)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = c.RetryWithConfig(context.Background(), func() error {
		calls++
		return NewBybitError(ErrCodeSymbolNotFound, "symbol invalid")
	}, fast)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-retryable errors are returned immediately")
	assert.True(t, IsInvalidSymbolError(err))
}

func TestRetryWithConfig_Cancelled(t *testing.T) {
	c := NewClient(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.RetryWithConfig(ctx, func() error { return nil }, DefaultRetryConfig())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCalculateDelay(t *testing.T) {
	config := RetryConfig{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, calculateDelay(0, config))
	assert.Equal(t, 4*time.Second, calculateDelay(2, config))
	assert.Equal(t, 5*time.Second, calculateDelay(5, config))
}

func TestWrapAPIError(t *testing.T) {
	assert.Nil(t, WrapAPIError("op", nil))

	err := WrapAPIError("get klines BTCUSDT", NewBybitError(ErrCodeInvalidParameter, "params error"))
	assert.Contains(t, err.Error(), "params error (get klines BTCUSDT)")
	assert.True(t, IsInvalidSymbolError(err))
	assert.False(t, IsRetryableError(err))
	assert.True(t, IsRetryableError(NewBybitError(503, "busy")))
	assert.False(t, IsRetryableError(NewBybitError(501, "not implemented")))

	plain := errors.New("dial tcp")
	assert.ErrorIs(t, WrapAPIError("op", plain), plain)
}

func TestNewClient_Environment(t *testing.T) {
	assert.Equal(t, "mainnet", NewClient(Config{}).GetEnvironment())
	testnet := NewClient(Config{Testnet: true})
	assert.Equal(t, "testnet", testnet.GetEnvironment())
	assert.Equal(t, bybit_api.TESTNET, testnet.BaseURL())
}
