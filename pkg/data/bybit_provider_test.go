package data

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/exchange/bybit"
)

// fakeKlines serves daily klines newest first, honouring Start, End and Limit
type fakeKlines struct {
	klines []bybit.Kline
	err    error
	calls  []bybit.KlineParams
}

func newFakeKlines(start string, n int) *fakeKlines {
	f := &fakeKlines{}
	for i := 0; i < n; i++ {
		p := 20000 + float64(i)
		f.klines = append(f.klines, bybit.Kline{
			StartTime:  day(start).AddDate(0, 0, i),
			OpenPrice:  p,
			HighPrice:  p + 50,
			LowPrice:   p - 50,
			ClosePrice: p + 10,
			Volume:     12.4,
		})
	}
	return f
}

func (f *fakeKlines) GetKlines(_ context.Context, params bybit.KlineParams) ([]bybit.Kline, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}

	var page []bybit.Kline
	for _, k := range f.klines {
		if params.Start != nil && k.StartTime.Before(*params.Start) {
			continue
		}
		if params.End != nil && k.StartTime.After(*params.End) {
			continue
		}
		page = append(page, k)
	}
	sort.Slice(page, func(i, j int) bool { return page[i].StartTime.After(page[j].StartTime) })
	if len(page) > params.Limit {
		page = page[:params.Limit]
	}
	return page, nil
}

func TestBybitProvider_Paginates(t *testing.T) {
	fetcher := newFakeKlines("2020-01-01", 1500)
	provider := NewBybitProvider(fetcher, "")

	bars, err := provider.LoadBars(context.Background(), Request{Ticker: "btcusdt"})
	require.NoError(t, err)
	require.Len(t, bars, 1500)
	assert.Len(t, fetcher.calls, 2)

	assert.Equal(t, "spot", fetcher.calls[0].Category)
	assert.Equal(t, "BTCUSDT", fetcher.calls[0].Symbol)
	assert.Equal(t, bybit.Interval1d, fetcher.calls[0].Interval)

	assert.Equal(t, day("2020-01-01"), bars[0].Date)
	assert.Equal(t, int64(12), bars[0].Volume)
	assert.NoError(t, provider.ValidateData(bars))
}

func TestBybitProvider_DateRange(t *testing.T) {
	fetcher := newFakeKlines("2024-01-01", 30)
	bars, err := NewBybitProvider(fetcher, "linear").LoadBars(context.Background(), Request{
		Ticker: "ETHUSDT",
		Start:  day("2024-01-05"),
		End:    day("2024-01-10"),
	})
	require.NoError(t, err)
	require.Len(t, bars, 5)
	assert.Equal(t, day("2024-01-09"), bars[4].Date)
	assert.Equal(t, "linear", fetcher.calls[0].Category)
	assert.True(t, fetcher.calls[0].End.Before(day("2024-01-10")))
}

func TestBybitProvider_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category apperrors.ErrorCategory
	}{
		{"invalid symbol", bybit.NewBybitError(bybit.ErrCodeSymbolNotFound, "symbol invalid"), apperrors.ErrorCategoryNoData},
		{"rate limit", bybit.NewBybitError(bybit.ErrCodeRateLimitExceeded, "too many visits"), apperrors.ErrorCategoryRateLimit},
		{"other", bybit.NewBybitError(500, "internal"), apperrors.ErrorCategoryProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeKlines{err: tt.err}
			_, err := NewBybitProvider(fetcher, "spot").LoadBars(context.Background(), Request{Ticker: "NOPE"})
			require.Error(t, err)
			assert.Equal(t, tt.category, apperrors.CategoryOf(err))
		})
	}
}

func TestBybitProvider_EmptyRange(t *testing.T) {
	fetcher := newFakeKlines("2024-01-01", 10)
	_, err := NewBybitProvider(fetcher, "spot").LoadBars(context.Background(), Request{
		Ticker: "BTCUSDT", Start: day("2030-01-01"),
	})
	assert.True(t, apperrors.IsNoData(err))
}

func TestBybitProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBybitProvider(newFakeKlines("2024-01-01", 10), "spot").LoadBars(ctx, Request{Ticker: "BTCUSDT"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorCategoryTimeout, apperrors.CategoryOf(err))
}
