package data

import (
	"context"
	"fmt"
	"math"
	"time"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/exchange/bybit"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// KlineFetcher returns one page of klines, newest first
type KlineFetcher interface {
	GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error)
}

// BybitProvider loads daily klines for crypto pairs such as BTCUSDT
type BybitProvider struct {
	fetcher  KlineFetcher
	category string
	filter   *DefaultDataFilter
}

// NewBybitProvider creates a provider on top of a Bybit market data client
func NewBybitProvider(fetcher KlineFetcher, category string) *BybitProvider {
	if category == "" {
		category = "spot"
	}
	return &BybitProvider{
		fetcher:  fetcher,
		category: category,
		filter:   NewDefaultDataFilter(),
	}
}

// GetName returns the name of the data provider
func (p *BybitProvider) GetName() string {
	return "bybit"
}

// LoadBars pages backwards from End in chunks of 1000 daily klines until Start is reached
func (p *BybitProvider) LoadBars(ctx context.Context, req Request) ([]types.OHLCV, error) {
	req = req.Normalize()

	var klines []bybit.Kline
	var start *time.Time
	if !req.Start.IsZero() {
		s := req.Start
		start = &s
	}
	var end *time.Time
	if !req.End.IsZero() {
		e := req.End.Add(-time.Millisecond)
		end = &e
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewTimeoutError("bybit", "load_bars", err)
		}

		page, err := p.fetcher.GetKlines(ctx, bybit.KlineParams{
			Category: p.category,
			Symbol:   req.Ticker,
			Interval: bybit.Interval1d,
			Start:    start,
			End:      end,
			Limit:    bybit.MaxKlineLimit,
		})
		if err != nil {
			if bybit.IsInvalidSymbolError(err) {
				return nil, apperrors.NewNoDataError("bybit", "load_bars",
					fmt.Sprintf("unknown symbol %s: %v", req.Ticker, err))
			}
			if bybit.IsRateLimitError(err) {
				return nil, apperrors.WrapError(err, apperrors.ErrorCategoryRateLimit, "bybit", "load_bars")
			}
			return nil, apperrors.NewProviderError("bybit", "load_bars", err)
		}
		klines = append(klines, page...)

		if len(page) < bybit.MaxKlineLimit {
			break
		}
		oldest := page[0].StartTime
		for _, k := range page {
			if k.StartTime.Before(oldest) {
				oldest = k.StartTime
			}
		}
		if start != nil && !oldest.After(*start) {
			break
		}
		next := oldest.Add(-time.Millisecond)
		end = &next
	}

	bars := make([]types.OHLCV, 0, len(klines))
	for _, k := range klines {
		t := k.StartTime.UTC()
		bars = append(bars, types.OHLCV{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   k.OpenPrice,
			High:   k.HighPrice,
			Low:    k.LowPrice,
			Close:  k.ClosePrice,
			Volume: int64(math.Round(k.Volume)),
		})
	}

	bars = p.filter.RemoveDuplicates(p.filter.SortByDate(bars))
	bars = p.filter.FilterByDateRange(bars, req.Range())
	if len(bars) == 0 {
		return nil, apperrors.NewNoDataError("bybit", "load_bars",
			fmt.Sprintf("no klines for %s in %s", req.Ticker, req.Range())).
			WithContext("ticker", req.Ticker)
	}
	return bars, nil
}

// ValidateData validates the integrity of loaded data
func (p *BybitProvider) ValidateData(data []types.OHLCV) error {
	return validateBars(data)
}
