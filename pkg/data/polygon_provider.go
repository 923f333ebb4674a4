package data

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

const (
	polygonDefaultBaseURL = "https://api.polygon.io"
	polygonMaxLimit       = 50000
	polygonMaxPages       = 20
)

// PolygonConfig configures the Polygon.io aggregates client.
type PolygonConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
}

// polygonAggregatesResponse is the body of /v2/aggs/ticker/{ticker}/range/...
type polygonAggregatesResponse struct {
	Ticker       string             `json:"ticker"`
	QueryCount   int                `json:"queryCount"`
	ResultsCount int                `json:"resultsCount"`
	Adjusted     bool               `json:"adjusted"`
	Results      []polygonAggregate `json:"results"`
	Status       string             `json:"status"`
	RequestID    string             `json:"request_id"`
	NextURL      string             `json:"next_url,omitempty"`
	Error        string             `json:"error,omitempty"`
}

type polygonAggregate struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// PolygonProvider loads adjusted daily aggregates from Polygon.io
type PolygonProvider struct {
	client *resty.Client
	apiKey string
	filter *DefaultDataFilter
}

// NewPolygonProvider creates a provider; 429 responses are retried with backoff
func NewPolygonProvider(cfg PolygonConfig) *PolygonProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = polygonDefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return r != nil && r.StatusCode() == http.StatusTooManyRequests
		})

	return &PolygonProvider{
		client: client,
		apiKey: cfg.APIKey,
		filter: NewDefaultDataFilter(),
	}
}

// GetName returns the name of the data provider
func (p *PolygonProvider) GetName() string {
	return "polygon"
}

// LoadBars fetches daily aggregates for [Start, End), following next_url pages
func (p *PolygonProvider) LoadBars(ctx context.Context, req Request) ([]types.OHLCV, error) {
	req = req.Normalize()
	from, to := polygonRange(req)
	if to.Before(from) {
		return nil, apperrors.NewNoDataError("polygon", "load_bars",
			fmt.Sprintf("empty range %s", req.Range()))
	}

	page, err := p.fetch(ctx, p.client.R().
		SetPathParams(map[string]string{
			"ticker": req.Ticker,
			"from":   from.Format("2006-01-02"),
			"to":     to.Format("2006-01-02"),
		}).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"limit":    fmt.Sprint(polygonMaxLimit),
		}), "/v2/aggs/ticker/{ticker}/range/1/day/{from}/{to}")
	if err != nil {
		return nil, err
	}

	aggregates := page.Results
	for pages := 1; page.NextURL != "" && pages < polygonMaxPages; pages++ {
		if page, err = p.fetch(ctx, p.client.R(), page.NextURL); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, page.Results...)
	}

	bars := make([]types.OHLCV, 0, len(aggregates))
	for _, a := range aggregates {
		ts := time.UnixMilli(a.Timestamp).UTC()
		bars = append(bars, types.OHLCV{
			Date:   time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:   a.Open,
			High:   a.High,
			Low:    a.Low,
			Close:  a.Close,
			Volume: int64(math.Round(a.Volume)),
		})
	}

	bars = p.filter.RemoveDuplicates(p.filter.SortByDate(bars))
	bars = p.filter.FilterByDateRange(bars, req.Range())
	if len(bars) == 0 {
		return nil, apperrors.NewNoDataError("polygon", "load_bars",
			fmt.Sprintf("no aggregates for %s in %s", req.Ticker, req.Range())).
			WithContext("ticker", req.Ticker)
	}
	return bars, nil
}

func (p *PolygonProvider) fetch(ctx context.Context, r *resty.Request, url string) (*polygonAggregatesResponse, error) {
	resp, err := r.SetContext(ctx).
		SetQueryParam("apiKey", p.apiKey).
		SetResult(&polygonAggregatesResponse{}).
		SetError(&polygonAggregatesResponse{}).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("polygon", "fetch", ctx.Err())
		}
		return nil, apperrors.NewNetworkError("polygon", "fetch", err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, apperrors.WrapError(fmt.Errorf("rate limited after retries"),
			apperrors.ErrorCategoryRateLimit, "polygon", "fetch")
	case resp.StatusCode() == http.StatusNotFound:
		return nil, apperrors.NewNoDataError("polygon", "fetch", "unknown ticker")
	case resp.IsError():
		msg := resp.Status()
		if body, ok := resp.Error().(*polygonAggregatesResponse); ok && body.Error != "" {
			msg = body.Error
		}
		return nil, apperrors.NewProviderError("polygon", "fetch",
			fmt.Errorf("API status %d: %s", resp.StatusCode(), msg))
	}

	result := resp.Result().(*polygonAggregatesResponse)
	switch result.Status {
	case "OK":
	case "DELAYED":
		log.Printf("⚠️ Polygon returned DELAYED data for %s", result.Ticker)
	default:
		return nil, apperrors.NewProviderError("polygon", "fetch",
			fmt.Errorf("API status not OK: %s %s", result.Status, result.Error))
	}
	return result, nil
}

// polygonRange converts the half-open request range into Polygon's inclusive day bounds
func polygonRange(req Request) (from, to time.Time) {
	to = req.End
	if to.IsZero() {
		now := time.Now().UTC()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}
	to = to.AddDate(0, 0, -1)

	from = req.Start
	if from.IsZero() {
		from = to.AddDate(-5, 0, 0)
	}
	return from, to
}

// ValidateData validates the integrity of loaded data
func (p *PolygonProvider) ValidateData(data []types.OHLCV) error {
	return validateBars(data)
}
