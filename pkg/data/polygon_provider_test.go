package data

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
)

// eastern midnight, as returned by the aggregates endpoint
func polygonTimestamp(s string) int64 {
	return day(s).Add(5 * time.Hour).UnixMilli()
}

func polygonBody(status string, next string, days ...string) polygonAggregatesResponse {
	body := polygonAggregatesResponse{Ticker: "AAPL", Status: status, NextURL: next, Adjusted: true}
	for i, d := range days {
		p := 100 + float64(i)
		body.Results = append(body.Results, polygonAggregate{
			Timestamp: polygonTimestamp(d),
			Open:      p, High: p + 1, Low: p - 1, Close: p + 0.5,
			Volume: 1234.6,
		})
	}
	body.ResultsCount = len(body.Results)
	return body
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestPolygon(url string) *PolygonProvider {
	return NewPolygonProvider(PolygonConfig{
		APIKey:     "test-key",
		BaseURL:    url,
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryWait:  10 * time.Millisecond,
	})
}

func TestPolygonProvider_LoadBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/aggs/ticker/AAPL/range/1/day/2024-01-01/2024-01-09", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "true", r.URL.Query().Get("adjusted"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort"))
		writeJSON(w, http.StatusOK, polygonBody("OK", "", "2024-01-02", "2024-01-03", "2024-01-04"))
	}))
	defer server.Close()

	bars, err := newTestPolygon(server.URL).LoadBars(context.Background(), Request{
		Ticker: "aapl",
		Start:  day("2024-01-01"),
		End:    day("2024-01-10"),
	})
	require.NoError(t, err)
	require.Len(t, bars, 3)
	assert.Equal(t, day("2024-01-02"), bars[0].Date)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, int64(1235), bars[0].Volume)
}

func TestPolygonProvider_FollowsNextURL(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page2" {
			assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
			writeJSON(w, http.StatusOK, polygonBody("OK", "", "2024-01-04", "2024-01-05"))
			return
		}
		writeJSON(w, http.StatusOK, polygonBody("OK", server.URL+"/page2?cursor=abc", "2024-01-02", "2024-01-03"))
	}))
	defer server.Close()

	bars, err := newTestPolygon(server.URL).LoadBars(context.Background(), Request{
		Ticker: "AAPL", Start: day("2024-01-01"), End: day("2024-02-01"),
	})
	require.NoError(t, err)
	require.Len(t, bars, 4)
	assert.Equal(t, day("2024-01-05"), bars[3].Date)
}

func TestPolygonProvider_RetriesRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"status": "ERROR", "error": "slow down"})
			return
		}
		writeJSON(w, http.StatusOK, polygonBody("DELAYED", "", "2024-01-02"))
	}))
	defer server.Close()

	bars, err := newTestPolygon(server.URL).LoadBars(context.Background(), Request{
		Ticker: "AAPL", Start: day("2024-01-01"), End: day("2024-01-05"),
	})
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPolygonProvider_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     interface{}
		category apperrors.ErrorCategory
	}{
		{"not found", http.StatusNotFound, map[string]string{"status": "NOT_FOUND"}, apperrors.ErrorCategoryNoData},
		{"unauthorized", http.StatusUnauthorized, map[string]string{"status": "ERROR", "error": "bad key"}, apperrors.ErrorCategoryProvider},
		{"rate limited", http.StatusTooManyRequests, map[string]string{"status": "ERROR"}, apperrors.ErrorCategoryRateLimit},
		{"status error", http.StatusOK, map[string]string{"status": "ERROR", "error": "oops"}, apperrors.ErrorCategoryProvider},
		{"empty results", http.StatusOK, polygonBody("OK", ""), apperrors.ErrorCategoryNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			_, err := newTestPolygon(server.URL).LoadBars(context.Background(), Request{
				Ticker: "AAPL", Start: day("2024-01-01"), End: day("2024-01-05"),
			})
			require.Error(t, err)
			assert.Equal(t, tt.category, apperrors.CategoryOf(err))
		})
	}
}

func TestPolygonRange(t *testing.T) {
	from, to := polygonRange(Request{Start: day("2020-01-01"), End: day("2025-01-01")})
	assert.Equal(t, day("2020-01-01"), from)
	assert.Equal(t, day("2024-12-31"), to)

	from, to = polygonRange(Request{End: day("2025-01-01")})
	assert.Equal(t, day("2019-12-31"), from)
	assert.Equal(t, day("2024-12-31"), to)
}
