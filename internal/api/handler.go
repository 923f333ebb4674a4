package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ducminhle1904/ta-engine/internal/analysis"
	"github.com/ducminhle1904/ta-engine/internal/config"
	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
	"github.com/ducminhle1904/ta-engine/internal/monitoring"
	"github.com/ducminhle1904/ta-engine/pkg/data"
	"github.com/ducminhle1904/ta-engine/pkg/reporting"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// BarLoader is the part of data.DataManager the handler needs
type BarLoader interface {
	LoadBars(ctx context.Context, req data.Request) ([]types.OHLCV, error)
}

// Defaults fill in query parameters the caller leaves out
type Defaults struct {
	Start  config.Date
	End    config.Date
	Params indicators.Params
}

// Handler serves indicator tables over HTTP
type Handler struct {
	loader   BarLoader
	defaults Defaults
	health   *monitoring.HealthChecker
}

// NewHandler creates a handler backed by loader
func NewHandler(loader BarLoader, defaults Defaults, health *monitoring.HealthChecker) *Handler {
	if health == nil {
		health = monitoring.NewHealthChecker()
	}
	return &Handler{
		loader:   loader,
		defaults: defaults,
		health:   health,
	}
}

// RegisterRoutes mounts the API on e
func (h *Handler) RegisterRoutes(e *gin.Engine) {
	v1 := e.Group("/api/v1")
	v1.GET("/indicators", h.GetIndicators)
}

// GetIndicators computes the cleaned indicator table
//
//	GET /api/v1/indicators?ticker=AAPL&start=2020-01-01&end=2025-01-01&rsi_window=14
//
// An insufficient history is not an error: the response has an empty rows array.
func (h *Handler) GetIndicators(c *gin.Context) {
	ctx := c.Request.Context()

	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticker is required"})
		return
	}

	start, end, err := h.parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params, err := h.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := config.ValidateParams(params); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}

	req := data.Request{Ticker: ticker, Start: start.Time, End: end.Time}
	bars, err := h.loader.LoadBars(ctx, req)
	if err != nil {
		log.Printf("❌ Failed to load %s: %v", ticker, err)
		h.health.RecordRun(0, err)
		c.JSON(statusFor(err), errorBody(err))
		return
	}

	result, err := analysis.NewEngine(params).Run(ctx, bars)
	if err != nil {
		log.Printf("❌ Analysis failed for %s: %v", ticker, err)
		h.health.RecordRun(0, err)
		c.JSON(statusFor(err), errorBody(err))
		return
	}
	h.health.RecordRun(result.Table.Len(), nil)

	c.JSON(http.StatusOK, reporting.BuildDocument(reporting.Report{
		Ticker: ticker,
		Range:  req.Range(),
		Result: result,
	}))
}

func (h *Handler) parseRange(c *gin.Context) (config.Date, config.Date, error) {
	start, end := h.defaults.Start, h.defaults.End

	if s := c.Query("start"); s != "" {
		d, err := config.ParseDate(s)
		if err != nil {
			return start, end, err
		}
		start = d
	}
	if s := c.Query("end"); s != "" {
		d, err := config.ParseDate(s)
		if err != nil {
			return start, end, err
		}
		end = d
	}

	if !start.IsZero() && !end.IsZero() && !start.Before(end.Time) {
		return start, end, apperrors.NewValidationError("api", "parse_range",
			"start must be before end")
	}
	return start, end, nil
}

func (h *Handler) parseParams(c *gin.Context) (indicators.Params, error) {
	params := h.defaults.Params
	fields := []struct {
		name string
		dst  *int
	}{
		{"rsi_window", &params.RSIWindow},
		{"macd_fast", &params.MACDFast},
		{"macd_slow", &params.MACDSlow},
		{"macd_signal", &params.MACDSignal},
		{"roc_window", &params.ROCWindow},
		{"adx_window", &params.ADXWindow},
	}
	for _, f := range fields {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, apperrors.NewValidationError("api", "parse_params",
				f.name+" must be an integer").WithContext("param", f.name)
		}
		*f.dst = v
	}
	return params, nil
}

// statusFor maps an error category onto an HTTP status
func statusFor(err error) int {
	switch apperrors.CategoryOf(err) {
	case apperrors.ErrorCategoryNoData:
		return http.StatusNotFound
	case apperrors.ErrorCategoryValidation, apperrors.ErrorCategoryConfiguration:
		return http.StatusBadRequest
	case apperrors.ErrorCategoryRateLimit:
		return http.StatusTooManyRequests
	case apperrors.ErrorCategoryTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func errorBody(err error) gin.H {
	return gin.H{
		"error":    err.Error(),
		"category": string(apperrors.CategoryOf(err)),
	}
}
