package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/frame"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
	"github.com/ducminhle1904/ta-engine/internal/monitoring"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// Engine derives the indicator table from a price history.
// It keeps no state between runs, so one Engine may serve concurrent callers.
type Engine struct {
	params     indicators.Params
	indicators []indicators.TechnicalIndicator
}

// NewEngine creates an engine with the standard indicator set: RSI, MACD, ROC, ADX.
func NewEngine(params indicators.Params) *Engine {
	return &Engine{
		params:     params,
		indicators: indicators.NewIndicatorFactory().CreateAll(params),
	}
}

// Params returns the indicator windows the engine was built with.
func (e *Engine) Params() indicators.Params {
	return e.params
}

// RequiredBars returns the number of bars needed for the table to have at least one row.
func (e *Engine) RequiredBars() int {
	required := 1
	for _, ind := range e.indicators {
		if p := ind.GetRequiredPeriods(); p > required {
			required = p
		}
	}
	return required
}

// Run computes every indicator over bars, appends the columns in fixed order and drops
// incomplete rows. An empty bar set is an error; a history too short for the longest
// warm-up yields an empty, valid Result.
func (e *Engine) Run(ctx context.Context, bars []types.OHLCV) (*Result, error) {
	start := time.Now()

	result, err := e.run(ctx, bars)
	elapsed := time.Since(start)
	if err != nil {
		status := monitoring.RunStatusError
		if apperrors.IsNoData(err) {
			status = monitoring.RunStatusNoData
		}
		monitoring.RecordRunFailure(status, elapsed)
		return nil, err
	}

	result.Duration = elapsed
	status := monitoring.RunStatusOK
	if result.Empty() {
		status = monitoring.RunStatusInsufficient
		log.Printf("⚠️ Insufficient history: %d bars, need at least %d", len(bars), e.RequiredBars())
	}
	monitoring.RecordRun(status, elapsed, result.Dropped, result.Table.Len())
	return result, nil
}

func (e *Engine) run(ctx context.Context, bars []types.OHLCV) (*Result, error) {
	if len(bars) == 0 {
		return nil, apperrors.NewNoDataError("engine", "run", "no bars to analyse")
	}

	raw, err := frame.FromBars(bars)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryTimeout, "engine", "run")
	}

	outputs := make([][]indicators.Series, len(e.indicators))
	g, gctx := errgroup.WithContext(ctx)
	for i, ind := range e.indicators {
		i, ind := i, ind
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			series, err := ind.Compute(bars)
			if err != nil {
				return err
			}
			outputs[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, apperrors.WrapError(ctx.Err(), apperrors.ErrorCategoryTimeout, "engine", "run")
		}
		return nil, err
	}

	full, err := frame.FromBars(bars)
	if err != nil {
		return nil, err
	}
	for i, ind := range e.indicators {
		columns := ind.GetColumns()
		if len(outputs[i]) != len(columns) {
			return nil, apperrors.NewFatalError("engine", "run",
				fmt.Sprintf("%s returned %d series for %d columns", ind.GetName(), len(outputs[i]), len(columns)))
		}
		for j, name := range columns {
			if err := full.Append(name, outputs[i][j]); err != nil {
				return nil, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryTimeout, "engine", "run")
	}

	table := full.DropUndefined()
	return &Result{
		Raw:     raw,
		Full:    full,
		Table:   table,
		Params:  e.params,
		Dropped: full.Len() - table.Len(),
	}, nil
}
