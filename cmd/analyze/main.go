package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ducminhle1904/ta-engine/cmd/common"
	"github.com/ducminhle1904/ta-engine/internal/analysis"
	"github.com/ducminhle1904/ta-engine/internal/config"
	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/logger"
	"github.com/ducminhle1904/ta-engine/pkg/data"
	"github.com/ducminhle1904/ta-engine/pkg/reporting"
)

const AppName = "TA Analyze"

func main() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	commonFlags := common.RegisterCommonFlags(fs)
	analysisFlags := common.RegisterAnalysisFlags(fs)

	usage := common.NewUsageFormatter(AppName, "RSI, MACD, ROC and ADX over daily bars").
		AddExample("analyze -ticker AAPL -start 2020-01-01 -end 2025-01-01", "Analyse AAPL from data/AAPL.csv").
		AddExample("analyze -provider bybit -ticker BTCUSDT -format console,xlsx", "Crypto daily klines with an Excel workbook").
		AddExample("analyze -ticker MSFT -rsi-window 7 -adx-window 20 -show-raw", "Custom windows and the raw price table")
	fs.Usage = func() { usage.PrintUsage(os.Stderr, fs) }

	fs.Parse(os.Args[1:])

	if common.CheckHelpAndVersion(AppName, commonFlags, usage, fs) {
		return
	}
	common.SetupLogger(commonFlags)

	cfg, err := common.LoadConfig(commonFlags)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	common.ApplyLogLevel(commonFlags, cfg.LogLevel)
	if err := analysisFlags.Apply(fs, cfg); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}
	validator := common.NewFlagValidator().
		ValidateChoice("provider", cfg.Data.Provider, []string{config.ProviderCSV, config.ProviderBybit, config.ProviderPolygon}).
		ValidateChoice("cache", cfg.Cache.Backend, []string{config.CacheNone, config.CacheMemory, config.CacheSQLite, config.CacheRedis}).
		ValidateFile("csv", cfg.Data.CSVPath, false)
	if validator.HasErrors() {
		validator.PrintErrors()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, reporting.NewDefaultConsoleReporter(cfg.Output.ShowRaw)); err != nil {
		common.Error("%v", err)
		os.Exit(1)
	}
}

// run loads the configured history, computes the table and writes every report.
// A history too short for the indicators is reported, not treated as a failure.
func run(ctx context.Context, cfg *config.Config, console reporting.ConsoleReporter) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	common.Header(fmt.Sprintf("%s %s", AppName, common.GetFullVersion()))

	dm, err := data.NewDataManager(cfg)
	if err != nil {
		return err
	}
	defer dm.Close()

	req := data.Request{
		Ticker: cfg.Analysis.Ticker,
		Start:  cfg.Analysis.Start.Time,
		End:    cfg.Analysis.End.Time,
	}.Normalize()

	sessionLog, err := logger.NewLogger(cfg.LogDir, req.Ticker, req.Range().String())
	if err != nil {
		common.Warn("Session log disabled: %v", err)
		sessionLog = nil
	}
	if sessionLog != nil {
		defer sessionLog.Close()
	}

	common.Progress("Loading %s from %s (%s)", req.Ticker, dm.GetProvider().GetName(), req.Range())
	bars, err := dm.LoadBars(ctx, req)
	if err != nil {
		if sessionLog != nil {
			sessionLog.LogError("load", err)
		}
		if apperrors.IsNoData(err) {
			return fmt.Errorf("no data for %s in %s: %w", req.Ticker, req.Range(), err)
		}
		return err
	}
	if sessionLog != nil {
		sessionLog.LogDataLoaded(dm.GetProvider().GetName(), len(bars), bars[0].Date, bars[len(bars)-1].Date)
	}

	result, err := analysis.NewEngine(cfg.Analysis.Params).Run(ctx, bars)
	if err != nil {
		if sessionLog != nil {
			sessionLog.LogError("analysis", err)
		}
		return err
	}

	manager, err := reporting.NewReportingManager(reporting.ReportingConfig{
		OutputDirectory: cfg.Output.Dir,
		Formats:         cfg.Output.Formats,
		ShowRaw:         cfg.Output.ShowRaw,
	})
	if err != nil {
		return err
	}
	if console != nil && manager.ConsoleEnabled() {
		manager.WithConsole(console)
	}

	report := reporting.Report{Ticker: req.Ticker, Range: req.Range(), Result: result}
	paths, err := manager.Report(report)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		common.Success("Saved %d report(s) to %s", len(paths), reporting.NewDefaultPathManager().GetDefaultOutputDir(cfg.Output.Dir, req.Ticker))
	}

	if sessionLog != nil {
		sessionLog.LogRunSummary(summarize(dm.GetProvider().GetName(), result, paths))
	}
	return nil
}

func summarize(provider string, result *analysis.Result, paths []string) logger.RunSummary {
	p := result.Params
	s := logger.RunSummary{
		Provider: provider,
		Params: map[string]int{
			"rsi_window":  p.RSIWindow,
			"macd_fast":   p.MACDFast,
			"macd_slow":   p.MACDSlow,
			"macd_signal": p.MACDSignal,
			"roc_window":  p.ROCWindow,
			"adx_window":  p.ADXWindow,
		},
		Bars:     result.Raw.Len(),
		Dropped:  result.Dropped,
		Rows:     result.Table.Len(),
		Duration: result.Duration,
		Reports:  paths,
	}

	if row, ok := result.Latest(); ok {
		s.LatestDate = row.Date
		s.Latest = make(map[string]float64, len(row.Values))
		for name, v := range row.Values {
			if v.Defined {
				s.Latest[name] = v.V
			}
		}
	}
	return s
}
