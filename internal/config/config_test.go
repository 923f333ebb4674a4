package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "AAPL", cfg.Analysis.Ticker)
	assert.Equal(t, "2020-01-01", cfg.Analysis.Start.String())
	assert.Equal(t, "2025-01-01", cfg.Analysis.End.String())
	assert.Equal(t, indicators.DefaultParams(), cfg.Analysis.Params)
	assert.Equal(t, ProviderCSV, cfg.Data.Provider)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, []string{"console"}, cfg.Output.Formats)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TICKER", "msft")
	t.Setenv("START_DATE", "2021-06-01")
	t.Setenv("RSI_WINDOW", "21")
	t.Setenv("MACD_SLOW", "80")
	t.Setenv("DATA_PROVIDER", "Bybit")
	t.Setenv("CACHE_TTL", "2h")
	t.Setenv("OUTPUT_FORMATS", "csv, Excel ,json")
	t.Setenv("ADX_WINDOW", "not-a-number")

	cfg := Load()

	assert.Equal(t, "MSFT", cfg.Analysis.Ticker)
	assert.Equal(t, "2021-06-01", cfg.Analysis.Start.String())
	assert.Equal(t, 21, cfg.Analysis.Params.RSIWindow)
	assert.Equal(t, 80, cfg.Analysis.Params.MACDSlow)
	assert.Equal(t, 14, cfg.Analysis.Params.ADXWindow, "malformed value falls back to default")
	assert.Equal(t, ProviderBybit, cfg.Data.Provider)
	assert.Equal(t, 2*time.Hour, time.Duration(cfg.Cache.TTL))
	assert.Equal(t, []string{"csv", "excel", "json"}, cfg.Output.Formats)
}

func TestValidateParams(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*indicators.Params)
		wantErr bool
	}{
		{"defaults", func(p *indicators.Params) {}, false},
		{"rsi lower bound", func(p *indicators.Params) { p.RSIWindow = 2 }, false},
		{"rsi below bound", func(p *indicators.Params) { p.RSIWindow = 1 }, true},
		{"rsi above bound", func(p *indicators.Params) { p.RSIWindow = 51 }, true},
		{"slow up to 100", func(p *indicators.Params) { p.MACDSlow = 100 }, false},
		{"slow above 100", func(p *indicators.Params) { p.MACDSlow = 101 }, true},
		{"fast above 50", func(p *indicators.Params) { p.MACDFast = 60 }, true},
		{"signal zero", func(p *indicators.Params) { p.MACDSignal = 0 }, true},
		{"roc negative", func(p *indicators.Params) { p.ROCWindow = -3 }, true},
		{"adx upper bound", func(p *indicators.Params) { p.ADXWindow = 50 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := indicators.DefaultParams()
			tt.mutate(&params)

			err := ValidateParams(params)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrorCategoryConfiguration, apperrors.CategoryOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.Analysis.Ticker = " "
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Analysis.Start = MustParseDate("2025-01-01")
	cfg.Analysis.End = MustParseDate("2024-01-01")
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Data.Provider = "yahoo"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Data.Provider = ProviderPolygon
	cfg.Data.PolygonAPIKey = ""
	assert.Error(t, cfg.Validate())
	cfg.Data.PolygonAPIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg = Load()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nifty.json")
	content := `{
		"analysis": {"ticker": "^nsei", "start": "2022-01-03", "end": "2023-01-02",
			"params": {"rsi_window": 10, "macd_fast": 8, "macd_slow": 21, "macd_signal": 5, "roc_window": 9, "adx_window": 7}},
		"cache": {"backend": "sqlite", "ttl": "90m"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "^NSEI", cfg.Analysis.Ticker)
	assert.Equal(t, "2022-01-03", cfg.Analysis.Start.String())
	assert.Equal(t, 7, cfg.Analysis.Params.ADXWindow)
	assert.Equal(t, CacheSQLite, cfg.Cache.Backend)
	assert.Equal(t, 90*time.Minute, time.Duration(cfg.Cache.TTL))
	// untouched sections keep environment defaults
	assert.Equal(t, ProviderCSV, cfg.Data.Provider)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorCategoryConfiguration, apperrors.CategoryOf(err))

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"analysis": {"start": "01/02/2022"}}`), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
}
