package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/indicators"
)

// Parameter bounds accepted from users. MACD slow may span up to 100 bars.
const (
	MinWindow     = 2
	MaxWindow     = 50
	MaxSlowWindow = 100
)

// ValidateParams checks every indicator window against the accepted bounds.
func ValidateParams(p indicators.Params) error {
	checks := []struct {
		name  string
		value int
		max   int
	}{
		{"rsi_window", p.RSIWindow, MaxWindow},
		{"macd_fast", p.MACDFast, MaxWindow},
		{"macd_slow", p.MACDSlow, MaxSlowWindow},
		{"macd_signal", p.MACDSignal, MaxWindow},
		{"roc_window", p.ROCWindow, MaxWindow},
		{"adx_window", p.ADXWindow, MaxWindow},
	}
	for _, c := range checks {
		if c.value < MinWindow || c.value > c.max {
			return apperrors.NewConfigurationError("config", "validate_params",
				fmt.Sprintf("%s must be between %d and %d, got %d", c.name, MinWindow, c.max, c.value)).
				WithContext("param", c.name)
		}
	}
	return nil
}

// Validate checks the configuration before any data is loaded.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Analysis.Ticker) == "" {
		return apperrors.NewConfigurationError("config", "validate", "ticker is required")
	}
	if !c.Analysis.Start.IsZero() && !c.Analysis.End.IsZero() && !c.Analysis.Start.Before(c.Analysis.End.Time) {
		return apperrors.NewConfigurationError("config", "validate",
			fmt.Sprintf("start date %s must be before end date %s", c.Analysis.Start, c.Analysis.End))
	}
	if err := ValidateParams(c.Analysis.Params); err != nil {
		return err
	}

	switch c.Data.Provider {
	case ProviderCSV:
	case ProviderBybit:
	case ProviderPolygon:
		if c.Data.PolygonAPIKey == "" {
			return apperrors.NewConfigurationError("config", "validate", "POLYGON_API_KEY is required for the polygon provider")
		}
	default:
		return apperrors.NewConfigurationError("config", "validate",
			fmt.Sprintf("unsupported data provider: %s", c.Data.Provider))
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheSQLite, CacheRedis, "":
	default:
		return apperrors.NewConfigurationError("config", "validate",
			fmt.Sprintf("unsupported cache backend: %s", c.Cache.Backend))
	}
	return nil
}

// LoadFromFile overlays a JSON config file on top of the environment configuration.
// A bare name is looked up in configs/ and the .json extension may be omitted.
func LoadFromFile(configFile string) (*Config, error) {
	if !strings.ContainsAny(configFile, "/\\") {
		configFile = filepath.Join("configs", configFile)
	}
	if !strings.HasSuffix(configFile, ".json") {
		configFile += ".json"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "config", "read_file").
			WithContext("path", configFile)
	}

	cfg := Load()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "config", "parse_file").
			WithContext("path", configFile)
	}
	cfg.Analysis.Ticker = strings.ToUpper(cfg.Analysis.Ticker)
	return cfg, nil
}
