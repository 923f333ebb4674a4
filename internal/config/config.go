package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ducminhle1904/ta-engine/internal/indicators"
)

// DateLayout is the calendar-date format used by flags, env vars and the HTTP API.
const DateLayout = "2006-01-02"

// Supported market data providers
const (
	ProviderCSV     = "csv"
	ProviderBybit   = "bybit"
	ProviderPolygon = "polygon"
)

// Supported price cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

type Config struct {
	Environment string `json:"environment"`
	LogLevel    string `json:"log_level"`
	LogDir      string `json:"log_dir"`

	Analysis AnalysisConfig `json:"analysis"`
	Data     DataConfig     `json:"data"`
	Cache    CacheConfig    `json:"cache"`
	Output   OutputConfig   `json:"output"`

	Server struct {
		Port           int `json:"port"`
		PrometheusPort int `json:"prometheus_port"`
	} `json:"server"`
}

// AnalysisConfig selects what to analyse and with which windows.
type AnalysisConfig struct {
	Ticker string            `json:"ticker"`
	Start  Date              `json:"start"`
	End    Date              `json:"end"`
	Params indicators.Params `json:"params"`
}

// DataConfig configures the market data provider.
type DataConfig struct {
	Provider       string   `json:"provider"`
	DataRoot       string   `json:"data_root"`
	CSVPath        string   `json:"csv_path,omitempty"`
	PolygonAPIKey  string   `json:"polygon_api_key,omitempty"`
	PolygonBaseURL string   `json:"polygon_base_url,omitempty"`
	BybitCategory  string   `json:"bybit_category"`
	BybitBaseURL   string   `json:"bybit_base_url,omitempty"`
	RequestTimeout Duration `json:"request_timeout"`
}

// CacheConfig configures the price cache in front of the provider.
type CacheConfig struct {
	Backend       string   `json:"backend"`
	SQLitePath    string   `json:"sqlite_path"`
	RedisAddr     string   `json:"redis_addr"`
	RedisPassword string   `json:"redis_password,omitempty"`
	RedisDB       int      `json:"redis_db"`
	TTL           Duration `json:"ttl"`
}

// OutputConfig configures the report writers.
type OutputConfig struct {
	Dir     string   `json:"dir"`
	Formats []string `json:"formats"`
	ShowRaw bool     `json:"show_raw"`
}

// Load reads the configuration from the environment. Call godotenv first to pick up .env.
func Load() *Config {
	defaults := indicators.DefaultParams()

	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogDir:      getEnv("LOG_DIR", "logs"),

		Analysis: AnalysisConfig{
			Ticker: strings.ToUpper(getEnv("TICKER", "AAPL")),
			Start:  getEnvDate("START_DATE", MustParseDate("2020-01-01")),
			End:    getEnvDate("END_DATE", MustParseDate("2025-01-01")),
			Params: indicators.Params{
				RSIWindow:  getEnvInt("RSI_WINDOW", defaults.RSIWindow),
				MACDFast:   getEnvInt("MACD_FAST", defaults.MACDFast),
				MACDSlow:   getEnvInt("MACD_SLOW", defaults.MACDSlow),
				MACDSignal: getEnvInt("MACD_SIGNAL", defaults.MACDSignal),
				ROCWindow:  getEnvInt("ROC_WINDOW", defaults.ROCWindow),
				ADXWindow:  getEnvInt("ADX_WINDOW", defaults.ADXWindow),
			},
		},

		Data: DataConfig{
			Provider:       strings.ToLower(getEnv("DATA_PROVIDER", ProviderCSV)),
			DataRoot:       getEnv("DATA_ROOT", "data"),
			CSVPath:        getEnv("CSV_PATH", ""),
			PolygonAPIKey:  getEnv("POLYGON_API_KEY", ""),
			PolygonBaseURL: getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
			BybitCategory:  getEnv("BYBIT_CATEGORY", "spot"),
			BybitBaseURL:   getEnv("BYBIT_BASE_URL", ""),
			RequestTimeout: Duration(getEnvDuration("REQUEST_TIMEOUT", 30*time.Second)),
		},

		Cache: CacheConfig{
			Backend:       strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
			SQLitePath:    getEnv("CACHE_SQLITE_PATH", "data/cache.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           Duration(getEnvDuration("CACHE_TTL", 24*time.Hour)),
		},

		Output: OutputConfig{
			Dir:     getEnv("OUTPUT_DIR", "results"),
			Formats: getEnvList("OUTPUT_FORMATS", []string{"console"}),
			ShowRaw: getEnvBool("SHOW_RAW", false),
		},
	}
	cfg.Server.Port = getEnvInt("HTTP_PORT", 8080)
	cfg.Server.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 9090)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvDate(key string, defaultVal Date) Date {
	if val, err := ParseDate(os.Getenv(key)); err == nil {
		return val
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
