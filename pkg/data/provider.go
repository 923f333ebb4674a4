package data

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ducminhle1904/ta-engine/internal/config"
	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/internal/exchange/bybit"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// DataManager combines the configured provider, its cache and validation
type DataManager struct {
	provider DataProvider
	cache    DataCache
	closer   func() error
}

// NewDataManager builds the provider and cache selected by cfg
func NewDataManager(cfg *config.Config) (*DataManager, error) {
	provider, err := NewProvider(cfg.Data)
	if err != nil {
		return nil, err
	}

	cache, closer, err := NewCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		return &DataManager{provider: provider, closer: closer}, nil
	}

	return &DataManager{
		provider: NewCachedProviderWithCache(provider, cache),
		cache:    cache,
		closer:   closer,
	}, nil
}

// NewDataManagerWithProvider creates a data manager around a custom provider
func NewDataManagerWithProvider(provider DataProvider) *DataManager {
	return &DataManager{provider: provider, closer: func() error { return nil }}
}

// LoadBars loads and validates the bars of req
func (dm *DataManager) LoadBars(ctx context.Context, req Request) ([]types.OHLCV, error) {
	bars, err := dm.provider.LoadBars(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := dm.provider.ValidateData(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// GetProvider returns the underlying data provider
func (dm *DataManager) GetProvider() DataProvider {
	return dm.provider
}

// GetCache returns the cache, or nil when caching is disabled
func (dm *DataManager) GetCache() DataCache {
	return dm.cache
}

// Close releases cache connections
func (dm *DataManager) Close() error {
	if dm.closer == nil {
		return nil
	}
	return dm.closer()
}

// NewProvider creates the market data provider named in cfg
func NewProvider(cfg config.DataConfig) (DataProvider, error) {
	switch cfg.Provider {
	case config.ProviderCSV, "":
		if cfg.CSVPath != "" {
			return NewCSVFileProvider(cfg.CSVPath), nil
		}
		return NewCSVProvider(cfg.DataRoot), nil
	case config.ProviderBybit:
		client := bybit.NewClient(bybit.Config{BaseURL: cfg.BybitBaseURL})
		return NewBybitProvider(client, cfg.BybitCategory), nil
	case config.ProviderPolygon:
		return NewPolygonProvider(PolygonConfig{
			APIKey:  cfg.PolygonAPIKey,
			BaseURL: cfg.PolygonBaseURL,
			Timeout: time.Duration(cfg.RequestTimeout),
		}), nil
	default:
		return nil, apperrors.NewConfigurationError("data", "new_provider",
			fmt.Sprintf("unsupported data provider: %s", cfg.Provider))
	}
}

// NewCache creates the cache backend named in cfg. It returns a nil cache when caching is off.
func NewCache(cfg config.CacheConfig) (DataCache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheMemory, "":
		return NewMemoryCache(), noop, nil
	case config.CacheSQLite:
		cache, err := NewSQLiteCache(cfg.SQLitePath, time.Duration(cfg.TTL))
		if err != nil {
			return nil, nil, err
		}
		return cache, cache.Close, nil
	case config.CacheRedis:
		cache, err := NewRedisCache(RedisCacheConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.TTL),
		})
		if err != nil {
			log.Printf("⚠️ Redis cache unavailable, falling back to memory: %v", err)
			return NewMemoryCache(), noop, nil
		}
		return cache, cache.Close, nil
	default:
		return nil, nil, apperrors.NewConfigurationError("data", "new_cache",
			fmt.Sprintf("unsupported cache backend: %s", cfg.Backend))
	}
}
