package data

import (
	"context"
	"log"
	"sync"

	"github.com/ducminhle1904/ta-engine/internal/monitoring"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// MemoryCache implements DataCache using in-memory storage
type MemoryCache struct {
	cache map[string][]types.OHLCV
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string][]types.OHLCV),
	}
}

// Name identifies the backend
func (c *MemoryCache) Name() string {
	return "memory"
}

// Get retrieves data from cache if available
func (c *MemoryCache) Get(_ context.Context, key string) ([]types.OHLCV, bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, exists := c.cache[key]
	if !exists {
		return nil, false, nil
	}

	// Return a copy to prevent external modifications
	result := make([]types.OHLCV, len(data))
	copy(result, data)
	return result, true, nil
}

// Set stores data in cache
func (c *MemoryCache) Set(_ context.Context, key string, data []types.OHLCV) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	cached := make([]types.OHLCV, len(data))
	copy(cached, data)
	c.cache[key] = cached
	return nil
}

// Clear removes all cached data
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string][]types.OHLCV)
	return nil
}

// Size returns the number of cached entries
func (c *MemoryCache) Size(_ context.Context) (int, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache), nil
}

// CachedProvider wraps another DataProvider with caching functionality.
// Cache failures are logged and fall through to the provider.
type CachedProvider struct {
	provider DataProvider
	cache    DataCache
}

// NewCachedProvider creates a new cached data provider backed by memory
func NewCachedProvider(provider DataProvider) *CachedProvider {
	return NewCachedProviderWithCache(provider, NewMemoryCache())
}

// NewCachedProviderWithCache creates a new cached data provider with custom cache
func NewCachedProviderWithCache(provider DataProvider, cache DataCache) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
	}
}

// GetName returns the name of the underlying provider
func (p *CachedProvider) GetName() string {
	return p.provider.GetName()
}

// LoadBars serves the request from the cache, loading and storing it on a miss.
// Errors, including empty results, are never cached.
func (p *CachedProvider) LoadBars(ctx context.Context, req Request) ([]types.OHLCV, error) {
	req = req.Normalize()
	key := req.CacheKey(p.provider.GetName())

	cachedData, exists, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Printf("⚠️ %s cache lookup failed for %s: %v", p.cache.Name(), key, err)
	}
	monitoring.RecordCacheLookup(p.cache.Name(), exists)
	if exists {
		return cachedData, nil
	}

	log.Printf("🔄 Loading %s %s from %s", req.Ticker, req.Range(), p.provider.GetName())
	data, err := p.provider.LoadBars(ctx, req)
	monitoring.RecordProviderRequest(p.provider.GetName(), err)
	if err != nil {
		log.Printf("❌ Failed to load %s from %s: %v", req.Ticker, p.provider.GetName(), err)
		return nil, err
	}

	if err := p.cache.Set(ctx, key, data); err != nil {
		log.Printf("⚠️ %s cache store failed for %s: %v", p.cache.Name(), key, err)
	}

	log.Printf("✅ Loaded and cached %s (%d bars)", req.Ticker, len(data))
	return data, nil
}

// ValidateData validates data using the underlying provider
func (p *CachedProvider) ValidateData(data []types.OHLCV) error {
	return p.provider.ValidateData(data)
}

// GetCache returns the underlying cache for external management
func (p *CachedProvider) GetCache() DataCache {
	return p.cache
}

// ClearCache clears all cached data
func (p *CachedProvider) ClearCache(ctx context.Context) error {
	return p.cache.Clear(ctx)
}
