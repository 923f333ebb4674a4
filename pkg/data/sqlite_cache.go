package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/ducminhle1904/ta-engine/internal/errors"
	"github.com/ducminhle1904/ta-engine/pkg/types"
)

// SQLiteCache persists loaded bars across runs, one JSON blob per request key.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteCache opens (and creates) the cache database. A zero ttl keeps entries forever.
func NewSQLiteCache(dbPath string, ttl time.Duration) (*SQLiteCache, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, apperrors.NewCacheError("sqlite", "open", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.NewCacheError("sqlite", "open", fmt.Errorf("sqlite open: %w", err))
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS price_cache (
			cache_key  TEXT PRIMARY KEY,
			bars       TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, apperrors.NewCacheError("sqlite", "migrate", fmt.Errorf("sqlite create price_cache: %w", err))
	}

	log.Printf("[sqlite-cache] opened %s (ttl=%s)", dbPath, ttl)
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}, nil
}

// Name identifies the backend
func (c *SQLiteCache) Name() string {
	return "sqlite"
}

// Get returns the cached bars unless they are missing or expired
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]types.OHLCV, bool, error) {
	var payload string
	var createdAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT bars, created_at FROM price_cache WHERE cache_key = ?`, key).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheError("sqlite", "get", err)
	}

	if c.ttl > 0 && c.now().Sub(time.Unix(createdAt, 0)) > c.ttl {
		return nil, false, nil
	}

	bars, err := decodeBars([]byte(payload))
	if err != nil {
		return nil, false, apperrors.NewCacheError("sqlite", "decode", err)
	}
	return bars, true, nil
}

// Set upserts the bars for key
func (c *SQLiteCache) Set(ctx context.Context, key string, data []types.OHLCV) error {
	payload, err := encodeBars(data)
	if err != nil {
		return apperrors.NewCacheError("sqlite", "encode", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO price_cache (cache_key, bars, created_at) VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET bars = excluded.bars, created_at = excluded.created_at
	`, key, string(payload), c.now().Unix())
	if err != nil {
		return apperrors.NewCacheError("sqlite", "set", err)
	}
	return nil
}

// Clear removes all cached data
func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM price_cache`); err != nil {
		return apperrors.NewCacheError("sqlite", "clear", err)
	}
	return nil
}

// Size returns the number of cached entries, expired ones included
func (c *SQLiteCache) Size(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM price_cache`).Scan(&n); err != nil {
		return 0, apperrors.NewCacheError("sqlite", "size", err)
	}
	return n, nil
}

// Close closes the database
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// cachedBar is the serialized form of a bar; dates are stored as calendar days.
type cachedBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

func encodeBars(bars []types.OHLCV) ([]byte, error) {
	out := make([]cachedBar, len(bars))
	for i, b := range bars {
		out[i] = cachedBar{
			Date:   b.Date.Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return json.Marshal(out)
}

func decodeBars(payload []byte) ([]types.OHLCV, error) {
	var in []cachedBar
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, err
	}
	bars := make([]types.OHLCV, len(in))
	for i, b := range in {
		date, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			return nil, err
		}
		bars[i] = types.OHLCV{
			Date:   date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return bars, nil
}
