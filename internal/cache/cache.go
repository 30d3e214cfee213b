// Package cache stores fetched price history per ticker so repeated lookups
// do not hit the data provider. It caches responses only; indicators are
// always recomputed from the cached series.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"StockLens/internal/model"
)

// Entry is a cached series together with the time it was stored.
type Entry struct {
	Series   model.PriceSeries `json:"series"`
	StoredAt time.Time         `json:"stored_at"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e *Entry) Fresh(ttl time.Duration, now time.Time) bool {
	return e != nil && now.Sub(e.StoredAt) < ttl
}

// SeriesCache is keyed by upper-case ticker symbol.
// Get returns (nil, nil) on a miss.
type SeriesCache interface {
	Get(ctx context.Context, symbol string) (*Entry, error)
	Set(ctx context.Context, symbol string, series model.PriceSeries) error
	Name() string
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string // memory, redis, sqlite or none
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLitePath    string
}

// New opens the backend named in opts.
func New(ctx context.Context, opts Options, log *logrus.Logger) (SeriesCache, error) {
	switch opts.Backend {
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.TTL, log)
	case "sqlite":
		return NewSQLiteCache(opts.SQLitePath, log)
	case "none", "":
		return NewNoopCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

func key(symbol string) string {
	return strings.ToUpper(symbol)
}
