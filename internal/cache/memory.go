package cache

import (
	"context"
	"sync"
	"time"

	"StockLens/internal/model"
)

// MemoryCache keeps entries in process memory.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Entry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, symbol string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key(symbol)]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *MemoryCache) Set(_ context.Context, symbol string, series model.PriceSeries) error {
	bars := make([]model.PriceBar, len(series.Bars))
	copy(bars, series.Bars)
	series.Bars = bars

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key(symbol)] = &Entry{Series: series, StoredAt: m.now()}
	return nil
}

func (m *MemoryCache) Name() string { return "memory" }
func (m *MemoryCache) Close() error { return nil }
