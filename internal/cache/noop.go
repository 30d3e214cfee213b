package cache

import (
	"context"

	"StockLens/internal/model"
)

// NoopCache never stores anything. Used when caching is disabled.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Get(_ context.Context, _ string) (*Entry, error)           { return nil, nil }
func (n *NoopCache) Set(_ context.Context, _ string, _ model.PriceSeries) error { return nil }
func (n *NoopCache) Name() string                                             { return "none" }
func (n *NoopCache) Close() error                                             { return nil }
