package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/logger"
	"StockLens/internal/metrics"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	metrics   *metrics.Metrics
	cache     cache.SeriesCache
	collector *collector.Collector
	closers   []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, metrics: metrics.New()}

	primary, err := a.newFetcher(cfg.DataSource.Provider)
	if err != nil {
		return nil, err
	}
	var fallback collector.Fetcher
	if fb := cfg.DataSource.Fallback; fb != "" && fb != cfg.DataSource.Provider {
		if fallback, err = a.newFetcher(fb); err != nil {
			return nil, err
		}
	}

	c, err := cache.New(ctx, cache.Options{
		Backend:       cfg.Cache.Backend,
		TTL:           cfg.Cache.TTL,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		SQLitePath:    cfg.Cache.SQLitePath,
	}, log)
	if err != nil {
		log.WithError(err).Warnf("cache backend %s unavailable, continuing without cache", cfg.Cache.Backend)
		c = cache.NewNoopCache()
	}
	a.cache = c
	a.closers = append(a.closers, c)

	a.collector = collector.NewCollector(primary, fallback, c, cfg.Cache.TTL, cfg.DataSource.HistoryDays, log, a.metrics)

	entry := logger.WithComponent(log, "app")
	entry.WithFields(logrus.Fields{
		"source":   primary.Name(),
		"fallback": cfg.DataSource.Fallback,
		"cache":    c.Name(),
	}).Info("StockLens initialized")
	return a, nil
}

func (a *app) newFetcher(provider string) (collector.Fetcher, error) {
	switch provider {
	case "alphavantage":
		f := collector.NewAlphaVantageFetcher(a.cfg.DataSource.APIKey, a.cfg.DataSource.BaseURL, a.cfg.Proxy, a.log)
		a.closers = append(a.closers, f)
		return f, nil
	case "yahoo":
		return collector.NewYahooFetcher(a.cfg.Proxy), nil
	case "mock":
		return &collector.MockFetcher{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", provider)
	}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.WithError(err).Warn("close")
		}
	}
}
