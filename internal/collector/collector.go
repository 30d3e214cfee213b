package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"StockLens/internal/cache"
	"StockLens/internal/calculator"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

// Collector orchestrates data fetching, caching and indicator computation.
type Collector struct {
	Primary     Fetcher
	Fallback    Fetcher // optional
	Cache       cache.SeriesCache
	TTL         time.Duration
	HistoryDays int

	log     *logrus.Entry
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewCollector creates a new Collector. fallback and m may be nil.
func NewCollector(primary, fallback Fetcher, c cache.SeriesCache, ttl time.Duration, historyDays int,
	log *logrus.Logger, m *metrics.Metrics) *Collector {
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &Collector{
		Primary:     primary,
		Fallback:    fallback,
		Cache:       c,
		TTL:         ttl,
		HistoryDays: historyDays,
		log:         log.WithField("component", "collector"),
		metrics:     m,
		now:         time.Now,
	}
}

// Source names the primary fetcher.
func (c *Collector) Source() string { return c.Primary.Name() }

// Bars returns the daily history for symbol, oldest first, from the cache
// when a fresh entry exists.
func (c *Collector) Bars(ctx context.Context, symbol string) (model.PriceSeries, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("%w: %q", err, symbol)
	}
	log := c.log.WithField("symbol", sym)

	entry, err := c.Cache.Get(ctx, sym)
	if err != nil {
		log.WithError(err).Warn("cache read failed, fetching")
	}
	switch {
	case entry.Fresh(c.TTL, c.now()):
		c.metrics.CacheResult("hit")
		return entry.Series, nil
	case entry != nil:
		c.metrics.CacheResult("stale")
	default:
		c.metrics.CacheResult("miss")
	}

	series, err := c.fetch(ctx, sym)
	if err != nil {
		return model.PriceSeries{}, err
	}
	if err := c.Cache.Set(ctx, sym, series); err != nil {
		log.WithError(err).Warn("cache write failed")
	}
	return series, nil
}

func (c *Collector) fetch(ctx context.Context, sym string) (model.PriceSeries, error) {
	source := c.Primary
	bars, err := source.FetchDailyBars(ctx, sym, c.HistoryDays)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.metrics.FetchError(source.Name())
		if c.Fallback != nil {
			c.log.WithFields(logrus.Fields{
				"symbol":   sym,
				"source":   source.Name(),
				"fallback": c.Fallback.Name(),
			}).WithError(err).Warn("primary source failed, using fallback")
			source = c.Fallback
			bars, err = source.FetchDailyBars(ctx, sym, c.HistoryDays)
			if err != nil {
				c.metrics.FetchError(source.Name())
			}
		}
	}
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch daily bars for %s from %s: %w", sym, source.Name(), err)
	}
	if len(bars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%s: %w", sym, ErrNoData)
	}

	c.log.WithFields(logrus.Fields{
		"symbol": sym,
		"source": source.Name(),
		"bars":   len(bars),
	}).Debug("fetched bars")

	return model.PriceSeries{
		Symbol:    sym,
		Bars:      model.NormalizeBars(bars),
		Source:    source.Name(),
		FetchedAt: c.now().UTC(),
	}, nil
}

// Snapshot returns the latest indicator values for symbol.
func (c *Collector) Snapshot(ctx context.Context, symbol string) (*model.IndicatorSnapshot, error) {
	series, err := c.Bars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	snap := calculator.Snapshot(series)
	c.metrics.ObserveSnapshot(time.Since(start))
	if snap == nil {
		return nil, fmt.Errorf("%s: %w", series.Symbol, ErrNoData)
	}
	return snap, nil
}

// Series returns the full indicator series for symbol together with the
// bars it was computed from.
func (c *Collector) Series(ctx context.Context, symbol string) (*model.IndicatorSeries, model.PriceSeries, error) {
	series, err := c.Bars(ctx, symbol)
	if err != nil {
		return nil, model.PriceSeries{}, err
	}
	ind := calculator.Series(series)
	if ind == nil {
		return nil, series, fmt.Errorf("%s: %w", series.Symbol, ErrNoData)
	}
	return ind, series, nil
}

// Overview returns company fundamentals when a configured fetcher supports them.
func (c *Collector) Overview(ctx context.Context, symbol string) (*model.CompanyOverview, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, symbol)
	}
	for _, f := range c.fetchers() {
		if of, ok := f.(OverviewFetcher); ok {
			return of.FetchOverview(ctx, sym)
		}
	}
	return nil, ErrUnsupported
}

// News returns recent articles for symbol when a configured fetcher supports them.
func (c *Collector) News(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	sym, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, symbol)
	}
	for _, f := range c.fetchers() {
		if nf, ok := f.(NewsFetcher); ok {
			return nf.FetchNews(ctx, sym, limit)
		}
	}
	return nil, ErrUnsupported
}

func (c *Collector) fetchers() []Fetcher {
	if c.Fallback == nil {
		return []Fetcher{c.Primary}
	}
	return []Fetcher{c.Primary, c.Fallback}
}
