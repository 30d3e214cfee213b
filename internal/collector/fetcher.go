package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"StockLens/internal/model"
)

var (
	// ErrInvalidSymbol is returned for tickers that cannot be valid.
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrNoData means the provider returned no price history.
	ErrNoData = errors.New("no data")
	// ErrProviderMessage wraps an error or throttling message sent by the provider
	// in place of data.
	ErrProviderMessage = errors.New("provider message")
	// ErrUnsupported means no configured fetcher offers the requested data.
	ErrUnsupported = errors.New("not supported by data source")
)

// Fetcher defines the interface for fetching daily price history.
// Bars are returned oldest first.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// OverviewFetcher is implemented by fetchers that provide company fundamentals.
type OverviewFetcher interface {
	FetchOverview(ctx context.Context, symbol string) (*model.CompanyOverview, error)
}

// NewsFetcher is implemented by fetchers that provide news with sentiment.
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-^]{1,10}$`)

// NormalizeSymbol upper-cases and trims symbol and checks that it looks like
// a ticker.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(s) {
		return "", ErrInvalidSymbol
	}
	return s, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// stripURL drops the request URL from a transport error. Provider URLs carry
// the API key in the query string.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

func trimBars(bars []model.PriceBar, days int) []model.PriceBar {
	if days > 0 && len(bars) > days {
		return bars[len(bars)-days:]
	}
	return bars
}
