package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"StockLens/internal/model"
)

const (
	alphaVantageBaseURL = "https://www.alphavantage.co/query"
	// Free tier allows 5 calls per minute.
	alphaVantageBurst    = 5
	alphaVantageInterval = 12 * time.Second
	// compact returns the latest 100 data points.
	compactSize = 100

	newsTimeLayout = "20060102T150405"
)

// AlphaVantageFetcher implements Fetcher, OverviewFetcher and NewsFetcher
// against the Alpha Vantage query API.
type AlphaVantageFetcher struct {
	Client  *http.Client
	BaseURL string
	APIKey  string

	log         *logrus.Entry
	rateLimiter chan struct{}
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewAlphaVantageFetcher creates a fetcher and starts its rate limiter.
// Call Close to stop the limiter.
func NewAlphaVantageFetcher(apiKey, baseURL, proxyURL string, log *logrus.Logger) *AlphaVantageFetcher {
	if baseURL == "" {
		baseURL = alphaVantageBaseURL
	}
	f := &AlphaVantageFetcher{
		Client:      newHTTPClient(proxyURL),
		BaseURL:     baseURL,
		APIKey:      apiKey,
		log:         log.WithField("component", "alpha-vantage"),
		rateLimiter: make(chan struct{}, alphaVantageBurst),
		stop:        make(chan struct{}),
	}
	for i := 0; i < alphaVantageBurst; i++ {
		f.rateLimiter <- struct{}{}
	}
	go f.refill(alphaVantageInterval)
	return f
}

func (f *AlphaVantageFetcher) refill(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			select {
			case f.rateLimiter <- struct{}{}:
			default:
			}
		case <-f.stop:
			return
		}
	}
}

// Close stops the rate limiter.
func (f *AlphaVantageFetcher) Close() error {
	f.stopOnce.Do(func() { close(f.stop) })
	return nil
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// providerNotice holds the keys Alpha Vantage uses instead of data when a
// call is rejected or throttled.
type providerNotice struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (n providerNotice) message() string {
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage
	case n.Note != "":
		return n.Note
	default:
		return n.Information
	}
}

// query performs one API call and returns the raw body after checking for
// provider notices.
func (f *AlphaVantageFetcher) query(ctx context.Context, params url.Values) ([]byte, error) {
	select {
	case <-f.rateLimiter:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	params.Set("apikey", f.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", stripURL(err))
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", stripURL(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d", resp.StatusCode)
	}

	var notice providerNotice
	if err := json.Unmarshal(body, &notice); err == nil {
		if msg := notice.message(); msg != "" {
			f.log.WithFields(logrus.Fields{
				"function": params.Get("function"),
				"notice":   msg,
			}).Warn("provider returned a notice instead of data")
			return nil, fmt.Errorf("%w: %s", ErrProviderMessage, msg)
		}
	}
	return body, nil
}

type dailySeries struct {
	TimeSeries map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

func (f *AlphaVantageFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	outputSize := "full"
	if days <= compactSize {
		outputSize = "compact"
	}
	body, err := f.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {outputSize},
	})
	if err != nil {
		return nil, err
	}

	var ts dailySeries
	if err := json.Unmarshal(body, &ts); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if len(ts.TimeSeries) == 0 {
		return nil, ErrNoData
	}

	bars := make([]model.PriceBar, 0, len(ts.TimeSeries))
	for date, v := range ts.TimeSeries {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			f.log.WithField("date", date).Debug("skipping bar with unparseable date")
			continue
		}
		vol, _ := strconv.ParseFloat(v.Volume, 64)
		bars = append(bars, model.PriceBar{
			Date:   d,
			Open:   parseFloat(v.Open),
			High:   parseFloat(v.High),
			Low:    parseFloat(v.Low),
			Close:  parseFloat(v.Close),
			Volume: int64(vol),
		})
	}

	// Map iteration order is random; normalizing sorts oldest first.
	return trimBars(model.NormalizeBars(bars), days), nil
}

type overviewResponse struct {
	Symbol                     string `json:"Symbol"`
	Name                       string `json:"Name"`
	Description                string `json:"Description"`
	Exchange                   string `json:"Exchange"`
	Currency                   string `json:"Currency"`
	Sector                     string `json:"Sector"`
	Industry                   string `json:"Industry"`
	MarketCapitalization       string `json:"MarketCapitalization"`
	PERatio                    string `json:"PERatio"`
	EPS                        string `json:"EPS"`
	Beta                       string `json:"Beta"`
	DividendYield              string `json:"DividendYield"`
	SharesOutstanding          string `json:"SharesOutstanding"`
	SharesFloat                string `json:"SharesFloat"`
	QuarterlyRevenueGrowthYOY  string `json:"QuarterlyRevenueGrowthYOY"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	ProfitMargin               string `json:"ProfitMargin"`
	PriceToSalesRatio          string `json:"PriceToSalesRatioTTM"`
	PriceToBookRatio           string `json:"PriceToBookRatio"`
	EVToEBITDA                 string `json:"EVToEBITDA"`
	Week52High                 string `json:"52WeekHigh"`
	Week52Low                  string `json:"52WeekLow"`
}

// FetchOverview returns company fundamentals. Numeric fields the provider
// reports as "None" or "-" are left at zero.
func (f *AlphaVantageFetcher) FetchOverview(ctx context.Context, symbol string) (*model.CompanyOverview, error) {
	body, err := f.query(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {symbol},
	})
	if err != nil {
		return nil, err
	}

	var o overviewResponse
	if err := json.Unmarshal(body, &o); err != nil {
		return nil, fmt.Errorf("alphavantage decode overview: %w", err)
	}
	if o.Symbol == "" {
		return nil, ErrNoData
	}

	return &model.CompanyOverview{
		Symbol:                     o.Symbol,
		Name:                       o.Name,
		Description:                o.Description,
		Exchange:                   o.Exchange,
		Currency:                   o.Currency,
		Sector:                     o.Sector,
		Industry:                   o.Industry,
		MarketCapitalization:       parseFloat(o.MarketCapitalization),
		PERatio:                    parseFloat(o.PERatio),
		EPS:                        parseFloat(o.EPS),
		Beta:                       parseFloat(o.Beta),
		DividendYield:              parseFloat(o.DividendYield),
		SharesOutstanding:          parseFloat(o.SharesOutstanding),
		SharesFloat:                parseFloat(o.SharesFloat),
		QuarterlyRevenueGrowthYOY:  parseFloat(o.QuarterlyRevenueGrowthYOY),
		QuarterlyEarningsGrowthYOY: parseFloat(o.QuarterlyEarningsGrowthYOY),
		ProfitMargin:               parseFloat(o.ProfitMargin),
		PriceToSalesRatio:          parseFloat(o.PriceToSalesRatio),
		PriceToBookRatio:           parseFloat(o.PriceToBookRatio),
		EVToEBITDA:                 parseFloat(o.EVToEBITDA),
		Week52High:                 parseFloat(o.Week52High),
		Week52Low:                  parseFloat(o.Week52Low),
	}, nil
}

type newsResponse struct {
	Feed []struct {
		Title                 string   `json:"title"`
		URL                   string   `json:"url"`
		TimePublished         string   `json:"time_published"`
		Authors               []string `json:"authors"`
		Summary               string   `json:"summary"`
		Source                string   `json:"source"`
		OverallSentimentScore float64  `json:"overall_sentiment_score"`
		OverallSentimentLabel string   `json:"overall_sentiment_label"`
	} `json:"feed"`
}

// FetchNews returns up to limit articles mentioning symbol, newest first as
// delivered by the provider.
func (f *AlphaVantageFetcher) FetchNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	params := url.Values{
		"function": {"NEWS_SENTIMENT"},
		"tickers":  {symbol},
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	body, err := f.query(ctx, params)
	if err != nil {
		return nil, err
	}

	var nr newsResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return nil, fmt.Errorf("alphavantage decode news: %w", err)
	}

	items := make([]model.NewsItem, 0, len(nr.Feed))
	for _, a := range nr.Feed {
		published, _ := time.Parse(newsTimeLayout, a.TimePublished)
		items = append(items, model.NewsItem{
			Title:          a.Title,
			URL:            a.URL,
			Published:      published,
			Authors:        a.Authors,
			Summary:        a.Summary,
			Source:         a.Source,
			SentimentScore: a.OverallSentimentScore,
			SentimentLabel: a.OverallSentimentLabel,
		})
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items, nil
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "None" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
