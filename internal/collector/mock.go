package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"StockLens/internal/model"
)

// MockFetcher returns deterministic data for development and testing.
// When Bars is set it is returned as is; otherwise a gently oscillating
// series around Price is generated.
type MockFetcher struct {
	Price    float64
	Bars     []model.PriceBar
	Err      error
	Overview *model.CompanyOverview
	News     []model.NewsItem
	// Calls counts FetchDailyBars invocations.
	Calls atomic.Int32
	// End is the date of the newest generated bar. Zero means today (UTC).
	End time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.PriceBar, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return trimBars(m.Bars, days), nil
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return generateMockBars(price, days, end), nil
}

func (m *MockFetcher) FetchOverview(_ context.Context, symbol string) (*model.CompanyOverview, error) {
	if m.Overview != nil {
		return m.Overview, nil
	}
	return &model.CompanyOverview{Symbol: symbol, Name: symbol + " Inc.", Currency: "USD"}, nil
}

func (m *MockFetcher) FetchNews(_ context.Context, _ string, limit int) ([]model.NewsItem, error) {
	if limit > 0 && len(m.News) > limit {
		return m.News[:limit], nil
	}
	return m.News, nil
}

func generateMockBars(basePrice float64, count int, end time.Time) []model.PriceBar {
	if count <= 0 {
		return nil
	}
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/8) + float64(i-count/2)*0.0005)
		bars[i] = model.PriceBar{
			Date:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + int64(i%10)*10000,
		}
	}
	return bars
}
