package model

import "time"

// CompanyOverview holds the fundamentals shown on the overview tab.
type CompanyOverview struct {
	Symbol                     string  `json:"symbol"`
	Name                       string  `json:"name"`
	Description                string  `json:"description"`
	Exchange                   string  `json:"exchange"`
	Currency                   string  `json:"currency"`
	Sector                     string  `json:"sector"`
	Industry                   string  `json:"industry"`
	MarketCapitalization       float64 `json:"marketCapitalization"`
	PERatio                    float64 `json:"peRatio"`
	EPS                        float64 `json:"eps"`
	Beta                       float64 `json:"beta"`
	DividendYield              float64 `json:"dividendYield"`
	SharesOutstanding          float64 `json:"sharesOutstanding"`
	SharesFloat                float64 `json:"sharesFloat"`
	QuarterlyRevenueGrowthYOY  float64 `json:"quarterlyRevenueGrowthYOY"`
	QuarterlyEarningsGrowthYOY float64 `json:"quarterlyEarningsGrowthYOY"`
	ProfitMargin               float64 `json:"profitMargin"`
	PriceToSalesRatio          float64 `json:"priceToSalesRatio"`
	PriceToBookRatio           float64 `json:"priceToBookRatio"`
	EVToEBITDA                 float64 `json:"evToEBITDA"`
	Week52High                 float64 `json:"week52High"`
	Week52Low                  float64 `json:"week52Low"`
}

// NewsItem is one article with its sentiment score.
type NewsItem struct {
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Published      time.Time `json:"published"`
	Authors        []string  `json:"authors"`
	Summary        string    `json:"summary"`
	Source         string    `json:"source"`
	SentimentScore float64   `json:"sentimentScore"`
	SentimentLabel string    `json:"sentimentLabel"`
}
