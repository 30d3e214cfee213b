// Package edgar reads company filings and reported financials from the SEC
// EDGAR JSON endpoints.
package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL    = "https://data.sec.gov"
	DefaultTickersURL = "https://www.sec.gov/files/company_tickers.json"
	DefaultMaxFilings = 10
)

// ErrUnknownTicker is returned when a ticker has no CIK mapping.
var ErrUnknownTicker = errors.New("unknown ticker")

// Filing is one entry from a company's recent filings.
type Filing struct {
	Form            string `json:"form"`
	FilingDate      string `json:"filingDate"`
	ReportDate      string `json:"reportDate,omitempty"`
	AccessionNumber string `json:"accessionNumber"`
	PrimaryDocument string `json:"primaryDocument,omitempty"`
}

// Submissions is the company header plus its most recent filings.
type Submissions struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings []Filing `json:"filings"`
}

// Fact is the latest annual value reported for one concept.
type Fact struct {
	Concept string  `json:"concept"`
	Value   float64 `json:"value"`
	FY      int     `json:"fiscalYear"`
	End     string  `json:"end"`
	Filed   string  `json:"filed"`
}

// Financials holds headline figures from the latest 10-K.
type Financials struct {
	Revenue         *Fact `json:"revenue,omitempty"`
	NetIncome       *Fact `json:"netIncome,omitempty"`
	OperatingIncome *Fact `json:"operatingIncome,omitempty"`
}

// Client talks to EDGAR. The SEC requires a descriptive User-Agent.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	TickersURL string
	UserAgent  string
	MaxFilings int

	log *logrus.Entry

	mu      sync.Mutex
	tickers map[string]string // upper-case ticker -> 10-digit CIK
}

// NewClient creates an EDGAR client.
func NewClient(baseURL, userAgent, proxyURL string, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		HTTP:       &http.Client{Timeout: 30 * time.Second, Transport: transport},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		TickersURL: DefaultTickersURL,
		UserAgent:  userAgent,
		MaxFilings: DefaultMaxFilings,
		log:        log.WithField("component", "edgar"),
	}
}

func (c *Client) getJSON(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("edgar request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUnknownTicker
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("edgar: status %d for %s", resp.StatusCode, u)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("edgar decode: %w", err)
	}
	return nil
}

// PadCIK left-pads a numeric CIK to the 10 digits EDGAR paths expect.
func PadCIK(cik int64) string {
	return fmt.Sprintf("%010d", cik)
}

// LookupCIK resolves a ticker to its zero-padded CIK. The ticker table is
// downloaded once and kept in memory.
func (c *Client) LookupCIK(ctx context.Context, ticker string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tickers == nil {
		var raw map[string]struct {
			CIK    int64  `json:"cik_str"`
			Ticker string `json:"ticker"`
			Title  string `json:"title"`
		}
		if err := c.getJSON(ctx, c.TickersURL, &raw); err != nil {
			return "", fmt.Errorf("load ticker table: %w", err)
		}
		c.tickers = make(map[string]string, len(raw))
		for _, e := range raw {
			c.tickers[strings.ToUpper(e.Ticker)] = PadCIK(e.CIK)
		}
		c.log.WithField("tickers", len(c.tickers)).Info("ticker table loaded")
	}

	cik, ok := c.tickers[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTicker, ticker)
	}
	return cik, nil
}

type submissionsResponse struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

func pick(col []string, i int) string {
	if i < len(col) {
		return col[i]
	}
	return ""
}

// Filings returns the company name and its most recent filings, newest
// first, capped at MaxFilings.
func (c *Client) Filings(ctx context.Context, cik string) (*Submissions, error) {
	var sr submissionsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.BaseURL, cik), &sr); err != nil {
		return nil, err
	}

	recent := sr.Filings.Recent
	filings := make([]Filing, 0, len(recent.Form))
	for i := range recent.Form {
		filings = append(filings, Filing{
			Form:            recent.Form[i],
			FilingDate:      pick(recent.FilingDate, i),
			ReportDate:      pick(recent.ReportDate, i),
			AccessionNumber: pick(recent.AccessionNumber, i),
			PrimaryDocument: pick(recent.PrimaryDocument, i),
		})
	}
	// ISO dates sort lexically.
	sort.SliceStable(filings, func(i, j int) bool { return filings[i].FilingDate > filings[j].FilingDate })
	if c.MaxFilings > 0 && len(filings) > c.MaxFilings {
		filings = filings[:c.MaxFilings]
	}

	return &Submissions{CIK: cik, Name: sr.Name, Tickers: sr.Tickers, Filings: filings}, nil
}

type factUnit struct {
	Val   float64 `json:"val"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	End   string  `json:"end"`
	Filed string  `json:"filed"`
}

type companyFactsResponse struct {
	Facts struct {
		USGAAP map[string]struct {
			Units map[string][]factUnit `json:"units"`
		} `json:"us-gaap"`
	} `json:"facts"`
}

var revenueConcepts = []string{"Revenues", "RevenueFromContractWithCustomerExcludingAssessedTax"}

// Facts returns headline figures from the latest annual report.
func (c *Client) Facts(ctx context.Context, cik string) (*Financials, error) {
	var cf companyFactsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.BaseURL, cik), &cf); err != nil {
		return nil, err
	}

	latest := func(concept string) *Fact {
		entry, ok := cf.Facts.USGAAP[concept]
		if !ok {
			return nil
		}
		var best *Fact
		for _, u := range entry.Units["USD"] {
			if u.Form != "10-K" || u.FP != "FY" {
				continue
			}
			if best == nil || u.End > best.End || (u.End == best.End && u.Filed > best.Filed) {
				best = &Fact{Concept: concept, Value: u.Val, FY: u.FY, End: u.End, Filed: u.Filed}
			}
		}
		return best
	}

	fin := &Financials{
		NetIncome:       latest("NetIncomeLoss"),
		OperatingIncome: latest("OperatingIncomeLoss"),
	}
	for _, concept := range revenueConcepts {
		f := latest(concept)
		if f != nil && (fin.Revenue == nil || f.End > fin.Revenue.End) {
			fin.Revenue = f
		}
	}
	return fin, nil
}
