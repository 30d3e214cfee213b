package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockLens/internal/cache"
	"StockLens/internal/collector"
	"StockLens/internal/edgar"
	"StockLens/internal/logger"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

var testEnd = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, f collector.Fetcher, ed *edgar.Client) *Server {
	t.Helper()
	log := logger.Discard()
	m := metrics.New()
	col := collector.NewCollector(f, nil, cache.NewMemoryCache(), time.Minute, 260, log, m)
	return New(col, ed, "memory", "http://localhost:5173", log, m)
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{End: testEnd}, nil)
	rec := do(t, s, http.MethodGet, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" || body["cache"] != "memory" || body["source"] != "mock" {
		t.Errorf("body = %v", body)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("CORS origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{End: testEnd}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{End: testEnd}, nil)
	rec := do(t, s, http.MethodOptions, "/api/stocks/AAPL/indicators")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestIndicators(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{End: testEnd}, nil)
	rec := do(t, s, http.MethodGet, "/api/stocks/aapl/indicators")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var raw map[string]interface{}
	decode(t, rec, &raw)
	for _, key := range []string{"symbol", "price", "sma20", "sma50", "sma200", "rsi", "macd", "macdSignal", "macdHistogram", "volumeSMA"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if raw["symbol"] != "AAPL" {
		t.Errorf("symbol = %v", raw["symbol"])
	}
	if raw["sma200"] == nil {
		t.Error("sma200 is null with 260 bars")
	}
}

func TestIndicators_ShortHistoryHasNullFields(t *testing.T) {
	bars := make([]model.PriceBar, 30)
	for i := range bars {
		bars[i] = model.PriceBar{Date: testEnd.AddDate(0, 0, i-30), Close: 100 + float64(i), Volume: 1000}
	}
	s := newTestServer(t, &collector.MockFetcher{Bars: bars}, nil)
	rec := do(t, s, http.MethodGet, "/api/stocks/NEWCO/indicators")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var raw map[string]interface{}
	decode(t, rec, &raw)
	if raw["sma50"] != nil || raw["macd"] != nil {
		t.Errorf("sma50=%v macd=%v, want null", raw["sma50"], raw["macd"])
	}
	if raw["sma20"] == nil {
		t.Error("sma20 should be present with 30 bars")
	}
}

func TestIndicators_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher collector.Fetcher
		path    string
		want    int
		wantMsg string
	}{
		{"empty history", &collector.MockFetcher{Bars: []model.PriceBar{}}, "/api/stocks/NEWCO/indicators", http.StatusNotFound, "no data"},
		{"invalid symbol", &collector.MockFetcher{}, "/api/stocks/TOOLONGTICKER/indicators", http.StatusBadRequest, "invalid symbol"},
		{"upstream error", &collector.MockFetcher{Err: fmt.Errorf("%w: throttled", collector.ErrProviderMessage)}, "/api/stocks/AAPL/indicators", http.StatusBadGateway, "data source unavailable"},
		{"upstream timeout", &collector.MockFetcher{Err: context.DeadlineExceeded}, "/api/stocks/AAPL/indicators", http.StatusGatewayTimeout, "timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.fetcher, nil)
			rec := do(t, s, http.MethodGet, tt.path)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			decode(t, rec, &body)
			if !strings.Contains(body["error"], tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestIndicators_UpstreamErrorHidesAPIKey(t *testing.T) {
	f := collector.NewAlphaVantageFetcher("SECRET-KEY-123", "http://127.0.0.1:1/query", "", logger.Discard())
	defer f.Close()
	s := newTestServer(t, f, nil)

	rec := do(t, s, http.MethodGet, "/api/stocks/IBM/indicators")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if body := rec.Body.String(); strings.Contains(body, "SECRET-KEY-123") || strings.Contains(body, "127.0.0.1") {
		t.Errorf("response exposes request details: %s", body)
	}
}

func TestSeries(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{End: testEnd}, nil)
	rec := do(t, s, http.MethodGet, "/api/stocks/MSFT/series")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Indicators model.IndicatorSeries `json:"indicators"`
		Bars       []model.PriceBar      `json:"bars"`
		Source     string                `json:"source"`
	}
	decode(t, rec, &body)
	if len(body.Bars) != 260 || len(body.Indicators.Closes) != 260 || body.Source != "mock" {
		t.Errorf("bars=%d closes=%d source=%s", len(body.Bars), len(body.Indicators.Closes), body.Source)
	}
	if body.Indicators.SMA200.Offset != 199 {
		t.Errorf("sma200 offset = %d, want 199", body.Indicators.SMA200.Offset)
	}
}

func TestOverviewAndNews(t *testing.T) {
	f := &collector.MockFetcher{
		End:      testEnd,
		Overview: &model.CompanyOverview{Symbol: "IBM", Name: "IBM Corp", MarketCapitalization: 170e9},
		News:     []model.NewsItem{{Title: "one"}, {Title: "two"}, {Title: "three"}},
	}
	s := newTestServer(t, f, nil)

	rec := do(t, s, http.MethodGet, "/api/stocks/IBM/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("overview status = %d", rec.Code)
	}
	var o model.CompanyOverview
	decode(t, rec, &o)
	if o.Name != "IBM Corp" || o.MarketCapitalization != 170e9 {
		t.Errorf("overview = %+v", o)
	}

	rec = do(t, s, http.MethodGet, "/api/stocks/IBM/news?limit=2")
	var news []model.NewsItem
	decode(t, rec, &news)
	if rec.Code != http.StatusOK || len(news) != 2 {
		t.Errorf("news status=%d len=%d", rec.Code, len(news))
	}

	rec = do(t, s, http.MethodGet, "/api/stocks/IBM/news?limit=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
}

// barsOnly hides the optional interfaces of the mock fetcher.
type barsOnly struct{ collector.Fetcher }

func TestOverview_Unsupported(t *testing.T) {
	s := newTestServer(t, barsOnly{&collector.MockFetcher{}}, nil)
	rec := do(t, s, http.MethodGet, "/api/stocks/IBM/overview")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func newEdgarStub(t *testing.T) *edgar.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"0": {"cik_str": 51143, "ticker": "IBM", "title": "IBM"}}`)
	})
	mux.HandleFunc("/submissions/CIK0000051143.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "IBM", "filings": {"recent": {"form": ["10-K"], "filingDate": ["2024-02-26"], "accessionNumber": ["0000051143-24-000010"]}}}`)
	})
	mux.HandleFunc("/api/xbrl/companyfacts/CIK0000051143.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"facts": {"us-gaap": {"NetIncomeLoss": {"units": {"USD": [{"val": 7.5e9, "fy": 2023, "fp": "FY", "form": "10-K", "end": "2023-12-31"}]}}}}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := edgar.NewClient(srv.URL, "StockLens test@example.com", "", logger.Discard())
	c.TickersURL = srv.URL + "/files/company_tickers.json"
	return c
}

func TestFilings(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{}, newEdgarStub(t))

	rec := do(t, s, http.MethodGet, "/api/stocks/ibm/filings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		CIK        string         `json:"cik"`
		Name       string         `json:"name"`
		Filings    []edgar.Filing `json:"filings"`
		Financials struct {
			NetIncome *edgar.Fact `json:"netIncome"`
		} `json:"financials"`
	}
	decode(t, rec, &body)
	if body.CIK != "0000051143" || len(body.Filings) != 1 || body.Filings[0].Form != "10-K" {
		t.Errorf("body = %+v", body)
	}
	if body.Financials.NetIncome == nil || body.Financials.NetIncome.Value != 7.5e9 {
		t.Errorf("net income = %+v", body.Financials.NetIncome)
	}

	rec = do(t, s, http.MethodGet, "/api/stocks/NOPE/filings")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown ticker status = %d, want 404", rec.Code)
	}
}

func TestFilings_NotConfigured(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{}, nil)
	if rec := do(t, s, http.MethodGet, "/api/stocks/IBM/filings"); rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &collector.MockFetcher{End: testEnd}, nil)
	do(t, s, http.MethodGet, "/api/stocks/AAPL/indicators")
	do(t, s, http.MethodGet, "/api/stocks/AAPL/indicators")

	rec := do(t, s, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`stocklens_http_requests_total{route="/api/stocks/:symbol/indicators",status="200"} 2`,
		`stocklens_cache_results_total{result="hit"} 1`,
		`stocklens_cache_results_total{result="miss"} 1`,
		"stocklens_snapshot_compute_seconds_count",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
