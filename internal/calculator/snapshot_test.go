package calculator

import (
	"testing"

	"StockLens/internal/model"
)

func TestSnapshot_EmptySeries(t *testing.T) {
	if snap := Snapshot(model.PriceSeries{Symbol: "EMPTY"}); snap != nil {
		t.Errorf("expected nil snapshot, got %+v", snap)
	}
}

func TestSnapshot_ShortHistory(t *testing.T) {
	series := seriesOf(linear(100, 1, 30)...)
	snap := Snapshot(series)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.SMA20 == nil || snap.RSI == nil || snap.VolumeSMA == nil {
		t.Errorf("expected SMA20, RSI and volume SMA, got %+v", snap)
	}
	if snap.SMA50 != nil || snap.SMA200 != nil {
		t.Error("expected SMA50 and SMA200 to be unset with 30 bars")
	}
	if snap.MACD != nil || snap.MACDSignal != nil || snap.MACDHistogram != nil {
		t.Error("expected MACD fields to be unset with 30 bars")
	}
	if snap.Trend50 != "" {
		t.Errorf("expected empty trend without SMA50, got %q", snap.Trend50)
	}
	assertClose(t, "price", snap.Price, 129, 1e-9)
	// newest 20 closes are 110..129
	assertClose(t, "SMA20", *snap.SMA20, 119.5, 1e-9)
	// volumes 1010..1029
	assertClose(t, "volume SMA", *snap.VolumeSMA, 1019.5, 1e-9)
	if *snap.RSI != 100 || snap.RSIZone != model.ZoneOverbought {
		t.Errorf("expected RSI 100 overbought, got %v %q", *snap.RSI, snap.RSIZone)
	}
	if !snap.AsOf.Equal(series.Bars[29].Date) {
		t.Errorf("AsOf %v, want newest bar date %v", snap.AsOf, series.Bars[29].Date)
	}
}

func TestSnapshot_ConstantSeries(t *testing.T) {
	snap := Snapshot(seriesOf(constant(80, 260)...))
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	for name, v := range map[string]*float64{"sma20": snap.SMA20, "sma50": snap.SMA50, "sma200": snap.SMA200} {
		if v == nil || *v != 80 {
			t.Errorf("%s: expected 80, got %v", name, v)
		}
	}
	if snap.RSI == nil || *snap.RSI != 50 {
		t.Errorf("expected neutral RSI 50, got %v", snap.RSI)
	}
	if snap.MACD == nil || *snap.MACD != 0 || *snap.MACDHistogram != 0 {
		t.Errorf("expected zero MACD, got %v / %v", snap.MACD, snap.MACDHistogram)
	}
	if snap.RSIZone != model.ZoneNeutral {
		t.Errorf("expected neutral zone, got %q", snap.RSIZone)
	}
	if snap.Trend50 != "below" {
		t.Errorf("price equal to SMA50 should report below, got %q", snap.Trend50)
	}
	assertClose(t, "high52w", snap.High52w, 81, 1e-9)
	assertClose(t, "low52w", snap.Low52w, 79, 1e-9)
	assertClose(t, "range52wPosition", snap.Range52wPosition, 0.5, 1e-9)
}

func TestSnapshot_MatchesSeriesTail(t *testing.T) {
	closes := make([]float64, 220)
	for i := range closes {
		closes[i] = 100 + float64(i%17) - float64(i%7)*0.5 + float64(i)*0.05
	}
	series := seriesOf(closes...)
	snap := Snapshot(series)
	full := Series(series)

	checks := []struct {
		name string
		got  *float64
		line model.Line
	}{
		{"sma20", snap.SMA20, full.SMA20},
		{"sma50", snap.SMA50, full.SMA50},
		{"sma200", snap.SMA200, full.SMA200},
		{"rsi", snap.RSI, full.RSI},
		{"macd", snap.MACD, full.MACD},
		{"macdSignal", snap.MACDSignal, full.MACDSignal},
		{"macdHistogram", snap.MACDHistogram, full.MACDHistogram},
		{"volumeSMA", snap.VolumeSMA, full.VolumeSMA},
	}
	for _, c := range checks {
		if c.got == nil || len(c.line.Values) == 0 {
			t.Errorf("%s: missing value", c.name)
			continue
		}
		if *c.got != c.line.Values[len(c.line.Values)-1] {
			t.Errorf("%s: snapshot %v != series tail %v", c.name, *c.got, c.line.Values[len(c.line.Values)-1])
		}
		if c.line.Offset+len(c.line.Values) != len(full.Dates) {
			t.Errorf("%s: offset %d + %d values does not end on newest date", c.name, c.line.Offset, len(c.line.Values))
		}
	}
}

func TestSeries_Offsets(t *testing.T) {
	full := Series(seriesOf(linear(10, 1, 60)...))
	tests := []struct {
		name   string
		line   model.Line
		offset int
	}{
		{"sma20", full.SMA20, 19},
		{"sma50", full.SMA50, 49},
		{"sma200", full.SMA200, 60},
		{"rsi", full.RSI, 14},
		{"macd", full.MACD, 33},
		{"volumeSMA", full.VolumeSMA, 19},
	}
	for _, tt := range tests {
		if tt.line.Offset != tt.offset {
			t.Errorf("%s: offset %d, want %d", tt.name, tt.line.Offset, tt.offset)
		}
	}
	if len(full.SMA200.Values) != 0 {
		t.Errorf("expected no SMA200 values for 60 bars")
	}
	if Series(model.PriceSeries{}) != nil {
		t.Error("expected nil series for empty input")
	}
}

func TestPriceRange(t *testing.T) {
	bars := seriesOf(10, 14, 9, 12, 20, 11).Bars

	high, low, err := PriceRange(bars, 3)
	if err != nil {
		t.Fatal(err)
	}
	// newest three closes 12, 20, 11 with +/-1 high/low
	assertClose(t, "high", high, 21, 1e-9)
	assertClose(t, "low", low, 10, 1e-9)

	high, low, _ = PriceRange(bars, TradingDaysPerYear)
	assertClose(t, "full high", high, 21, 1e-9)
	assertClose(t, "full low", low, 8, 1e-9)

	if _, _, err := PriceRange(nil, 10); err != ErrNoBars {
		t.Errorf("expected ErrNoBars, got %v", err)
	}
	if _, _, err := PriceRange(bars, 0); err != ErrInvalidPeriod {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low float64
		want               float64
	}{
		{150, 200, 100, 0.5},
		{100, 100, 100, 0.5},
		{250, 200, 100, 1},
		{50, 200, 100, 0},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, "position", got, tt.want, 1e-9)
	}
	if _, err := RangePosition(1, 1, 2); err == nil {
		t.Error("expected error when high < low")
	}
}
