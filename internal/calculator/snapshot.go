package calculator

import (
	"time"

	"StockLens/internal/model"
)

// Default indicator periods.
const (
	ShortSMAPeriod  = 20
	MediumSMAPeriod = 50
	LongSMAPeriod   = 200
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	VolumeSMAPeriod = 20
)

// Snapshot computes the newest value of every indicator for series.
// It returns nil for an empty series. Individual fields are nil when the
// history is too short for that indicator.
func Snapshot(series model.PriceSeries) *model.IndicatorSnapshot {
	latest, ok := series.Latest()
	if !ok {
		return nil
	}
	closes := series.Closes()

	snap := &model.IndicatorSnapshot{
		Symbol:    series.Symbol,
		AsOf:      latest.Date,
		Price:     latest.Close,
		SMA20:     lastPtr(SMA(closes, ShortSMAPeriod)),
		SMA50:     lastPtr(SMA(closes, MediumSMAPeriod)),
		SMA200:    lastPtr(SMA(closes, LongSMAPeriod)),
		VolumeSMA: lastPtr(SMA(series.Volumes(), VolumeSMAPeriod)),
	}

	if rsi, ok := LatestRSI(closes, RSIPeriod); ok {
		snap.RSI = &rsi
	}

	macd := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	snap.MACD = lastPtr(macd.Line)
	snap.MACDSignal = lastPtr(macd.Signal)
	snap.MACDHistogram = lastPtr(macd.Histogram)

	if high, low, err := PriceRange(series.Bars, TradingDaysPerYear); err == nil {
		snap.High52w = high
		snap.Low52w = low
		if pos, err := RangePosition(latest.Close, high, low); err == nil {
			snap.Range52wPosition = pos
		}
	}
	if snap.RSI != nil {
		snap.RSIZone = RSIZone(*snap.RSI)
	}
	if snap.SMA50 != nil {
		snap.Trend50 = "below"
		if latest.Close > *snap.SMA50 {
			snap.Trend50 = "above"
		}
	}
	return snap
}

// Series computes every indicator over the whole history for charting.
// It returns nil for an empty series.
func Series(series model.PriceSeries) *model.IndicatorSeries {
	n := series.Len()
	if n == 0 {
		return nil
	}
	closes := series.Closes()
	dates := make([]time.Time, n)
	for i, b := range series.Bars {
		dates[i] = b.Date
	}

	out := &model.IndicatorSeries{
		Symbol:    series.Symbol,
		Dates:     dates,
		Closes:    closes,
		SMA20:     tailLine(n, SMA(closes, ShortSMAPeriod)),
		SMA50:     tailLine(n, SMA(closes, MediumSMAPeriod)),
		SMA200:    tailLine(n, SMA(closes, LongSMAPeriod)),
		RSI:       tailLine(n, RSI(closes, RSIPeriod)),
		VolumeSMA: tailLine(n, SMA(series.Volumes(), VolumeSMAPeriod)),
	}
	macd := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	out.MACD = tailLine(n, macd.Line)
	out.MACDSignal = tailLine(n, macd.Signal)
	out.MACDHistogram = tailLine(n, macd.Histogram)
	return out
}

// tailLine wraps values that end on the newest of n inputs.
func tailLine(n int, values []float64) model.Line {
	if len(values) == 0 {
		return model.Line{Offset: n}
	}
	return model.Line{Offset: n - len(values), Values: values}
}

func lastPtr(values []float64) *float64 {
	v, ok := last(values)
	if !ok {
		return nil
	}
	return &v
}
