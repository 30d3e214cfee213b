package model

import "time"

// RSI zones used by the dashboard and the alert scheduler.
const (
	ZoneOverbought = "overbought"
	ZoneOversold   = "oversold"
	ZoneNeutral    = "neutral"
)

// IndicatorSnapshot holds the most recent value of every indicator.
// A nil field means the history was too short to compute it.
type IndicatorSnapshot struct {
	Symbol        string    `json:"symbol"`
	AsOf          time.Time `json:"asOf"`
	Price         float64   `json:"price"`
	SMA20         *float64  `json:"sma20"`
	SMA50         *float64  `json:"sma50"`
	SMA200        *float64  `json:"sma200"`
	RSI           *float64  `json:"rsi"`
	MACD          *float64  `json:"macd"`
	MACDSignal    *float64  `json:"macdSignal"`
	MACDHistogram *float64  `json:"macdHistogram"`
	VolumeSMA     *float64  `json:"volumeSMA"`

	High52w float64 `json:"high52w"`
	Low52w  float64 `json:"low52w"`
	// Range52wPosition places Price within the 52-week range, 0 at the low
	// and 1 at the high.
	Range52wPosition float64 `json:"range52wPosition"`
	RSIZone          string  `json:"rsiZone,omitempty"`
	Trend50          string  `json:"trend50,omitempty"` // "above" or "below" SMA50
}

// Line is one indicator series. Offset is the index into IndicatorSeries.Dates
// of Values[0].
type Line struct {
	Offset int       `json:"offset"`
	Values []float64 `json:"values"`
}

// IndicatorSeries is the full-history output used for charting.
type IndicatorSeries struct {
	Symbol        string      `json:"symbol"`
	Dates         []time.Time `json:"dates"`
	Closes        []float64   `json:"closes"`
	SMA20         Line        `json:"sma20"`
	SMA50         Line        `json:"sma50"`
	SMA200        Line        `json:"sma200"`
	RSI           Line        `json:"rsi"`
	MACD          Line        `json:"macd"`
	MACDSignal    Line        `json:"macdSignal"`
	MACDHistogram Line        `json:"macdHistogram"`
	VolumeSMA     Line        `json:"volumeSMA"`
}
