package model

import (
	"sort"
	"time"
)

// PriceBar represents a single trading day.
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adjClose,omitempty"`
}

// PriceSeries holds daily bars for one symbol, oldest first.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Bars      []PriceBar `json:"bars"`
	Source    string     `json:"source"`
	FetchedAt time.Time  `json:"fetchedAt"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close column.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes returns the volume column as float64.
func (s PriceSeries) Volumes() []float64 {
	vols := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		vols[i] = float64(b.Volume)
	}
	return vols
}

// Latest returns the newest bar, or false when the series is empty.
func (s PriceSeries) Latest() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// NormalizeBars returns a copy of bars sorted oldest first with one bar per
// calendar date. When a date repeats, the bar appearing last in the input wins.
func NormalizeBars(bars []PriceBar) []PriceBar {
	if len(bars) == 0 {
		return nil
	}
	byDate := make(map[string]int, len(bars))
	out := make([]PriceBar, 0, len(bars))
	for _, b := range bars {
		key := b.Date.UTC().Format("2006-01-02")
		if idx, ok := byDate[key]; ok {
			out[idx] = b
			continue
		}
		byDate[key] = len(out)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
