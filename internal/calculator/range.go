package calculator

import (
	"errors"
	"math"

	"StockLens/internal/model"
)

// TradingDaysPerYear is the lookback used for 52-week figures.
const TradingDaysPerYear = 252

var (
	ErrNoBars        = errors.New("no price bars provided")
	ErrInvalidPeriod = errors.New("lookback must be positive")
)

// PriceRange scans the newest lookback bars and returns their highest high and lowest low.
func PriceRange(bars []model.PriceBar, lookback int) (high, low float64, err error) {
	if lookback <= 0 {
		return 0, 0, ErrInvalidPeriod
	}
	if len(bars) == 0 {
		return 0, 0, ErrNoBars
	}
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// RangePosition returns where current sits between low and high, clamped to 0.0~1.0.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Max(0, math.Min(1, pos)), nil
}
