package calculator

import "StockLens/internal/model"

// RSI computes the Wilder-smoothed relative strength index of closes.
//
// The first value is seeded from the average gain and loss of the first period
// price changes. When exactly period closes are given only period-1 changes
// exist, and the seed averages over those. Each later change is folded in with
// Wilder smoothing and yields one more value, so the result has
// max(1, len(closes)-period) elements once len(closes) >= period.
//
// A flat window reports 50 and a window without losses reports 100; the
// result never contains NaN.
func RSI(closes []float64, period int) []float64 {
	if period < 1 || len(closes) < 2 || len(closes) < period {
		return nil
	}

	seedChanges := period
	if len(closes)-1 < seedChanges {
		seedChanges = len(closes) - 1
	}

	var avgGain, avgLoss float64
	for i := 1; i <= seedChanges; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(seedChanges)
	avgLoss /= float64(seedChanges)

	out := make([]float64, 0, len(closes)-seedChanges)
	out = append(out, rsiValue(avgGain, avgLoss))

	p := float64(period)
	for i := seedChanges + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out
}

// LatestRSI returns the newest RSI value, or false when there is too little history.
func LatestRSI(closes []float64, period int) (float64, bool) {
	return last(RSI(closes, period))
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50
	case avgLoss == 0:
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// RSIZone classifies an RSI reading as overbought (> 70), oversold (< 30) or neutral.
func RSIZone(rsi float64) string {
	switch {
	case rsi > 70:
		return model.ZoneOverbought
	case rsi < 30:
		return model.ZoneOversold
	default:
		return model.ZoneNeutral
	}
}
