// Package calculator computes technical indicators over daily price history.
//
// Every function is pure: inputs are read-only, outputs are freshly allocated,
// and nothing is retained between calls. Input slices are ordered oldest first.
// Too little history yields an empty result rather than an error.
package calculator

// SMA returns the simple moving average of values over period.
// out[i] is the mean of values[i : i+period], so the result has
// len(values)-period+1 elements and its last element covers the newest window.
func SMA(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return nil
	}
	out := make([]float64, len(values)-period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[0] = sum / float64(period)
	for i := period; i < len(values); i++ {
		sum += values[i] - values[i-period]
		out[i-period+1] = sum / float64(period)
	}
	return out
}

// EMA returns the exponential moving average of values over period, seeded
// with the SMA of the first period values. out[0] is the seed and lines up
// with values[period-1].
func EMA(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return nil
	}
	k := 2.0 / float64(period+1)
	out := make([]float64, len(values)-period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	out[0] = seed / float64(period)

	for i := period; i < len(values); i++ {
		prev := out[i-period]
		out[i-period+1] = (values[i]-prev)*k + prev
	}
	return out
}

func last(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}
