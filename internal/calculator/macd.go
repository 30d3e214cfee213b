package calculator

// MACDResult holds index-aligned MACD, signal and histogram values.
// Offset is the index into the input closes of element 0.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
	Offset    int
}

// Len returns the number of aligned points.
func (r MACDResult) Len() int { return len(r.Line) }

// MACD computes the moving average convergence divergence of closes.
//
// The fast and slow EMAs start at different input indices, so the fast EMA is
// trimmed until both end on the newest close and have equal length before
// they are subtracted. The MACD line is then trimmed to the range covered by
// its signal EMA so that Histogram[i] == Line[i] - Signal[i] for every i.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	if fast < 1 || signal < 1 || fast >= slow {
		return MACDResult{}
	}
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	if len(slowEMA) == 0 {
		return MACDResult{}
	}

	fastEMA = alignTail(fastEMA, len(slowEMA))
	line := make([]float64, len(slowEMA))
	for i := range slowEMA {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	sig := EMA(line, signal)
	if len(sig) == 0 {
		return MACDResult{}
	}
	line = alignTail(line, len(sig))

	hist := make([]float64, len(sig))
	for i := range sig {
		hist[i] = line[i] - sig[i]
	}
	return MACDResult{
		Line:      line,
		Signal:    sig,
		Histogram: hist,
		Offset:    len(closes) - len(sig),
	}
}

// alignTail returns the newest n values of s. Both slices produced from the
// same input end on the same element, so trimming the head aligns them.
func alignTail(s []float64, n int) []float64 {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
