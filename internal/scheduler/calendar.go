package scheduler

import (
	"strings"
	"sync"
	"time"

	"github.com/scmhub/calendar"
)

// suffixMIC maps exchange ticker suffixes to ISO 10383 market codes.
var suffixMIC = map[string]string{
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".MI": "xmil",
	".MC": "xmad",
	".SW": "xswx",
	".TO": "xtse",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
}

// MICForSymbol returns the market a ticker trades on, or def when the
// ticker has no known exchange suffix.
func MICForSymbol(symbol, def string) string {
	if i := strings.LastIndex(symbol, "."); i > 0 {
		if mic, ok := suffixMIC[strings.ToUpper(symbol[i:])]; ok {
			return mic
		}
	}
	return def
}

// TradingCalendar answers whether a market trades on a given day. When the
// calendar for a market cannot be loaded it falls back to Monday to Friday.
type TradingCalendar struct {
	cal      *calendar.Calendar
	loc      *time.Location
	fallback bool
}

func newTradingCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		cal = calendar.GetCalendar("xnys")
	}
	if cal == nil {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			loc = time.UTC
		}
		return &TradingCalendar{loc: loc, fallback: true}
	}
	return &TradingCalendar{cal: cal, loc: cal.Loc}
}

// IsTradingDay reports whether t falls on a business day in the market's
// own time zone.
func (tc *TradingCalendar) IsTradingDay(t time.Time) bool {
	if tc.loc != nil {
		t = t.In(tc.loc)
	}
	if tc.fallback {
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.cal.IsBusinessDay(t)
}

// calendars lazily loads one TradingCalendar per market.
type calendars struct {
	mu    sync.Mutex
	byMIC map[string]*TradingCalendar
}

func (c *calendars) get(mic string) *TradingCalendar {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byMIC == nil {
		c.byMIC = make(map[string]*TradingCalendar)
	}
	tc, ok := c.byMIC[mic]
	if !ok {
		tc = newTradingCalendar(mic)
		c.byMIC[mic] = tc
	}
	return tc
}
