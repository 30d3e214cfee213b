package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"StockLens/internal/model"
)

// FormatValue renders v with two decimals, or "N/A" when it is missing.
func FormatValue(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatPercent renders a percentage value such as 1.234 as "1.23%".
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatMarketCap abbreviates large dollar amounts with T, B or M.
func FormatMarketCap(v float64) string {
	switch {
	case math.IsNaN(v):
		return "N/A"
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatSnapshot renders an indicator snapshot as a Telegram HTML message.
func FormatSnapshot(s *model.IndicatorSnapshot) string {
	if s == nil {
		return "No data available."
	}
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n\n", html.EscapeString(s.Symbol), s.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Price: %.2f\n", s.Price))
	b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s | SMA200: %s\n",
		FormatValue(s.SMA20), FormatValue(s.SMA50), FormatValue(s.SMA200)))
	if s.Trend50 != "" {
		b.WriteString(fmt.Sprintf("Trend: %s SMA50\n", s.Trend50))
	}

	b.WriteString(fmt.Sprintf("\nRSI(14): %s", FormatValue(s.RSI)))
	if s.RSIZone != "" {
		b.WriteString(fmt.Sprintf(" (%s)", s.RSIZone))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("MACD: %s | Signal: %s | Hist: %s\n",
		FormatValue(s.MACD), FormatValue(s.MACDSignal), FormatValue(s.MACDHistogram)))

	b.WriteString(fmt.Sprintf("\n52w range: %.2f - %.2f (at %s)\n", s.Low52w, s.High52w, FormatPercent(s.Range52wPosition*100)))
	if s.VolumeSMA != nil {
		b.WriteString(fmt.Sprintf("Avg volume (20d): %.0f\n", *s.VolumeSMA))
	}
	return b.String()
}

// FormatAlert renders an RSI zone change for one symbol.
func FormatAlert(s *model.IndicatorSnapshot, previousZone string) string {
	icon := "⚪"
	switch s.RSIZone {
	case model.ZoneOverbought:
		icon = "🔴"
	case model.ZoneOversold:
		icon = "🟢"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s RSI %s</b>\n\n", icon, html.EscapeString(s.Symbol), strings.ToUpper(s.RSIZone)))
	b.WriteString(fmt.Sprintf("RSI(14): %s", FormatValue(s.RSI)))
	if previousZone != "" {
		b.WriteString(fmt.Sprintf(" (was %s)", previousZone))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Price: %.2f | SMA50: %s\n", s.Price, FormatValue(s.SMA50)))
	b.WriteString(fmt.Sprintf("As of %s", s.AsOf.Format("2006-01-02")))
	return b.String()
}

// FormatOverview renders company fundamentals.
func FormatOverview(o *model.CompanyOverview) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏢 <b>%s</b> (%s)\n", html.EscapeString(o.Name), html.EscapeString(o.Symbol)))
	if o.Sector != "" {
		b.WriteString(fmt.Sprintf("%s / %s\n", html.EscapeString(o.Sector), html.EscapeString(o.Industry)))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Market cap: %s\n", FormatMarketCap(o.MarketCapitalization)))
	b.WriteString(fmt.Sprintf("P/E: %.2f | EPS: %.2f | Beta: %.2f\n", o.PERatio, o.EPS, o.Beta))
	b.WriteString(fmt.Sprintf("Dividend yield: %s\n", FormatPercent(o.DividendYield*100)))
	b.WriteString(fmt.Sprintf("Profit margin: %s\n", FormatPercent(o.ProfitMargin*100)))
	return b.String()
}
