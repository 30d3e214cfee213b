package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
)

const helpText = `Available commands:
• /rsi SYMBOL - current indicators
• /overview SYMBOL - company fundamentals
• /watchlist - RSI zone of every watched symbol
• /refresh - refresh the watchlist now`

// HandleCommand processes a chat command and returns the reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Strip a bot mention such as /rsi@StockLensBot.
	name := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])

	switch name {
	case "/rsi", "/snapshot":
		if len(fields) < 2 {
			return "Usage: /rsi SYMBOL"
		}
		snap, err := s.Source.Snapshot(ctx, fields[1])
		if err != nil {
			return s.errorReply(fields[1], err)
		}
		return notifier.FormatSnapshot(snap)
	case "/overview":
		if len(fields) < 2 {
			return "Usage: /overview SYMBOL"
		}
		ov, ok := s.Source.(OverviewSource)
		if !ok {
			return s.errorReply(fields[1], collector.ErrUnsupported)
		}
		o, err := ov.Overview(ctx, fields[1])
		if err != nil {
			return s.errorReply(fields[1], err)
		}
		return notifier.FormatOverview(o)
	case "/watchlist":
		return s.formatWatchlist()
	case "/refresh":
		go s.RunNow()
		return "Refreshing watchlist..."
	default:
		return helpText
	}
}

// errorReply turns err into a short chat message. Details stay in the log.
func (s *Scheduler) errorReply(symbol string, err error) string {
	s.log.WithField("symbol", symbol).WithError(err).Warn("command failed")

	reason := "data source unavailable"
	switch {
	case errors.Is(err, collector.ErrInvalidSymbol):
		reason = "invalid symbol"
	case errors.Is(err, collector.ErrNoData):
		reason = "no data"
	case errors.Is(err, collector.ErrUnsupported):
		reason = "not supported by data source"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "data source timed out"
	}
	return fmt.Sprintf("❌ %s: %s", html.EscapeString(strings.ToUpper(symbol)), reason)
}

func (s *Scheduler) formatWatchlist() string {
	if len(s.Watchlist) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString("👀 <b>Watchlist</b>\n\n")
	for _, sym := range s.Watchlist {
		zone, ok := s.LastZone(sym)
		if !ok {
			zone = "not refreshed yet"
		}
		icon := "⚪"
		switch zone {
		case model.ZoneOverbought:
			icon = "🔴"
		case model.ZoneOversold:
			icon = "🟢"
		}
		b.WriteString(fmt.Sprintf("%s %s: %s\n", icon, html.EscapeString(sym), zone))
	}
	return b.String()
}
