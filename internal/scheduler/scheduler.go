package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"StockLens/internal/metrics"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
)

// SnapshotSource computes the current indicator snapshot for a symbol.
// *collector.Collector satisfies it.
type SnapshotSource interface {
	Snapshot(ctx context.Context, symbol string) (*model.IndicatorSnapshot, error)
}

// OverviewSource returns company fundamentals. When the snapshot source also
// implements it the bot answers /overview.
type OverviewSource interface {
	Overview(ctx context.Context, symbol string) (*model.CompanyOverview, error)
}

// Scheduler refreshes the watchlist on a cron schedule and sends an alert
// whenever a symbol's RSI moves into a different zone.
type Scheduler struct {
	Cron      *cron.Cron
	Source    SnapshotSource
	Notifier  notifier.Notifier
	Watchlist []string
	Market    string // default MIC for symbols without an exchange suffix
	Ctx       context.Context

	log       *logrus.Entry
	metrics   *metrics.Metrics
	calendars calendars
	now       func() time.Time

	mu       sync.Mutex
	running  bool
	lastZone map[string]string
}

// NewScheduler creates a new Scheduler. m may be nil.
func NewScheduler(ctx context.Context, src SnapshotSource, n notifier.Notifier, watchlist []string, market string,
	log *logrus.Logger, m *metrics.Metrics) *Scheduler {
	if market == "" {
		market = "xnys"
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Source:    src,
		Notifier:  n,
		Watchlist: watchlist,
		Market:    market,
		Ctx:       ctx,
		log:       log.WithField("component", "scheduler"),
		metrics:   m,
		now:       time.Now,
		lastZone:  make(map[string]string),
	}
}

// RegisterAll registers the watchlist refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"cron":    refreshCron,
		"symbols": len(s.Watchlist),
	}).Info("refresh task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the refresh immediately, ignoring the trading calendar.
func (s *Scheduler) RunNow() {
	s.refresh(false)
}

func (s *Scheduler) refreshTask() {
	s.refresh(true)
}

func (s *Scheduler) refresh(checkCalendar bool) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn("previous refresh still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	now := s.now()
	s.log.WithField("symbols", len(s.Watchlist)).Info("running watchlist refresh")

	var refreshed, skipped, failed int
	for _, sym := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		mic := MICForSymbol(sym, s.Market)
		if checkCalendar && !s.calendars.get(mic).IsTradingDay(now) {
			s.log.WithFields(logrus.Fields{"symbol": sym, "market": mic}).Debug("market closed today, skipping")
			skipped++
			continue
		}

		snap, err := s.Source.Snapshot(s.Ctx, sym)
		if err != nil {
			s.log.WithField("symbol", sym).WithError(err).Error("refresh failed")
			failed++
			continue
		}
		refreshed++
		s.checkZone(snap)
	}

	s.log.WithFields(logrus.Fields{
		"refreshed": refreshed,
		"skipped":   skipped,
		"failed":    failed,
	}).Info("watchlist refresh done")
}

// checkZone alerts when RSI enters the overbought or oversold zone. A
// symbol that stays in the same zone across runs alerts only once.
func (s *Scheduler) checkZone(snap *model.IndicatorSnapshot) {
	if snap.RSI == nil || snap.RSIZone == "" {
		return
	}

	s.mu.Lock()
	prev := s.lastZone[snap.Symbol]
	s.lastZone[snap.Symbol] = snap.RSIZone
	s.mu.Unlock()

	if prev == snap.RSIZone {
		return
	}
	if snap.RSIZone == model.ZoneNeutral {
		if prev != "" {
			s.log.WithFields(logrus.Fields{"symbol": snap.Symbol, "was": prev}).Info("RSI back to neutral")
		}
		return
	}

	msg := notifier.FormatAlert(snap, prev)
	if err := s.Notifier.Send(s.Ctx, msg); err != nil {
		s.log.WithField("symbol", snap.Symbol).WithError(err).Error("send alert")
		// Forget the zone so the next refresh retries the alert.
		s.mu.Lock()
		if s.lastZone[snap.Symbol] == snap.RSIZone {
			if prev == "" {
				delete(s.lastZone, snap.Symbol)
			} else {
				s.lastZone[snap.Symbol] = prev
			}
		}
		s.mu.Unlock()
		return
	}
	s.metrics.AlertSent()
	s.log.WithFields(logrus.Fields{
		"symbol": snap.Symbol,
		"zone":   snap.RSIZone,
		"rsi":    *snap.RSI,
	}).Info("RSI zone alert sent")
}

// LastZone returns the RSI zone recorded for symbol on the latest refresh.
func (s *Scheduler) LastZone(symbol string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	z, ok := s.lastZone[symbol]
	return z, ok
}
