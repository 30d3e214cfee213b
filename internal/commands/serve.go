package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockLens/internal/edgar"
	"StockLens/internal/logger"
	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"
	"StockLens/internal/server"
)

var serveNoWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the watchlist scheduler",
	Long: `Start the HTTP API used by the dashboard:

  GET /api/health
  GET /api/stocks/:symbol/indicators
  GET /api/stocks/:symbol/series
  GET /api/stocks/:symbol/overview
  GET /api/stocks/:symbol/news
  GET /api/stocks/:symbol/filings
  GET /metrics

When a watchlist is configured the RSI alert scheduler runs alongside.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not start the watchlist scheduler")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ed := edgar.NewClient(a.cfg.Edgar.BaseURL, a.cfg.Edgar.UserAgent, a.cfg.Proxy, a.log)
	srv := server.New(a.collector, ed, a.cache.Name(), a.cfg.Server.CORSOrigin, a.log, a.metrics)

	if !serveNoWatch && len(a.cfg.Schedule.Watchlist) > 0 {
		n := notifier.New(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
		sched := scheduler.NewScheduler(ctx, a.collector, n, a.cfg.Schedule.Watchlist, a.cfg.Schedule.Market, a.log, a.metrics)
		if err := sched.RegisterAll(a.cfg.Schedule.RefreshCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(a.cfg.Server.Addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.WithComponent(a.log, "app").Info("shutdown signal received, stopping...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
