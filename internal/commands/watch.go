package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"StockLens/internal/logger"
	"StockLens/internal/notifier"
	"StockLens/internal/scheduler"
)

var watchRunNow bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run only the watchlist scheduler and Telegram commands",
	Long: `Refresh the configured watchlist on schedule.refresh_cron and send a
Telegram alert whenever a ticker's RSI enters the overbought (> 70) or
oversold (< 30) zone. When Telegram is configured the bot also answers
/rsi SYMBOL, /overview SYMBOL, /watchlist and /refresh.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchRunNow, "run-now", false, "refresh the watchlist once at startup")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(a.cfg.Schedule.Watchlist) == 0 {
		return fmt.Errorf("schedule.watchlist is empty, nothing to watch")
	}

	n := notifier.New(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.log)
	sched := scheduler.NewScheduler(ctx, a.collector, n, a.cfg.Schedule.Watchlist, a.cfg.Schedule.Market, a.log, a.metrics)
	if err := sched.RegisterAll(a.cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn, ok := n.(*notifier.TelegramNotifier); ok {
		go tn.StartPolling(ctx, sched.HandleCommand)
	}
	if watchRunNow {
		go sched.RunNow()
	}

	logger.WithComponent(a.log, "app").Info("StockLens is watching. Press Ctrl+C to stop.")
	<-ctx.Done()
	logger.WithComponent(a.log, "app").Info("shutdown signal received, stopping...")
	return nil
}
