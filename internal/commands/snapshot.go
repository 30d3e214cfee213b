package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"StockLens/internal/model"
	"StockLens/internal/notifier"
)

var snapshotJSON bool

var snapshotCmd = &cobra.Command{
	Use:   "snapshot SYMBOL",
	Short: "Print the current indicators for a ticker",
	Example: `  stocklens snapshot AAPL
  stocklens snapshot msft --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print JSON instead of text")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.collector.Snapshot(ctx, args[0])
	if err != nil {
		return err
	}
	return printSnapshot(snap, snapshotJSON)
}

func printSnapshot(snap *model.IndicatorSnapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	fmt.Printf("%s  %s  price %.2f\n", snap.Symbol, snap.AsOf.Format("2006-01-02"), snap.Price)
	fmt.Printf("  SMA20 %s  SMA50 %s  SMA200 %s  (%s SMA50)\n",
		notifier.FormatValue(snap.SMA20), notifier.FormatValue(snap.SMA50), notifier.FormatValue(snap.SMA200), snap.Trend50)
	fmt.Printf("  RSI14 %s  %s\n", notifier.FormatValue(snap.RSI), snap.RSIZone)
	fmt.Printf("  MACD %s  signal %s  hist %s\n",
		notifier.FormatValue(snap.MACD), notifier.FormatValue(snap.MACDSignal), notifier.FormatValue(snap.MACDHistogram))
	fmt.Printf("  52w %.2f - %.2f (%s of range)  avg volume %s\n", snap.Low52w, snap.High52w,
		notifier.FormatPercent(snap.Range52wPosition*100), notifier.FormatValue(snap.VolumeSMA))
	return nil
}
