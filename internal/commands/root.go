package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stocklens",
	Short: "Technical indicators and company data for stock tickers",
	Long: `StockLens fetches daily price history, computes SMA, EMA, RSI and MACD
indicators, and serves them over an HTTP API for the dashboard.

It can also watch a list of tickers on a schedule and send a Telegram
alert when a ticker's RSI enters the overbought or oversold zone.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	def := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		def = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", def, "path to the YAML config file")
}
