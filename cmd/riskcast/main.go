package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd is the base command for the riskcast CLI
var rootCmd = &cobra.Command{
	Use:   "riskcast",
	Short: "riskcast scenario-conditioned portfolio risk engine",
	Long: `riskcast estimates the distribution of future portfolio value under
historical, scenario-adjusted market dynamics and reports tail-risk
statistics (VaR, Expected Shortfall, drawdown measures) from the simulated
ensemble.

Example usage:
  riskcast analyze --prices prices.csv --portfolio portfolio.csv
  riskcast analyze --sample --prices prices.csv --scenario "Market Crash"
  riskcast scenarios`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scenariosCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
