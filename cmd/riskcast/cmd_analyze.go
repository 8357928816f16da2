package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quantlab-id/riskcast/internal/app/analysis"
	"github.com/quantlab-id/riskcast/internal/domain/portfolio"
	"github.com/quantlab-id/riskcast/internal/domain/risk"
	"github.com/quantlab-id/riskcast/internal/domain/scenario"
	"github.com/quantlab-id/riskcast/internal/infrastructure/marketdata"
	"github.com/quantlab-id/riskcast/internal/infrastructure/metrics"
)

var (
	analyzePrices      string
	analyzePortfolio   string
	analyzeSample      bool
	analyzeScenario    string
	analyzeSims        int
	analyzeHorizon     int
	analyzeSeed        int64
	analyzeForecast    int
	analyzeFormat      string
	analyzeConfigDir   string
	analyzeMetricsAddr string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the scenario-conditioned Monte Carlo risk analysis",
	Long: `Run the full pipeline on a historical price table and a portfolio:
scenario transform, return/covariance estimation, Monte Carlo simulation and
risk metric extraction.

Example usage:
  riskcast analyze --prices prices.csv --portfolio portfolio.csv
  riskcast analyze --prices prices.csv --sample --scenario "Market Crash"
  riskcast analyze --prices prices.csv --sample --seed 42 --format json`,
	RunE: runAnalyze,
}

func init() {
	fs := analyzeCmd.Flags()
	fs.StringVar(&analyzePrices, "prices", "", "Path to the historical price CSV (Date,SYMBOL,... header)")
	fs.StringVar(&analyzePortfolio, "portfolio", "", "Path to the portfolio CSV (Symbol,Weight,Value header)")
	fs.BoolVar(&analyzeSample, "sample", false, "Use the built-in sample portfolio")
	fs.StringVar(&analyzeScenario, "scenario", "Normal Market", "Economic scenario to apply")
	fs.IntVar(&analyzeSims, "simulations", 1000, "Number of Monte Carlo paths")
	fs.IntVar(&analyzeHorizon, "horizon", 21, "Time horizon in trading days")
	fs.Int64Var(&analyzeSeed, "seed", 0, "Random seed for reproducible runs (omit for fresh entropy)")
	fs.IntVar(&analyzeForecast, "forecast-periods", 21, "Business days for the value projection (0 disables)")
	fs.StringVar(&analyzeFormat, "format", "table", "Output format: table, json")
	fs.StringVar(&analyzeConfigDir, "config", "", "Directory with scenarios.yaml / sectors.yaml overrides")
	fs.StringVar(&analyzeMetricsAddr, "metrics-addr", "", "Listen address for prometheus /metrics (disabled when empty)")
	markRequired(fs, analyzeCmd, "prices")
}

// markRequired marks flags as required, panicking on typos at init time.
func markRequired(fs *pflag.FlagSet, cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if fs.Lookup(name) == nil {
			panic(fmt.Sprintf("unknown flag %q on %s", name, cmd.Name()))
		}
		_ = cmd.MarkFlagRequired(name)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		go func() {
			log.Info().Str("addr", analyzeMetricsAddr).Msg("Serving prometheus metrics")
			if err := http.ListenAndServe(analyzeMetricsAddr, mux); err != nil {
				log.Warn().Err(err).Msg("Metrics listener stopped")
			}
		}()
	}

	catalog, sectors, err := scenario.LoadConfig(analyzeConfigDir)
	if err != nil {
		return err
	}

	prices, err := marketdata.LoadPriceTable(analyzePrices)
	if err != nil {
		return err
	}

	var alloc *portfolio.Allocation
	switch {
	case analyzeSample:
		alloc = portfolio.Sample()
	case analyzePortfolio != "":
		f, err := os.Open(analyzePortfolio)
		if err != nil {
			return fmt.Errorf("open portfolio: %w", err)
		}
		defer f.Close()
		alloc, err = portfolio.ParseCSV(f)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("either --portfolio or --sample is required")
	}

	req := analysis.Request{
		Prices:          prices,
		Portfolio:       alloc,
		Scenario:        analyzeScenario,
		NumSimulations:  analyzeSims,
		TimeHorizon:     analyzeHorizon,
		ForecastPeriods: analyzeForecast,
	}
	if cmd.Flags().Changed("seed") {
		seed := analyzeSeed
		req.Seed = &seed
	}

	runner := analysis.NewRunner(catalog, sectors, log.Logger)
	result, err := runner.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	switch analyzeFormat {
	case "json":
		return printJSON(result)
	case "table":
		printTable(result)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected table or json)", analyzeFormat)
	}
}

// analysisOutput is the JSON envelope: the ensemble arrays are large and
// display-oriented, so JSON output carries the report and profile only.
type analysisOutput struct {
	RunID          string            `json:"run_id"`
	Scenario       string            `json:"scenario"`
	Simulations    int               `json:"simulations"`
	TimeHorizon    int               `json:"time_horizon"`
	MeanReturn     float64           `json:"mean_daily_return"`
	Volatility     float64           `json:"portfolio_volatility"`
	Report         risk.Report       `json:"report"`
	Profile        risk.Profile      `json:"profile"`
	ForecastFinal  *float64          `json:"forecast_final_value,omitempty"`
	DroppedSymbols []string          `json:"dropped_symbols,omitempty"`
	Warnings       []string          `json:"warnings,omitempty"`
	Percentiles    map[int][]float64 `json:"percentile_curves"`
}

func printJSON(result *analysis.Result) error {
	out := analysisOutput{
		RunID:          result.RunID,
		Scenario:       result.Scenario.Name,
		Simulations:    len(result.Ensemble.FinalReturns),
		TimeHorizon:    result.Ensemble.TimeHorizon,
		MeanReturn:     result.Ensemble.MeanReturn,
		Volatility:     result.Ensemble.Volatility,
		Report:         result.Report,
		Profile:        result.Profile,
		DroppedSymbols: result.DroppedSymbols,
		Warnings:       result.Warnings,
		Percentiles:    result.Ensemble.Percentiles,
	}
	if result.Forecast != nil && len(result.Forecast.Values) > 0 {
		v := result.Forecast.Values[len(result.Forecast.Values)-1]
		out.ForecastFinal = &v
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printTable(result *analysis.Result) {
	fmt.Printf("Run %s: scenario %q, %d paths over %d days\n\n",
		result.RunID, result.Scenario.Name, len(result.Ensemble.FinalReturns), result.Ensemble.TimeHorizon)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	p := result.Profile
	fmt.Fprintf(w, "Metric\t90%%\t95%%\t99%%\n")
	fmt.Fprintf(w, "VaR\t%.4f\t%.4f\t%.4f\n", p.VaR.C90, p.VaR.C95, p.VaR.C99)
	fmt.Fprintf(w, "Expected Shortfall\t%.4f\t%.4f\t%.4f\n",
		p.ExpectedShortfall.C90, p.ExpectedShortfall.C95, p.ExpectedShortfall.C99)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Avg Drawdown\t%.4f\n", p.Drawdown.Average)
	fmt.Fprintf(w, "Max Drawdown\t%.4f\n", p.Drawdown.Max)
	fmt.Fprintf(w, "DaR (95%%)\t%.4f\n", p.Drawdown.DaR)
	fmt.Fprintf(w, "CDaR (95%%)\t%.4f\n", p.Drawdown.CDaR)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sharpe\t%.4f\n", p.RiskAdjusted.Sharpe)
	fmt.Fprintf(w, "Sortino\t%.4f\n", p.RiskAdjusted.Sortino)
	fmt.Fprintf(w, "Calmar\t%.4f\n", p.RiskAdjusted.Calmar)
	fmt.Fprintf(w, "Annualized Return\t%.4f\n", p.RiskAdjusted.AnnualizedReturn)
	fmt.Fprintf(w, "Annualized Volatility\t%.4f\n", p.RiskAdjusted.AnnualizedVolatility)
	w.Flush()

	if result.Forecast != nil && len(result.Forecast.Values) > 0 {
		last := result.Forecast.Values[len(result.Forecast.Values)-1]
		lo := result.Forecast.Lower[len(result.Forecast.Lower)-1]
		hi := result.Forecast.Upper[len(result.Forecast.Upper)-1]
		fmt.Printf("\nProjected value (base 100): %.2f [%.2f, %.2f] after %d business days\n",
			last, lo, hi, len(result.Forecast.Values))
	}
	for _, warning := range result.Warnings {
		fmt.Printf("\nWarning: %s\n", warning)
	}
}
