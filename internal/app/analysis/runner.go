// Package analysis orchestrates the full pipeline: scenario transform,
// return model estimation, Monte Carlo simulation and risk extraction.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/forecast"
	"github.com/quantlab-id/riskcast/internal/domain/portfolio"
	"github.com/quantlab-id/riskcast/internal/domain/risk"
	"github.com/quantlab-id/riskcast/internal/domain/scenario"
	"github.com/quantlab-id/riskcast/internal/domain/simulation"
	"github.com/quantlab-id/riskcast/internal/domain/timeseries"
	"github.com/quantlab-id/riskcast/internal/infrastructure/metrics"
)

// Request describes one analysis run. Seed nil means fresh entropy;
// ForecastPeriods 0 disables the secondary projection.
type Request struct {
	Prices          *timeseries.PriceTable
	Portfolio       *portfolio.Allocation
	Scenario        string
	NumSimulations  int
	TimeHorizon     int
	Seed            *int64
	ForecastPeriods int
}

// Result is the immutable outcome of one run. Forecast is nil when disabled
// or when the projection failed (the failure is recorded as a warning, not
// an error: the projection is a display aid, not a risk measure).
type Result struct {
	RunID          string
	Scenario       scenario.Parameters
	Model          *simulation.ReturnModel
	Ensemble       *simulation.Ensemble
	Profile        risk.Profile
	Report         risk.Report
	Forecast       *forecast.Projection
	DroppedSymbols []string
	Warnings       []string
	Elapsed        time.Duration
}

// Runner wires the catalog, sector map and simulation engine together.
// Runners hold no per-run state; every Run is independent.
type Runner struct {
	catalog *scenario.Catalog
	sectors scenario.SectorMap
	engine  *simulation.Engine
	log     zerolog.Logger
}

// NewRunner builds a runner. A zero-value logger disables logging.
func NewRunner(catalog *scenario.Catalog, sectors scenario.SectorMap, logger zerolog.Logger) *Runner {
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}
	return &Runner{
		catalog: catalog,
		sectors: sectors,
		engine:  simulation.NewEngine(),
		log:     logger.With().Str("component", "analysis").Logger(),
	}
}

// Run executes the pipeline: gap-fill, scenario transform, return model
// estimation, Monte Carlo simulation, risk profile extraction, and the
// optional independent forecast.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.log.With().Str("run_id", runID).Str("scenario", req.Scenario).Logger()

	result, err := r.run(ctx, req, runID, logger)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		logger.Error().Err(err).Dur("elapsed", elapsed).Msg("Analysis run failed")
	} else {
		result.Elapsed = elapsed
		metrics.AddPaths(req.NumSimulations)
		logger.Info().
			Dur("elapsed", elapsed).
			Int("simulations", req.NumSimulations).
			Int("horizon", req.TimeHorizon).
			Float64("var_95", result.Report.VaR95).
			Float64("es_95", result.Report.ES95).
			Msg("Analysis run complete")
	}
	metrics.ObserveRun(req.Scenario, status, elapsed)

	return result, err
}

func (r *Runner) run(ctx context.Context, req Request, runID string, logger zerolog.Logger) (*Result, error) {
	if req.Prices == nil {
		return nil, domain.NewInputError("analysis: nil price table")
	}
	if req.Portfolio == nil {
		return nil, domain.NewInputError("analysis: nil portfolio")
	}

	params, err := r.catalog.Get(req.Scenario)
	if err != nil {
		return nil, err
	}

	filled := req.Prices.FillGaps()
	adjusted, err := scenario.Apply(filled, params, r.sectors)
	if err != nil {
		return nil, fmt.Errorf("scenario transform: %w", err)
	}

	model, dropped, err := simulation.EstimateReturnModel(adjusted, req.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("estimate return model: %w", err)
	}

	result := &Result{
		RunID:          runID,
		Scenario:       params,
		Model:          model,
		DroppedSymbols: dropped,
	}
	if len(dropped) > 0 {
		warning := "no historical data found for: " + strings.Join(dropped, ", ")
		result.Warnings = append(result.Warnings, warning)
		logger.Warn().Strs("symbols", dropped).Msg("Dropped portfolio symbols without data; weights renormalized")
	}

	ensemble, err := r.engine.Simulate(ctx, model, req.NumSimulations, req.TimeHorizon, req.Seed)
	if err != nil {
		return nil, fmt.Errorf("monte carlo simulation: %w", err)
	}
	result.Ensemble = ensemble

	profile, err := risk.ProfileFromEnsemble(ensemble)
	if err != nil {
		return nil, fmt.Errorf("risk profile: %w", err)
	}
	result.Profile = profile
	result.Report = profile.Report()

	// The projection is independently failable: a forecast error must not
	// cascade into the risk results.
	if req.ForecastPeriods > 0 {
		proj, err := forecast.Project(adjusted, req.Portfolio, req.ForecastPeriods, 0.95)
		if err != nil {
			result.Warnings = append(result.Warnings, "forecast unavailable: "+err.Error())
			logger.Warn().Err(err).Msg("Forecast failed; risk results unaffected")
		} else {
			result.Forecast = proj
		}
	}

	return result, nil
}
