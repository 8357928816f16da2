// Package risk extracts tail-risk statistics from a simulation ensemble:
// Value at Risk, Expected Shortfall, drawdown measures and risk-adjusted
// performance ratios. All functions are pure; numeric edge cases (empty
// tails, zero denominators) are recovered inline and never abort a run.
package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/stats"
)

// Method selects the VaR estimator.
type Method string

const (
	// Historical reads VaR off the empirical distribution of final returns.
	Historical Method = "historical"
	// Parametric assumes normally distributed final returns.
	Parametric Method = "parametric"
	// CornishFisher corrects the parametric z-score for skew and kurtosis.
	CornishFisher Method = "cornish_fisher"
)

// tradingDaysPerYear annualizes horizon-level statistics.
const tradingDaysPerYear = 252.0

// downsideFloor avoids division by zero in Sortino when no path lost money.
const downsideFloor = 1e-6

func validate(finalReturns []float64, confidence float64) error {
	if len(finalReturns) == 0 {
		return domain.NewInputError("risk metrics: empty final returns")
	}
	if confidence <= 0 || confidence >= 1 {
		return domain.NewInputError("risk metrics: confidence %v must be in (0, 1)", confidence)
	}
	return nil
}

// ValueAtRisk computes VaR at the given confidence as a loss fraction
// (0.073 = 7.3% expected loss).
func ValueAtRisk(finalReturns []float64, confidence float64, method Method) (float64, error) {
	if err := validate(finalReturns, confidence); err != nil {
		return 0, err
	}

	switch method {
	case Historical:
		return -stats.Percentile(finalReturns, 100*(1-confidence)), nil

	case Parametric:
		mean := stat.Mean(finalReturns, nil)
		sd := stat.PopStdDev(finalReturns, nil)
		z := stats.NormQuantile(1 - confidence)
		return -(mean + z*sd), nil

	case CornishFisher:
		mean := stat.Mean(finalReturns, nil)
		sd := stat.PopStdDev(finalReturns, nil)
		skew := stat.Skew(finalReturns, nil)
		kurt := stat.ExKurtosis(finalReturns, nil)
		z := stats.NormQuantile(1 - confidence)
		zcf := z +
			(z*z-1)*skew/6 +
			(z*z*z-3*z)*kurt/24 -
			(2*z*z*z-5*z)*skew*skew/36
		return -(mean + zcf*sd), nil

	default:
		return 0, domain.NewInputError("risk metrics: unknown VaR method %q", method)
	}
}

// ExpectedShortfall is the mean loss conditional on exceeding historical
// VaR at the given confidence. With a degenerate tail (no loss exceeds
// VaR) it falls back to VaR itself.
func ExpectedShortfall(finalReturns []float64, confidence float64) (float64, error) {
	varHist, err := ValueAtRisk(finalReturns, confidence, Historical)
	if err != nil {
		return 0, err
	}

	sum, count := 0.0, 0
	for _, r := range finalReturns {
		if loss := -r; loss > varHist {
			sum += loss
			count++
		}
	}
	if count == 0 {
		return varHist, nil
	}
	return sum / float64(count), nil
}

// DrawdownMetrics summarizes the per-path max-drawdown distribution.
// All values are positive magnitudes.
type DrawdownMetrics struct {
	Average float64 // mean path drawdown
	Max     float64 // worst path drawdown
	DaR     float64 // drawdown-at-risk at the given confidence
	CDaR    float64 // mean drawdown conditional on exceeding DaR
}

// Drawdowns computes drawdown risk measures from the signed-negative
// per-path max drawdowns. CDaR falls back to DaR on an empty tail.
func Drawdowns(maxDrawdowns []float64, confidence float64) (DrawdownMetrics, error) {
	if err := validate(maxDrawdowns, confidence); err != nil {
		return DrawdownMetrics{}, err
	}

	worst := maxDrawdowns[0]
	sum := 0.0
	for _, dd := range maxDrawdowns {
		sum += -dd
		if dd < worst {
			worst = dd
		}
	}
	avg := sum / float64(len(maxDrawdowns))

	dar := -stats.Percentile(maxDrawdowns, 100*(1-confidence))

	tailSum, tailCount := 0.0, 0
	for _, dd := range maxDrawdowns {
		if dd < -dar {
			tailSum += -dd
			tailCount++
		}
	}
	cdar := dar
	if tailCount > 0 {
		cdar = tailSum / float64(tailCount)
	}

	return DrawdownMetrics{
		Average: avg,
		Max:     -worst,
		DaR:     dar,
		CDaR:    cdar,
	}, nil
}

// RiskAdjusted holds annualized performance ratios derived from the
// ensemble's final returns and drawdowns.
type RiskAdjusted struct {
	Sharpe               float64
	Sortino              float64
	Calmar               float64
	AnnualizedReturn     float64
	AnnualizedVolatility float64
	DownsideDeviation    float64
}

// RiskAdjustedMetrics annualizes final-return statistics by
// sqrt(252/horizon) and computes Sharpe, Sortino and Calmar ratios with the
// degenerate-denominator fallbacks documented on each branch.
func RiskAdjustedMetrics(finalReturns, maxDrawdowns []float64, timeHorizon int) (RiskAdjusted, error) {
	if len(finalReturns) == 0 {
		return RiskAdjusted{}, domain.NewInputError("risk metrics: empty final returns")
	}
	if timeHorizon <= 0 {
		return RiskAdjusted{}, domain.NewInputError("risk metrics: time_horizon must be positive, got %d", timeHorizon)
	}

	factor := math.Sqrt(tradingDaysPerYear / float64(timeHorizon))
	annMean := stat.Mean(finalReturns, nil) * factor
	annVol := stat.PopStdDev(finalReturns, nil) * factor

	var negatives []float64
	for _, r := range finalReturns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	downside := downsideFloor
	if len(negatives) > 0 {
		downside = stat.PopStdDev(negatives, nil) * factor
	}

	sharpe := 0.0
	if annVol > 0 {
		sharpe = annMean / annVol
	}
	sortino := 0.0
	if downside > 0 {
		sortino = annMean / downside
	}

	calmar := 0.0
	if len(maxDrawdowns) > 0 {
		dd, err := Drawdowns(maxDrawdowns, 0.95)
		if err != nil {
			return RiskAdjusted{}, err
		}
		if dd.Max > 0 {
			calmar = annMean / dd.Max
		}
	}

	return RiskAdjusted{
		Sharpe:               sharpe,
		Sortino:              sortino,
		Calmar:               calmar,
		AnnualizedReturn:     annMean,
		AnnualizedVolatility: annVol,
		DownsideDeviation:    downside,
	}, nil
}
