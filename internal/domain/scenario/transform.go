package scenario

import (
	"math"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/timeseries"
)

// tradingDaysPerYear converts annualized return shifts into daily ones.
const tradingDaysPerYear = 252.0

// Apply replays the historical price table under the scenario: per
// instrument, daily returns are rescaled by the volatility adjustment and
// shifted by the combined global and sector adjustment (annualized, divided
// by 252), then a new price series is reconstructed by compounding from the
// instrument's first price. The date index and column set of the input are
// preserved exactly; instruments with no data stay NaN rather than failing
// the batch.
//
// A scenario with zero adjustments and unit volatility is an identity
// transform.
func Apply(prices *timeseries.PriceTable, params Parameters, sectors SectorMap) (*timeseries.PriceTable, error) {
	if prices == nil {
		return nil, domain.NewInputError("scenario transform: nil price table")
	}
	if params.VolatilityAdjustment < 0 {
		return nil, domain.NewInputError("scenario %q: volatility_adjustment must be >= 0", params.Name)
	}

	dates := prices.Dates()
	symbols := prices.Symbols()
	columns := make([][]float64, len(symbols))

	for i, sym := range symbols {
		col, _ := prices.Column(sym)
		sector := sectors.Sector(sym)
		total := params.ReturnsAdjustment + params.ImpactFactor[sector]
		daily := total / tradingDaysPerYear
		columns[i] = reconstruct(col, params.VolatilityAdjustment, daily)
	}

	return timeseries.NewDerived(dates, symbols, columns)
}

// reconstruct folds the adjusted return sequence into a new price series
// anchored at the original first price: out[0] = in[0], out[i] =
// out[i-1] * (1 + in-return[i]*volAdj + dailyShift).
func reconstruct(prices []float64, volAdj, dailyShift float64) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		raw := prices[i]/prices[i-1] - 1
		if math.IsNaN(raw) || math.IsNaN(out[i-1]) {
			out[i] = math.NaN()
			continue
		}
		adjusted := raw*volAdj + dailyShift
		out[i] = out[i-1] * (1 + adjusted)
	}
	return out
}
