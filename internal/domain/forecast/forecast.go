// Package forecast produces the short-horizon statistical projection of
// portfolio value: a display aid independent of the risk pipeline, so its
// failure never invalidates risk results.
package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/portfolio"
	"github.com/quantlab-id/riskcast/internal/domain/stats"
	"github.com/quantlab-id/riskcast/internal/domain/timeseries"
)

// Projection is an exponential-growth forecast of the weighted portfolio
// value (normalized to 100 at the first historical date) with symmetric
// confidence bands.
type Projection struct {
	HistoricalDates []time.Time
	Historical      []float64
	Dates           []time.Time
	Values          []float64
	Lower           []float64
	Upper           []float64
}

// Project builds the historical weighted portfolio value from the price
// table and extrapolates it for the given number of business days at the
// mean daily return, with bands at z = |Phi^-1((1-confidence)/2)| standard
// deviations of daily returns.
func Project(prices *timeseries.PriceTable, alloc *portfolio.Allocation, periods int, confidence float64) (*Projection, error) {
	if prices == nil {
		return nil, domain.NewInputError("forecast: nil price table")
	}
	if alloc == nil {
		return nil, domain.NewInputError("forecast: nil allocation")
	}
	if periods <= 0 {
		return nil, domain.NewInputError("forecast: periods must be positive, got %d", periods)
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, domain.NewInputError("forecast: confidence %v must be in (0, 1)", confidence)
	}

	filled := prices.FillGaps()
	var symbols []string
	weightSum := 0.0
	for _, sym := range alloc.Symbols() {
		col, ok := filled.Column(sym)
		if !ok || !finite(col) {
			continue
		}
		symbols = append(symbols, sym)
		weightSum += alloc.Weight(sym)
	}
	if len(symbols) == 0 || weightSum <= 0 {
		return nil, domain.NewInputError("forecast: no portfolio symbol has historical data")
	}
	if filled.Len() < 3 {
		return nil, domain.NewInputError("forecast: need at least 3 price rows, got %d", filled.Len())
	}

	// Weighted portfolio value per date, renormalized over available symbols.
	values := make([]float64, filled.Len())
	for _, sym := range symbols {
		col, _ := filled.Column(sym)
		w := alloc.Weight(sym) / weightSum
		for i, v := range col {
			values[i] += v * w
		}
	}
	base := values[0]
	for i := range values {
		values[i] = 100 * values[i] / base
	}

	rets := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		rets[i-1] = values[i]/values[i-1] - 1
	}
	meanRet := stat.Mean(rets, nil)
	sdRet := stat.StdDev(rets, nil)
	z := math.Abs(stats.NormQuantile((1 - confidence) / 2))

	histDates := filled.Dates()
	last := values[len(values)-1]
	dates := businessDays(histDates[len(histDates)-1], periods)
	forecast := make([]float64, periods)
	lower := make([]float64, periods)
	upper := make([]float64, periods)
	for i := 0; i < periods; i++ {
		n := float64(i + 1)
		forecast[i] = last * math.Pow(1+meanRet, n)
		lower[i] = last * math.Pow(1+meanRet-z*sdRet, n)
		upper[i] = last * math.Pow(1+meanRet+z*sdRet, n)
	}

	return &Projection{
		HistoricalDates: histDates,
		Historical:      values,
		Dates:           dates,
		Values:          forecast,
		Lower:           lower,
		Upper:           upper,
	}, nil
}

// businessDays returns the next n weekdays strictly after start.
func businessDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := start
	for len(out) < n {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, d)
	}
	return out
}

func finite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
