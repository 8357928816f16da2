// Package simulation derives the portfolio return model from adjusted
// history and generates the Monte Carlo path ensemble.
package simulation

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/portfolio"
	"github.com/quantlab-id/riskcast/internal/domain/timeseries"
)

// ReturnModel is the mean/covariance summary of the portfolio's daily
// returns: the single-factor inputs the Monte Carlo engine simulates from.
// Symbols and Weights describe the (possibly renormalized) instruments the
// model was estimated over, in table order.
type ReturnModel struct {
	MeanDailyReturn float64
	Volatility      float64
	Covariance      *mat.SymDense
	Symbols         []string
	Weights         []float64
}

// EstimateReturnModel computes daily returns from the adjusted price table,
// restricts them to allocation symbols that actually have data, renormalizes
// the weight vector over those symbols, and derives the weighted mean daily
// return and portfolio volatility sqrt(w' Cov w) from the sample covariance.
//
// Allocation symbols without usable data are returned as dropped: a
// non-fatal condition the caller should surface as a warning. An InputError
// is returned when no symbols remain or there are too few observations for
// a covariance estimate.
func EstimateReturnModel(prices *timeseries.PriceTable, alloc *portfolio.Allocation) (*ReturnModel, []string, error) {
	if prices == nil {
		return nil, nil, domain.NewInputError("estimator: nil price table")
	}
	if alloc == nil {
		return nil, nil, domain.NewInputError("estimator: nil allocation")
	}

	rets := prices.Returns()

	inAlloc := make(map[string]bool)
	for _, sym := range alloc.Symbols() {
		inAlloc[sym] = true
	}

	var dropped []string
	var symbols []string
	var columns [][]float64
	for _, sym := range rets.Symbols() {
		if !inAlloc[sym] {
			continue // table column not part of the portfolio
		}
		col, _ := rets.Column(sym)
		if !allFinite(col) {
			dropped = append(dropped, sym)
			continue
		}
		symbols = append(symbols, sym)
		columns = append(columns, col)
	}
	for _, sym := range alloc.Symbols() {
		if !prices.HasSymbol(sym) {
			dropped = append(dropped, sym)
		}
	}

	if len(symbols) == 0 {
		return nil, dropped, domain.NewInputError("no portfolio symbol has historical data")
	}
	nObs := rets.Len()
	if nObs < 2 {
		return nil, dropped, domain.NewInputError("need at least 3 price rows to estimate a return model, got %d", nObs+1)
	}

	weights := make([]float64, len(symbols))
	sum := 0.0
	for i, sym := range symbols {
		weights[i] = alloc.Weight(sym)
		sum += weights[i]
	}
	if sum <= 0 {
		return nil, dropped, domain.NewInputError("no valid weights over symbols with data")
	}
	for i := range weights {
		weights[i] /= sum
	}

	mean := 0.0
	for i, col := range columns {
		mean += stat.Mean(col, nil) * weights[i]
	}

	// Sample covariance over the restricted return columns.
	x := mat.NewDense(nObs, len(symbols), nil)
	for j, col := range columns {
		for i, v := range col {
			x.Set(i, j, v)
		}
	}
	cov := mat.NewSymDense(len(symbols), nil)
	stat.CovarianceMatrix(cov, x, nil)

	w := mat.NewVecDense(len(weights), weights)
	var covW mat.VecDense
	covW.MulVec(cov, w)
	variance := mat.Dot(w, &covW)
	if variance < 0 {
		variance = 0 // guard tiny negative round-off
	}

	return &ReturnModel{
		MeanDailyReturn: mean,
		Volatility:      math.Sqrt(variance),
		Covariance:      cov,
		Symbols:         symbols,
		Weights:         weights,
	}, dropped, nil
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
