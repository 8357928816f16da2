// Package portfolio models the holdings the analysis runs against:
// ordered (symbol, weight, value) records with normalized weights.
package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantlab-id/riskcast/internal/domain"
)

// weightTolerance is how far the raw weight sum may drift from 1.0 before
// the weights are renormalized.
const weightTolerance = 0.01

// Holding is one portfolio position. Value is the monetary amount invested;
// Percentage is Value as a share of the portfolio total, filled by Process.
type Holding struct {
	Symbol     string
	Weight     float64
	Value      decimal.Decimal
	Percentage float64
}

// Allocation is a processed portfolio: weights nonnegative and summing to
// 1.0, holdings ordered by descending weight. Immutable once built.
type Allocation struct {
	holdings []Holding
}

// Process validates and normalizes raw holdings into an Allocation: weights
// must be nonnegative with a positive sum; sums outside 1±0.01 are divided
// through; value percentages are computed; holdings are sorted by weight.
func Process(holdings []Holding) (*Allocation, error) {
	if len(holdings) == 0 {
		return nil, domain.NewInputError("portfolio has no holdings")
	}

	total := 0.0
	seen := make(map[string]bool, len(holdings))
	for _, h := range holdings {
		if h.Symbol == "" {
			return nil, domain.NewInputError("portfolio holding with empty symbol")
		}
		if seen[h.Symbol] {
			return nil, domain.NewInputError("duplicate portfolio symbol %q", h.Symbol)
		}
		seen[h.Symbol] = true
		if h.Weight < 0 || math.IsNaN(h.Weight) {
			return nil, domain.NewInputError("symbol %q: weight %v is negative", h.Symbol, h.Weight)
		}
		total += h.Weight
	}
	if total <= 0 {
		return nil, domain.NewInputError("portfolio weights sum to %v, expected a positive sum", total)
	}

	processed := make([]Holding, len(holdings))
	copy(processed, holdings)
	if math.Abs(total-1.0) > weightTolerance {
		for i := range processed {
			processed[i].Weight /= total
		}
	}

	totalValue := decimal.Zero
	for _, h := range processed {
		totalValue = totalValue.Add(h.Value)
	}
	if totalValue.IsPositive() {
		for i := range processed {
			pct, _ := processed[i].Value.Div(totalValue).Mul(decimal.NewFromInt(100)).Round(2).Float64()
			processed[i].Percentage = pct
		}
	}

	sort.SliceStable(processed, func(i, j int) bool {
		return processed[i].Weight > processed[j].Weight
	})

	return &Allocation{holdings: processed}, nil
}

// Holdings returns a copy of the processed holdings in weight order.
func (a *Allocation) Holdings() []Holding {
	out := make([]Holding, len(a.holdings))
	copy(out, a.holdings)
	return out
}

// Symbols lists holding symbols in weight order.
func (a *Allocation) Symbols() []string {
	out := make([]string, len(a.holdings))
	for i, h := range a.holdings {
		out[i] = h.Symbol
	}
	return out
}

// Weight returns the normalized weight for symbol, 0 when absent.
func (a *Allocation) Weight(symbol string) float64 {
	for _, h := range a.holdings {
		if h.Symbol == symbol {
			return h.Weight
		}
	}
	return 0
}

// TotalValue sums the monetary values of all holdings.
func (a *Allocation) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range a.holdings {
		total = total.Add(h.Value)
	}
	return total
}

// ParseCSV reads raw holdings from CSV with a Symbol,Weight,Value header
// (case-insensitive, any column order) and processes them.
func ParseCSV(r io.Reader) (*Allocation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.NewInputError("portfolio csv: missing header: %v", err)
	}
	symIdx, weightIdx, valueIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "symbol":
			symIdx = i
		case "weight":
			weightIdx = i
		case "value":
			valueIdx = i
		}
	}
	if symIdx < 0 || weightIdx < 0 || valueIdx < 0 {
		return nil, domain.NewInputError("portfolio csv: header must contain Symbol, Weight and Value columns")
	}

	var holdings []Holding
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewInputError("portfolio csv line %d: %v", line, err)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(record[weightIdx]), 64)
		if err != nil {
			return nil, domain.NewInputError("portfolio csv line %d: weight %q is not numeric", line, record[weightIdx])
		}
		value, err := decimal.NewFromString(strings.TrimSpace(record[valueIdx]))
		if err != nil {
			return nil, domain.NewInputError("portfolio csv line %d: value %q is not numeric", line, record[valueIdx])
		}
		holdings = append(holdings, Holding{
			Symbol: strings.TrimSpace(record[symIdx]),
			Weight: weight,
			Value:  value,
		})
	}
	return Process(holdings)
}

// Sample returns a demo portfolio of liquid IDX names, values in millions
// of rupiah.
func Sample() *Allocation {
	mk := func(sym string, weight float64, value int64) Holding {
		return Holding{Symbol: sym, Weight: weight, Value: decimal.NewFromInt(value)}
	}
	alloc, err := Process([]Holding{
		mk("BBCA.JK", 0.15, 150),
		mk("BBRI.JK", 0.15, 150),
		mk("BMRI.JK", 0.10, 100),
		mk("TLKM.JK", 0.10, 100),
		mk("UNVR.JK", 0.10, 100),
		mk("ICBP.JK", 0.10, 100),
		mk("ADRO.JK", 0.10, 100),
		mk("KLBF.JK", 0.08, 80),
		mk("ANTM.JK", 0.07, 70),
		mk("PWON.JK", 0.05, 50),
	})
	if err != nil {
		panic(fmt.Sprintf("sample portfolio: %v", err))
	}
	return alloc
}
