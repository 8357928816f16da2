// Package timeseries models the date-indexed price and return tables the
// risk pipeline operates on.
package timeseries

import (
	"math"
	"time"

	"github.com/quantlab-id/riskcast/internal/domain"
)

// PriceTable is a time-indexed table of adjusted close prices: rows are
// trading dates in strictly increasing order, columns are instruments.
// Missing observations are represented as NaN. Tables are immutable after
// construction; transforms produce new tables.
type PriceTable struct {
	dates   []time.Time
	symbols []string
	cols    map[string][]float64
}

// New builds a PriceTable from a date index and per-symbol columns.
// columns[i] belongs to symbols[i] and must have one cell per date.
// Cells must be positive prices or NaN.
func New(dates []time.Time, symbols []string, columns [][]float64) (*PriceTable, error) {
	return build(dates, symbols, columns, true)
}

// NewDerived builds a PriceTable for synthetic series (scenario-adjusted
// reconstructions) where the positivity invariant of market data does not
// apply. Shape and date-ordering invariants are still enforced.
func NewDerived(dates []time.Time, symbols []string, columns [][]float64) (*PriceTable, error) {
	return build(dates, symbols, columns, false)
}

func build(dates []time.Time, symbols []string, columns [][]float64, requirePositive bool) (*PriceTable, error) {
	if len(dates) == 0 {
		return nil, domain.NewInputError("price table has no rows")
	}
	if len(symbols) == 0 {
		return nil, domain.NewInputError("price table has no columns")
	}
	if len(symbols) != len(columns) {
		return nil, domain.NewInputError("price table has %d symbols but %d columns", len(symbols), len(columns))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, domain.NewInputError("price table dates must be strictly increasing: %s does not follow %s",
				dates[i].Format("2006-01-02"), dates[i-1].Format("2006-01-02"))
		}
	}

	cols := make(map[string][]float64, len(symbols))
	syms := make([]string, 0, len(symbols))
	for i, sym := range symbols {
		if _, dup := cols[sym]; dup {
			return nil, domain.NewInputError("duplicate price table column %q", sym)
		}
		col := columns[i]
		if len(col) != len(dates) {
			return nil, domain.NewInputError("column %q has %d rows, expected %d", sym, len(col), len(dates))
		}
		if requirePositive {
			for r, v := range col {
				if !math.IsNaN(v) && v <= 0 {
					return nil, domain.NewInputError("column %q row %d: price %v is not positive", sym, r, v)
				}
			}
		}
		copied := make([]float64, len(col))
		copy(copied, col)
		cols[sym] = copied
		syms = append(syms, sym)
	}

	copiedDates := make([]time.Time, len(dates))
	copy(copiedDates, dates)
	return &PriceTable{dates: copiedDates, symbols: syms, cols: cols}, nil
}

// Len returns the number of rows (trading dates).
func (t *PriceTable) Len() int { return len(t.dates) }

// Dates returns a copy of the date index.
func (t *PriceTable) Dates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// Symbols returns a copy of the column identifiers in table order.
func (t *PriceTable) Symbols() []string {
	out := make([]string, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// HasSymbol reports whether the table carries a column for sym.
func (t *PriceTable) HasSymbol(sym string) bool {
	_, ok := t.cols[sym]
	return ok
}

// Column returns a copy of the price series for sym.
func (t *PriceTable) Column(sym string) ([]float64, bool) {
	col, ok := t.cols[sym]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}

// FillGaps resolves internal and leading/trailing gaps per column by
// forward-filling and then backward-filling. Columns with no observations
// at all remain NaN.
func (t *PriceTable) FillGaps() *PriceTable {
	out := &PriceTable{
		dates:   t.dates,
		symbols: t.symbols,
		cols:    make(map[string][]float64, len(t.cols)),
	}
	for sym, col := range t.cols {
		filled := make([]float64, len(col))
		copy(filled, col)
		last := math.NaN()
		for i, v := range filled {
			if math.IsNaN(v) {
				filled[i] = last
			} else {
				last = v
			}
		}
		next := math.NaN()
		for i := len(filled) - 1; i >= 0; i-- {
			if math.IsNaN(filled[i]) {
				filled[i] = next
			} else {
				next = filled[i]
			}
		}
		out.cols[sym] = filled
	}
	return out
}

// Restrict returns a table containing only the listed symbols, preserving
// the table's column order. Symbols absent from the table are ignored.
func (t *PriceTable) Restrict(symbols []string) *PriceTable {
	want := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		want[s] = true
	}
	out := &PriceTable{dates: t.dates, cols: make(map[string][]float64)}
	for _, sym := range t.symbols {
		if want[sym] {
			out.symbols = append(out.symbols, sym)
			out.cols[sym] = t.cols[sym]
		}
	}
	return out
}

// Returns computes simple daily returns by consecutive-row percent change.
// The first row carries no return and is dropped, so the result has one row
// fewer than the table. NaN cells propagate NaN returns.
func (t *PriceTable) Returns() *ReturnTable {
	n := len(t.dates)
	rt := &ReturnTable{
		dates:   t.dates[1:],
		symbols: t.symbols,
		cols:    make(map[string][]float64, len(t.cols)),
	}
	for sym, col := range t.cols {
		rets := make([]float64, n-1)
		for i := 1; i < n; i++ {
			rets[i-1] = col[i]/col[i-1] - 1
		}
		rt.cols[sym] = rets
	}
	return rt
}

// ReturnTable is the percent-change companion of a PriceTable: one row per
// trading date starting at the table's second date.
type ReturnTable struct {
	dates   []time.Time
	symbols []string
	cols    map[string][]float64
}

// Len returns the number of return observations per column.
func (t *ReturnTable) Len() int { return len(t.dates) }

// Dates returns a copy of the return date index.
func (t *ReturnTable) Dates() []time.Time {
	out := make([]time.Time, len(t.dates))
	copy(out, t.dates)
	return out
}

// Symbols returns a copy of the column identifiers in table order.
func (t *ReturnTable) Symbols() []string {
	out := make([]string, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Column returns a copy of the return series for sym.
func (t *ReturnTable) Column(sym string) ([]float64, bool) {
	col, ok := t.cols[sym]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}
