package scenario

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/timeseries"
)

func tradingDates(days int) []time.Time {
	out := make([]time.Time, days)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func mustTable(t *testing.T, symbols []string, columns [][]float64) *timeseries.PriceTable {
	t.Helper()
	table, err := timeseries.New(tradingDates(len(columns[0])), symbols, columns)
	require.NoError(t, err)
	return table
}

func getScenario(t *testing.T, name string) Parameters {
	t.Helper()
	params, err := DefaultCatalog().Get(name)
	require.NoError(t, err)
	return params
}

func TestApplyNormalMarketIsIdentity(t *testing.T) {
	table := mustTable(t, []string{"AAPL"}, [][]float64{{100, 105, 99.75, 110}})

	out, err := Apply(table, getScenario(t, "Normal Market"), DefaultSectors())
	require.NoError(t, err)

	col, ok := out.Column("AAPL")
	require.True(t, ok)
	want := []float64{100, 105, 99.75, 110}
	for i := range want {
		assert.InDelta(t, want[i], col[i], 1e-9)
	}
	assert.Equal(t, table.Dates(), out.Dates())
}

func TestApplyMarketCrashFinancial(t *testing.T) {
	// JPM is Financial: combined annualized shift is -0.25 + -0.35 = -0.60,
	// so the daily shift is -0.60/252 and the 5% raw return is rescaled by
	// the 2.5x volatility multiplier:
	//   0.05*2.5 - 0.60/252 = 0.1226190..., price 100 -> 112.26190...
	table := mustTable(t, []string{"JPM"}, [][]float64{{100, 105}})

	out, err := Apply(table, getScenario(t, "Market Crash"), DefaultSectors())
	require.NoError(t, err)

	col, _ := out.Column("JPM")
	assert.Equal(t, 100.0, col[0])
	assert.InDelta(t, 112.26190, col[1], 1e-5)
}

func TestApplyUnknownSectorGetsGlobalShiftOnly(t *testing.T) {
	table := mustTable(t, []string{"XXXX"}, [][]float64{{100, 105}})

	out, err := Apply(table, getScenario(t, "Market Crash"), DefaultSectors())
	require.NoError(t, err)

	// Only the -0.25 global adjustment applies: 0.05*2.5 - 0.25/252.
	col, _ := out.Column("XXXX")
	want := 100 * (1 + 0.05*2.5 - 0.25/252.0)
	assert.InDelta(t, want, col[1], 1e-9)
}

func TestApplyPreservesNaNColumns(t *testing.T) {
	nan := math.NaN()
	table, err := timeseries.New(tradingDates(3), []string{"A", "B"}, [][]float64{
		{100, 110, 121},
		{nan, nan, nan},
	})
	require.NoError(t, err)

	out, err := Apply(table, getScenario(t, "Recession"), DefaultSectors())
	require.NoError(t, err)

	b, _ := out.Column("B")
	for i := 1; i < len(b); i++ {
		assert.True(t, math.IsNaN(b[i]))
	}
	a, _ := out.Column("A")
	assert.False(t, math.IsNaN(a[2]))
}

func TestApplyValidation(t *testing.T) {
	_, err := Apply(nil, getScenario(t, "Recession"), DefaultSectors())
	assert.True(t, domain.IsInputError(err))

	table := mustTable(t, []string{"A"}, [][]float64{{100, 105}})
	_, err = Apply(table, Parameters{Name: "bad", VolatilityAdjustment: -1}, DefaultSectors())
	assert.True(t, domain.IsInputError(err))
}
