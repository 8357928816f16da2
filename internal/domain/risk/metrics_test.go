package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-id/riskcast/internal/domain"
)

func TestHistoricalVaR(t *testing.T) {
	// 100 evenly spread final returns from -0.495 to +0.495.
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = float64(i)/100.0 - 0.495
	}

	var95, err := ValueAtRisk(returns, 0.95, Historical)
	require.NoError(t, err)
	// 5th percentile of the grid: index 0.05*99 = 4.95.
	assert.InDelta(t, 0.4455, var95, 1e-9)

	var90, err := ValueAtRisk(returns, 0.90, Historical)
	require.NoError(t, err)
	var99, err := ValueAtRisk(returns, 0.99, Historical)
	require.NoError(t, err)
	assert.Less(t, var90, var95)
	assert.Less(t, var95, var99)
}

func TestParametricVaR(t *testing.T) {
	// mean 0, population std sqrt(0.02/3); z(0.05) = -1.6448536.
	returns := []float64{-0.1, 0, 0.1}

	got, err := ValueAtRisk(returns, 0.95, Parametric)
	require.NoError(t, err)
	assert.InDelta(t, 0.134308, got, 1e-4)
}

func TestParametricVaRSignAtLowConfidence(t *testing.T) {
	// At 20% confidence the z-score flips sign, so VaR can go negative
	// (an expected gain) for a zero-mean distribution.
	returns := []float64{-0.1, 0, 0.1}

	got, err := ValueAtRisk(returns, 0.20, Parametric)
	require.NoError(t, err)
	assert.Less(t, got, 0.0)
}

func TestCornishFisherVaR(t *testing.T) {
	returns := []float64{-0.2, -0.1, -0.05, 0, 0.02, 0.05, 0.1, 0.15}

	got, err := ValueAtRisk(returns, 0.95, CornishFisher)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
	assert.Greater(t, got, 0.0)
}

func TestValueAtRiskValidation(t *testing.T) {
	_, err := ValueAtRisk(nil, 0.95, Historical)
	assert.True(t, domain.IsInputError(err))

	_, err = ValueAtRisk([]float64{0.1}, 0, Historical)
	assert.True(t, domain.IsInputError(err))

	_, err = ValueAtRisk([]float64{0.1}, 1, Historical)
	assert.True(t, domain.IsInputError(err))

	_, err = ValueAtRisk([]float64{0.1}, 0.95, Method("monte_python"))
	assert.True(t, domain.IsInputError(err))
}

func TestExpectedShortfallExceedsVaR(t *testing.T) {
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = float64(i)/100.0 - 0.495
	}

	var95, err := ValueAtRisk(returns, 0.95, Historical)
	require.NoError(t, err)
	es95, err := ExpectedShortfall(returns, 0.95)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, es95, var95)
}

func TestExpectedShortfallDegenerateTail(t *testing.T) {
	// Every path returned exactly +2%: no loss exceeds VaR, so ES falls
	// back to VaR itself.
	returns := []float64{0.02, 0.02, 0.02, 0.02}

	es, err := ExpectedShortfall(returns, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, -0.02, es, 1e-12)
}

func TestDrawdowns(t *testing.T) {
	dds := []float64{-0.05, -0.10, -0.20, -0.02}

	m, err := Drawdowns(dds, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 0.0925, m.Average, 1e-12)
	assert.InDelta(t, 0.20, m.Max, 1e-12)
	// 5th percentile of sorted drawdowns interpolates between the two worst.
	assert.InDelta(t, 0.185, m.DaR, 1e-12)
	assert.InDelta(t, 0.20, m.CDaR, 1e-12)
	assert.LessOrEqual(t, m.Average, m.Max)
	assert.LessOrEqual(t, m.DaR, m.CDaR)
}

func TestDrawdownsDegenerateTail(t *testing.T) {
	dds := []float64{-0.1, -0.1, -0.1}

	m, err := Drawdowns(dds, 0.95)
	require.NoError(t, err)
	assert.Equal(t, m.DaR, m.CDaR)
	assert.InDelta(t, 0.1, m.CDaR, 1e-12)
}

func TestRiskAdjustedMetrics(t *testing.T) {
	finals := []float64{0.05, -0.02, 0.03, -0.01, 0.04}
	dds := []float64{-0.03, -0.05, -0.02, -0.04, -0.01}

	m, err := RiskAdjustedMetrics(finals, dds, 21)
	require.NoError(t, err)

	factor := math.Sqrt(252.0 / 21.0)
	assert.InDelta(t, 0.018*factor, m.AnnualizedReturn, 1e-9)
	assert.Greater(t, m.AnnualizedVolatility, 0.0)
	assert.Greater(t, m.Sharpe, 0.0)
	assert.Greater(t, m.Sortino, 0.0)
	assert.Greater(t, m.Calmar, 0.0)
}

func TestRiskAdjustedMetricsZeroVolatility(t *testing.T) {
	finals := []float64{0.02, 0.02, 0.02}

	m, err := RiskAdjustedMetrics(finals, []float64{0, 0, 0}, 21)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.Sharpe)
	assert.Equal(t, 0.0, m.Calmar)
	// No losing path: the downside deviation floor keeps Sortino finite.
	assert.Equal(t, downsideFloor, m.DownsideDeviation)
	assert.Greater(t, m.Sortino, 0.0)
	assert.False(t, math.IsInf(m.Sortino, 1))
}

func TestRiskAdjustedMetricsValidation(t *testing.T) {
	_, err := RiskAdjustedMetrics(nil, nil, 21)
	assert.True(t, domain.IsInputError(err))

	_, err = RiskAdjustedMetrics([]float64{0.1}, nil, 0)
	assert.True(t, domain.IsInputError(err))
}
