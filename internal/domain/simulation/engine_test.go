package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab-id/riskcast/internal/domain"
	"github.com/quantlab-id/riskcast/internal/domain/stats"
)

func testModel(mean, vol float64) *ReturnModel {
	return &ReturnModel{
		MeanDailyReturn: mean,
		Volatility:      vol,
		Symbols:         []string{"A"},
		Weights:         []float64{1.0},
	}
}

func seedPtr(s int64) *int64 { return &s }

func TestSimulateShapes(t *testing.T) {
	e := NewEngine()
	ensemble, err := e.Simulate(context.Background(), testModel(0.001, 0.01), 200, 10, seedPtr(1))
	require.NoError(t, err)

	require.Len(t, ensemble.Paths, 200)
	for _, path := range ensemble.Paths {
		require.Len(t, path, 10)
	}
	assert.Len(t, ensemble.FinalReturns, 200)
	assert.Len(t, ensemble.MaxDrawdowns, 200)
	assert.Equal(t, 10, ensemble.TimeHorizon)
	assert.Equal(t, []string{"A"}, ensemble.Assets)

	require.Len(t, ensemble.Percentiles, len(PercentileLevels))
	for _, level := range PercentileLevels {
		assert.Len(t, ensemble.Percentiles[level], 10)
	}

	// Each path's last cumulative return is its final return, and drawdowns
	// are signed negative.
	for i, path := range ensemble.Paths {
		assert.Equal(t, path[9], ensemble.FinalReturns[i])
		assert.LessOrEqual(t, ensemble.MaxDrawdowns[i], 0.0)
	}
}

func TestSimulateSeedReproducibility(t *testing.T) {
	e := NewEngine()

	first, err := e.Simulate(context.Background(), testModel(0.0005, 0.02), 300, 21, seedPtr(42))
	require.NoError(t, err)
	second, err := e.Simulate(context.Background(), testModel(0.0005, 0.02), 300, 21, seedPtr(42))
	require.NoError(t, err)

	assert.Equal(t, first.FinalReturns, second.FinalReturns)
	assert.Equal(t, first.MaxDrawdowns, second.MaxDrawdowns)
	assert.Equal(t, first.Percentiles, second.Percentiles)

	third, err := e.Simulate(context.Background(), testModel(0.0005, 0.02), 300, 21, seedPtr(43))
	require.NoError(t, err)
	assert.NotEqual(t, first.FinalReturns, third.FinalReturns)
}

func TestSimulateIndependentOfWorkerCount(t *testing.T) {
	serial, err := NewEngineWithWorkers(1).
		Simulate(context.Background(), testModel(0.001, 0.015), 250, 15, seedPtr(7))
	require.NoError(t, err)

	parallel, err := NewEngineWithWorkers(8).
		Simulate(context.Background(), testModel(0.001, 0.015), 250, 15, seedPtr(7))
	require.NoError(t, err)

	assert.Equal(t, serial.FinalReturns, parallel.FinalReturns)
	assert.Equal(t, serial.Paths, parallel.Paths)
}

func TestSimulatePercentilesOrdered(t *testing.T) {
	ensemble, err := NewEngine().
		Simulate(context.Background(), testModel(0.001, 0.01), 500, 10, seedPtr(42))
	require.NoError(t, err)

	for day := 0; day < 10; day++ {
		for i := 1; i < len(PercentileLevels); i++ {
			lo := PercentileLevels[i-1]
			hi := PercentileLevels[i]
			assert.LessOrEqualf(t, ensemble.Percentiles[lo][day], ensemble.Percentiles[hi][day],
				"p%d > p%d on day %d", lo, hi, day)
		}
	}

	// The 95% historical VaR of a mildly positive-drift model is a small
	// positive loss fraction.
	var95 := -stats.Percentile(ensemble.FinalReturns, 5)
	assert.Greater(t, var95, 0.0)
	assert.Less(t, var95, 1.0)
}

func TestSimulateZeroVolatility(t *testing.T) {
	ensemble, err := NewEngine().
		Simulate(context.Background(), testModel(0.01, 0), 10, 5, seedPtr(1))
	require.NoError(t, err)

	want := math.Pow(1.01, 5) - 1
	for _, r := range ensemble.FinalReturns {
		assert.InDelta(t, want, r, 1e-12)
	}
	for _, dd := range ensemble.MaxDrawdowns {
		assert.Equal(t, 0.0, dd)
	}
}

func TestSimulateValidation(t *testing.T) {
	e := NewEngine()
	ctx := context.Background()

	_, err := e.Simulate(ctx, nil, 100, 10, nil)
	assert.True(t, domain.IsInputError(err))

	_, err = e.Simulate(ctx, testModel(0.001, 0.01), 0, 10, nil)
	assert.True(t, domain.IsInputError(err))

	_, err = e.Simulate(ctx, testModel(0.001, 0.01), 100, -1, nil)
	assert.True(t, domain.IsInputError(err))

	_, err = e.Simulate(ctx, testModel(math.NaN(), 0.01), 100, 10, nil)
	assert.True(t, domain.IsInputError(err))

	_, err = e.Simulate(ctx, testModel(0.001, -0.01), 100, 10, nil)
	assert.True(t, domain.IsInputError(err))
}

func TestSimulateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ensemble, err := NewEngine().Simulate(ctx, testModel(0.001, 0.01), 10000, 50, seedPtr(1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ensemble)
}
