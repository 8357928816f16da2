package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, Percentile(values, 0), 1e-12)
	assert.InDelta(t, 1.75, Percentile(values, 25), 1e-12)
	assert.InDelta(t, 2.5, Percentile(values, 50), 1e-12)
	assert.InDelta(t, 3.25, Percentile(values, 75), 1e-12)
	assert.InDelta(t, 4.0, Percentile(values, 100), 1e-12)
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = Percentile(values, 50)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestPercentileUnsortedMatchesSorted(t *testing.T) {
	unsorted := []float64{9, -4, 2.5, 0, 7}
	sorted := []float64{-4, 0, 2.5, 7, 9}

	for _, p := range []float64{5, 25, 50, 75, 95} {
		assert.InDelta(t, PercentileSorted(sorted, p), Percentile(unsorted, p), 1e-12)
	}
}

func TestPercentileEdgeCases(t *testing.T) {
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
	assert.Equal(t, 42.0, Percentile([]float64{42}, 5))
	assert.Equal(t, 42.0, Percentile([]float64{42}, 95))
}

func TestNormQuantile(t *testing.T) {
	// Standard reference values for the normal inverse CDF.
	require.InDelta(t, -1.6448536269514722, NormQuantile(0.05), 1e-9)
	require.InDelta(t, -2.3263478740408408, NormQuantile(0.01), 1e-9)
	require.InDelta(t, 0.0, NormQuantile(0.5), 1e-12)
	require.InDelta(t, 1.6448536269514722, NormQuantile(0.95), 1e-9)
}
