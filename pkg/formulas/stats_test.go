package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	// Sample standard deviation of {2,4,4,4,5,5,7,9} is ~2.138.
	assert.InDelta(t, 2.138, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
}

func TestCalculateReturns(t *testing.T) {
	assert.Empty(t, CalculateReturns([]float64{100}))

	returns := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))

	returns := []float64{0.01, -0.02, 0.015, -0.005, 0.02}
	want := StdDev(returns) * math.Sqrt(252)
	assert.InDelta(t, want, AnnualizedVolatility(returns), 1e-12)
}

func TestCorrelation(t *testing.T) {
	assert.Equal(t, 0.0, Correlation(nil, nil))
	assert.Equal(t, 0.0, Correlation([]float64{1, 2}, []float64{1}))

	x := []float64{1, 2, 3, 4, 5}
	up := []float64{2, 4, 6, 8, 10}
	down := []float64{10, 8, 6, 4, 2}
	assert.InDelta(t, 1.0, Correlation(x, up), 1e-9)
	assert.InDelta(t, -1.0, Correlation(x, down), 1e-9)
}
