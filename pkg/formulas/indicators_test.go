package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRSI(t *testing.T) {
	short := []float64{100, 101, 102}
	assert.Nil(t, CalculateRSI(short, 14))

	rising := make([]float64, 30)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	rsi := CalculateRSI(rising, 14)
	require.NotNil(t, rsi)
	assert.Greater(t, *rsi, 70.0)

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 130 - float64(i)
	}
	rsi = CalculateRSI(falling, 14)
	require.NotNil(t, rsi)
	assert.Less(t, *rsi, 30.0)
}

func TestCalculateSMA(t *testing.T) {
	assert.Nil(t, CalculateSMA([]float64{1, 2}, 5))

	sma := CalculateSMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NotNil(t, sma)
	assert.InDelta(t, 3.0, *sma, 1e-9)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	assert.Nil(t, CalculateMaxDrawdown([]float64{100}))

	dd := CalculateMaxDrawdown([]float64{100, 120, 90, 110, 80})
	require.NotNil(t, dd)
	// Worst slide: 120 down to 80.
	assert.InDelta(t, 1.0/3.0, *dd, 1e-9)

	flat := CalculateMaxDrawdown([]float64{100, 100, 100})
	require.NotNil(t, flat)
	assert.Equal(t, 0.0, *flat)
}
