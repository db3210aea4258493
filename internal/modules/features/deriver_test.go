package features

import (
	"testing"

	"github.com/aristath/advisor-engine/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() zerolog.Logger {
	return logger.New(logger.Config{Level: "error", Pretty: false})
}

func TestDerive_TooFewPrices(t *testing.T) {
	d := NewDeriver(testLog())

	assert.Empty(t, d.Derive(nil))
	assert.Empty(t, d.Derive([]float64{100}))
}

func TestDerive_ShortSeriesSkipsLongIndicators(t *testing.T) {
	d := NewDeriver(testLog())

	// Ten closes: enough for volatility and drawdown, not for RSI(14) or SMA(200).
	closes := []float64{100, 101, 99, 102, 103, 101, 104, 105, 103, 106}
	out := d.Derive(closes)

	assert.Contains(t, out, "volatility")
	assert.Contains(t, out, "drawdown")
	assert.NotContains(t, out, "rsi")
	assert.NotContains(t, out, "ma_ratio_200")
}

func TestDerive_FullSeries(t *testing.T) {
	d := NewDeriver(testLog())

	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.2
	}
	out := d.Derive(closes)

	require.Contains(t, out, "rsi")
	require.Contains(t, out, "ma_ratio_200")
	// Steadily rising series: overbought RSI, price above its 200-day average,
	// no drawdown.
	assert.Greater(t, out["rsi"], 70.0)
	assert.Greater(t, out["ma_ratio_200"], 1.0)
	assert.Equal(t, 0.0, out["drawdown"])
}

func TestDerive_DrawdownFromPeak(t *testing.T) {
	d := NewDeriver(testLog())

	closes := []float64{100, 120, 90, 95}
	out := d.Derive(closes)

	require.Contains(t, out, "drawdown")
	assert.InDelta(t, 0.25, out["drawdown"], 1e-9)
}

func TestMerge_ExplicitWins(t *testing.T) {
	explicit := map[string]float64{"vix": 45, "drawdown": 0.30}
	derived := map[string]float64{"drawdown": 0.10, "rsi": 28}

	merged := Merge(explicit, derived)

	assert.Equal(t, 45.0, merged["vix"])
	assert.Equal(t, 0.30, merged["drawdown"])
	assert.Equal(t, 28.0, merged["rsi"])
}

func TestMerge_NilInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.Equal(t, map[string]float64{"vix": 12}, Merge(map[string]float64{"vix": 12}, nil))
	assert.Equal(t, map[string]float64{"rsi": 55}, Merge(nil, map[string]float64{"rsi": 55}))
}
