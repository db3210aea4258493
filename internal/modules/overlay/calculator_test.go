package overlay

import (
	"testing"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/aristath/advisor-engine/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() zerolog.Logger {
	return logger.New(logger.Config{Level: "error", Pretty: false})
}

func assertWithinClamps(t *testing.T, snap *policy.Snapshot, result RiskOverlay) {
	t.Helper()
	for _, key := range policy.GuardrailKeys {
		clamp := snap.Clamps[key]
		value := result.Absolute[key]
		assert.GreaterOrEqual(t, value, clamp.Min, "key %s below clamp", key)
		assert.LessOrEqual(t, value, clamp.Max, "key %s above clamp", key)
	}
}

func TestCalculate_NeutralBaseline(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	result := c.Calculate(snap, policy.RegimeNeutral, nil, nil, nil)

	assert.InDelta(t, 1.0, result.Absolute[policy.KeyRiskMultiplier], 1e-9)
	assert.InDelta(t, 0.05, result.Absolute[policy.KeyMinCash], 1e-9)
	assertWithinClamps(t, snap, result)
}

func TestCalculate_CrisisCutsRisk(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	result := c.Calculate(snap, "crisis", nil, nil, nil)

	assert.InDelta(t, 0.35, result.Absolute[policy.KeyRiskMultiplier], 1e-9)
	assert.Greater(t, result.Absolute[policy.KeyMinCash], 0.05)
	assert.Less(t, result.Absolute[policy.KeyMaxInvest], 0.95)
	assertWithinClamps(t, snap, result)
}

func TestCalculate_UnknownRegimeFallsBackToNeutral(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	unknown := c.Calculate(snap, "made_up", nil, nil, nil)
	neutral := c.Calculate(snap, policy.RegimeNeutral, nil, nil, nil)

	assert.Equal(t, neutral.Absolute, unknown.Absolute)
}

func TestCalculate_ScenarioNeverTouchesRiskMultiplier(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	without := c.Calculate(snap, policy.RegimeNeutral, nil, nil, nil)
	with := c.Calculate(snap, policy.RegimeNeutral, []string{"market_panic", "credit_event"}, nil, nil)

	assert.Equal(t, without.Multipliers[policy.KeyRiskMultiplier], with.Multipliers[policy.KeyRiskMultiplier])
	assert.Less(t, with.Absolute[policy.KeyMaxLeverage], without.Absolute[policy.KeyMaxLeverage])
}

func TestCalculate_PortfolioRulesApply(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	calm := c.Calculate(snap, policy.RegimeNeutral, nil, map[string]float64{"drawdown": 0.02}, nil)
	stressed := c.Calculate(snap, policy.RegimeNeutral, nil, map[string]float64{"drawdown": 0.15}, nil)

	assert.Less(t, stressed.Absolute[policy.KeyRiskMultiplier], calm.Absolute[policy.KeyRiskMultiplier])
}

func TestCalculate_UserConstraints(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	result := c.Calculate(snap, policy.RegimeNeutral, nil, nil, map[string]float64{
		"min_cash":   0.20, // raises the floor
		"max_invest": 0.50, // lowers the ceiling
	})

	assert.InDelta(t, 0.20, result.Absolute[policy.KeyMinCash], 1e-9)
	assert.InDelta(t, 0.50, result.Absolute[policy.KeyMaxInvest], 1e-9)
	assertWithinClamps(t, snap, result)
}

func TestCalculate_UserConstraintCannotRelax(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	// A looser user bound than the computed one must not move anything.
	result := c.Calculate(snap, "crisis", nil, nil, map[string]float64{
		"min_cash":   0.01, // lower than crisis floor, ignored
		"max_invest": 2.00, // higher than crisis ceiling, ignored
	})
	baseline := c.Calculate(snap, "crisis", nil, nil, nil)

	assert.Equal(t, baseline.Absolute[policy.KeyMinCash], result.Absolute[policy.KeyMinCash])
	assert.Equal(t, baseline.Absolute[policy.KeyMaxInvest], result.Absolute[policy.KeyMaxInvest])
}

func TestCalculate_ClampInvariantUnderExtremeInputs(t *testing.T) {
	c := NewCalculator(testLog())
	snap := policy.Default()

	// Stack every risk-off adjustment at once; clamps must still hold.
	state := map[string]float64{
		"leverage":      5.0,
		"drawdown":      0.9,
		"concentration": 0.9,
		"cash_ratio":    0.0,
	}
	result := c.Calculate(snap, "crisis", []string{"market_panic", "liquidity_tightening", "credit_event"}, state, nil)

	require.NotEmpty(t, result.Absolute)
	assertWithinClamps(t, snap, result)
}
