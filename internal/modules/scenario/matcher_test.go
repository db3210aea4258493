package scenario

import (
	"testing"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/aristath/advisor-engine/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testLog() zerolog.Logger {
	return logger.New(logger.Config{Level: "error", Pretty: false})
}

func TestMatch_EmptyText(t *testing.T) {
	m := NewMatcher(testLog())

	matches := m.Match(policy.Default(), "")

	assert.Empty(t, matches)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	m := NewMatcher(testLog())

	matches := m.Match(policy.Default(), "Markets in PANIC after the crash")

	assert.Len(t, matches, 1)
	assert.Equal(t, "market_panic", matches[0].ScenarioID)
	assert.ElementsMatch(t, []string{"panic", "crash"}, matches[0].Keywords)
}

func TestMatch_MultipleScenariosInConfigurationOrder(t *testing.T) {
	m := NewMatcher(testLog())

	matches := m.Match(policy.Default(), "panic selling as liquidity dries up and inflation stays sticky")

	ids := IDs(matches)
	assert.Equal(t, []string{"market_panic", "liquidity_tightening", "inflation_shock"}, ids)
}

func TestMatch_NoScenario(t *testing.T) {
	m := NewMatcher(testLog())

	matches := m.Match(policy.Default(), "quiet session, nothing notable")

	assert.Empty(t, matches)
}
