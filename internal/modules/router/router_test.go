package router

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

func TestRoute_EmptyQueryReturnsDefaultPanel(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	candidates := r.Route(snap, "", 3)

	require.Len(t, candidates, 3)
	assert.Equal(t, "ray_dalio", candidates[0].ExpertID)
	assert.Equal(t, "warren_buffett", candidates[1].ExpertID)
	assert.Equal(t, "howard_marks", candidates[2].ExpertID)
	for _, c := range candidates {
		assert.Equal(t, 0.0, c.Score)
		assert.Equal(t, []string{"default panel"}, c.Reasons)
	}
}

func TestRoute_DirectNameMentionOutranksEverything(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	candidates := r.Route(snap, "What would Warren Buffett do about inflation?", 3)

	require.NotEmpty(t, candidates)
	assert.Equal(t, "warren_buffett", candidates[0].ExpertID)
	assert.Contains(t, candidates[0].Reasons[0], "named directly")
}

func TestRoute_QuickLookupPhrase(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	candidates := r.Route(snap, "is there a margin of safety here?", 3)

	require.NotEmpty(t, candidates)
	assert.Equal(t, "warren_buffett", candidates[0].ExpertID)
	assert.Equal(t, "seth_klarman", candidates[1].ExpertID)
}

func TestRoute_ScenarioConsultOrderDecaysByRank(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	candidates := r.Route(snap, "full blown market panic and capitulation", 4)

	require.NotEmpty(t, candidates)
	// market_panic consult order starts with ray_dalio.
	assert.Equal(t, "ray_dalio", candidates[0].ExpertID)
	for i := 1; i < len(candidates); i++ {
		assert.LessOrEqual(t, candidates[i].Score, candidates[i-1].Score)
	}
}

func TestRoute_TopKClamped(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	assert.Len(t, r.Route(snap, "", 0), 1)
	assert.LessOrEqual(t, len(r.Route(snap, "macro inflation rates fed", 50)), 10)
	assert.Len(t, r.Route(snap, "", -3), 1)
}

func TestRoute_ReasonsCapped(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	// Trips name mention, quick lookup, several scenarios, macro intent and
	// token overlap for the same expert.
	query := "ray dalio all weather macro view on panic, liquidity and inflation, debt cycle diversification"
	candidates := r.Route(snap, query, 3)

	require.NotEmpty(t, candidates)
	assert.Equal(t, "ray_dalio", candidates[0].ExpertID)
	assert.LessOrEqual(t, len(candidates[0].Reasons), 5)
}

func TestRoute_PadsWithDefaultPanel(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	candidates := r.Route(snap, "looking for a moat", 4)

	require.Len(t, candidates, 4)
	scored := map[string]bool{}
	for _, c := range candidates {
		assert.False(t, scored[c.ExpertID], "duplicate expert %s", c.ExpertID)
		scored[c.ExpertID] = true
	}
	assert.Equal(t, "warren_buffett", candidates[0].ExpertID)
	assert.Equal(t, "charlie_munger", candidates[1].ExpertID)
}

func TestRoute_Deterministic(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	query := "sell into this melt-up? margin of safety vs fomo, maybe stop loss"
	first := r.Route(snap, query, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Route(snap, query, 5))
	}
}

func TestRoute_CandidateMetadata(t *testing.T) {
	r := NewRouter(testLog())
	snap := policy.Default()

	candidates := r.Route(snap, "warren buffett", 1)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Warren Buffett", candidates[0].Name)
	assert.Equal(t, "value", candidates[0].Category)
	assert.Equal(t, "bull", candidates[0].Personality)
}
