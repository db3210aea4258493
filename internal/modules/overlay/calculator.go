package overlay

import (
	"math"
	"strings"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// RiskOverlay is the pair of maps the calculator produces: the combined
// multipliers per guardrail key, and the absolute enforced limits after
// applying base guardrails, clamps and user constraints.
type RiskOverlay struct {
	Multipliers map[string]float64 `json:"multipliers"`
	Absolute    map[string]float64 `json:"absolute"`
	Suggestions []string           `json:"suggestions"`
}

// Calculator derives bounded position-size multipliers and absolute guardrails
// from the regime, the matched scenarios and the portfolio state. Pure given
// its inputs plus the policy snapshot.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a new risk overlay calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("module", "overlay").Logger(),
	}
}

// Calculate builds the overlay in four multiplicative passes (regime, scenarios,
// portfolio state) followed by clamping and user hard constraints.
// risk_multiplier is adjusted by regime and portfolio state only, never by a
// scenario.
func (c *Calculator) Calculate(
	snap *policy.Snapshot,
	regimeID string,
	scenarioIDs []string,
	portfolioState map[string]float64,
	constraints map[string]float64,
) RiskOverlay {
	multipliers := make(map[string]float64, len(policy.GuardrailKeys))
	for _, key := range policy.GuardrailKeys {
		multipliers[key] = 1.0
	}

	// Regime overlay, falling back to neutral's.
	for key, mult := range snap.RegimeOverlayFor(regimeID) {
		multipliers[key] *= mult
	}

	// Scenario overlays never touch the risk multiplier.
	for _, id := range scenarioIDs {
		adjust, ok := snap.ScenarioOverlays[id]
		if !ok {
			continue
		}
		for key, mult := range adjust {
			if key == policy.KeyRiskMultiplier {
				continue
			}
			multipliers[key] *= mult
		}
	}

	// Portfolio-state rules.
	for _, rule := range snap.PortfolioRules {
		value, ok := portfolioState[rule.Feature]
		if !ok || math.IsNaN(value) {
			continue
		}
		if !rule.Comparator.Evaluate(value, rule.Threshold) {
			continue
		}
		for key, mult := range rule.Adjust {
			multipliers[key] *= mult
		}
	}

	// Absolute limits: base * multiplier, clamped to the configured range.
	absolute := make(map[string]float64, len(policy.GuardrailKeys))
	for _, key := range policy.GuardrailKeys {
		value := snap.BaseGuardrails[key] * multipliers[key]
		if clamp, ok := snap.Clamps[key]; ok {
			value = math.Max(clamp.Min, math.Min(clamp.Max, value))
		}
		absolute[key] = value
	}

	// User hard constraints: floors are only ever raised, ceilings only ever
	// lowered, and the configured clamp range still wins.
	for key, bound := range constraints {
		current, ok := absolute[key]
		if !ok || math.IsNaN(bound) {
			continue
		}
		if strings.HasPrefix(key, "min_") {
			if bound > current {
				current = bound
			}
		} else {
			if bound < current {
				current = bound
			}
		}
		if clamp, ok := snap.Clamps[key]; ok {
			current = math.Max(clamp.Min, math.Min(clamp.Max, current))
		}
		absolute[key] = current
	}

	result := RiskOverlay{
		Multipliers: multipliers,
		Absolute:    absolute,
		Suggestions: suggestionsFor(regimeID, absolute),
	}

	c.log.Debug().
		Str("regime", regimeID).
		Int("scenarios", len(scenarioIDs)).
		Float64("risk_multiplier", absolute[policy.KeyRiskMultiplier]).
		Msg("Risk overlay calculated")

	return result
}

// suggestionsFor produces the human-readable positioning notes attached to the
// overlay, keyed off the regime.
func suggestionsFor(regimeID string, absolute map[string]float64) []string {
	var out []string

	switch regimeID {
	case "crisis":
		out = append(out, "Crisis regime: hold cash, wait for forced sellers")
	case "stagflation":
		out = append(out, "Stagflation regime: favor real assets and short duration")
	case "bull":
		out = append(out, "Bull regime: participate, but keep stops in place")
	default:
		out = append(out, "Range-bound regime: trade the range, avoid chasing")
	}

	if rm := absolute[policy.KeyRiskMultiplier]; rm < 0.5 {
		out = append(out, "Position sizing cut to less than half of normal")
	}
	if mc := absolute[policy.KeyMinCash]; mc >= 0.15 {
		out = append(out, "Minimum cash floor raised above 15%")
	}

	return out
}
