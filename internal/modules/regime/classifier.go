package regime

import (
	"math"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// Classification is the result of scoring the feature map against the regime
// table.
type Classification struct {
	RegimeID   string             `json:"regime_id"`
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"` // winning score / sum of positive scores
	Reasons    []string           `json:"reasons"`
	Scores     map[string]float64 `json:"scores"` // per-regime totals, matched rules only
}

// Classifier scores feature thresholds into a named market regime. Pure
// function of the feature map plus the policy snapshot.
type Classifier struct {
	log zerolog.Logger
}

// NewClassifier creates a new regime classifier.
func NewClassifier(log zerolog.Logger) *Classifier {
	return &Classifier{
		log: log.With().Str("module", "regime").Logger(),
	}
}

// Classify sums the weights of every satisfied rule per regime and picks the
// highest positive total. Ties break in configuration order: the first regime
// to reach the winning score keeps it. Missing features contribute nothing.
// If nothing scores above zero, the result is neutral with confidence 0.
func (c *Classifier) Classify(snap *policy.Snapshot, features map[string]float64) Classification {
	scores := make(map[string]float64, len(snap.Regimes))
	reasons := make(map[string][]string, len(snap.Regimes))

	total := 0.0
	for _, cfg := range snap.Regimes {
		score := 0.0
		for _, rule := range cfg.Rules {
			value, ok := features[rule.Feature]
			if !ok || math.IsNaN(value) {
				continue
			}
			if rule.Comparator.Evaluate(value, rule.Threshold) {
				score += rule.Weight
				if rule.Reason != "" {
					reasons[cfg.ID] = append(reasons[cfg.ID], rule.Reason)
				}
			}
		}
		scores[cfg.ID] = score
		if score > 0 {
			total += score
		}
	}

	// First regime in configuration order wins ties.
	winner := ""
	best := 0.0
	for _, cfg := range snap.Regimes {
		if scores[cfg.ID] > best {
			best = scores[cfg.ID]
			winner = cfg.ID
		}
	}

	if winner == "" {
		return Classification{
			RegimeID:   policy.RegimeNeutral,
			Label:      labelFor(snap, policy.RegimeNeutral),
			Confidence: 0.0,
			Reasons:    []string{},
			Scores:     scores,
		}
	}

	result := Classification{
		RegimeID:   winner,
		Label:      labelFor(snap, winner),
		Confidence: best / total,
		Reasons:    reasons[winner],
		Scores:     scores,
	}
	if result.Reasons == nil {
		result.Reasons = []string{}
	}

	c.log.Debug().
		Str("regime", result.RegimeID).
		Float64("confidence", result.Confidence).
		Msg("Regime classified")

	return result
}

func labelFor(snap *policy.Snapshot, id string) string {
	if cfg, ok := snap.Regime(id); ok && cfg.Label != "" {
		return cfg.Label
	}
	return id
}
