package scenario

import (
	"strings"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// Match is one detected stress scenario.
type Match struct {
	ScenarioID string   `json:"scenario_id"`
	Label      string   `json:"label"`
	Keywords   []string `json:"keywords"` // the keywords that actually matched
}

// Matcher tags stress scenarios from free text by case-insensitive substring
// match. A scenario either matches or it does not; there is no score.
type Matcher struct {
	log zerolog.Logger
}

// NewMatcher creates a new scenario matcher.
func NewMatcher(log zerolog.Logger) *Matcher {
	return &Matcher{
		log: log.With().Str("module", "scenario").Logger(),
	}
}

// Match returns every scenario whose keyword list hits the text, in
// configuration order. Callers treat the first entry as the primary scenario.
func (m *Matcher) Match(snap *policy.Snapshot, text string) []Match {
	matches := []Match{}
	if text == "" {
		return matches
	}

	lowered := strings.ToLower(text)
	for _, cfg := range snap.Scenarios {
		var hits []string
		for _, kw := range cfg.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				hits = append(hits, kw)
			}
		}
		if len(hits) > 0 {
			matches = append(matches, Match{
				ScenarioID: cfg.ID,
				Label:      cfg.Label,
				Keywords:   hits,
			})
		}
	}

	if len(matches) > 0 {
		m.log.Debug().
			Int("count", len(matches)).
			Str("primary", matches[0].ScenarioID).
			Msg("Scenarios matched")
	}

	return matches
}

// IDs returns just the scenario ids of a match list, preserving order.
func IDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ScenarioID
	}
	return ids
}
