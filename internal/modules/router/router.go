package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/advisor-engine/internal/modules/scenario"
	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// Additive score bonuses. A direct name mention outranks everything else, then
// quick-lookup phrases, then consult-order position, then intent keywords, then
// plain token overlap.
const (
	nameMentionBonus  = 8.0
	quickLookupBonus  = 6.0
	consultOrderBonus = 4.0
	consultOrderFloor = 1.0
	intentBonus       = 2.5
	tokenOverlapBonus = 0.8
	tokenOverlapCap   = 4
	maxReasons        = 5
)

// Candidate is one ranked expert with the reasons that contributed to its
// score. Reasons are part of the contract, not logging.
type Candidate struct {
	ExpertID    string   `json:"expert_id"`
	Name        string   `json:"name"`
	Score       float64  `json:"score"`
	Category    string   `json:"category"`
	Personality string   `json:"personality"`
	Reasons     []string `json:"reasons"`
}

// Router ranks the configured experts by relevance to a free-text query.
type Router struct {
	matcher *scenario.Matcher
	log     zerolog.Logger
}

// NewRouter creates a new investor router.
func NewRouter(log zerolog.Logger) *Router {
	return &Router{
		matcher: scenario.NewMatcher(log),
		log:     log.With().Str("module", "router").Logger(),
	}
}

// Route scores every configured expert against the query and returns the top_k
// best, always at least the default panel when too few experts score above
// zero. top_k is clamped to [1,10].
func (r *Router) Route(snap *policy.Snapshot, text string, topK int) []Candidate {
	if topK < 1 {
		topK = 1
	}
	if topK > 10 {
		topK = 10
	}

	lowered := strings.ToLower(text)
	scores := make(map[string]float64)
	reasons := make(map[string][]string)

	add := func(expertID string, bonus float64, reason string) {
		scores[expertID] += bonus
		if len(reasons[expertID]) < maxReasons {
			reasons[expertID] = append(reasons[expertID], reason)
		}
	}

	// Direct name mentions.
	for _, p := range snap.Router.Profiles {
		if p.Name != "" && strings.Contains(lowered, strings.ToLower(p.Name)) {
			add(p.ID, nameMentionBonus, fmt.Sprintf("named directly: %s", p.Name))
		}
	}

	// Quick-lookup phrases, in sorted order so reason lists are deterministic.
	for _, phrase := range sortedKeys(snap.Router.QuickLookup) {
		if !strings.Contains(lowered, strings.ToLower(phrase)) {
			continue
		}
		for _, id := range snap.Router.QuickLookup[phrase] {
			add(id, quickLookupBonus, fmt.Sprintf("signature phrase %q", phrase))
		}
	}

	// Scenario consult order, decayed by rank within each matched scenario.
	for _, match := range r.matcher.Match(snap, text) {
		order := snap.Router.ConsultOrder[match.ScenarioID]
		for rank, id := range order {
			bonus := consultOrderBonus - float64(rank)
			if bonus < consultOrderFloor {
				bonus = consultOrderFloor
			}
			add(id, bonus, fmt.Sprintf("consulted for %s (rank %d)", match.Label, rank+1))
		}
	}

	// Intent keywords, again in sorted order.
	for _, name := range sortedKeys(snap.Router.Intents) {
		intent := snap.Router.Intents[name]
		if !containsAny(lowered, intent.Keywords) {
			continue
		}
		for _, id := range intent.Experts {
			add(id, intentBonus, fmt.Sprintf("%s intent", name))
		}
	}

	// Field-token overlap against styles, concepts and fund name.
	for _, p := range snap.Router.Profiles {
		overlap := 0
		var hits []string
		fields := make([]string, 0, len(p.Styles)+len(p.Concepts)+1)
		fields = append(fields, p.Styles...)
		fields = append(fields, p.Concepts...)
		if p.Fund != "" {
			fields = append(fields, p.Fund)
		}
		for _, token := range fields {
			if strings.Contains(lowered, strings.ToLower(token)) {
				overlap++
				hits = append(hits, token)
			}
		}
		if overlap == 0 {
			continue
		}
		if overlap > tokenOverlapCap {
			overlap = tokenOverlapCap
		}
		add(p.ID, tokenOverlapBonus*float64(overlap), fmt.Sprintf("field overlap: %s", strings.Join(hits, ", ")))
	}

	// Rank scored experts, stable on profile order for ties.
	candidates := make([]Candidate, 0, len(scores))
	for _, p := range snap.Router.Profiles {
		if scores[p.ID] <= 0 {
			continue
		}
		candidates = append(candidates, r.candidate(snap, p.ID, scores[p.ID], reasons[p.ID]))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	// Pad with the default panel so callers always get a usable set.
	if len(candidates) < topK {
		present := make(map[string]bool, len(candidates))
		for _, c := range candidates {
			present[c.ExpertID] = true
		}
		for _, id := range snap.Router.DefaultPanel {
			if len(candidates) >= topK {
				break
			}
			if present[id] {
				continue
			}
			candidates = append(candidates, r.candidate(snap, id, 0, []string{"default panel"}))
			present[id] = true
		}
	}

	r.log.Debug().
		Int("candidates", len(candidates)).
		Int("top_k", topK).
		Msg("Experts routed")

	return candidates
}

func (r *Router) candidate(snap *policy.Snapshot, id string, score float64, why []string) Candidate {
	name := id
	for _, p := range snap.Router.Profiles {
		if p.ID == id {
			name = p.Name
			break
		}
	}
	if why == nil {
		why = []string{}
	}
	return Candidate{
		ExpertID:    id,
		Name:        name,
		Score:       score,
		Category:    snap.CategoryFor(id),
		Personality: personalityFor(snap, id),
		Reasons:     why,
	}
}

func personalityFor(snap *policy.Snapshot, id string) string {
	if p, ok := snap.Personalities[id]; ok {
		return p
	}
	return "analyst"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
