package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// fileSchema is the YAML shape of the policy file. Every section is optional;
// a missing section keeps the built-in default table.
type fileSchema struct {
	Regimes          []RegimeConfig                `yaml:"regimes"`
	Scenarios        []ScenarioConfig              `yaml:"scenarios"`
	BaseGuardrails   map[string]float64            `yaml:"base_guardrails"`
	RegimeOverlays   map[string]map[string]float64 `yaml:"regime_overlays"`
	ScenarioOverlays map[string]map[string]float64 `yaml:"scenario_overlays"`
	PortfolioRules   []PortfolioRule               `yaml:"portfolio_overlays"`
	Clamps           map[string]ClampRange         `yaml:"clamps"`
	ExpertCategories map[string]string             `yaml:"expert_categories"`
	RegimeWeights    map[string]map[string]float64 `yaml:"regime_weights"`
	Personalities    map[string]string             `yaml:"master_personalities"`
	Allocation       *AllocationPolicy             `yaml:"allocation"`
	Router           *RouterConfig                 `yaml:"router"`
}

// Loader loads policy snapshots from YAML files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new policy loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "policy_loader").Logger(),
	}
}

// Default returns a snapshot built entirely from the baked-in tables. Used when
// no policy file is configured, and by tests.
func Default() *Snapshot {
	snap, _ := build(fileSchema{}, "")
	return snap
}

// LoadFile reads and validates a policy file, returning an immutable snapshot.
// A load failure is fatal to the owning process; evaluation code assumes a
// valid snapshot and never re-validates per call.
func (l *Loader) LoadFile(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	snap, err := l.LoadBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}

	l.log.Info().
		Str("path", path).
		Str("hash", snap.Hash()[:12]).
		Int("regimes", len(snap.Regimes)).
		Int("scenarios", len(snap.Scenarios)).
		Int("experts", len(snap.Router.Profiles)).
		Msg("Policy loaded")

	return snap, nil
}

// LoadBytes parses raw YAML into a validated snapshot.
func (l *Loader) LoadBytes(raw []byte) (*Snapshot, error) {
	var file fileSchema
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	sum := sha256.Sum256(raw)
	return build(file, hex.EncodeToString(sum[:]))
}

// build merges the parsed file over the defaults and validates the result.
func build(file fileSchema, hash string) (*Snapshot, error) {
	snap := &Snapshot{
		Regimes:          defaultRegimes(),
		Scenarios:        defaultScenarios(),
		BaseGuardrails:   defaultBaseGuardrails(),
		RegimeOverlays:   defaultRegimeOverlays(),
		ScenarioOverlays: defaultScenarioOverlays(),
		PortfolioRules:   defaultPortfolioRules(),
		Clamps:           defaultClamps(),
		ExpertCategories: defaultExpertCategories(),
		DefaultCategory:  DefaultCategoryFallback,
		RegimeWeights:    defaultRegimeWeights(),
		DefaultWeight:    DefaultWeightFallback,
		Personalities:    defaultPersonalities(),
		Allocation:       defaultAllocationPolicy(),
		Router:           defaultRouter(),
		hash:             hash,
	}

	if len(file.Regimes) > 0 {
		snap.Regimes = file.Regimes
	}
	if len(file.Scenarios) > 0 {
		snap.Scenarios = file.Scenarios
	}
	for key, val := range file.BaseGuardrails {
		snap.BaseGuardrails[key] = val
	}
	for id, overlay := range file.RegimeOverlays {
		snap.RegimeOverlays[id] = overlay
	}
	for id, overlay := range file.ScenarioOverlays {
		snap.ScenarioOverlays[id] = overlay
	}
	if len(file.PortfolioRules) > 0 {
		snap.PortfolioRules = file.PortfolioRules
	}
	for key, clamp := range file.Clamps {
		snap.Clamps[key] = clamp
	}
	for id, cat := range file.ExpertCategories {
		snap.ExpertCategories[id] = cat
	}
	for id, table := range file.RegimeWeights {
		snap.RegimeWeights[id] = table
	}
	for id, p := range file.Personalities {
		snap.Personalities[id] = p
	}
	if file.Allocation != nil {
		merged := defaultAllocationPolicy()
		if len(file.Allocation.Base) > 0 {
			for id, base := range file.Allocation.Base {
				merged.Base[id] = base
			}
		}
		if file.Allocation.Amplitude > 0 {
			merged.Amplitude = file.Allocation.Amplitude
		}
		if file.Allocation.DampingFloor > 0 {
			merged.DampingFloor = file.Allocation.DampingFloor
		}
		if file.Allocation.ExpUp > 0 {
			merged.ExpUp = file.Allocation.ExpUp
		}
		if file.Allocation.ScaleUp > 0 {
			merged.ScaleUp = file.Allocation.ScaleUp
		}
		if file.Allocation.ExpDown > 0 {
			merged.ExpDown = file.Allocation.ExpDown
		}
		if file.Allocation.ScaleDown > 0 {
			merged.ScaleDown = file.Allocation.ScaleDown
		}
		if file.Allocation.MinCash > 0 {
			merged.MinCash = file.Allocation.MinCash
		}
		if file.Allocation.MaxCash > 0 {
			merged.MaxCash = file.Allocation.MaxCash
		}
		snap.Allocation = merged
	}
	if file.Router != nil {
		merged := defaultRouter()
		if len(file.Router.Profiles) > 0 {
			merged.Profiles = file.Router.Profiles
		}
		if len(file.Router.QuickLookup) > 0 {
			merged.QuickLookup = file.Router.QuickLookup
		}
		if len(file.Router.ConsultOrder) > 0 {
			merged.ConsultOrder = file.Router.ConsultOrder
		}
		if len(file.Router.Intents) > 0 {
			merged.Intents = file.Router.Intents
		}
		if len(file.Router.DefaultPanel) > 0 {
			merged.DefaultPanel = file.Router.DefaultPanel
		}
		snap.Router = merged
	}

	if err := validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// validate checks the structural invariants once, at load time.
func validate(s *Snapshot) error {
	if _, ok := s.Regime(RegimeNeutral); !ok {
		return fmt.Errorf("regime table must contain %q", RegimeNeutral)
	}
	seen := make(map[string]bool, len(s.Regimes))
	for _, r := range s.Regimes {
		if r.ID == "" {
			return fmt.Errorf("regime with empty id")
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate regime id %q", r.ID)
		}
		seen[r.ID] = true
		for _, rule := range r.Rules {
			if !rule.Comparator.Valid() {
				return fmt.Errorf("regime %q: invalid comparator %q", r.ID, rule.Comparator)
			}
			if rule.Feature == "" {
				return fmt.Errorf("regime %q: rule with empty feature", r.ID)
			}
		}
	}

	for _, rule := range s.PortfolioRules {
		if !rule.Comparator.Valid() {
			return fmt.Errorf("portfolio overlay %q: invalid comparator %q", rule.Feature, rule.Comparator)
		}
	}

	for key, clamp := range s.Clamps {
		if clamp.Min > clamp.Max {
			return fmt.Errorf("clamp for %q: min %.3f > max %.3f", key, clamp.Min, clamp.Max)
		}
	}

	if _, ok := s.Allocation.Base[RegimeNeutral]; !ok {
		return fmt.Errorf("allocation base table must contain %q", RegimeNeutral)
	}
	for id, base := range s.Allocation.Base {
		if base.Sum() != 100 {
			return fmt.Errorf("base allocation for %q sums to %d, want 100", id, base.Sum())
		}
		if base.Stocks < 0 || base.Bonds < 0 || base.Gold < 0 || base.Cash < 0 {
			return fmt.Errorf("base allocation for %q has a negative bucket", id)
		}
	}
	if s.Allocation.DampingFloor <= 0 || s.Allocation.DampingFloor > 1 {
		return fmt.Errorf("damping floor %.3f outside (0,1]", s.Allocation.DampingFloor)
	}
	if s.Allocation.MinCash > s.Allocation.MaxCash {
		return fmt.Errorf("min_cash %d > max_cash %d", s.Allocation.MinCash, s.Allocation.MaxCash)
	}

	if _, ok := s.RegimeWeights[RegimeNeutral]; !ok {
		return fmt.Errorf("regime weight matrix must contain %q", RegimeNeutral)
	}

	return nil
}
