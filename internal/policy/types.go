package policy

// Guardrail keys used across the overlay tables. risk_multiplier is the headline
// position-size multiplier; the remaining keys are enforced as absolute limits.
const (
	KeyRiskMultiplier = "risk_multiplier"
	KeyMaxLeverage    = "max_leverage"
	KeyMinCash        = "min_cash"
	KeyMaxInvest      = "max_invest"
	KeyMaxTurnover    = "max_turnover"
	KeyMaxCorr        = "max_corr"
)

// GuardrailKeys lists every key in a stable, documented order.
var GuardrailKeys = []string{
	KeyRiskMultiplier,
	KeyMaxLeverage,
	KeyMinCash,
	KeyMaxInvest,
	KeyMaxTurnover,
	KeyMaxCorr,
}

// Comparator is one of ">", ">=", "<", "<=", "==".
type Comparator string

const (
	CompGT Comparator = ">"
	CompGE Comparator = ">="
	CompLT Comparator = "<"
	CompLE Comparator = "<="
	CompEQ Comparator = "=="
)

// Evaluate applies the comparator to value vs threshold.
func (c Comparator) Evaluate(value, threshold float64) bool {
	switch c {
	case CompGT:
		return value > threshold
	case CompGE:
		return value >= threshold
	case CompLT:
		return value < threshold
	case CompLE:
		return value <= threshold
	case CompEQ:
		return value == threshold
	}
	return false
}

// Valid reports whether the comparator is one of the supported five.
func (c Comparator) Valid() bool {
	switch c {
	case CompGT, CompGE, CompLT, CompLE, CompEQ:
		return true
	}
	return false
}

// ThresholdRule is a single weighted feature test inside a regime definition.
type ThresholdRule struct {
	Feature    string     `yaml:"feature"`
	Comparator Comparator `yaml:"comparator"`
	Threshold  float64    `yaml:"threshold"`
	Weight     float64    `yaml:"weight"`
	Reason     string     `yaml:"reason"`
}

// RegimeConfig defines one market regime: its id, display label and the ordered
// threshold rules that vote for it.
type RegimeConfig struct {
	ID    string          `yaml:"id"`
	Label string          `yaml:"label"`
	Rules []ThresholdRule `yaml:"rules"`
}

// ScenarioConfig defines one stress scenario detected by keyword matching.
type ScenarioConfig struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// PortfolioRule multiplies overlay adjustments in when a portfolio-state feature
// satisfies its comparator.
type PortfolioRule struct {
	Feature    string             `yaml:"feature"`
	Comparator Comparator         `yaml:"comparator"`
	Threshold  float64            `yaml:"threshold"`
	Adjust     map[string]float64 `yaml:"adjust"`
}

// ClampRange bounds an absolute guardrail value.
type ClampRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// BaseAllocation is a regime's four-bucket base allocation in integer percent.
// The four values must sum to 100.
type BaseAllocation struct {
	Stocks int `yaml:"stocks"`
	Bonds  int `yaml:"bonds"`
	Gold   int `yaml:"gold"`
	Cash   int `yaml:"cash"`
}

// Sum returns stocks+bonds+gold+cash.
func (b BaseAllocation) Sum() int {
	return b.Stocks + b.Bonds + b.Gold + b.Cash
}

// AllocationPolicy drives the primary allocator.
type AllocationPolicy struct {
	Base         map[string]BaseAllocation `yaml:"base"`
	Amplitude    float64                   `yaml:"amplitude"`     // max swing in percentage points
	DampingFloor float64                   `yaml:"damping_floor"` // applied at full disagreement
	ExpUp        float64                   `yaml:"exp_up"`
	ScaleUp      float64                   `yaml:"scale_up"`
	ExpDown      float64                   `yaml:"exp_down"`
	ScaleDown    float64                   `yaml:"scale_down"`
	MinCash      int                       `yaml:"min_cash"`
	MaxCash      int                       `yaml:"max_cash"`
}

// ExpertProfile describes one routable expert for the investor router.
type ExpertProfile struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Fund     string   `yaml:"fund"`
	Styles   []string `yaml:"styles"`
	Concepts []string `yaml:"concepts"`
}

// RouterConfig holds the investor router tables.
type RouterConfig struct {
	Profiles     []ExpertProfile     `yaml:"profiles"`
	QuickLookup  map[string][]string `yaml:"quick_lookup"`  // phrase -> expert ids
	ConsultOrder map[string][]string `yaml:"consult_order"` // scenario id -> ranked expert ids
	Intents      map[string]Intent   `yaml:"intents"`
	DefaultPanel []string            `yaml:"default_panel"`
}

// Intent maps trigger keywords to the experts consulted for that intent.
type Intent struct {
	Keywords []string `yaml:"keywords"`
	Experts  []string `yaml:"experts"`
}

// Snapshot is one immutable, fully-resolved policy configuration. It is built
// once by Load, published behind an atomic pointer by Store, and never mutated
// afterwards. Every evaluation component reads exactly one Snapshot per call.
type Snapshot struct {
	Regimes          []RegimeConfig
	Scenarios        []ScenarioConfig
	BaseGuardrails   map[string]float64
	RegimeOverlays   map[string]map[string]float64
	ScenarioOverlays map[string]map[string]float64
	PortfolioRules   []PortfolioRule
	Clamps           map[string]ClampRange
	ExpertCategories map[string]string
	DefaultCategory  string
	RegimeWeights    map[string]map[string]float64
	DefaultWeight    float64
	Personalities    map[string]string
	Allocation       AllocationPolicy
	Router           RouterConfig

	hash string
}

// Hash returns the sha256 content hash of the source the snapshot was loaded
// from, used to detect whether a reload is actually needed.
func (s *Snapshot) Hash() string {
	return s.hash
}

// Regime returns the config for the given regime id, falling back to neutral.
func (s *Snapshot) Regime(id string) (RegimeConfig, bool) {
	for _, r := range s.Regimes {
		if r.ID == id {
			return r, true
		}
	}
	return RegimeConfig{}, false
}

// BaseAllocationFor resolves a regime's base allocation, falling back to the
// neutral base when the regime has none configured.
func (s *Snapshot) BaseAllocationFor(regimeID string) BaseAllocation {
	if base, ok := s.Allocation.Base[regimeID]; ok {
		return base
	}
	return s.Allocation.Base[RegimeNeutral]
}

// RegimeOverlayFor resolves a regime's overlay multipliers, falling back to the
// neutral overlay.
func (s *Snapshot) RegimeOverlayFor(regimeID string) map[string]float64 {
	if overlay, ok := s.RegimeOverlays[regimeID]; ok {
		return overlay
	}
	return s.RegimeOverlays[RegimeNeutral]
}

// CategoryFor resolves an expert's category, falling back to DefaultCategory.
func (s *Snapshot) CategoryFor(expertID string) string {
	if cat, ok := s.ExpertCategories[expertID]; ok {
		return cat
	}
	return s.DefaultCategory
}

// WeightFor resolves the weight of an expert category under a regime, falling
// back to the neutral regime's table and then to DefaultWeight.
func (s *Snapshot) WeightFor(regimeID, category string) float64 {
	table, ok := s.RegimeWeights[regimeID]
	if !ok {
		table = s.RegimeWeights[RegimeNeutral]
	}
	if w, ok := table[category]; ok {
		return w
	}
	return s.DefaultWeight
}

// RegimeNeutral is the documented fallback regime id. Every lookup table that is
// keyed by regime id resolves unknown ids to this entry.
const RegimeNeutral = "neutral"
