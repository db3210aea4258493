package policy

// Built-in defaults. The YAML policy file overrides any of these section by
// section; a missing section keeps the default table so a minimal file still
// yields a fully usable snapshot.

func defaultRegimes() []RegimeConfig {
	return []RegimeConfig{
		{
			ID:    "crisis",
			Label: "Crisis",
			Rules: []ThresholdRule{
				{Feature: "vix", Comparator: CompGT, Threshold: 40, Weight: 3.0, Reason: "VIX at panic levels"},
				{Feature: "drawdown", Comparator: CompGT, Threshold: 0.20, Weight: 2.0, Reason: "deep drawdown from peak"},
				{Feature: "credit_spread", Comparator: CompGT, Threshold: 4.0, Weight: 1.5, Reason: "credit spreads blowing out"},
			},
		},
		{
			ID:    "stagflation",
			Label: "Stagflation",
			Rules: []ThresholdRule{
				{Feature: "inflation", Comparator: CompGT, Threshold: 5.0, Weight: 2.0, Reason: "inflation running hot"},
				{Feature: "gdp_growth", Comparator: CompLT, Threshold: 1.0, Weight: 2.0, Reason: "growth stalling"},
				{Feature: "rates", Comparator: CompGT, Threshold: 4.0, Weight: 1.0, Reason: "rates elevated"},
			},
		},
		{
			ID:    "bull",
			Label: "Bull",
			Rules: []ThresholdRule{
				{Feature: "ma_ratio_200", Comparator: CompGT, Threshold: 1.15, Weight: 2.0, Reason: "price well above 200-day average"},
				{Feature: "vix", Comparator: CompLT, Threshold: 18, Weight: 1.0, Reason: "volatility subdued"},
				{Feature: "breadth", Comparator: CompGT, Threshold: 0.60, Weight: 1.0, Reason: "broad participation"},
			},
		},
		{
			ID:    RegimeNeutral,
			Label: "Neutral",
			Rules: []ThresholdRule{
				{Feature: "ma_ratio_200", Comparator: CompGE, Threshold: 0.90, Weight: 0.5, Reason: "price near 200-day average"},
				{Feature: "vix", Comparator: CompLE, Threshold: 30, Weight: 0.5, Reason: "volatility contained"},
			},
		},
	}
}

func defaultScenarios() []ScenarioConfig {
	return []ScenarioConfig{
		{ID: "market_panic", Label: "Market panic", Keywords: []string{"panic", "crash", "capitulation", "sell-off", "selloff"}},
		{ID: "liquidity_tightening", Label: "Liquidity tightening", Keywords: []string{"liquidity", "tightening", "qt", "funding stress", "repo"}},
		{ID: "inflation_shock", Label: "Inflation shock", Keywords: []string{"inflation", "cpi", "stagflation", "price pressure"}},
		{ID: "rate_shock", Label: "Rate shock", Keywords: []string{"rate hike", "yields spike", "bond rout", "fed hike"}},
		{ID: "credit_event", Label: "Credit event", Keywords: []string{"default", "credit event", "bankruptcy", "contagion"}},
		{ID: "melt_up", Label: "Melt-up", Keywords: []string{"melt-up", "euphoria", "fomo", "blow-off"}},
	}
}

func defaultBaseGuardrails() map[string]float64 {
	return map[string]float64{
		KeyRiskMultiplier: 1.00,
		KeyMaxLeverage:    1.00,
		KeyMinCash:        0.05,
		KeyMaxInvest:      0.95,
		KeyMaxTurnover:    0.50,
		KeyMaxCorr:        0.80,
	}
}

func defaultRegimeOverlays() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"bull": {
			KeyRiskMultiplier: 1.15,
			KeyMaxInvest:      1.05,
		},
		RegimeNeutral: {},
		"stagflation": {
			KeyRiskMultiplier: 0.70,
			KeyMaxLeverage:    0.80,
			KeyMinCash:        1.60,
			KeyMaxInvest:      0.85,
		},
		"crisis": {
			KeyRiskMultiplier: 0.35,
			KeyMaxLeverage:    0.50,
			KeyMinCash:        3.00,
			KeyMaxInvest:      0.60,
			KeyMaxTurnover:    1.40,
		},
	}
}

// Scenario overlays deliberately never adjust risk_multiplier; only the regime
// does. See the overlay calculator.
func defaultScenarioOverlays() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"market_panic":         {KeyMaxLeverage: 0.70, KeyMinCash: 1.50, KeyMaxInvest: 0.85},
		"liquidity_tightening": {KeyMaxLeverage: 0.60, KeyMaxTurnover: 0.80},
		"inflation_shock":      {KeyMaxInvest: 0.90, KeyMinCash: 1.20},
		"rate_shock":           {KeyMaxLeverage: 0.80, KeyMaxCorr: 0.90},
		"credit_event":         {KeyMaxLeverage: 0.50, KeyMinCash: 1.80, KeyMaxCorr: 0.85},
		"melt_up":              {KeyMaxTurnover: 1.20, KeyMaxCorr: 0.90},
	}
}

func defaultPortfolioRules() []PortfolioRule {
	return []PortfolioRule{
		{Feature: "leverage", Comparator: CompGT, Threshold: 1.2, Adjust: map[string]float64{KeyMaxLeverage: 0.80, KeyMaxInvest: 0.90}},
		{Feature: "drawdown", Comparator: CompGT, Threshold: 0.10, Adjust: map[string]float64{KeyRiskMultiplier: 0.85, KeyMinCash: 1.25}},
		{Feature: "concentration", Comparator: CompGT, Threshold: 0.30, Adjust: map[string]float64{KeyMaxCorr: 0.85}},
		{Feature: "cash_ratio", Comparator: CompLT, Threshold: 0.05, Adjust: map[string]float64{KeyMinCash: 1.50}},
	}
}

func defaultClamps() map[string]ClampRange {
	return map[string]ClampRange{
		KeyRiskMultiplier: {Min: 0.10, Max: 2.00},
		KeyMaxLeverage:    {Min: 0.00, Max: 3.00},
		KeyMinCash:        {Min: 0.00, Max: 0.60},
		KeyMaxInvest:      {Min: 0.10, Max: 1.00},
		KeyMaxTurnover:    {Min: 0.05, Max: 2.00},
		KeyMaxCorr:        {Min: 0.20, Max: 1.00},
	}
}

func defaultExpertCategories() map[string]string {
	return map[string]string{
		"ray_dalio":            "macro",
		"george_soros":         "macro",
		"stanley_druckenmiller": "macro",
		"warren_buffett":       "value",
		"charlie_munger":       "value",
		"seth_klarman":         "distressed",
		"howard_marks":         "cycle",
		"michael_burry":        "cycle",
		"peter_lynch":          "growth",
		"james_simons":         "quant",
		"ed_thorp":             "quant",
		"cliff_asness":         "quant",
	}
}

func defaultRegimeWeights() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"crisis": {
			"macro":      0.9,
			"distressed": 0.8,
			"cycle":      0.7,
			"value":      0.4,
			"growth":     0.2,
		},
		"stagflation": {
			"macro":  0.8,
			"cycle":  0.8,
			"value":  0.6,
			"growth": 0.2,
		},
		"bull": {
			"growth": 0.9,
			"value":  0.7,
			"quant":  0.7,
			"macro":  0.4,
		},
		RegimeNeutral: {
			"value":  0.8,
			"growth": 0.6,
			"quant":  0.6,
			"cycle":  0.5,
		},
	}
}

func defaultPersonalities() map[string]string {
	return map[string]string{
		"ray_dalio":            "risk_manager",
		"george_soros":         "contrarian",
		"stanley_druckenmiller": "analyst",
		"warren_buffett":       "bull",
		"charlie_munger":       "contrarian",
		"seth_klarman":         "bear",
		"howard_marks":         "risk_manager",
		"michael_burry":        "bear",
		"peter_lynch":          "bull",
		"james_simons":         "analyst",
		"ed_thorp":             "analyst",
		"cliff_asness":         "contrarian",
	}
}

func defaultAllocationPolicy() AllocationPolicy {
	return AllocationPolicy{
		Base: map[string]BaseAllocation{
			"bull":        {Stocks: 70, Bonds: 15, Gold: 5, Cash: 10},
			RegimeNeutral: {Stocks: 50, Bonds: 25, Gold: 10, Cash: 15},
			"stagflation": {Stocks: 30, Bonds: 40, Gold: 15, Cash: 15},
			"crisis":      {Stocks: 15, Bonds: 30, Gold: 20, Cash: 35},
		},
		Amplitude:    20,
		DampingFloor: 0.7,
		ExpUp:        1.5,
		ScaleUp:      0.8,
		ExpDown:      1.2,
		ScaleDown:    1.0,
		MinCash:      5,
		MaxCash:      40,
	}
}

func defaultRouter() RouterConfig {
	return RouterConfig{
		Profiles: []ExpertProfile{
			{ID: "ray_dalio", Name: "Ray Dalio", Fund: "Bridgewater", Styles: []string{"macro", "risk parity"}, Concepts: []string{"debt cycle", "diversification", "all weather"}},
			{ID: "george_soros", Name: "George Soros", Fund: "Quantum", Styles: []string{"macro", "reflexivity"}, Concepts: []string{"currency", "boom bust", "reflexivity"}},
			{ID: "stanley_druckenmiller", Name: "Stanley Druckenmiller", Fund: "Duquesne", Styles: []string{"macro", "momentum"}, Concepts: []string{"liquidity", "concentration", "rates"}},
			{ID: "warren_buffett", Name: "Warren Buffett", Fund: "Berkshire", Styles: []string{"value", "quality"}, Concepts: []string{"moat", "margin of safety", "compounding"}},
			{ID: "charlie_munger", Name: "Charlie Munger", Fund: "Berkshire", Styles: []string{"value", "quality"}, Concepts: []string{"mental models", "patience", "quality"}},
			{ID: "seth_klarman", Name: "Seth Klarman", Fund: "Baupost", Styles: []string{"value", "distressed"}, Concepts: []string{"margin of safety", "distressed debt", "cash"}},
			{ID: "howard_marks", Name: "Howard Marks", Fund: "Oaktree", Styles: []string{"cycle", "distressed"}, Concepts: []string{"market cycle", "second level thinking", "risk"}},
			{ID: "michael_burry", Name: "Michael Burry", Fund: "Scion", Styles: []string{"contrarian", "deep value"}, Concepts: []string{"bubble", "short", "housing"}},
			{ID: "peter_lynch", Name: "Peter Lynch", Fund: "Magellan", Styles: []string{"growth", "garp"}, Concepts: []string{"ten bagger", "know what you own", "earnings"}},
			{ID: "james_simons", Name: "James Simons", Fund: "Renaissance", Styles: []string{"quant", "statistical"}, Concepts: []string{"signals", "models", "anomalies"}},
			{ID: "ed_thorp", Name: "Ed Thorp", Fund: "Princeton Newport", Styles: []string{"quant", "arbitrage"}, Concepts: []string{"kelly", "edge", "position sizing"}},
			{ID: "cliff_asness", Name: "Cliff Asness", Fund: "AQR", Styles: []string{"quant", "factor"}, Concepts: []string{"value factor", "momentum factor", "leverage"}},
		},
		QuickLookup: map[string][]string{
			"all weather":      {"ray_dalio"},
			"margin of safety": {"warren_buffett", "seth_klarman"},
			"market cycle":     {"howard_marks"},
			"kelly criterion":  {"ed_thorp"},
			"moat":             {"warren_buffett", "charlie_munger"},
			"reflexivity":      {"george_soros"},
		},
		ConsultOrder: map[string][]string{
			"market_panic":         {"ray_dalio", "howard_marks", "seth_klarman", "warren_buffett"},
			"liquidity_tightening": {"stanley_druckenmiller", "ray_dalio", "george_soros"},
			"inflation_shock":      {"ray_dalio", "stanley_druckenmiller", "howard_marks"},
			"rate_shock":           {"stanley_druckenmiller", "ray_dalio", "cliff_asness"},
			"credit_event":         {"seth_klarman", "howard_marks", "michael_burry"},
			"melt_up":              {"george_soros", "michael_burry", "howard_marks"},
		},
		Intents: map[string]Intent{
			"buy":       {Keywords: []string{"buy", "entry", "accumulate", "add"}, Experts: []string{"warren_buffett", "peter_lynch"}},
			"sell":      {Keywords: []string{"sell", "exit", "trim", "reduce"}, Experts: []string{"howard_marks", "seth_klarman"}},
			"stop_loss": {Keywords: []string{"stop loss", "stop-loss", "drawdown", "cut losses"}, Experts: []string{"ed_thorp", "ray_dalio"}},
			"macro":     {Keywords: []string{"macro", "fed", "rates", "inflation", "currency"}, Experts: []string{"ray_dalio", "george_soros", "stanley_druckenmiller"}},
			"valuation": {Keywords: []string{"valuation", "pe", "cheap", "expensive", "overvalued"}, Experts: []string{"warren_buffett", "cliff_asness"}},
		},
		DefaultPanel: []string{"ray_dalio", "warren_buffett", "howard_marks"},
	}
}

// Dead-zone around zero impact below which an opinion never counts as one side
// of a conflict. Preserved from the original adjudicator as a policy constant;
// changing it changes financial behavior.
const ConflictDeadZone = 0.1

// DefaultCategoryFallback and DefaultWeightFallback back the category/weight
// lookups for unmapped experts and categories.
const (
	DefaultCategoryFallback = "value"
	DefaultWeightFallback   = 0.5
)
