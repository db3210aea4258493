package features

import (
	"github.com/aristath/advisor-engine/pkg/formulas"
	"github.com/rs/zerolog"
)

// Deriver computes regime-classifier features from a raw daily price series so
// callers can submit prices instead of pre-extracted features. Derived values
// never overwrite features the caller supplied explicitly.
type Deriver struct {
	log zerolog.Logger
}

// NewDeriver creates a new feature deriver.
func NewDeriver(log zerolog.Logger) *Deriver {
	return &Deriver{
		log: log.With().Str("module", "features").Logger(),
	}
}

// Derive computes the derivable feature set from daily closes. Features that
// cannot be computed from the available history are simply absent from the
// result, matching the classifier's missing-feature semantics.
func (d *Deriver) Derive(closes []float64) map[string]float64 {
	out := make(map[string]float64)
	if len(closes) < 2 {
		return out
	}

	returns := formulas.CalculateReturns(closes)
	if len(returns) > 0 {
		out["volatility"] = formulas.AnnualizedVolatility(returns)
	}

	if rsi := formulas.CalculateRSI(closes, 14); rsi != nil {
		out["rsi"] = *rsi
	}

	if dd := formulas.CalculateMaxDrawdown(closes); dd != nil {
		out["drawdown"] = *dd
	}

	if ma := formulas.CalculateSMA(closes, 200); ma != nil && *ma > 0 {
		out["ma_ratio_200"] = closes[len(closes)-1] / *ma
	}

	d.log.Debug().
		Int("prices", len(closes)).
		Int("features", len(out)).
		Msg("Features derived from price series")

	return out
}

// Merge overlays derived features under explicit ones: an explicit value for a
// key always wins.
func Merge(explicit, derived map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(explicit)+len(derived))
	for k, v := range derived {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}
