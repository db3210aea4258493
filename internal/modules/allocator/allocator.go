package allocator

import (
	"math"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// TargetAllocation is the final four-bucket recommendation in integer percent.
// The four values always sum to exactly 100 and are never negative.
type TargetAllocation struct {
	Stocks int `json:"stocks"`
	Bonds  int `json:"bonds"`
	Gold   int `json:"gold"`
	Cash   int `json:"cash"`
}

// Sum returns stocks+bonds+gold+cash.
func (t TargetAllocation) Sum() int {
	return t.Stocks + t.Bonds + t.Gold + t.Cash
}

// Allocator turns the adjudicated risk offset into a concrete allocation,
// starting from the regime's base and applying the asymmetric power response.
type Allocator struct {
	log zerolog.Logger
}

// NewAllocator creates a new primary allocator.
func NewAllocator(log zerolog.Logger) *Allocator {
	return &Allocator{
		log: log.With().Str("module", "allocator").Logger(),
	}
}

// Allocate computes the target allocation for a regime and risk offset.
// disagreement, when non-nil, interpolates the damping factor linearly between
// 1.0 and the configured floor; otherwise the boolean conflict flag applies the
// floor directly. Any degenerate arithmetic falls back to the regime's base.
func (a *Allocator) Allocate(
	snap *policy.Snapshot,
	regimeID string,
	offset float64,
	disagreement *float64,
	conflict bool,
) TargetAllocation {
	pol := snap.Allocation
	base := snap.BaseAllocationFor(regimeID)
	fallback := TargetAllocation{Stocks: base.Stocks, Bonds: base.Bonds, Gold: base.Gold, Cash: base.Cash}

	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		offset = 0
	}
	offset = math.Max(-0.5, math.Min(0.5, offset))

	// Conflict-aware damping.
	factor := 1.0
	if disagreement != nil {
		d := math.Max(0, math.Min(1, *disagreement))
		factor = 1.0 - (1.0-pol.DampingFloor)*d
	} else if conflict {
		factor = pol.DampingFloor
	}
	damped := offset * factor

	// Normalize to [-1,1] and apply the asymmetric power response. Risk-off
	// reacts faster and larger than risk-on for the same magnitude.
	riskScore := damped / 0.5
	var effect float64
	if riskScore >= 0 {
		effect = math.Pow(riskScore, pol.ExpUp) * pol.ScaleUp
	} else {
		effect = -(math.Pow(-riskScore, pol.ExpDown) * pol.ScaleDown)
	}

	delta := math.Round(pol.Amplitude * effect)

	safeTotal := float64(100 - base.Stocks)
	if safeTotal <= 0 {
		return fallback
	}

	stocks := math.Max(0, math.Min(100, float64(base.Stocks)+delta))

	// Spread the stock move across the safe buckets in proportion to their
	// base weights so the total stays at 100.
	scale := (100 - stocks) / safeTotal
	bonds := float64(base.Bonds) * scale
	gold := float64(base.Gold) * scale
	cash := float64(base.Cash) * scale

	// Cash floor: pull the shortfall from bonds, then gold, then stocks.
	minCash := float64(pol.MinCash)
	maxCash := float64(pol.MaxCash)
	if cash < minCash {
		shortfall := minCash - cash
		cash = minCash
		take := math.Min(bonds, shortfall)
		bonds -= take
		shortfall -= take
		take = math.Min(gold, shortfall)
		gold -= take
		shortfall -= take
		take = math.Min(stocks, shortfall)
		stocks -= take
		shortfall -= take
		if shortfall > 1e-9 {
			return fallback
		}
	}

	// Cash ceiling: push the excess into bonds, the stability bucket.
	if cash > maxCash {
		excess := cash - maxCash
		cash = maxCash
		bonds += excess
	}

	result := TargetAllocation{
		Stocks: int(math.Round(stocks)),
		Bonds:  int(math.Round(bonds)),
		Gold:   int(math.Round(gold)),
		Cash:   int(math.Round(cash)),
	}

	// Rounding drift lands on the largest bucket. Cash is skipped when the
	// adjustment would breach its enforced bounds.
	if drift := 100 - result.Sum(); drift != 0 {
		bucket := largestBucket(result)
		if bucket == "cash" {
			adjusted := result.Cash + drift
			if adjusted < pol.MinCash || adjusted > pol.MaxCash {
				bucket = largestNonCashBucket(result)
			}
		}
		switch bucket {
		case "stocks":
			result.Stocks += drift
		case "bonds":
			result.Bonds += drift
		case "gold":
			result.Gold += drift
		case "cash":
			result.Cash += drift
		}
	}

	if result.Stocks < 0 || result.Bonds < 0 || result.Gold < 0 || result.Cash < 0 || result.Sum() != 100 {
		return fallback
	}

	a.log.Debug().
		Str("regime", regimeID).
		Float64("offset", offset).
		Float64("effect", effect).
		Int("stocks", result.Stocks).
		Msg("Allocation computed")

	return result
}

func largestBucket(t TargetAllocation) string {
	name := "stocks"
	best := t.Stocks
	if t.Bonds > best {
		name, best = "bonds", t.Bonds
	}
	if t.Gold > best {
		name, best = "gold", t.Gold
	}
	if t.Cash > best {
		name = "cash"
	}
	return name
}

func largestNonCashBucket(t TargetAllocation) string {
	name := "stocks"
	best := t.Stocks
	if t.Bonds > best {
		name, best = "bonds", t.Bonds
	}
	if t.Gold > best {
		name = "gold"
	}
	return name
}
