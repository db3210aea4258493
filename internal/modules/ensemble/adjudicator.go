package ensemble

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// ExpertOpinion is one independent directional view. Impact is signed
// (negative = reduce risk, positive = increase risk); confidence weighs it.
type ExpertOpinion struct {
	ExpertID   string  `json:"expert_id"`
	Impact     float64 `json:"impact"`     // [-1, 1]
	Confidence float64 `json:"confidence"` // [0, 1]
	Rationale  string  `json:"rationale"`
}

// Contribution records how much one opinion moved the final offset.
type Contribution struct {
	ExpertID     string  `json:"expert_id"`
	Category     string  `json:"category"`
	Weight       float64 `json:"weight"`
	Impact       float64 `json:"impact"`
	Contribution float64 `json:"contribution"`
}

// Result is the reconciled outcome of a set of expert opinions.
type Result struct {
	FinalOffset       float64        `json:"final_offset"` // [-0.5, 0.5]
	PrimaryExpert     *string        `json:"primary_expert"`
	ConflictDetected  bool           `json:"conflict_detected"`
	DisagreementScore float64        `json:"disagreement_score"` // [0, 1]
	Resolution        string         `json:"resolution"`
	Contributions     []Contribution `json:"contributions"`
}

// Adjudicator reconciles possibly-conflicting expert opinions into one signed
// risk offset, weighted by the regime's category weight table.
type Adjudicator struct {
	log zerolog.Logger
}

// NewAdjudicator creates a new ensemble adjudicator.
func NewAdjudicator(log zerolog.Logger) *Adjudicator {
	return &Adjudicator{
		log: log.With().Str("module", "ensemble").Logger(),
	}
}

// Adjudicate computes the confidence- and regime-weighted average of the
// opinion impacts. Out-of-range impact/confidence values from upstream are
// clamped once here; they never reach the weighted sum raw. An empty opinion
// list yields the documented zero-offset, no-conflict result.
func (a *Adjudicator) Adjudicate(snap *policy.Snapshot, regimeID string, opinions []ExpertOpinion) Result {
	if len(opinions) == 0 {
		return Result{
			FinalOffset:   0.0,
			Resolution:    "No expert opinions to adjudicate.",
			Contributions: []Contribution{},
		}
	}

	var (
		weightedSum float64
		totalWeight float64
		absSum      float64
		posExperts  []string
		negExperts  []string
	)
	contributions := make([]Contribution, 0, len(opinions))

	for _, op := range opinions {
		impact := clamp(sanitize(op.Impact), -1, 1)
		confidence := clamp(sanitize(op.Confidence), 0, 1)

		category := snap.CategoryFor(op.ExpertID)
		weight := snap.WeightFor(regimeID, category) * confidence
		contribution := impact * weight

		weightedSum += contribution
		totalWeight += weight
		absSum += math.Abs(contribution)

		contributions = append(contributions, Contribution{
			ExpertID:     op.ExpertID,
			Category:     category,
			Weight:       round2(weight),
			Impact:       impact,
			Contribution: round3(contribution),
		})

		if impact > policy.ConflictDeadZone {
			posExperts = append(posExperts, op.ExpertID)
		} else if impact < -policy.ConflictDeadZone {
			negExperts = append(negExperts, op.ExpertID)
		}
	}

	finalOffset := 0.0
	if totalWeight > 0 {
		finalOffset = weightedSum / totalWeight
	}
	finalOffset = clamp(finalOffset, -0.5, 0.5)

	disagreement := 0.0
	if absSum > 0 {
		disagreement = 1 - math.Abs(weightedSum)/absSum
	}

	conflict := len(posExperts) > 0 && len(negExperts) > 0

	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Contribution) > math.Abs(contributions[j].Contribution)
	})

	primary := contributions[0].ExpertID
	resolution := fmt.Sprintf("Weighted average of %d experts in %s regime.", len(opinions), regimeID)
	if conflict {
		resolution = fmt.Sprintf(
			"Resolved conflict between %s and %s based on %s priority.",
			strings.Join(posExperts, ", "),
			strings.Join(negExperts, ", "),
			regimeID,
		)
	}

	result := Result{
		FinalOffset:       round3(finalOffset),
		PrimaryExpert:     &primary,
		ConflictDetected:  conflict,
		DisagreementScore: round3(disagreement),
		Resolution:        resolution,
		Contributions:     contributions,
	}

	a.log.Debug().
		Str("regime", regimeID).
		Float64("final_offset", result.FinalOffset).
		Bool("conflict", conflict).
		Str("primary", primary).
		Msg("Opinions adjudicated")

	return result
}

// sanitize replaces NaN and infinities with zero before clamping.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
