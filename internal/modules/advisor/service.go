package advisor

import (
	"time"

	"github.com/aristath/advisor-engine/internal/audit"
	"github.com/aristath/advisor-engine/internal/events"
	"github.com/aristath/advisor-engine/internal/metrics"
	"github.com/aristath/advisor-engine/internal/modules/allocator"
	"github.com/aristath/advisor-engine/internal/modules/ensemble"
	"github.com/aristath/advisor-engine/internal/modules/features"
	"github.com/aristath/advisor-engine/internal/modules/overlay"
	"github.com/aristath/advisor-engine/internal/modules/regime"
	"github.com/aristath/advisor-engine/internal/modules/router"
	"github.com/aristath/advisor-engine/internal/modules/scenario"
	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/rs/zerolog"
)

// Request carries everything one adjudication run needs: the market
// observation text, numeric features (or raw prices to derive them from), the
// portfolio state, user hard constraints and the externally-produced expert
// opinions.
type Request struct {
	Query          string                   `json:"query"`
	Features       map[string]float64       `json:"features"`
	Prices         []float64                `json:"prices,omitempty"`
	PortfolioState map[string]float64       `json:"portfolio_state"`
	Constraints    map[string]float64       `json:"constraints"`
	Opinions       []ensemble.ExpertOpinion `json:"opinions"`
	TopK           int                      `json:"top_k"`
}

// Result is the full pipeline output. Every field serializes to plain nested
// key/value data so any logging format can persist it without loss.
type Result struct {
	Regime       regime.Classification      `json:"regime"`
	Scenarios    []scenario.Match           `json:"scenarios"`
	Overlay      overlay.RiskOverlay        `json:"overlay"`
	Experts      []router.Candidate         `json:"experts"`
	Adjudication ensemble.Result            `json:"adjudication"`
	Allocation   allocator.TargetAllocation `json:"allocation"`
	PolicyHash   string                     `json:"policy_hash"`
}

// Service orchestrates the full pipeline: classify regime, match scenarios,
// calculate the risk overlay, route experts, adjudicate opinions, allocate.
// Each run reads exactly one policy snapshot so a concurrent reload never
// splits a computation across two configurations.
type Service struct {
	store       *policy.Store
	classifier  *regime.Classifier
	matcher     *scenario.Matcher
	calculator  *overlay.Calculator
	router      *router.Router
	adjudicator *ensemble.Adjudicator
	allocator   *allocator.Allocator
	deriver     *features.Deriver
	auditRepo   *audit.Repository
	events      *events.Manager
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// Config wires the service dependencies. AuditRepo, Events and Metrics are
// optional; a nil value disables that concern.
type Config struct {
	Store     *policy.Store
	AuditRepo *audit.Repository
	Events    *events.Manager
	Metrics   *metrics.Metrics
	Log       zerolog.Logger
}

// NewService creates a new advisor service.
func NewService(cfg Config) *Service {
	return &Service{
		store:       cfg.Store,
		classifier:  regime.NewClassifier(cfg.Log),
		matcher:     scenario.NewMatcher(cfg.Log),
		calculator:  overlay.NewCalculator(cfg.Log),
		router:      router.NewRouter(cfg.Log),
		adjudicator: ensemble.NewAdjudicator(cfg.Log),
		allocator:   allocator.NewAllocator(cfg.Log),
		deriver:     features.NewDeriver(cfg.Log),
		auditRepo:   cfg.AuditRepo,
		events:      cfg.Events,
		metrics:     cfg.Metrics,
		log:         cfg.Log.With().Str("module", "advisor").Logger(),
	}
}

// Adjudicate runs the full pipeline for one request.
func (s *Service) Adjudicate(req Request) Result {
	start := time.Now()
	snap := s.store.Current()

	feats := req.Features
	if len(req.Prices) > 0 {
		feats = features.Merge(req.Features, s.deriver.Derive(req.Prices))
	}

	classification := s.classifier.Classify(snap, feats)
	matches := s.matcher.Match(snap, req.Query)
	riskOverlay := s.calculator.Calculate(
		snap,
		classification.RegimeID,
		scenario.IDs(matches),
		req.PortfolioState,
		req.Constraints,
	)
	experts := s.router.Route(snap, req.Query, effectiveTopK(req.TopK))
	adjudication := s.adjudicator.Adjudicate(snap, classification.RegimeID, req.Opinions)

	disagreement := adjudication.DisagreementScore
	allocation := s.allocator.Allocate(
		snap,
		classification.RegimeID,
		adjudication.FinalOffset,
		&disagreement,
		adjudication.ConflictDetected,
	)

	result := Result{
		Regime:       classification,
		Scenarios:    matches,
		Overlay:      riskOverlay,
		Experts:      experts,
		Adjudication: adjudication,
		Allocation:   allocation,
		PolicyHash:   snap.Hash(),
	}

	s.observe(req, result, time.Since(start))
	return result
}

// ClassifyRegime runs only the regime classifier, deriving features from
// prices when supplied.
func (s *Service) ClassifyRegime(explicit map[string]float64, prices []float64) regime.Classification {
	snap := s.store.Current()
	feats := explicit
	if len(prices) > 0 {
		feats = features.Merge(explicit, s.deriver.Derive(prices))
	}
	return s.classifier.Classify(snap, feats)
}

// RouteExperts runs only the investor router.
func (s *Service) RouteExperts(text string, topK int) []router.Candidate {
	return s.router.Route(s.store.Current(), text, effectiveTopK(topK))
}

// RecentAudits returns the latest persisted audit records.
func (s *Service) RecentAudits(limit int) ([]audit.Record, error) {
	if s.auditRepo == nil {
		return []audit.Record{}, nil
	}
	return s.auditRepo.Recent(limit)
}

// observe records metrics, events and the audit trail for one completed run.
// Persistence problems are logged, never propagated: the adjudication result
// itself is already computed and must reach the caller.
func (s *Service) observe(req Request, result Result, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.AdjudicationsTotal.WithLabelValues(result.Regime.RegimeID).Inc()
		s.metrics.PipelineDuration.Observe(elapsed.Seconds())
		if result.Adjudication.ConflictDetected {
			s.metrics.ConflictsTotal.Inc()
		}
	}

	if s.events != nil {
		s.events.Emit(events.RegimeClassified, "regime", map[string]interface{}{
			"regime":     result.Regime.RegimeID,
			"confidence": result.Regime.Confidence,
		})
		s.events.Emit(events.AdjudicationCompleted, "advisor", map[string]interface{}{
			"regime":       result.Regime.RegimeID,
			"final_offset": result.Adjudication.FinalOffset,
			"conflict":     result.Adjudication.ConflictDetected,
			"stocks":       result.Allocation.Stocks,
		})
		if result.Adjudication.ConflictDetected {
			s.events.Emit(events.ConflictDetected, "advisor", map[string]interface{}{
				"resolution": result.Adjudication.Resolution,
			})
		}
	}

	if s.auditRepo != nil {
		primaryScenario := ""
		if len(result.Scenarios) > 0 {
			primaryScenario = result.Scenarios[0].ScenarioID
		}
		_, err := s.auditRepo.Save(
			req.Query,
			result.Regime.RegimeID,
			primaryScenario,
			result.Adjudication.ConflictDetected,
			result.Adjudication.FinalOffset,
			result.Allocation.Stocks,
			result,
		)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to persist audit record")
			if s.events != nil {
				s.events.EmitError("advisor", err, map[string]interface{}{
					"regime": result.Regime.RegimeID,
				})
			}
		}
	}
}

func effectiveTopK(topK int) int {
	if topK == 0 {
		return 3
	}
	return topK
}
