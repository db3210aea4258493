package advisor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// Handlers provides HTTP handlers for the advisor module
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates a new advisor handlers instance
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("module", "advisor_handlers").Logger(),
	}
}

// HandleAdjudicate handles POST /api/advisor/adjudicate
// Runs the full pipeline: regime, scenarios, overlay, router, ensemble,
// allocation.
func (h *Handlers) HandleAdjudicate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode adjudicate request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.service.Adjudicate(req)
	h.writeJSON(w, http.StatusOK, result)
}

// RegimeRequest represents a request to classify the market regime
type RegimeRequest struct {
	Features map[string]float64 `json:"features"`
	Prices   []float64          `json:"prices,omitempty"`
}

// HandleRegime handles POST /api/advisor/regime
// Classifies features (or features derived from prices) only.
func (h *Handlers) HandleRegime(w http.ResponseWriter, r *http.Request) {
	var req RegimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode regime request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	classification := h.service.ClassifyRegime(req.Features, req.Prices)
	h.writeJSON(w, http.StatusOK, classification)
}

// RouteRequest represents a request to rank relevant experts
type RouteRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// HandleRoute handles POST /api/advisor/route
// Ranks the configured experts against the query text.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode route request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Query == "" {
		h.writeError(w, "Query is required", http.StatusBadRequest)
		return
	}

	experts := h.service.RouteExperts(req.Query, req.TopK)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"experts": experts,
	})
}

// HandleRecentAudits handles GET /api/advisor/audit
// Returns the most recent persisted adjudication records.
func (h *Handlers) HandleRecentAudits(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.service.RecentAudits(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load audit records")
		h.writeError(w, "Failed to load audit records", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
	})
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
