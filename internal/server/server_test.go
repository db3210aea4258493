package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/advisor-engine/internal/config"
	"github.com/aristath/advisor-engine/internal/metrics"
	"github.com/aristath/advisor-engine/internal/modules/advisor"
	"github.com/aristath/advisor-engine/internal/policy"
	"github.com/aristath/advisor-engine/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() zerolog.Logger {
	return logger.New(logger.Config{Level: "error", Pretty: false})
}

func testServer(t *testing.T, apiToken string) *Server {
	t.Helper()
	log := testLog()

	store, err := policy.NewStore("", log)
	require.NoError(t, err)

	service := advisor.NewService(advisor.Config{Store: store, Log: log})
	cfg := &config.Config{Port: 0, APIToken: apiToken}

	return New(Config{
		Port:    0,
		Log:     log,
		Config:  cfg,
		Advisor: advisor.NewHandlers(service, log),
		Metrics: metrics.New(),
	})
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "advisor-engine", body["service"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAPIWithoutTokenConfigured(t *testing.T) {
	s := testServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/advisor/regime", strings.NewReader(`{"features": {}}`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPITokenEnforced(t *testing.T) {
	s := testServer(t, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/advisor/regime", strings.NewReader(`{"features": {}}`))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/advisor/regime", strings.NewReader(`{"features": {}}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health stays open regardless of the token.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteIs404(t *testing.T) {
	s := testServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/advisor/nope", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
