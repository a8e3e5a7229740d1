package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"feargreed/internal/config"
	apierrors "feargreed/internal/errors"
	mw "feargreed/internal/middleware"
	"feargreed/internal/services"
	"feargreed/internal/shared/testutil"
)

type testEnv struct {
	router  http.Handler
	service *services.DashboardService
	fetcher *testutil.MapFetcher
	logs    *testutil.BufferedSlogHandler
}

func newTestEnv(t *testing.T, loaded bool) *testEnv {
	t.Helper()

	logger, logs := testutil.NewTestLogger(t)
	fetcher := testutil.SampleFetcher()

	cfg := config.Default()
	cfg.Sources.Files = testutil.DefaultSourceFiles
	cfg.Charts = config.DefaultCharts()

	svc, err := services.NewDashboardService(cfg, fetcher, logger, nil)
	require.NoError(t, err)
	if loaded {
		_, err := svc.Load(context.Background())
		require.NoError(t, err)
	}

	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := mw.NewValidator(logger)
	health := NewHealthHandler(services.NewHealthService("test", svc, logger), logger)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Mount("/api/charts", NewChartHandler(svc, validator, logger, errorHandler).Routes())
	r.Mount("/api/dashboard", NewDashboardHandler(svc, validator, logger, errorHandler).Routes())
	r.Post("/api/client-log", NewClientLogHandler(validator, logger, errorHandler).Handle)
	r.Get("/api/health", health.HealthCheck)
	r.Get("/api/health/ready", health.ReadinessCheck)
	r.Get("/api/health/live", health.LivenessCheck)
	r.Get("/api/version", health.Version)

	return &testEnv{router: r, service: svc, fetcher: fetcher, logs: logs}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	decodeJSON(t, rec, &problem)
	return problem
}
