package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/predict_matches", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	req := httptest.NewRequest(http.MethodPost, "/predict_matches", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/predict_matches", "400"))
	if val < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q, want unknown", got)
	}
	if got := normalizePath("/healthz"); got != "/healthz" {
		t.Errorf("normalizePath(/healthz) = %q", got)
	}
}

func TestObserveMatchRun(t *testing.T) {
	ObserveMatchRun(MatchRun{
		Model:    "test-model",
		Outcome:  OutcomeOK,
		Duration: 3 * time.Millisecond,
		Scored:   5,
		Skipped:  1,
		Willing:  2,
	})

	if got := testutil.ToFloat64(matchRunsTotal.WithLabelValues("test-model", OutcomeOK)); got != 1 {
		t.Errorf("match_runs_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(matchCandidatesTotal.WithLabelValues("test-model", "scored")); got != 5 {
		t.Errorf("scored = %v, want 5", got)
	}
	if got := testutil.ToFloat64(matchCandidatesTotal.WithLabelValues("test-model", "willing")); got != 2 {
		t.Errorf("willing = %v, want 2", got)
	}
}
